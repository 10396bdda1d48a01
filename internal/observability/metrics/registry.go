// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// ActiveConnections tracks the number of active HTTP connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)
)

// Business metrics track news aggregation operations
var (
	// FeedFetchDuration measures time to fetch and parse a Google News feed
	FeedFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and parse a news feed",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// FeedFetchErrors counts errors during feed fetching
	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_errors_total",
			Help: "Total number of feed fetch errors",
		},
		[]string{"error_type"},
	)

	// CacheOpsTotal counts result cache lookups by outcome
	CacheOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_ops_total",
			Help: "Total number of result cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)

	// ImageEnrichTotal counts article image scrape attempts by result
	ImageEnrichTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_enrich_attempts_total",
			Help: "Total number of article image scrape attempts",
		},
		[]string{"result"}, // result: success, failure
	)

	// ImageEnrichDuration measures time to scrape an image from an article page
	ImageEnrichDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_enrich_duration_seconds",
			Help:    "Time taken to scrape an image from an article page",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4},
		},
	)

	// ImageProxyTotal counts image proxy requests by result
	ImageProxyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_proxy_requests_total",
			Help: "Total number of image proxy requests",
		},
		[]string{"result"}, // result: success, bad_request, upstream_error
	)

	// NewsServedTotal counts news items served per endpoint
	NewsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_items_served_total",
			Help: "Total number of news items served",
		},
		[]string{"endpoint"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
