package metrics

import (
	"time"
)

// RecordFeedFetch records the duration of a completed feed fetch.
func RecordFeedFetch(duration time.Duration) {
	FeedFetchDuration.Observe(duration.Seconds())
}

// RecordFeedFetchError records a feed fetch failure.
// errorType should describe the failure class (e.g., "http", "parse", "circuit_open").
func RecordFeedFetchError(errorType string) {
	FeedFetchErrors.WithLabelValues(errorType).Inc()
}

// RecordCacheHit records a result cache hit.
func RecordCacheHit() {
	CacheOpsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a result cache miss.
func RecordCacheMiss() {
	CacheOpsTotal.WithLabelValues("miss").Inc()
}

// RecordImageEnrich records the outcome of an article image scrape.
func RecordImageEnrich(success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	ImageEnrichTotal.WithLabelValues(result).Inc()
	ImageEnrichDuration.Observe(duration.Seconds())
}

// RecordImageProxy records an image proxy request outcome.
// result should be "success", "bad_request", or "upstream_error".
func RecordImageProxy(result string) {
	ImageProxyTotal.WithLabelValues(result).Inc()
}

// RecordNewsServed records the number of news items returned by an endpoint.
func RecordNewsServed(endpoint string, count int) {
	NewsServedTotal.WithLabelValues(endpoint).Add(float64(count))
}
