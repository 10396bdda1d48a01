// Package feed fetches and normalizes Google News RSS search results.
// It uses the gofeed library to parse feed content with reliability patterns.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"istanbul-news/internal/observability/metrics"
	"istanbul-news/internal/resilience/circuitbreaker"
	"istanbul-news/internal/resilience/retry"
	"istanbul-news/internal/usecase/aggregate"
)

const (
	searchBaseURL = "https://news.google.com/rss/search"

	// Turkish locale parameters for the Google News search feed
	localeParams = "hl=tr&gl=TR&ceid=TR:tr"

	userAgent = "IstanbulNewsBot"
)

// DefaultTimeout bounds a single feed fetch including parsing.
const DefaultTimeout = 10 * time.Second

// SearchURL builds the Google News RSS search URL for a query.
func SearchURL(query string) string {
	return searchBaseURL + "?q=" + url.QueryEscape(query) + "&" + localeParams
}

// GoogleNewsFetcher implements aggregate.FeedFetcher against the Google News
// RSS search endpoint. It includes circuit breaker and retry logic.
type GoogleNewsFetcher struct {
	client         *http.Client
	baseURL        string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewGoogleNewsFetcher creates a fetcher using the given HTTP client.
// Pass nil to use a client with DefaultTimeout.
func NewGoogleNewsFetcher(client *http.Client) *GoogleNewsFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &GoogleNewsFetcher{
		client:         client,
		baseURL:        searchBaseURL,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// Fetch retrieves the search feed for query and returns normalized items.
func (f *GoogleNewsFetcher) Fetch(ctx context.Context, query string) ([]aggregate.FeedItem, error) {
	feedURL := f.baseURL + "?q=" + url.QueryEscape(query) + "&" + localeParams

	var items []aggregate.FeedItem
	start := time.Now()

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("circuit", f.circuitBreaker.Name()),
					slog.String("url", feedURL))
				metrics.RecordFeedFetchError("circuit_open")
				return err
			}
			metrics.RecordFeedFetchError("fetch")
			return err
		}

		items = cbResult.([]aggregate.FeedItem)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	metrics.RecordFeedFetch(time.Since(start))
	return items, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (f *GoogleNewsFetcher) doFetch(ctx context.Context, feedURL string) ([]aggregate.FeedItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = userAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		// gofeedのHTTPエラーをretry側の型に写してリトライ判定に乗せる
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, err
	}

	items := make([]aggregate.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, normalizeItem(it))
	}

	return items, nil
}
