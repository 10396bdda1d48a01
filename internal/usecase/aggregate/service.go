// Package aggregate implements the news aggregation pipeline: fetch a
// Google News query, rank and trim the results, filter for Istanbul
// relevance, and enrich items with article images.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"istanbul-news/internal/domain/entity"
	"istanbul-news/internal/observability/metrics"
	"istanbul-news/internal/relevance"
)

// FeedItem is a normalized feed entry as produced by the feed infrastructure.
// Title, Image, Source, and Date are already cleaned; PublishedAt is nil when
// the feed entry carried no parseable timestamp.
type FeedItem struct {
	Title       string
	Link        string
	Image       string
	Source      string
	Date        string
	PublishedAt *time.Time
}

// FeedFetcher retrieves normalized feed items for a search query.
type FeedFetcher interface {
	Fetch(ctx context.Context, query string) ([]FeedItem, error)
}

// ImageEnricher scrapes a representative image URL from an article page.
type ImageEnricher interface {
	FetchImage(ctx context.Context, pageURL string) (string, error)
}

// ResultCache caches finished aggregation results by key.
type ResultCache interface {
	Get(key string) ([]entity.NewsItem, bool)
	Set(key string, items []entity.NewsItem)
}

// Config holds tuning knobs for the aggregation pipeline.
type Config struct {
	// EnrichLimit caps page scrapes to image-less items among the first
	// EnrichLimit entries of a result
	EnrichLimit int

	// MaxConcurrentScrapes bounds parallel page scrapes per request
	MaxConcurrentScrapes int
}

// DefaultConfig returns the default aggregation configuration.
func DefaultConfig() Config {
	return Config{
		EnrichLimit:          12,
		MaxConcurrentScrapes: 8,
	}
}

// Request describes one aggregation call.
type Request struct {
	// Query is the full Google News search query
	Query string

	// Scope names what the request covers (a district name or the whole city)
	// and is stamped onto every returned item
	Scope string

	// Limit caps the number of items considered after sorting
	Limit int

	// StrictIstanbul drops items whose title and link show no Istanbul tie
	StrictIstanbul bool
}

// Service runs the aggregation pipeline.
type Service struct {
	fetcher  FeedFetcher
	enricher ImageEnricher
	cache    ResultCache
	group    singleflight.Group
	cfg      Config
	logger   *slog.Logger
}

// NewService creates an aggregation service.
func NewService(fetcher FeedFetcher, enricher ImageEnricher, cache ResultCache, cfg Config, logger *slog.Logger) *Service {
	if cfg.EnrichLimit <= 0 {
		cfg.EnrichLimit = DefaultConfig().EnrichLimit
	}
	if cfg.MaxConcurrentScrapes <= 0 {
		cfg.MaxConcurrentScrapes = DefaultConfig().MaxConcurrentScrapes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:  fetcher,
		enricher: enricher,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}
}

// Aggregate returns the news items for the given request, serving from cache
// when possible. Concurrent requests for the same key share a single fetch.
func (s *Service) Aggregate(ctx context.Context, req Request) ([]entity.NewsItem, error) {
	if req.Query == "" {
		return nil, &entity.ValidationError{Field: "query", Message: "query is required"}
	}
	if req.Limit <= 0 {
		return nil, &entity.ValidationError{Field: "limit", Message: "limit must be positive"}
	}

	key := fmt.Sprintf("%s:%s:%d:%t", req.Scope, req.Query, req.Limit, req.StrictIstanbul)

	if items, ok := s.cache.Get(key); ok {
		metrics.RecordCacheHit()
		return items, nil
	}
	metrics.RecordCacheMiss()

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// 同時リクエストがここに並ぶので再確認する
		if items, ok := s.cache.Get(key); ok {
			return items, nil
		}

		items, err := s.build(ctx, req)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, items)
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]entity.NewsItem), nil
}

// build runs the pipeline once: fetch, sort, trim, filter, enrich.
func (s *Service) build(ctx context.Context, req Request) ([]entity.NewsItem, error) {
	feedItems, err := s.fetcher.Fetch(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	// Newest first. Entries without a timestamp sort last.
	sort.SliceStable(feedItems, func(i, j int) bool {
		ti, tj := feedItems[i].PublishedAt, feedItems[j].PublishedAt
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})

	if len(feedItems) > req.Limit {
		feedItems = feedItems[:req.Limit]
	}

	items := make([]entity.NewsItem, 0, len(feedItems))
	for _, fi := range feedItems {
		if req.StrictIstanbul && !relevance.IsIstanbulRelated(fi.Title, fi.Link) {
			continue
		}
		items = append(items, entity.NewsItem{
			Title:    fi.Title,
			Link:     fi.Link,
			Image:    fi.Image,
			Source:   fi.Source,
			Date:     fi.Date,
			District: req.Scope,
		})
	}

	s.enrichImages(ctx, items)

	s.logger.Info("aggregated news",
		slog.String("scope", req.Scope),
		slog.Int("fetched", len(feedItems)),
		slog.Int("returned", len(items)))

	return items, nil
}

// enrichImages scrapes article pages for image-less items among the first
// EnrichLimit entries. Scrapes run in parallel but bounded; a failed scrape
// just leaves the item without an image.
func (s *Service) enrichImages(ctx context.Context, items []entity.NewsItem) {
	head := len(items)
	if head > s.cfg.EnrichLimit {
		head = s.cfg.EnrichLimit
	}

	targets := make([]int, 0, head)
	for i := 0; i < head; i++ {
		if !items[i].HasImage() {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, s.cfg.MaxConcurrentScrapes)

	for _, idx := range targets {
		idx := idx
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			start := time.Now()
			img, err := s.enricher.FetchImage(gctx, items[idx].Link)
			if err != nil {
				metrics.RecordImageEnrich(false, time.Since(start))
				s.logger.Debug("image enrich failed",
					slog.String("url", items[idx].Link),
					slog.Any("error", err))
				return nil
			}
			metrics.RecordImageEnrich(true, time.Since(start))

			// 各ゴルーチンは自分のインデックスだけ書くのでロック不要
			items[idx].Image = upgradeToHTTPS(img)
			return nil
		})
	}

	// Workers never return errors, so this only waits.
	_ = g.Wait()
}

// upgradeToHTTPS rewrites plain http image URLs to https so they load on
// pages served over TLS. Only scraped images get this treatment; images the
// feed itself carries are passed through untouched.
func upgradeToHTTPS(imageURL string) string {
	if strings.HasPrefix(imageURL, "http://") {
		return "https://" + strings.TrimPrefix(imageURL, "http://")
	}
	return imageURL
}
