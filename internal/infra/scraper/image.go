// Package scraper extracts representative images from article pages.
// It fetches a bounded slice of the page HTML and looks for social media
// preview tags before falling back to the page content itself.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"istanbul-news/internal/domain/entity"
	"istanbul-news/internal/resilience/circuitbreaker"
)

// imageAttrs are the <img> attributes checked for an image URL, in order.
var imageAttrs = []string{"src", "data-src", "data-lazy-src"}

// ImageScraper implements aggregate.ImageEnricher by scraping article pages.
// A circuit breaker protects against pathological target sites; there is no
// retry because enrichment is best-effort and the caller is waiting.
//
// Thread safety: ImageScraper is safe for concurrent use.
type ImageScraper struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
}

// NewImageScraper creates an ImageScraper with the given configuration.
func NewImageScraper(cfg Config) *ImageScraper {
	cbCfg := circuitbreaker.ImageScrapeConfig()
	// 画像の無いページも取得自体は成功なのでブレーカーの失敗に数えない
	cbCfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, entity.ErrNoImage)
	}

	scraper := &ImageScraper{
		circuitBreaker: circuitbreaker.New(cbCfg),
		config:         cfg,
	}

	scraper.client = &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= scraper.config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", len(via))
			}
			return nil
		},
	}

	return scraper
}

// FetchImage fetches the page at pageURL and returns the URL of its
// representative image. Returns entity.ErrNoImage when the page has none.
func (s *ImageScraper) FetchImage(ctx context.Context, pageURL string) (string, error) {
	if err := entity.ValidateAbsoluteURL(pageURL); err != nil {
		return "", err
	}

	result, err := s.circuitBreaker.Execute(func() (interface{}, error) {
		return s.doFetch(ctx, pageURL)
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// doFetch performs the page fetch and extraction without the circuit breaker.
func (s *ImageScraper) doFetch(ctx context.Context, pageURL string) (interface{}, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "IstanbulNewsBot/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: HTTP %d", entity.ErrUpstreamStatus, resp.StatusCode)
	}

	// ヘッダ内のメタタグが目的なので本文は途中まで読めば十分
	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, s.config.MaxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if img := extractImage(htmlBytes); img != "" {
		return img, nil
	}

	// Last resort: let readability identify the article's top image.
	finalURL := resp.Request.URL
	if finalURL == nil {
		finalURL, _ = url.Parse(pageURL)
	}
	if article, err := readability.FromReader(bytes.NewReader(htmlBytes), finalURL); err == nil && article.Image != "" {
		return article.Image, nil
	}

	return "", entity.ErrNoImage
}

// extractImage looks for an image URL in the page HTML, trying the og:image
// and twitter:image meta tags before the first usable <img>.
func extractImage(htmlBytes []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return ""
	}

	if v, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && v != "" {
		return v
	}
	if v, ok := doc.Find(`meta[name="twitter:image"]`).Attr("content"); ok && v != "" {
		return v
	}

	var found string
	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		for _, attr := range imageAttrs {
			if v, ok := sel.Attr(attr); ok && strings.TrimSpace(v) != "" {
				found = v
				return false
			}
		}
		return true
	})
	return found
}
