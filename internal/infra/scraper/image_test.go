package scraper_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"istanbul-news/internal/domain/entity"
	"istanbul-news/internal/infra/scraper"
)

func newScraper() *scraper.ImageScraper {
	return scraper.NewImageScraper(scraper.DefaultConfig())
}

func serve(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchImage_OGImage(t *testing.T) {
	server := serve(t, `<html><head>
		<meta property="og:image" content="https://img.example/og.jpg">
		<meta name="twitter:image" content="https://img.example/tw.jpg">
	</head><body><img src="https://img.example/body.jpg"></body></html>`)

	got, err := newScraper().FetchImage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchImage() error = %v", err)
	}
	if got != "https://img.example/og.jpg" {
		t.Errorf("FetchImage() = %q, want og:image to win", got)
	}
}

func TestFetchImage_TwitterImageFallback(t *testing.T) {
	server := serve(t, `<html><head>
		<meta name="twitter:image" content="https://img.example/tw.jpg">
	</head><body></body></html>`)

	got, err := newScraper().FetchImage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchImage() error = %v", err)
	}
	if got != "https://img.example/tw.jpg" {
		t.Errorf("FetchImage() = %q, want twitter:image", got)
	}
}

func TestFetchImage_FirstImgFallback(t *testing.T) {
	server := serve(t, `<html><body>
		<img data-src="https://img.example/lazy.jpg">
		<img src="https://img.example/second.jpg">
	</body></html>`)

	got, err := newScraper().FetchImage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchImage() error = %v", err)
	}
	if got != "https://img.example/lazy.jpg" {
		t.Errorf("FetchImage() = %q, want first img data-src", got)
	}
}

func TestFetchImage_NoImage(t *testing.T) {
	server := serve(t, `<html><body><p>görselsiz sayfa</p></body></html>`)

	_, err := newScraper().FetchImage(context.Background(), server.URL)
	if !errors.Is(err, entity.ErrNoImage) {
		t.Errorf("FetchImage() error = %v, want ErrNoImage", err)
	}
}

func TestFetchImage_NoImagePagesDoNotOpenCircuit(t *testing.T) {
	empty := serve(t, `<html><body><p>görselsiz sayfa</p></body></html>`)
	withImage := serve(t, `<html><head>
		<meta property="og:image" content="https://img.example/og.jpg">
	</head></html>`)

	s := newScraper()

	// 画像なしページが続いてもブレーカーは開かない
	for i := 0; i < 25; i++ {
		if _, err := s.FetchImage(context.Background(), empty.URL); !errors.Is(err, entity.ErrNoImage) {
			t.Fatalf("FetchImage() error = %v, want ErrNoImage", err)
		}
	}

	got, err := s.FetchImage(context.Background(), withImage.URL)
	if err != nil {
		t.Fatalf("FetchImage() error = %v, want scrape to still work", err)
	}
	if got != "https://img.example/og.jpg" {
		t.Errorf("FetchImage() = %q, want og:image", got)
	}
}

func TestFetchImage_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	_, err := newScraper().FetchImage(context.Background(), server.URL)
	if !errors.Is(err, entity.ErrUpstreamStatus) {
		t.Errorf("FetchImage() error = %v, want ErrUpstreamStatus on HTTP 410", err)
	}
}

func TestFetchImage_RejectsInvalidURL(t *testing.T) {
	tests := []string{"", "ftp://example.com/x", "not-a-url"}
	for _, raw := range tests {
		if _, err := newScraper().FetchImage(context.Background(), raw); err == nil {
			t.Errorf("FetchImage(%q) error = nil, want validation error", raw)
		}
	}
}

func TestFetchImage_TruncatesOversizedBody(t *testing.T) {
	// og:imageが上限より先にあれば巨大ページでも拾える
	filler := strings.Repeat("<p>dolgu</p>", 20000)
	server := serve(t, `<html><head>
		<meta property="og:image" content="https://img.example/og.jpg">
	</head><body>`+filler+`</body></html>`)

	got, err := newScraper().FetchImage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchImage() error = %v", err)
	}
	if got != "https://img.example/og.jpg" {
		t.Errorf("FetchImage() = %q, want og:image from truncated page", got)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SCRAPE_TIMEOUT", "2s")
	t.Setenv("SCRAPE_MAX_BODY_SIZE", "50000")

	cfg, err := scraper.LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}
	if cfg.Timeout.Seconds() != 2 {
		t.Errorf("Timeout = %v, want 2s", cfg.Timeout)
	}
	if cfg.MaxBodySize != 50000 {
		t.Errorf("MaxBodySize = %d, want 50000", cfg.MaxBodySize)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := scraper.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v for defaults", err)
	}

	cfg.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() error = nil for zero timeout")
	}
}
