package scraper

import (
	"fmt"
	"time"

	"istanbul-news/pkg/config"
)

// Config holds the configuration for article page image scraping.
type Config struct {
	// Timeout is the maximum duration for a single page fetch.
	// Scrapes happen inline while a request waits, so this stays short.
	// Default: 4s
	Timeout time.Duration

	// MaxBodySize is the number of response bytes to read and parse.
	// og:image tags live in <head>, so the page is truncated, not rejected,
	// beyond this point.
	// Default: 140000
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Default: 5
	MaxRedirects int
}

// DefaultConfig returns the default scraping configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:      4 * time.Second,
		MaxBodySize:  140000,
		MaxRedirects: 5,
	}
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxBodySize < 1024 {
		return fmt.Errorf("max body size must be at least 1024 bytes, got %d", c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfigFromEnv loads the scraping configuration from environment
// variables, falling back to defaults for unset or invalid values.
//
// Environment variables:
//   - SCRAPE_TIMEOUT: duration string, e.g., "4s"
//   - SCRAPE_MAX_BODY_SIZE: integer in bytes
//   - SCRAPE_MAX_REDIRECTS: integer
func LoadConfigFromEnv() (Config, error) {
	def := DefaultConfig()
	cfg := Config{
		Timeout:      config.GetEnvDuration("SCRAPE_TIMEOUT", def.Timeout),
		MaxBodySize:  int64(config.GetEnvInt("SCRAPE_MAX_BODY_SIZE", int(def.MaxBodySize))),
		MaxRedirects: config.GetEnvInt("SCRAPE_MAX_REDIRECTS", def.MaxRedirects),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("scrape configuration invalid: %w", err)
	}
	return cfg, nil
}
