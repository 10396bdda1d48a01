// Package cache provides a thread-safe in-memory TTL cache for assembled
// news result sets. Entries are evicted lazily on the first read that
// observes expiry; there is no background sweep.
package cache

import (
	"sync"
	"time"

	"istanbul-news/internal/domain/entity"
)

// DefaultTTL is the lifetime of a cached result set.
const DefaultTTL = 180 * time.Second

// Clock provides an abstraction for time operations to enable testing.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock implementation that uses the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// resultEntry pairs a payload with its absolute expiry time.
type resultEntry struct {
	expiresAt time.Time
	items     []entity.NewsItem
}

// ResultCache memoizes fully assembled result sets keyed by query shape.
// It is safe for concurrent use. Returned payloads are not copied; callers
// must treat them as read-only.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]resultEntry
	ttl     time.Duration
	clock   Clock
}

// Config holds configuration for a ResultCache.
type Config struct {
	// TTL is the lifetime of each entry. Default: DefaultTTL.
	TTL time.Duration

	// Clock provides time operations for testing. Default: SystemClock.
	Clock Clock
}

// New creates a ResultCache with the given configuration.
func New(cfg Config) *ResultCache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = &SystemClock{}
	}
	return &ResultCache{
		entries: make(map[string]resultEntry),
		ttl:     cfg.TTL,
		clock:   cfg.Clock,
	}
}

// Get returns the cached payload for key and true if present and fresh.
// An expired entry is deleted and reported as a miss.
func (c *ResultCache) Get(key string) ([]entity.NewsItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.items, true
}

// Set stores the payload under key with the configured TTL,
// replacing any previous entry.
func (c *ResultCache) Set(key string, items []entity.NewsItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resultEntry{
		expiresAt: c.clock.Now().Add(c.ttl),
		items:     items,
	}
}

// Len returns the number of stored entries, including ones that have
// expired but not yet been read.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
