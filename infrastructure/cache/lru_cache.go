// Package cache provides the bounded in-memory store behind query result caching.
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"insightseo/application/ports"
)

const (
	defaultMaxSize = 1000
	defaultTTL     = 5 * time.Minute
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// LRUCache is a size-bounded cache with per-entry expiry. Expired entries are
// evicted lazily on read.
type LRUCache struct {
	items      *lru.Cache[string, entry]
	defaultTTL time.Duration
	now        func() time.Time
}

// NewLRUCache creates a cache holding at most maxSize entries. Non-positive
// values fall back to the defaults.
func NewLRUCache(maxSize int, ttl time.Duration) (*LRUCache, error) {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	items, err := lru.New[string, entry](maxSize)
	if err != nil {
		return nil, err
	}
	return &LRUCache{
		items:      items,
		defaultTTL: ttl,
		now:        time.Now,
	}, nil
}

// Get retrieves a value from cache
func (c *LRUCache) Get(_ context.Context, key string) (interface{}, bool) {
	e, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.items.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value with a TTL in seconds. A non-positive TTL uses the
// cache default.
func (c *LRUCache) Set(_ context.Context, key string, value interface{}, ttl int) error {
	d := time.Duration(ttl) * time.Second
	if d <= 0 {
		d = c.defaultTTL
	}
	c.items.Add(key, entry{value: value, expiresAt: c.now().Add(d)})
	return nil
}

// Delete removes a value from cache
func (c *LRUCache) Delete(_ context.Context, key string) {
	c.items.Remove(key)
}

// Len reports the number of entries, including expired ones not yet evicted.
func (c *LRUCache) Len() int {
	return c.items.Len()
}

// Purge empties the cache.
func (c *LRUCache) Purge() {
	c.items.Purge()
}

var _ ports.Cache = (*LRUCache)(nil)
