package restapi

import (
	"context"
	"sync"
	"time"
)

// Cache stores opaque response bodies for a bounded time. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type ttlEntry struct {
	value     []byte
	expiresAt time.Time
}

// TTLCache is an in-process Cache.
type TTLCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]ttlEntry
}

// NewTTLCache builds an empty cache reading time from now.
func NewTTLCache(now func() time.Time) *TTLCache {
	if now == nil {
		now = time.Now
	}
	return &TTLCache{now: now, entries: map[string]ttlEntry{}}
}

// Get returns a copy of the value stored under key when it has not expired.
func (c *TTLCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

// Set stores value under key for ttl. A non-positive ttl removes the key.
func (c *TTLCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ttl <= 0 {
		delete(c.entries, key)
		return nil
	}
	c.entries[key] = ttlEntry{value: append([]byte(nil), value...), expiresAt: c.now().Add(ttl)}
	return nil
}
