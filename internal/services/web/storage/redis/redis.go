// Package redis provides Redis-backed dismissal storage and a response
// cache for the relay API accessors.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/louisbranch/relayweb/internal/platform/timeouts"
	"github.com/louisbranch/relayweb/internal/services/web/accessor/restapi"
	"github.com/louisbranch/relayweb/internal/services/web/dismissal"
)

const (
	dismissalPrefix = "relayweb:dismissal:"
	cachePrefix     = "relayweb:cache:"
	// dismissalRetention bounds how long a dismissal survives an idle viewer.
	dismissalRetention = 400 * 24 * time.Hour
)

// Client owns one connection pool shared by the store and the cache.
type Client struct {
	rdb *goredis.Client
}

// Open parses a redis:// URL, tunes the pool and verifies connectivity.
func Open(ctx context.Context, rawURL string) (*Client, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opt, err := goredis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.DialTimeout = timeouts.StoreOpen
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	rdb := goredis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.StoreOpen)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// Close releases the pool.
func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Dismissals returns the dismissal store view of c.
func (c *Client) Dismissals() *DismissalStore {
	return &DismissalStore{rdb: c.rdb}
}

// Cache returns the response cache view of c.
func (c *Client) Cache() *ResponseCache {
	return &ResponseCache{rdb: c.rdb}
}

// DismissalStore keeps one string key per dismissal holding unix millis.
type DismissalStore struct {
	rdb *goredis.Client
}

var _ dismissal.Store = (*DismissalStore)(nil)

// Get implements dismissal.Store.
func (s *DismissalStore) Get(ctx context.Context, key string) (dismissal.Record, bool, error) {
	key = strings.TrimSpace(key)
	val, err := s.rdb.Get(ctx, dismissalPrefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return dismissal.Record{}, false, nil
	}
	if err != nil {
		return dismissal.Record{}, false, fmt.Errorf("get dismissal: %w", err)
	}
	millis, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return dismissal.Record{}, false, fmt.Errorf("decode dismissal %q: %w", key, err)
	}
	return dismissal.Record{Key: key, DismissedAt: time.UnixMilli(millis).UTC()}, true, nil
}

// Put implements dismissal.Store.
func (s *DismissalStore) Put(ctx context.Context, record dismissal.Record) error {
	key := strings.TrimSpace(record.Key)
	if key == "" {
		return fmt.Errorf("dismissal key is required")
	}
	value := strconv.FormatInt(record.DismissedAt.UTC().UnixMilli(), 10)
	if err := s.rdb.Set(ctx, dismissalPrefix+key, value, dismissalRetention).Err(); err != nil {
		return fmt.Errorf("put dismissal: %w", err)
	}
	return nil
}

// ResponseCache implements restapi.Cache with native key expiry.
type ResponseCache struct {
	rdb *goredis.Client
}

var _ restapi.Cache = (*ResponseCache)(nil)

// Get implements restapi.Cache.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, cachePrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cache entry: %w", err)
	}
	return val, true, nil
}

// Set implements restapi.Cache. A non-positive ttl removes the key.
func (c *ResponseCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return c.rdb.Del(ctx, cachePrefix+key).Err()
	}
	return c.rdb.Set(ctx, cachePrefix+key, value, ttl).Err()
}
