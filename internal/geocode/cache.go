package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/BartekS5/tanamao-migrate/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Cache stores resolved places keyed by the exact query string.
type Cache interface {
	Get(ctx context.Context, query string) (*Result, bool)
	Set(ctx context.Context, query string, r *Result)
}

// MemoryCache is a process-local Cache owned by one client.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Result
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*Result)}
}

func (c *MemoryCache) Get(_ context.Context, query string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[query]
	return r, ok
}

func (c *MemoryCache) Set(_ context.Context, query string, r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = r
}

// Len reports the number of cached queries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache shares resolved places between runs. Redis failures are
// logged and behave as misses.
type RedisCache struct {
	client redisKV
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: "geocode:", ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, query string) (*Result, bool) {
	data, err := c.client.Get(ctx, c.prefix+query).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warnf("geocode cache read %q: %v", query, err)
		}
		return nil, false
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		logger.Warnf("geocode cache entry %q is corrupt: %v", query, err)
		return nil, false
	}
	return &r, true
}

func (c *RedisCache) Set(ctx context.Context, query string, r *Result) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+query, data, c.ttl).Err(); err != nil {
		logger.Warnf("geocode cache write %q: %v", query, err)
	}
}
