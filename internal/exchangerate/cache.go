package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps the last good rate. Entries outlive their freshness so a stale
// rate can still be served when the source is down.
type Cache interface {
	Get(ctx context.Context, key string) (*Rate, error)
	Set(ctx context.Context, key string, rate *Rate) error
}

// MemoryCache is a process-local Cache
type MemoryCache struct {
	mu    sync.RWMutex
	rates map[string]Rate
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{rates: make(map[string]Rate)}
}

// Get returns the cached rate or nil
func (c *MemoryCache) Get(_ context.Context, key string) (*Rate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rates[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// Set stores a rate
func (c *MemoryCache) Set(_ context.Context, key string, rate *Rate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[key] = *rate
	return nil
}

// RedisCache shares rates between API instances
type RedisCache struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
}

// NewRedisCache creates a cache that keeps entries for retention
func NewRedisCache(client *redis.Client, retention time.Duration) *RedisCache {
	return &RedisCache{
		client:    client,
		prefix:    "fintrack:exchange-rate:",
		retention: retention,
	}
}

// Get returns the cached rate or nil
func (c *RedisCache) Get(ctx context.Context, key string) (*Rate, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached rate: %w", err)
	}

	var r Rate
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("failed to decode cached rate: %w", err)
	}
	return &r, nil
}

// Set stores a rate
func (c *RedisCache) Set(ctx context.Context, key string, rate *Rate) error {
	raw, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("failed to encode rate: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.retention).Err(); err != nil {
		return fmt.Errorf("failed to cache rate: %w", err)
	}
	return nil
}
