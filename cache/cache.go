// Package cache provides a get-or-compute cache with expiry, backed by
// Redis. The pipeline stays cache-agnostic: a nil *Cache computes directly.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"listing_resolver/config"
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns nil when no Redis address is configured.
func New(cfg config.CacheConfig) *Cache {
	if cfg.RedisAddr == "" {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
		ttl: ttl,
	}
}

// GetOrCompute returns the cached value for key, computing and storing it
// on a miss. Concurrent callers may race and compute twice; the operations
// cached here are idempotent and cheap, so no single-flight locking.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute func() (string, error)) (string, error) {
	if c == nil {
		return compute()
	}

	val, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		return val, nil
	}
	if err != redis.Nil {
		log.Printf("Cache: get %s: %v", key, err)
	}

	val, err = compute()
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		log.Printf("Cache: set %s: %v", key, err)
	}
	return val, nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
