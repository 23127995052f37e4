// Package cache provides a small Redis wrapper used for short-lived
// caching of aggregate statistics. A nil *Cache is valid and behaves as
// a permanent miss, so Redis stays optional.
package cache

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the key is absent or the cache is disabled.
var ErrCacheMiss = errors.New("cache miss")

// Cache wraps a Redis client with string get/set and a default TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr and verifies the connection. An empty
// addr disables caching and returns a nil *Cache without error.
func New(ctx context.Context, addr string, ttl time.Duration) (*Cache, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		MaxRetries:  5,
		DialTimeout: 10 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Get returns the cached value for key, or ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c == nil {
		return "", ErrCacheMiss
	}
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	} else if err != nil {
		return "", err
	}
	return val, nil
}

// Set stores value under key with the cache's default TTL.
func (c *Cache) Set(ctx context.Context, key string, value string) error {
	if c == nil {
		return nil
	}
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

// Invalidate removes key from the cache.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
