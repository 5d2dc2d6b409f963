// Package cache is an optional Redis read-through layer in front of the
// JSON document store. A nil *Cache is valid and behaves as a permanent
// cache miss, so callers never branch on whether Redis is configured.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefixDoc is the prefix for cached JSON documents.
	KeyPrefixDoc = "cvforge:doc:"
	// KeyGenerations counts completed generations across restarts.
	KeyGenerations = "cvforge:generations:total"
)

// DocKey returns the Redis key for a cached document by name.
func DocKey(name string) string {
	return KeyPrefixDoc + name
}

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps a connected Redis client. Returns nil when client is nil.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// GetDocument returns the cached raw document, or nil on a miss.
func (c *Cache) GetDocument(ctx context.Context, name string) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, DocKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, fmt.Errorf("failed to get cached document: %w", err)
	}
	return data, nil
}

// SetDocument stores the raw document with the configured TTL.
func (c *Cache) SetDocument(ctx context.Context, name string, data []byte) error {
	if c == nil {
		return nil
	}
	if err := c.client.Set(ctx, DocKey(name), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache document: %w", err)
	}
	return nil
}

// Invalidate removes a cached document. Called on every document write.
func (c *Cache) Invalidate(ctx context.Context, name string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, DocKey(name)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached document: %w", err)
	}
	return nil
}

// IncrementGenerations bumps the lifetime generation counter.
func (c *Cache) IncrementGenerations(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}
	n, err := c.client.Incr(ctx, KeyGenerations).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment generation counter: %w", err)
	}
	return n, nil
}

// Ping reports whether the cache backend is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("cache not configured")
	}
	return c.client.Ping(ctx).Err()
}
