// Package cache stores search responses in Redis keyed by the request that produced them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"searchbridge/internal/config"
)

const keyPrefix = "searchbridge:search:"

// SearchCache is a TTL cache of search responses. The zero value and a
// cache built without an address are disabled: Get always misses and Set
// does nothing.
type SearchCache struct {
	rdb redisv9.Cmdable
	ttl time.Duration
}

// New connects to the Redis server in cfg. It does not dial until the first command.
func New(cfg config.RedisConfig) *SearchCache {
	if cfg.Addr == "" {
		return &SearchCache{}
	}
	return NewWithClient(redisv9.NewClient(&redisv9.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg.TTL)
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb redisv9.Cmdable, ttl time.Duration) *SearchCache {
	return &SearchCache{rdb: rdb, ttl: ttl}
}

// Enabled reports whether responses are actually stored.
func (c *SearchCache) Enabled() bool { return c != nil && c.rdb != nil }

// Key derives the cache key of a search on index. Map keys are sorted by the
// JSON encoder, so equal requests hash equally.
func Key(index string, req map[string]any) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(index))
	h.Write([]byte{0})
	h.Write(b)
	return keyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the cached response of req, if any.
func (c *SearchCache) Get(ctx context.Context, index string, req map[string]any) (map[string]any, bool, error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	key, err := Key(index, req)
	if err != nil {
		return nil, false, err
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return resp, true, nil
}

// Set stores resp for req until the TTL elapses.
func (c *SearchCache) Set(ctx context.Context, index string, req, resp map[string]any) error {
	if !c.Enabled() {
		return nil
	}
	key, err := Key(index, req)
	if err != nil {
		return err
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Ping checks the Redis connection. A disabled cache is always healthy.
func (c *SearchCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}
