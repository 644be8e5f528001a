package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchbridge/internal/config"
)

func newTestCache(t *testing.T, ttl time.Duration) (*SearchCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewWithClient(rdb, ttl), mr
}

func TestKey(t *testing.T) {
	a, err := Key("books", map[string]any{"size": 10, "query": map[string]any{"match_all": map[string]any{}}})
	require.NoError(t, err)
	b, err := Key("books", map[string]any{"query": map[string]any{"match_all": map[string]any{}}, "size": 10})
	require.NoError(t, err)
	c, err := Key("authors", map[string]any{"size": 10, "query": map[string]any{"match_all": map[string]any{}}})
	require.NoError(t, err)

	assert.Equal(t, a, b, "key order must not matter")
	assert.NotEqual(t, a, c, "index is part of the key")
	assert.True(t, strings.HasPrefix(a, "searchbridge:search:"))
	assert.Len(t, strings.TrimPrefix(a, "searchbridge:search:"), 64)

	_, err = Key("books", map[string]any{"bad": func() {}})
	assert.Error(t, err)
}

func TestSearchCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	req := map[string]any{"query": map[string]any{"term": map[string]any{"year": 1965}}}

	_, hit, err := c.Get(ctx, "books", req)
	require.NoError(t, err)
	assert.False(t, hit)

	resp := map[string]any{"took": float64(2), "hits": map[string]any{"hits": []any{}}}
	require.NoError(t, c.Set(ctx, "books", req, resp))

	got, hit, err := c.Get(ctx, "books", req)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, resp, got)

	key, _ := Key("books", req)
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(2 * time.Minute)
	_, hit, err = c.Get(ctx, "books", req)
	require.NoError(t, err)
	assert.False(t, hit, "entry expires with the TTL")
}

func TestSearchCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	req := map[string]any{"size": 1}
	key, _ := Key("books", req)
	require.NoError(t, mr.Set(key, "not json"))

	_, _, err := c.Get(ctx, "books", req)
	assert.Error(t, err)
}

func TestSearchCache_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	mr.Close()

	_, _, err := c.Get(ctx, "books", map[string]any{})
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "books", map[string]any{}, map[string]any{}))
	assert.Error(t, c.Ping(ctx))
}

func TestSearchCache_Disabled(t *testing.T) {
	ctx := context.Background()
	c := New(config.RedisConfig{})
	assert.False(t, c.Enabled())

	require.NoError(t, c.Set(ctx, "books", map[string]any{}, map[string]any{"took": 1}))
	_, hit, err := c.Get(ctx, "books", map[string]any{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Ping(ctx))

	var nilCache *SearchCache
	assert.False(t, nilCache.Enabled())
}

func TestNew_WithAddr(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(config.RedisConfig{Addr: mr.Addr(), TTL: time.Second})
	assert.True(t, c.Enabled())
	assert.NoError(t, c.Ping(context.Background()))
}
