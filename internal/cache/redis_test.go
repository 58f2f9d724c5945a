package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	c, err := NewRedisCache(context.Background(), RedisOptions{
		Addr:   addr,
		TTL:    time.Minute,
		Prefix: "social-test:" + t.Name() + ":",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		_ = c.Invalidate(ctx)
		c.client.Del(ctx, c.prefix+generationKey)
		c.Close()
	})
	return c
}

func TestRedisCache_SetGetInvalidate(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	type entry struct {
		Name string `json:"name"`
	}

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	feedKey := Versioned(gen, FeedKey(20))
	postKey := Versioned(gen, PostKey("p1"))

	var got entry
	assert.ErrorIs(t, c.Get(ctx, feedKey, &got), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, feedKey, entry{Name: "feed"}))
	require.NoError(t, c.Set(ctx, postKey, entry{Name: "post"}))

	require.NoError(t, c.Get(ctx, feedKey, &got))
	assert.Equal(t, "feed", got.Name)

	require.NoError(t, c.Invalidate(ctx))
	next, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)

	assert.ErrorIs(t, c.Get(ctx, feedKey, &got), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, postKey, &got), ErrCacheMiss)
}

func TestRedisCache_LateWriteUnderOldGenerationIsUnreachable(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, Versioned(gen, PostKey("p1")), "stale"))

	next, err := c.Generation(ctx)
	require.NoError(t, err)
	var got string
	assert.ErrorIs(t, c.Get(ctx, Versioned(next, PostKey("p1")), &got), ErrCacheMiss)
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, c.Set(ctx, "k", 1))
	var v int
	assert.ErrorIs(t, c.Get(ctx, "k", &v), ErrCacheMiss)
	assert.NoError(t, c.Invalidate(ctx))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "feed:20", FeedKey(20))
	assert.Equal(t, "post:abc", PostKey("abc"))
	assert.Equal(t, "v3:feed:20", Versioned(3, FeedKey(20)))
}
