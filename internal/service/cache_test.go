package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/Tetsu-is/social-graph/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is an in-process generation cache. beforeSet, when set, runs once
// ahead of the next Set.
type mapCache struct {
	mu        sync.Mutex
	gen       int64
	entries   map[string][]byte
	beforeSet func()
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}}
}

func (c *mapCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *mapCache) Get(_ context.Context, key string, dst any) error {
	c.mu.Lock()
	raw, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (c *mapCache) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = map[string][]byte{}
	return nil
}

func TestGetPost_ServesCachedCopy(t *testing.T) {
	c := newMapCache()
	s, _ := newTestService(t, WithCache(c))
	ctx := context.Background()

	author := mustCreateUser(t, s, "alex", "Alex")
	post := mustCreatePost(t, s, author.ID)

	first := mustGetPost(t, s, post.ID)
	c.mu.Lock()
	assert.Len(t, c.entries, 1)
	c.mu.Unlock()

	second, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "alex", second.Author.Username)
}

func TestGetPost_MutationDuringLoadIsNotServedStale(t *testing.T) {
	c := newMapCache()
	s, _ := newTestService(t, WithCache(c))
	ctx := context.Background()

	author := mustCreateUser(t, s, "alex", "Alex")
	fan := mustCreateUser(t, s, "jane", "Jane")
	post := mustCreatePost(t, s, author.ID)

	// the like commits after the post was loaded but before it is cached
	c.beforeSet = func() {
		liked, err := s.Like(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		require.True(t, liked)
	}
	loaded := mustGetPost(t, s, post.ID)
	assert.Zero(t, loaded.LikesCount)

	hasLiked, err := s.HasLiked(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, hasLiked)

	after := mustGetPost(t, s, post.ID)
	assert.Equal(t, int64(1), after.LikesCount)
}

func TestGetFeed_MutationDuringLoadIsNotServedStale(t *testing.T) {
	c := newMapCache()
	s, _ := newTestService(t, WithCache(c))
	ctx := context.Background()

	author := mustCreateUser(t, s, "alex", "Alex")
	mustCreatePost(t, s, author.ID)

	c.beforeSet = func() {
		mustCreatePost(t, s, author.ID)
	}
	feed, err := s.GetFeed(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	feed, err = s.GetFeed(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, feed, 2)
}
