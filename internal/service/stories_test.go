package service

import (
	"context"
	"testing"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryLifecycle(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	alex := mustCreateUser(t, s, "alex", "Alex")

	story, err := s.CreateStory(ctx, alex.ID, "https://example.com/s.jpg")
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(24*time.Hour), story.ExpiresAt)
	assert.Zero(t, story.ViewsCount)

	state, err := s.StoryState(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StoryActive, state)

	groups, err := s.GetActiveStories(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, alex.ID, groups[0].Author.ID)
	require.Len(t, groups[0].Stories, 1)
	assert.Equal(t, story.ID, groups[0].Stories[0].ID)

	// expired but not purged
	clock.Advance(24*time.Hour + time.Second)

	groups, err = s.GetActiveStories(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)

	userStories, err := s.GetUserStories(ctx, alex.ID)
	require.NoError(t, err)
	assert.Empty(t, userStories)

	state, err = s.StoryState(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StoryExpired, state)

	purged, err := s.CleanupExpiredStories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = s.StoryState(ctx, story.ID)
	assert.ErrorIs(t, err, repository.ErrStoryNotFound)

	purged, err = s.CleanupExpiredStories(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestCleanupExpiredStories_KeepsActiveAndRemovesViews(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	alex := mustCreateUser(t, s, "alex", "Alex")
	jane := mustCreateUser(t, s, "jane", "Jane")

	old, err := s.CreateStory(ctx, alex.ID, "https://example.com/old.jpg")
	require.NoError(t, err)
	_, err = s.ViewStory(ctx, old.ID, jane.ID)
	require.NoError(t, err)

	clock.Advance(12 * time.Hour)
	fresh, err := s.CreateStory(ctx, alex.ID, "https://example.com/fresh.jpg")
	require.NoError(t, err)

	clock.Advance(13 * time.Hour)
	purged, err := s.CleanupExpiredStories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	viewed, err := s.HasViewedStory(ctx, old.ID, jane.ID)
	require.NoError(t, err)
	assert.False(t, viewed)

	stories, err := s.GetUserStories(ctx, alex.ID)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, fresh.ID, stories[0].ID)
}

func TestViewStory_Dedup(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	alex := mustCreateUser(t, s, "alex", "Alex")
	jane := mustCreateUser(t, s, "jane", "Jane")
	mike := mustCreateUser(t, s, "mike", "Mike")

	story, err := s.CreateStory(ctx, alex.ID, "https://example.com/s.jpg")
	require.NoError(t, err)

	viewed, err := s.ViewStory(ctx, story.ID, jane.ID)
	require.NoError(t, err)
	assert.True(t, viewed)

	viewed, err = s.ViewStory(ctx, story.ID, jane.ID)
	require.NoError(t, err)
	assert.False(t, viewed)

	clock.Advance(time.Minute)
	viewed, err = s.ViewStory(ctx, story.ID, mike.ID)
	require.NoError(t, err)
	assert.True(t, viewed)

	stories, err := s.GetUserStories(ctx, alex.ID)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, int64(2), stories[0].ViewsCount)

	has, err := s.HasViewedStory(ctx, story.ID, jane.ID)
	require.NoError(t, err)
	assert.True(t, has)

	viewers, err := s.GetStoryViewers(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, viewers, 2)
	assert.Equal(t, jane.ID, viewers[0].User.ID)
	assert.Equal(t, mike.ID, viewers[1].User.ID)

	t.Run("missing story", func(t *testing.T) {
		_, err := s.ViewStory(ctx, "missing", jane.ID)
		assert.ErrorIs(t, err, repository.ErrStoryNotFound)
	})
}

func TestGetActiveStories_GroupsByAuthor(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	alex := mustCreateUser(t, s, "alex", "Alex")
	jane := mustCreateUser(t, s, "jane", "Jane")

	a1, err := s.CreateStory(ctx, alex.ID, "https://example.com/a1.jpg")
	require.NoError(t, err)
	clock.Advance(time.Hour)
	j1, err := s.CreateStory(ctx, jane.ID, "https://example.com/j1.jpg")
	require.NoError(t, err)
	clock.Advance(time.Hour)
	a2, err := s.CreateStory(ctx, alex.ID, "https://example.com/a2.jpg")
	require.NoError(t, err)

	groups, err := s.GetActiveStories(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, alex.ID, groups[0].Author.ID)
	require.Len(t, groups[0].Stories, 2)
	assert.Equal(t, a2.ID, groups[0].Stories[0].ID)
	assert.Equal(t, a1.ID, groups[0].Stories[1].ID)

	assert.Equal(t, jane.ID, groups[1].Author.ID)
	require.Len(t, groups[1].Stories, 1)
	assert.Equal(t, j1.ID, groups[1].Stories[0].ID)
}
