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

func TestCreatePost_IncrementsAuthorPostsCount(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "alex", "Alex")

	post, err := s.CreatePost(ctx, author.ID, "https://example.com/a.jpg", "sunset", "Swiss Alps")
	require.NoError(t, err)

	assert.Equal(t, author.ID, post.AuthorID)
	assert.Zero(t, post.LikesCount)
	assert.Zero(t, post.CommentsCount)
	assert.Equal(t, int64(1), mustGetUser(t, s, author.ID).PostsCount)
}

func TestGetFeed_LimitAndOrder(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "alex", "Alex")

	var ids []string
	for range 25 {
		clock.Advance(time.Second)
		ids = append(ids, mustCreatePost(t, s, author.ID).ID)
	}

	feed, err := s.GetFeed(ctx, 20)
	require.NoError(t, err)
	require.Len(t, feed, 20)

	for i, p := range feed {
		assert.Equal(t, ids[len(ids)-1-i], p.ID)
		require.NotNil(t, p.Author)
		assert.Equal(t, author.ID, p.Author.ID)
	}

	t.Run("default limit", func(t *testing.T) {
		feed, err := s.GetFeed(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, feed, DefaultFeedLimit)
	})
}

func TestGetExplorePosts(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "alex", "Alex")

	for range 35 {
		clock.Advance(time.Second)
		mustCreatePost(t, s, author.ID)
	}

	posts, err := s.GetExplorePosts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, posts, DefaultExploreLimit)
	assert.True(t, posts[0].CreatedAt.After(posts[1].CreatedAt))

	posts, err = s.GetExplorePosts(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, posts, 5)
}

func TestGetPost(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "alex", "Alex")
	post := mustCreatePost(t, s, author.ID)

	got, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	require.NotNil(t, got.Author)
	assert.Equal(t, "alex", got.Author.Username)

	_, err = s.GetPost(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestGetPost_DanglingAuthor(t *testing.T) {
	s, _ := newTestService(t)
	post, err := s.CreatePost(context.Background(), "ghost", "https://example.com/a.jpg", "", "")
	require.NoError(t, err)

	got := mustGetPost(t, s, post.ID)
	assert.Nil(t, got.Author)

	feed, err := s.GetFeed(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestGetUserPosts(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	alex := mustCreateUser(t, s, "alex", "Alex")
	jane := mustCreateUser(t, s, "jane", "Jane")

	first := mustCreatePost(t, s, alex.ID)
	clock.Advance(time.Second)
	mustCreatePost(t, s, jane.ID)
	clock.Advance(time.Second)
	second := mustCreatePost(t, s, alex.ID)

	posts, err := s.GetUserPosts(ctx, alex.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestDeletePost_Cascade(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	author := mustCreateUser(t, s, "author", "Author")
	fans := []*domain.User{
		mustCreateUser(t, s, "fan1", "Fan 1"),
		mustCreateUser(t, s, "fan2", "Fan 2"),
		mustCreateUser(t, s, "fan3", "Fan 3"),
	}
	post := mustCreatePost(t, s, author.ID)

	for _, fan := range fans {
		_, err := s.AddComment(ctx, fan.ID, post.ID, "nice")
		require.NoError(t, err)
	}
	for _, fan := range fans[:2] {
		liked, err := s.Like(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		require.True(t, liked)
	}
	saved, err := s.Save(ctx, fans[0].ID, post.ID)
	require.NoError(t, err)
	require.True(t, saved)

	got := mustGetPost(t, s, post.ID)
	require.Equal(t, int64(2), got.LikesCount)
	require.Equal(t, int64(3), got.CommentsCount)

	deleted, err := s.DeletePost(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	comments, err := s.GetComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	for _, fan := range fans {
		liked, err := s.HasLiked(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		assert.False(t, liked)
	}
	hasSaved, err := s.HasSaved(ctx, fans[0].ID, post.ID)
	require.NoError(t, err)
	assert.False(t, hasSaved)

	assert.Zero(t, mustGetUser(t, s, author.ID).PostsCount)

	_, err = s.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrPostNotFound)

	t.Run("second delete is a no-op", func(t *testing.T) {
		deleted, err := s.DeletePost(ctx, author.ID, post.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Zero(t, mustGetUser(t, s, author.ID).PostsCount)
	})
}

func TestDeletePost_Forbidden(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "author", "Author")
	other := mustCreateUser(t, s, "other", "Other")
	post := mustCreatePost(t, s, author.ID)
	_, err := s.Like(ctx, other.ID, post.ID)
	require.NoError(t, err)

	deleted, err := s.DeletePost(ctx, other.ID, post.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.False(t, deleted)

	// nothing was removed
	got := mustGetPost(t, s, post.ID)
	assert.Equal(t, int64(1), got.LikesCount)
	liked, err := s.HasLiked(ctx, other.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), mustGetUser(t, s, author.ID).PostsCount)
}
