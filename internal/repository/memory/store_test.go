package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, s *Store, id, username string) {
	t.Helper()
	err := s.InTx(context.Background(), func(q repository.Queries) error {
		return q.CreateUser(context.Background(), &domain.User{ID: id, Username: username, DisplayName: username, CreatedAt: t0})
	})
	require.NoError(t, err)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u1", "alex")

	boom := errors.New("boom")
	err := s.InTx(ctx, func(q repository.Queries) error {
		require.NoError(t, q.CreatePost(ctx, &domain.Post{ID: "p1", AuthorID: "u1", CreatedAt: t0}))
		require.NoError(t, q.AdjustUserCounter(ctx, "u1", domain.UserPostsCount, 1))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = s.View(ctx, func(q repository.Queries) error {
		_, err := q.GetPost(ctx, "p1")
		assert.ErrorIs(t, err, repository.ErrPostNotFound)

		user, err := q.GetUserByID(ctx, "u1")
		require.NoError(t, err)
		assert.Zero(t, user.PostsCount)
		return nil
	})
	require.NoError(t, err)
}

func TestInTx_RollsBackOnPanic(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.InTx(ctx, func(q repository.Queries) error {
			require.NoError(t, q.CreateUser(ctx, &domain.User{ID: "u1", Username: "alex"}))
			panic("boom")
		})
	})

	err := s.View(ctx, func(q repository.Queries) error {
		n, err := q.CountUsers(ctx)
		assert.Zero(t, n)
		return err
	})
	require.NoError(t, err)
}

func TestInTx_CanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.InTx(ctx, func(repository.Queries) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestCreateUser_Duplicate(t *testing.T) {
	s := NewStore()
	seedUser(t, s, "u1", "alex")

	err := s.InTx(context.Background(), func(q repository.Queries) error {
		return q.CreateUser(context.Background(), &domain.User{ID: "u2", Username: "alex"})
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateUser)
}

func TestAdjustCounters_FloorAndMissingRow(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u1", "alex")

	err := s.InTx(ctx, func(q repository.Queries) error {
		require.NoError(t, q.CreatePost(ctx, &domain.Post{ID: "p1", AuthorID: "u1", CreatedAt: t0}))
		require.NoError(t, q.AdjustPostCounter(ctx, "p1", domain.PostLikesCount, -1))
		require.NoError(t, q.AdjustUserCounter(ctx, "u1", domain.UserFollowersCount, -5))
		require.NoError(t, q.AdjustPostCounter(ctx, "missing", domain.PostLikesCount, 1))
		return q.AdjustUserCounter(ctx, "missing", domain.UserPostsCount, 1)
	})
	require.NoError(t, err)

	err = s.View(ctx, func(q repository.Queries) error {
		post, err := q.GetPost(ctx, "p1")
		require.NoError(t, err)
		assert.Zero(t, post.LikesCount)

		user, err := q.GetUserByID(ctx, "u1")
		require.NoError(t, err)
		assert.Zero(t, user.FollowersCount)
		return nil
	})
	require.NoError(t, err)
}

func TestPairInserts_ReportDuplicates(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.InTx(ctx, func(q repository.Queries) error {
		inserted, err := q.CreateLike(ctx, domain.Like{UserID: "u1", PostID: "p1", CreatedAt: t0})
		require.NoError(t, err)
		assert.True(t, inserted)

		inserted, err = q.CreateLike(ctx, domain.Like{UserID: "u1", PostID: "p1", CreatedAt: t0})
		require.NoError(t, err)
		assert.False(t, inserted)

		inserted, err = q.CreateStoryView(ctx, domain.StoryView{StoryID: "s1", ViewerID: "u1", ViewedAt: t0})
		require.NoError(t, err)
		assert.True(t, inserted)

		inserted, err = q.CreateStoryView(ctx, domain.StoryView{StoryID: "s1", ViewerID: "u1", ViewedAt: t0})
		require.NoError(t, err)
		assert.False(t, inserted)
		return nil
	})
	require.NoError(t, err)
}
