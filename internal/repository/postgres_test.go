package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	return NewPostgresStore(pool)
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func TestPostgresStore_UserAndCounters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	userID := newID(t)
	username := "pg_" + userID[len(userID)-12:]
	postID := newID(t)

	err := s.InTx(ctx, func(q Queries) error {
		if err := q.CreateUser(ctx, &domain.User{ID: userID, Username: username, DisplayName: "PG Test", CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		if err := q.CreatePost(ctx, &domain.Post{ID: postID, AuthorID: userID, ImageURL: "https://example.com/p.jpg", CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		if err := q.AdjustUserCounter(ctx, userID, domain.UserPostsCount, 1); err != nil {
			return err
		}
		return q.AdjustPostCounter(ctx, postID, domain.PostLikesCount, -1)
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.InTx(ctx, func(q Queries) error {
			if _, err := q.DeletePost(ctx, postID); err != nil {
				return err
			}
			_, err := s.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", userID)
			return err
		})
	})

	err = s.View(ctx, func(q Queries) error {
		user, err := q.GetUserByName(ctx, username)
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.PostsCount)

		post, err := q.GetPost(ctx, postID)
		require.NoError(t, err)
		assert.Zero(t, post.LikesCount)

		feed, err := q.GetFeedPosts(ctx, 100)
		require.NoError(t, err)
		found := false
		for _, p := range feed {
			if p.ID == postID {
				found = true
				require.NotNil(t, p.Author)
				assert.Equal(t, username, p.Author.Username)
			}
		}
		assert.True(t, found)
		return nil
	})
	require.NoError(t, err)

	err = s.InTx(ctx, func(q Queries) error {
		return q.CreateUser(ctx, &domain.User{ID: newID(t), Username: username, DisplayName: "dup", CreatedAt: now, UpdatedAt: now})
	})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestPostgresStore_PairInsertsAreIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	userID, postID := newID(t), newID(t)

	err := s.InTx(ctx, func(q Queries) error {
		inserted, err := q.CreateLike(ctx, domain.Like{UserID: userID, PostID: postID, CreatedAt: now})
		require.NoError(t, err)
		assert.True(t, inserted)

		inserted, err = q.CreateLike(ctx, domain.Like{UserID: userID, PostID: postID, CreatedAt: now})
		require.NoError(t, err)
		assert.False(t, inserted)

		removed, err := q.DeleteLikesByPost(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
		return nil
	})
	require.NoError(t, err)
}

func TestPostgresStore_RollbackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	storyID := newID(t)

	err := s.InTx(ctx, func(q Queries) error {
		if err := q.CreateStory(ctx, &domain.Story{ID: storyID, AuthorID: "nobody", ImageURL: "x", ExpiresAt: now.Add(time.Hour), CreatedAt: now}); err != nil {
			return err
		}
		return context.DeadlineExceeded
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	err = s.View(ctx, func(q Queries) error {
		_, err := q.GetStory(ctx, storyID)
		assert.ErrorIs(t, err, ErrStoryNotFound)
		return nil
	})
	require.NoError(t, err)
}
