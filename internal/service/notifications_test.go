package service

import (
	"context"
	"testing"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifications(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "author", "Author")
	fan := mustCreateUser(t, s, "fan", "Fan")
	post := mustCreatePost(t, s, author.ID)

	clock.Advance(time.Second)
	_, err := s.Like(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	clock.Advance(time.Second)
	comment, err := s.AddComment(ctx, fan.ID, post.ID, "wow")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = s.Follow(ctx, fan.ID, author.ID)
	require.NoError(t, err)

	// own actions never notify
	_, err = s.AddComment(ctx, author.ID, post.ID, "thanks")
	require.NoError(t, err)

	notifications, err := s.ListNotifications(ctx, author.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 3)

	assert.Equal(t, domain.NotificationFollow, notifications[0].Type)
	assert.Empty(t, notifications[0].PostID)

	assert.Equal(t, domain.NotificationComment, notifications[1].Type)
	assert.Equal(t, comment.ID, notifications[1].CommentID)
	assert.Equal(t, post.ID, notifications[1].PostID)

	assert.Equal(t, domain.NotificationLike, notifications[2].Type)
	for _, n := range notifications {
		assert.Equal(t, fan.ID, n.ActorID)
		assert.False(t, n.IsRead)
	}

	limited, err := s.ListNotifications(ctx, author.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	updated, err := s.MarkNotificationsRead(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	updated, err = s.MarkNotificationsRead(ctx, author.ID)
	require.NoError(t, err)
	assert.Zero(t, updated)

	notifications, err = s.ListNotifications(ctx, author.ID, 0)
	require.NoError(t, err)
	for _, n := range notifications {
		assert.True(t, n.IsRead)
	}

	fanNotifications, err := s.ListNotifications(ctx, fan.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, fanNotifications)
}
