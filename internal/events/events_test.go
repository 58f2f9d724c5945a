package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEventSubject(t *testing.T) {
	assert.Equal(t, "social.like", Event{Type: domain.NotificationLike}.Subject())
	assert.Equal(t, "social.follow", Event{Type: domain.NotificationFollow}.Subject())
}

func TestNATSPublisher_RoundTrip(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set")
	}

	p, err := NewNATSPublisher(url, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	received := make(chan Event, 1)
	sub, err := p.Subscribe(func(e Event) { received <- e })
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, p.conn.Flush())

	sent := Event{
		Type:        domain.NotificationComment,
		ActorID:     "actor",
		RecipientID: "author",
		PostID:      "post",
		CommentID:   "comment",
		OccurredAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), sent))

	select {
	case got := <-received:
		assert.Equal(t, sent, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}
