package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const subjectPrefix = "social."

// Event is the payload published after an interaction commits.
type Event struct {
	Type        domain.NotificationType `json:"type"`
	ActorID     string                  `json:"actor_id"`
	RecipientID string                  `json:"recipient_id"`
	PostID      string                  `json:"post_id,omitempty"`
	CommentID   string                  `json:"comment_id,omitempty"`
	OccurredAt  time.Time               `json:"occurred_at"`
}

func (e Event) Subject() string {
	return subjectPrefix + string(e.Type)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

type NATSPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSPublisher(url string, logger *zap.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("social-graph"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	logger.Info("nats connected", zap.String("url", conn.ConnectedUrl()))
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(event.Subject(), payload)
}

// Subscribe delivers every interaction event to handler until the returned
// subscription is drained.
func (p *NATSPublisher) Subscribe(handler func(Event)) (*nats.Subscription, error) {
	return p.conn.Subscribe(subjectPrefix+"*", func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			p.logger.Warn("drop malformed event", zap.String("subject", msg.Subject), zap.Error(err))
			return
		}
		handler(event)
	})
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
