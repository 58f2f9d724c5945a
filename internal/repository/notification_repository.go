package repository

import (
	"context"

	"github.com/Tetsu-is/social-graph/internal/domain"
)

type NotificationRepository struct {
	conn DBTX
}

func NewNotificationRepository(conn DBTX) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	_, err := r.conn.Exec(ctx,
		`INSERT INTO notifications (id, user_id, actor_id, type, post_id, comment_id, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.ActorID, string(n.Type), n.PostID, n.CommentID, n.IsRead, n.CreatedAt,
	)
	return err
}

func (r *NotificationRepository) GetNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT id, user_id, actor_id, type, post_id, comment_id, is_read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &n.ActorID, &typ, &n.PostID, &n.CommentID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(typ)
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *NotificationRepository) MarkNotificationsRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.conn.Exec(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE",
		userID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
