package service

import (
	"context"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/repository"
)

// ListNotifications returns userID's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	limit = clampLimit(limit, DefaultNotificationLimit)

	var notifications []domain.Notification
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		notifications, err = q.GetNotifications(ctx, userID, limit)
		return err
	})
	return notifications, err
}

// MarkNotificationsRead flags every unread notification of userID as read
// and returns how many changed.
func (s *Service) MarkNotificationsRead(ctx context.Context, userID string) (int64, error) {
	var updated int64
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		var err error
		updated, err = q.MarkNotificationsRead(ctx, userID)
		return err
	})
	return updated, err
}
