package services

import (
	"context"
	"errors"

	"github.com/shram-daan/shramdaan/internal/models"
	"github.com/shram-daan/shramdaan/internal/storage"
	"github.com/shram-daan/shramdaan/internal/types"
)

type NotificationService struct {
	store storage.Storage
}

func NewNotificationService(store storage.Storage) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.store.ListNotifications(ctx, userID)
}

// MarkRead marks one of userID's notifications as read. Unknown ids and
// notifications addressed to someone else are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	notification, err := s.store.GetNotification(ctx, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if notification.UserID != userID || notification.IsRead {
		return nil
	}

	return s.store.MarkNotificationRead(ctx, id)
}
