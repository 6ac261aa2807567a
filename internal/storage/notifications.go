package storage

import (
	"context"

	"github.com/shram-daan/shramdaan/internal/models"
	"gorm.io/gorm/clause"
)

func (d *Database) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications := []models.Notification{}

	err := d.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error

	if err != nil {
		return nil, wrap("list notifications", err)
	}

	return notifications, nil
}

func (d *Database) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification

	if err := d.conn(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, wrap("get notification", err)
	}

	return &notification, nil
}

func (d *Database) CreateNotification(ctx context.Context, notification models.Notification) (*models.Notification, error) {
	notification.IsRead = false

	if err := d.conn(ctx).Omit(clause.Associations).Create(&notification).Error; err != nil {
		return nil, wrap("create notification", err)
	}

	return &notification, nil
}

// MarkNotificationRead flips is_read; unknown or already read ids are a no-op.
func (d *Database) MarkNotificationRead(ctx context.Context, id string) error {
	err := d.conn(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true).Error

	return wrap("mark notification read", err)
}

func (d *Database) HasNotification(ctx context.Context, userID, projectID, notificationType string) (bool, error) {
	var count int64

	err := d.conn(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND related_project_id = ? AND type = ?", userID, projectID, notificationType).
		Count(&count).Error

	if err != nil {
		return false, wrap("find notification", err)
	}

	return count > 0, nil
}
