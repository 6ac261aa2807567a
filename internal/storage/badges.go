package storage

import (
	"context"

	"github.com/shram-daan/shramdaan/internal/models"
)

func (d *Database) ListUserBadges(ctx context.Context, userID string) ([]models.UserBadge, error) {
	badges := []models.UserBadge{}

	err := d.conn(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&badges).Error

	if err != nil {
		return nil, wrap("list badges", err)
	}

	return badges, nil
}

// AwardBadge appends a badge. Repeated awards of the same type are kept.
func (d *Database) AwardBadge(ctx context.Context, userID, badgeType, badgeName string) (*models.UserBadge, error) {
	badge := models.UserBadge{
		UserID:    userID,
		BadgeType: badgeType,
		BadgeName: badgeName,
	}

	if err := d.conn(ctx).Create(&badge).Error; err != nil {
		return nil, wrap("award badge", err)
	}

	return &badge, nil
}
