package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserBadge struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"size:64;not null;index" json:"userId"`
	BadgeType string    `gorm:"size:50;not null" json:"badgeType"`
	BadgeName string    `gorm:"size:100;not null" json:"badgeName"`
	EarnedAt  time.Time `gorm:"not null" json:"earnedAt"`
}

func (b *UserBadge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.EarnedAt.IsZero() {
		b.EarnedAt = tx.NowFunc()
	}
	return nil
}
