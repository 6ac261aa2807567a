package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeRsvpConfirmation = "rsvp_confirmation"
	NotificationTypeProjectReminder  = "project_reminder"
	NotificationTypeProjectUpdate    = "project_update"
)

type Notification struct {
	ID               string         `gorm:"primaryKey;size:64" json:"id"`
	UserID           string         `gorm:"size:64;not null;index" json:"userId"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Message          string         `gorm:"type:text;not null" json:"message"`
	Type             string         `gorm:"size:50;not null" json:"type"`
	IsRead           bool           `gorm:"not null;default:false" json:"isRead"`
	RelatedProjectID *string        `gorm:"size:64;index" json:"relatedProjectId"`
	Data             datatypes.JSON `json:"data,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`

	// Relationships
	RelatedProject *Project `gorm:"foreignKey:RelatedProjectID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
