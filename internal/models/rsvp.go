package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RsvpStatusConfirmed = "confirmed"
	RsvpStatusCancelled = "cancelled"
)

// Rsvp is a volunteer's commitment to a project. The (project, user) pair is
// unique.
type Rsvp struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	ProjectID string    `gorm:"size:64;not null;uniqueIndex:idx_rsvp_project_user" json:"projectId"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_rsvp_project_user;index" json:"userId"`
	Status    string    `gorm:"size:20;not null;default:confirmed" json:"status"`
	CreatedAt time.Time `json:"createdAt"`

	// Relationships
	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

func (r *Rsvp) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = RsvpStatusConfirmed
	}
	return nil
}
