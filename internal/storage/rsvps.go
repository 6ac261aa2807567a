package storage

import (
	"context"

	"github.com/shram-daan/shramdaan/internal/models"
	"gorm.io/gorm/clause"
)

// CreateRsvp inserts a confirmed RSVP. Capacity and duplicate rules belong to
// the caller; the unique index still rejects a second row for the same pair.
func (d *Database) CreateRsvp(ctx context.Context, projectID, userID string) (*models.Rsvp, error) {
	rsvp := models.Rsvp{
		ProjectID: projectID,
		UserID:    userID,
		Status:    models.RsvpStatusConfirmed,
	}

	if err := d.conn(ctx).Omit(clause.Associations).Create(&rsvp).Error; err != nil {
		return nil, wrap("create rsvp", err)
	}

	return &rsvp, nil
}

func (d *Database) GetRsvp(ctx context.Context, projectID, userID string) (*models.Rsvp, error) {
	var rsvp models.Rsvp

	if err := d.conn(ctx).First(&rsvp, "project_id = ? AND user_id = ?", projectID, userID).Error; err != nil {
		return nil, wrap("get rsvp", err)
	}

	return &rsvp, nil
}

func (d *Database) DeleteRsvp(ctx context.Context, projectID, userID string) error {
	err := d.conn(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.Rsvp{}).Error

	return wrap("delete rsvp", err)
}

func (d *Database) CountProjectRsvps(ctx context.Context, projectID string) (int64, error) {
	var count int64

	err := d.conn(ctx).
		Model(&models.Rsvp{}).
		Where("project_id = ? AND status = ?", projectID, models.RsvpStatusConfirmed).
		Count(&count).Error

	if err != nil {
		return 0, wrap("count project rsvps", err)
	}

	return count, nil
}

func (d *Database) ListProjectRsvps(ctx context.Context, projectID string) ([]RsvpWithUser, error) {
	var rsvps []models.Rsvp

	err := d.conn(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&rsvps).Error

	if err != nil {
		return nil, wrap("list project rsvps", err)
	}

	result := make([]RsvpWithUser, 0, len(rsvps))
	for _, r := range rsvps {
		entry := RsvpWithUser{Rsvp: r}
		if r.User != nil {
			entry.User = *r.User
		}
		entry.Rsvp.User = nil
		result = append(result, entry)
	}

	return result, nil
}

func (d *Database) ListUserRsvps(ctx context.Context, userID string) ([]RsvpWithProject, error) {
	var rsvps []models.Rsvp

	err := d.conn(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rsvps).Error

	if err != nil {
		return nil, wrap("list user rsvps", err)
	}

	result := make([]RsvpWithProject, 0, len(rsvps))
	for _, r := range rsvps {
		entry := RsvpWithProject{Rsvp: r}
		if r.Project != nil {
			entry.Project = *r.Project
		}
		entry.Rsvp.Project = nil
		result = append(result, entry)
	}

	return result, nil
}
