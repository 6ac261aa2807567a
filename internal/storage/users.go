package storage

import (
	"context"

	"github.com/shram-daan/shramdaan/internal/models"
	"gorm.io/gorm/clause"
)

func (d *Database) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	if err := d.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap("get user", err)
	}

	return &user, nil
}

func (d *Database) UpsertUser(ctx context.Context, in UserUpsert) (*models.User, error) {
	user := models.User{BaseModel: models.BaseModel{ID: in.ID}, Email: in.Email}
	columns := []string{"updated_at"}

	if in.Email != nil {
		columns = append(columns, "email")
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
		columns = append(columns, "first_name")
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
		columns = append(columns, "last_name")
	}
	if in.ProfileImageURL != nil {
		user.ProfileImageURL = *in.ProfileImageURL
		columns = append(columns, "profile_image_url")
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
		columns = append(columns, "bio")
	}
	if in.Location != nil {
		user.Location = *in.Location
		columns = append(columns, "location")
	}

	err := d.conn(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&user).Error

	if err != nil {
		return nil, wrap("upsert user", err)
	}

	return d.GetUser(ctx, in.ID)
}

func (d *Database) GetUserWithStats(ctx context.Context, id string) (*UserWithStats, error) {
	user, err := d.GetUser(ctx, id)

	if err != nil {
		return nil, err
	}

	stats := UserWithStats{User: *user}
	conn := d.conn(ctx)

	if err := conn.Model(&models.Project{}).Where("organizer_id = ?", id).Count(&stats.Count.OrganizedProjects).Error; err != nil {
		return nil, wrap("count organized projects", err)
	}

	if err := conn.Model(&models.Rsvp{}).Where("user_id = ?", id).Count(&stats.Count.Rsvps).Error; err != nil {
		return nil, wrap("count rsvps", err)
	}

	if err := conn.Model(&models.UserBadge{}).Where("user_id = ?", id).Count(&stats.Count.Badges).Error; err != nil {
		return nil, wrap("count badges", err)
	}

	if stats.Badges, err = d.ListUserBadges(ctx, id); err != nil {
		return nil, err
	}

	return &stats, nil
}
