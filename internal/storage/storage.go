// Package storage is the data access layer over the gorm entity store. It
// shapes rows into the read views the API serves and holds no business rules.
package storage

import (
	"context"
	"time"

	"github.com/shram-daan/shramdaan/internal/models"
)

// Storage is the repository contract used by the services. Absent entities
// are reported as errors matching types.ErrNotFound.
type Storage interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpsertUser(ctx context.Context, user UserUpsert) (*models.User, error)
	GetUserWithStats(ctx context.Context, id string) (*UserWithStats, error)

	ListProjects(ctx context.Context, filter ProjectFilter) ([]ProjectWithDetails, error)
	GetProjectDetails(ctx context.Context, id string) (*ProjectWithDetails, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	LockProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, project models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, fields map[string]interface{}) (*models.Project, error)
	SoftDeleteProject(ctx context.Context, id string) error
	ListUserProjects(ctx context.Context, userID string) ([]models.Project, error)
	ListUpcomingProjects(ctx context.Context, from, to time.Time) ([]models.Project, error)

	CreateRsvp(ctx context.Context, projectID, userID string) (*models.Rsvp, error)
	GetRsvp(ctx context.Context, projectID, userID string) (*models.Rsvp, error)
	DeleteRsvp(ctx context.Context, projectID, userID string) error
	CountProjectRsvps(ctx context.Context, projectID string) (int64, error)
	ListProjectRsvps(ctx context.Context, projectID string) ([]RsvpWithUser, error)
	ListUserRsvps(ctx context.Context, userID string) ([]RsvpWithProject, error)

	ListMessages(ctx context.Context, projectID string) ([]MessageWithSender, error)
	CreateMessage(ctx context.Context, projectID, senderID, content string) (*models.Message, error)

	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	CreateNotification(ctx context.Context, notification models.Notification) (*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	HasNotification(ctx context.Context, userID, projectID, notificationType string) (bool, error)

	ListUserBadges(ctx context.Context, userID string) ([]models.UserBadge, error)
	AwardBadge(ctx context.Context, userID, badgeType, badgeName string) (*models.UserBadge, error)

	// Transaction runs fn against a Storage bound to a single database
	// transaction. Returning an error rolls it back.
	Transaction(ctx context.Context, fn func(tx Storage) error) error
}

type ProjectFilter struct {
	Category    string
	Search      string
	OrganizerID string
}

// UserUpsert carries an identity plus the profile fields to write. Nil fields
// are left untouched when the user already exists.
type UserUpsert struct {
	ID              string
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	Bio             *string
	Location        *string
}

type ProjectCounts struct {
	Rsvps int `json:"rsvps"`
}

type RsvpWithUser struct {
	models.Rsvp
	User models.User `json:"user"`
}

type RsvpWithProject struct {
	models.Rsvp
	Project models.Project `json:"project"`
}

type ProjectWithDetails struct {
	models.Project
	Organizer models.User    `json:"organizer"`
	Rsvps     []RsvpWithUser `json:"rsvps"`
	Count     ProjectCounts  `json:"_count"`
}

type MessageWithSender struct {
	models.Message
	Sender models.User `json:"sender"`
}

type UserCounts struct {
	OrganizedProjects int64 `json:"organizedProjects"`
	Rsvps             int64 `json:"rsvps"`
	Badges            int64 `json:"badges"`
}

type UserWithStats struct {
	models.User
	Count  UserCounts         `json:"_count"`
	Badges []models.UserBadge `json:"badges"`
}
