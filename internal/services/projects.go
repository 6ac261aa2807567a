package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/metrics"
	"github.com/shram-daan/shramdaan/internal/models"
	"github.com/shram-daan/shramdaan/internal/storage"
	"github.com/shram-daan/shramdaan/internal/types"
	"gorm.io/datatypes"
)

// CreateProjectInput is the payload accepted when a project is created. The
// organizer always comes from the caller, never from the payload.
type CreateProjectInput struct {
	Title         string          `json:"title" validate:"required,max=255"`
	Description   string          `json:"description" validate:"required"`
	Category      models.Category `json:"category" validate:"required,category"`
	Location      string          `json:"location" validate:"required,max=255"`
	Latitude      *float64        `json:"latitude" validate:"omitnil,min=-90,max=90"`
	Longitude     *float64        `json:"longitude" validate:"omitnil,min=-180,max=180"`
	DateTime      time.Time       `json:"dateTime" validate:"required"`
	Duration      *int            `json:"duration" validate:"omitnil,gt=0"`
	MaxVolunteers *int            `json:"maxVolunteers" validate:"omitnil,gt=0"`
	ImageURL      *string         `json:"imageUrl" validate:"omitnil,max=1024"`
	Requirements  *string         `json:"requirements"`
	Provided      *string         `json:"provided"`
	ContactPerson *string         `json:"contactPerson" validate:"omitnil,max=255"`
	ContactPhone  *string         `json:"contactPhone" validate:"omitnil,max=64"`
}

func (in *CreateProjectInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Category = models.Category(strings.TrimSpace(string(in.Category)))
	in.ImageURL = trimPtr(in.ImageURL)
	in.ContactPerson = trimPtr(in.ContactPerson)
	in.ContactPhone = trimPtr(in.ContactPhone)
}

// UpdateProjectInput is a partial update. Nil fields are left as they are.
type UpdateProjectInput struct {
	Title         *string          `json:"title" validate:"omitnil,min=1,max=255"`
	Description   *string          `json:"description" validate:"omitnil,min=1"`
	Category      *models.Category `json:"category" validate:"omitnil,category"`
	Location      *string          `json:"location" validate:"omitnil,min=1,max=255"`
	Latitude      *float64         `json:"latitude" validate:"omitnil,min=-90,max=90"`
	Longitude     *float64         `json:"longitude" validate:"omitnil,min=-180,max=180"`
	DateTime      *time.Time       `json:"dateTime"`
	Duration      *int             `json:"duration" validate:"omitnil,gt=0"`
	MaxVolunteers *int             `json:"maxVolunteers" validate:"omitnil,gt=0"`
	ImageURL      *string          `json:"imageUrl" validate:"omitnil,max=1024"`
	Requirements  *string          `json:"requirements"`
	Provided      *string          `json:"provided"`
	ContactPerson *string          `json:"contactPerson" validate:"omitnil,max=255"`
	ContactPhone  *string          `json:"contactPhone" validate:"omitnil,max=64"`
}

func (in *UpdateProjectInput) normalize() {
	in.Title = trimPtr(in.Title)
	in.Description = trimPtr(in.Description)
	in.Location = trimPtr(in.Location)
	in.ImageURL = trimPtr(in.ImageURL)
	in.ContactPerson = trimPtr(in.ContactPerson)
	in.ContactPhone = trimPtr(in.ContactPhone)

	if in.Category != nil {
		c := models.Category(strings.TrimSpace(string(*in.Category)))
		in.Category = &c
	}
}

// fields maps the supplied values to their column names.
func (in *UpdateProjectInput) fields() map[string]interface{} {
	updates := make(map[string]interface{})

	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Latitude != nil {
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		updates["longitude"] = *in.Longitude
	}
	if in.DateTime != nil {
		updates["date_time"] = *in.DateTime
	}
	if in.Duration != nil {
		updates["duration"] = *in.Duration
	}
	if in.MaxVolunteers != nil {
		updates["max_volunteers"] = *in.MaxVolunteers
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.Requirements != nil {
		updates["requirements"] = *in.Requirements
	}
	if in.Provided != nil {
		updates["provided"] = *in.Provided
	}
	if in.ContactPerson != nil {
		updates["contact_person"] = *in.ContactPerson
	}
	if in.ContactPhone != nil {
		updates["contact_phone"] = *in.ContactPhone
	}

	return updates
}

// ProjectService owns the project and RSVP rules.
type ProjectService struct {
	store storage.Storage
	log   zerolog.Logger
}

func NewProjectService(store storage.Storage, log zerolog.Logger) *ProjectService {
	return &ProjectService{
		store: store,
		log:   log.With().Str("service", "projects").Logger(),
	}
}

func (s *ProjectService) List(ctx context.Context, filter storage.ProjectFilter) ([]storage.ProjectWithDetails, error) {
	return s.store.ListProjects(ctx, filter)
}

// Get returns a project by id whether or not it is still active.
func (s *ProjectService) Get(ctx context.Context, projectID string) (*storage.ProjectWithDetails, error) {
	return s.store.GetProjectDetails(ctx, projectID)
}

func (s *ProjectService) ListAttendees(ctx context.Context, projectID string) ([]storage.RsvpWithUser, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	return s.store.ListProjectRsvps(ctx, projectID)
}

func (s *ProjectService) ListForUser(ctx context.Context, userID string) ([]models.Project, error) {
	return s.store.ListUserProjects(ctx, userID)
}

func (s *ProjectService) ListUserRsvps(ctx context.Context, userID string) ([]storage.RsvpWithProject, error) {
	return s.store.ListUserRsvps(ctx, userID)
}

func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput, organizerID string) (*models.Project, error) {
	in.normalize()

	if err := validateStruct(in); err != nil {
		return nil, err
	}

	project, err := s.store.CreateProject(ctx, models.Project{
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		Location:      in.Location,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		DateTime:      in.DateTime,
		Duration:      in.Duration,
		MaxVolunteers: in.MaxVolunteers,
		OrganizerID:   organizerID,
		ImageURL:      in.ImageURL,
		Requirements:  in.Requirements,
		Provided:      in.Provided,
		ContactPerson: in.ContactPerson,
		ContactPhone:  in.ContactPhone,
		IsActive:      true,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("project_id", project.ID).Str("organizer_id", organizerID).Msg("project created")

	return project, nil
}

// authorize loads the project and checks that callerID organizes it.
func (s *ProjectService) authorize(ctx context.Context, projectID, callerID string) (*models.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.OrganizerID != callerID {
		return nil, types.ErrForbidden
	}

	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, projectID string, in UpdateProjectInput, callerID string) (*models.Project, error) {
	if _, err := s.authorize(ctx, projectID, callerID); err != nil {
		return nil, err
	}

	in.normalize()

	if err := validateStruct(in); err != nil {
		return nil, err
	}

	updates := in.fields()
	if len(updates) == 0 {
		return nil, types.NewValidationError("body", "no valid fields to update")
	}

	return s.store.UpdateProject(ctx, projectID, updates)
}

// Delete deactivates the project. Its RSVPs and messages are kept.
func (s *ProjectService) Delete(ctx context.Context, projectID, callerID string) error {
	if _, err := s.authorize(ctx, projectID, callerID); err != nil {
		return err
	}

	if err := s.store.SoftDeleteProject(ctx, projectID); err != nil {
		return err
	}

	s.log.Info().Str("project_id", projectID).Msg("project deactivated")

	return nil
}

// Join reserves a place for userID. The existence, duplicate and capacity
// checks run under a lock on the project row in the same transaction as the
// insert, and the unique (project, user) index backs the duplicate check.
func (s *ProjectService) Join(ctx context.Context, projectID, userID string) (*models.Rsvp, error) {
	var (
		rsvp    *models.Rsvp
		project *models.Project
	)

	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		p, err := tx.LockProject(ctx, projectID)
		if err != nil {
			return err
		}

		if !p.IsActive {
			return types.ErrNotFound
		}

		if _, err := tx.GetRsvp(ctx, projectID, userID); err == nil {
			return types.ErrConflict
		} else if !errors.Is(err, types.ErrNotFound) {
			return err
		}

		confirmed, err := tx.CountProjectRsvps(ctx, projectID)
		if err != nil {
			return err
		}

		if !p.HasCapacityFor(confirmed) {
			return types.ErrCapacityExceeded
		}

		if rsvp, err = tx.CreateRsvp(ctx, projectID, userID); err != nil {
			return err
		}

		project = p
		return nil
	})

	metrics.RecordJoin(joinResult(err))

	if err != nil {
		return nil, err
	}

	s.notifyOrganizer(ctx, project, userID)

	return rsvp, nil
}

func joinResult(err error) string {
	switch {
	case err == nil:
		return metrics.JoinOK
	case errors.Is(err, types.ErrConflict):
		return metrics.JoinConflict
	case errors.Is(err, types.ErrCapacityExceeded):
		return metrics.JoinFull
	case errors.Is(err, types.ErrNotFound):
		return metrics.JoinNotFound
	default:
		return metrics.JoinError
	}
}

// notifyOrganizer tells the organizer about a new volunteer. The RSVP is
// already committed; a failure here is logged and counted only.
func (s *ProjectService) notifyOrganizer(ctx context.Context, project *models.Project, volunteerID string) {
	name := "Someone"
	if volunteer, err := s.store.GetUser(ctx, volunteerID); err == nil {
		name = volunteer.DisplayName()
	}

	data, _ := json.Marshal(map[string]string{"volunteerId": volunteerID})

	_, err := s.store.CreateNotification(ctx, models.Notification{
		UserID:           project.OrganizerID,
		Title:            "New Volunteer Joined",
		Message:          name + " joined your project: " + project.Title,
		Type:             models.NotificationTypeRsvpConfirmation,
		RelatedProjectID: &project.ID,
		Data:             datatypes.JSON(data),
	})

	if err != nil {
		metrics.RecordNotificationFailure(models.NotificationTypeRsvpConfirmation)
		s.log.Warn().
			Err(err).
			Str("project_id", project.ID).
			Str("organizer_id", project.OrganizerID).
			Str("volunteer_id", volunteerID).
			Msg("failed to notify organizer of new volunteer")
	}
}

// Cancel removes the caller's RSVP. Cancelling without one succeeds.
func (s *ProjectService) Cancel(ctx context.Context, projectID, userID string) error {
	return s.store.DeleteRsvp(ctx, projectID, userID)
}
