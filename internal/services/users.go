package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/models"
	"github.com/shram-daan/shramdaan/internal/storage"
	"github.com/shram-daan/shramdaan/internal/types"
)

// Identity is what the identity provider tells us about a signed-in user.
type Identity struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
}

// ProfileInput is a partial profile edit.
type ProfileInput struct {
	FirstName       *string `json:"firstName" validate:"omitnil,max=255"`
	LastName        *string `json:"lastName" validate:"omitnil,max=255"`
	Bio             *string `json:"bio" validate:"omitnil,max=2000"`
	Location        *string `json:"location" validate:"omitnil,max=255"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitnil,max=1024"`
}

type UserService struct {
	store storage.Storage
	log   zerolog.Logger
}

func NewUserService(store storage.Storage, log zerolog.Logger) *UserService {
	return &UserService{
		store: store,
		log:   log.With().Str("service", "users").Logger(),
	}
}

// Resolve returns the stored user for id, creating it from the identity on
// first sight. Existing profiles are not overwritten.
func (s *UserService) Resolve(ctx context.Context, id Identity) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id.ID)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	return s.SignIn(ctx, id)
}

// SignIn upserts the user from identity claims. Empty claims leave the
// stored values alone, as does an email taken by another user.
func (s *UserService) SignIn(ctx context.Context, id Identity) (*models.User, error) {
	if strings.TrimSpace(id.ID) == "" {
		return nil, types.NewValidationError("id", "is required")
	}

	in := storage.UserUpsert{ID: id.ID}

	if email := strings.ToLower(strings.TrimSpace(id.Email)); email != "" {
		in.Email = &email
	}
	if id.FirstName != "" {
		in.FirstName = &id.FirstName
	}
	if id.LastName != "" {
		in.LastName = &id.LastName
	}
	if id.ProfileImageURL != "" {
		in.ProfileImageURL = &id.ProfileImageURL
	}

	user, err := s.store.UpsertUser(ctx, in)

	// Another account already holds the email. Sign in without it rather
	// than locking this identity out.
	if errors.Is(err, types.ErrConflict) && in.Email != nil {
		s.log.Warn().Str("user_id", id.ID).Msg("email already belongs to another user; signing in without it")
		in.Email = nil
		user, err = s.store.UpsertUser(ctx, in)
	}

	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("user_id", user.ID).Msg("user signed in")

	return user, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*storage.UserWithStats, error) {
	return s.store.GetUserWithStats(ctx, userID)
}

func (s *UserService) Badges(ctx context.Context, userID string) ([]models.UserBadge, error) {
	return s.store.ListUserBadges(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	in.FirstName = trimPtr(in.FirstName)
	in.LastName = trimPtr(in.LastName)
	in.Bio = trimPtr(in.Bio)
	in.Location = trimPtr(in.Location)
	in.ProfileImageURL = trimPtr(in.ProfileImageURL)

	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if in.FirstName == nil && in.LastName == nil && in.Bio == nil && in.Location == nil && in.ProfileImageURL == nil {
		return nil, types.NewValidationError("body", "no valid fields to update")
	}

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	return s.store.UpsertUser(ctx, storage.UserUpsert{
		ID:              userID,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Bio:             in.Bio,
		Location:        in.Location,
		ProfileImageURL: in.ProfileImageURL,
	})
}

// AwardBadge records a badge for userID.
func (s *UserService) AwardBadge(ctx context.Context, userID, badgeType, badgeName string) (*models.UserBadge, error) {
	badgeType = strings.TrimSpace(badgeType)
	badgeName = strings.TrimSpace(badgeName)

	if badgeType == "" || badgeName == "" {
		return nil, types.NewValidationError("badgeType", "badge type and name are required")
	}

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	badge, err := s.store.AwardBadge(ctx, userID, badgeType, badgeName)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Str("badge_type", badgeType).Msg("badge awarded")

	return badge, nil
}
