package services_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/services"
	"github.com/shram-daan/shramdaan/internal/storage"
	"github.com/shram-daan/shramdaan/internal/storage/storagetest"
	"github.com/shram-daan/shramdaan/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCreatesOnFirstSight(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	svc := services.NewUserService(store, zerolog.Nop())

	user, err := svc.Resolve(ctx, services.Identity{ID: "ext-1", Email: "Meera@Example.org", FirstName: "Meera"})
	require.NoError(t, err)
	assert.Equal(t, "ext-1", user.ID)
	require.NotNil(t, user.Email)
	assert.Equal(t, "meera@example.org", *user.Email)

	renamed := "Meera K"
	_, err = svc.UpdateProfile(ctx, "ext-1", services.ProfileInput{FirstName: &renamed})
	require.NoError(t, err)

	again, err := svc.Resolve(ctx, services.Identity{ID: "ext-1", Email: "meera@example.org", FirstName: "Meera"})
	require.NoError(t, err)
	assert.Equal(t, "Meera K", again.FirstName, "profile edits survive later sign-ins")
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	storagetest.CreateUser(t, store, "u1")
	svc := services.NewUserService(store, zerolog.Nop())

	bio := "  Retired nurse  "
	location := "Pune"
	user, err := svc.UpdateProfile(ctx, "u1", services.ProfileInput{Bio: &bio, Location: &location})
	require.NoError(t, err)
	assert.Equal(t, "Retired nurse", user.Bio)
	assert.Equal(t, "Pune", user.Location)
	assert.Equal(t, "User", user.FirstName)

	var validation *types.ValidationError
	_, err = svc.UpdateProfile(ctx, "u1", services.ProfileInput{})
	require.ErrorAs(t, err, &validation)

	_, err = svc.UpdateProfile(ctx, "ghost", services.ProfileInput{Bio: &bio})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = store.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, types.ErrNotFound, "profile edits never create users")
}

func TestProfileStats(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	storagetest.CreateUser(t, store, "u1")
	storagetest.CreateUser(t, store, "u2")
	svc := services.NewUserService(store, zerolog.Nop())
	projects := services.NewProjectService(store, zerolog.Nop())

	for _, title := range []string{"A", "B", "C"} {
		p := storagetest.CreateProject(t, store, "u2", title, nil)
		_, err := projects.Join(ctx, p.ID, "u1")
		require.NoError(t, err)
	}
	storagetest.CreateProject(t, store, "u1", "Mine 1", nil)
	storagetest.CreateProject(t, store, "u1", "Mine 2", nil)

	_, err := svc.AwardBadge(ctx, "u1", "first_rsvp", "First Step")
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, storage.UserCounts{OrganizedProjects: 2, Rsvps: 3, Badges: 1}, profile.Count)

	badges, err := svc.Badges(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "first_rsvp", badges[0].BadgeType)

	_, err = svc.AwardBadge(ctx, "ghost", "first_rsvp", "First Step")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSignInWithTakenEmail(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	storagetest.CreateUser(t, store, "u1")
	svc := services.NewUserService(store, zerolog.Nop())

	user, err := svc.Resolve(ctx, services.Identity{ID: "ext-2", Email: "U1@example.org", FirstName: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "ext-2", user.ID)
	assert.Equal(t, "Asha", user.FirstName)
	assert.Nil(t, user.Email, "the email stays with its first owner")

	owner, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, owner.Email)
	assert.Equal(t, "u1@example.org", *owner.Email)

	again, err := svc.Resolve(ctx, services.Identity{ID: "ext-2", Email: "u1@example.org"})
	require.NoError(t, err)
	assert.Equal(t, "ext-2", again.ID)
}
