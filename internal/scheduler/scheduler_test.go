package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/models"
	"github.com/shram-daan/shramdaan/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRemindersOncePerAttendee(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	storagetest.CreateUser(t, store, "org")
	storagetest.CreateUser(t, store, "vol1")
	storagetest.CreateUser(t, store, "vol2")

	now := time.Now()

	soon, err := store.CreateProject(ctx, models.Project{
		Title: "Tree Planting", Description: "Saplings", Category: models.CategoryTreePlanting,
		Location: "Ridge Park", DateTime: now.Add(6 * time.Hour), OrganizerID: "org", IsActive: true,
	})
	require.NoError(t, err)

	later := storagetest.CreateProject(t, store, "org", "Next Week", nil)

	for _, id := range []string{"vol1", "vol2"} {
		_, err := store.CreateRsvp(ctx, soon.ID, id)
		require.NoError(t, err)
	}
	_, err = store.CreateRsvp(ctx, later.ID, "vol1")
	require.NoError(t, err)

	s := NewScheduler(store, "@hourly", 24*time.Hour, zerolog.Nop())
	s.now = func() time.Time { return now }

	created, err := s.RunReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = s.RunReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, created, "reminders are not repeated")

	list, err := store.ListNotifications(ctx, "vol1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationTypeProjectReminder, list[0].Type)
	require.NotNil(t, list[0].RelatedProjectID)
	assert.Equal(t, soon.ID, *list[0].RelatedProjectID)
	assert.Contains(t, list[0].Message, "Tree Planting")

	organizer, err := store.ListNotifications(ctx, "org")
	require.NoError(t, err)
	assert.Empty(t, organizer)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(storagetest.New(t), "every now and then", time.Hour, zerolog.Nop())
	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(storagetest.New(t), "@every 1h", time.Hour, zerolog.Nop())
	require.NoError(t, s.Start())
	s.Stop()
}
