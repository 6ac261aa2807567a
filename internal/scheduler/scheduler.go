// Package scheduler runs periodic background jobs such as project reminders.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/metrics"
	"github.com/shram-daan/shramdaan/internal/models"
	"github.com/shram-daan/shramdaan/internal/storage"
)

const (
	shutdownTimeout = 30 * time.Second
	jobTimeout      = 5 * time.Minute
)

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

type Scheduler struct {
	cron     *cron.Cron
	store    storage.Storage
	schedule string
	window   time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewScheduler returns a Scheduler that reminds volunteers of projects
// starting within window, checking on the given cron schedule.
func NewScheduler(store storage.Storage, schedule string, window time.Duration, log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	logger := cronLogger{log: log}

	return &Scheduler{
		cron:     cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		store:    store,
		schedule: schedule,
		window:   window,
		log:      log,
		now:      time.Now,
	}
}

// Start registers the reminder job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if _, err := s.RunReminders(ctx); err != nil {
			s.log.Error().Err(err).Msg("reminder run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminders %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Dur("window", s.window).Msg("scheduler started")

	return nil
}

// Stop waits for a running job to finish, up to a timeout.
func (s *Scheduler) Stop() {
	ctx, cancel := context.WithTimeout(s.cron.Stop(), shutdownTimeout)
	defer cancel()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunReminders creates one reminder per attendee of every active project
// starting within the window. Attendees already reminded are skipped. It
// returns the number of reminders created.
func (s *Scheduler) RunReminders(ctx context.Context) (int, error) {
	from := s.now()

	projects, err := s.store.ListUpcomingProjects(ctx, from, from.Add(s.window))
	if err != nil {
		return 0, err
	}

	created := 0

	for _, project := range projects {
		for _, rsvp := range project.Rsvps {
			if rsvp.Status != models.RsvpStatusConfirmed {
				continue
			}

			sent, err := s.store.HasNotification(ctx, rsvp.UserID, project.ID, models.NotificationTypeProjectReminder)
			if err != nil {
				return created, err
			}
			if sent {
				continue
			}

			projectID := project.ID
			_, err = s.store.CreateNotification(ctx, models.Notification{
				UserID:           rsvp.UserID,
				Title:            "Upcoming Project",
				Message:          fmt.Sprintf("%s starts %s at %s", project.Title, project.DateTime.UTC().Format("Mon 2 Jan 15:04 MST"), project.Location),
				Type:             models.NotificationTypeProjectReminder,
				RelatedProjectID: &projectID,
			})
			if err != nil {
				metrics.RecordNotificationFailure(models.NotificationTypeProjectReminder)
				s.log.Warn().Err(err).Str("project_id", projectID).Str("user_id", rsvp.UserID).Msg("failed to create reminder")
				continue
			}

			metrics.RecordReminder()
			created++
		}
	}

	if created > 0 {
		s.log.Info().Int("reminders", created).Msg("project reminders sent")
	}

	return created, nil
}
