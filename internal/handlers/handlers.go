package handlers

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/realtime"
	"github.com/shram-daan/shramdaan/internal/services"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the JSON API on top of the services.
type Handler struct {
	db            Pinger
	projects      *services.ProjectService
	messages      *services.MessageService
	notifications *services.NotificationService
	users         *services.UserService
	hub           *realtime.Hub
	log           zerolog.Logger
}

func New(
	db Pinger,
	projects *services.ProjectService,
	messages *services.MessageService,
	notifications *services.NotificationService,
	users *services.UserService,
	hub *realtime.Hub,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		db:            db,
		projects:      projects,
		messages:      messages,
		notifications: notifications,
		users:         users,
		hub:           hub,
		log:           log.With().Str("component", "http").Logger(),
	}
}
