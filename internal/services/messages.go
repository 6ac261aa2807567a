package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/metrics"
	"github.com/shram-daan/shramdaan/internal/storage"
	"github.com/shram-daan/shramdaan/internal/types"
)

// Publisher fans a stored message out to live subscribers of its project.
type Publisher interface {
	Publish(projectID string, message storage.MessageWithSender)
}

type MessageService struct {
	store     storage.Storage
	publisher Publisher
	log       zerolog.Logger
}

// NewMessageService returns a MessageService. publisher may be nil.
func NewMessageService(store storage.Storage, publisher Publisher, log zerolog.Logger) *MessageService {
	return &MessageService{
		store:     store,
		publisher: publisher,
		log:       log.With().Str("service", "messages").Logger(),
	}
}

func (s *MessageService) List(ctx context.Context, projectID string) ([]storage.MessageWithSender, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	return s.store.ListMessages(ctx, projectID)
}

// Post appends a message to an active project's chat.
func (s *MessageService) Post(ctx context.Context, projectID, senderID, content string) (*storage.MessageWithSender, error) {
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, types.NewValidationError("content", "must not be empty")
	}

	if utf8.RuneCountInString(content) > types.MaxMessageLength {
		return nil, types.NewValidationError("content", fmt.Sprintf("must be at most %d characters", types.MaxMessageLength))
	}

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsActive {
		return nil, types.ErrNotFound
	}

	message, err := s.store.CreateMessage(ctx, projectID, senderID, content)
	if err != nil {
		return nil, err
	}

	metrics.RecordMessagePosted()

	out := storage.MessageWithSender{Message: *message}
	if sender, err := s.store.GetUser(ctx, senderID); err == nil {
		out.Sender = *sender
	} else {
		s.log.Warn().Err(err).Str("sender_id", senderID).Msg("failed to load message sender")
	}

	if s.publisher != nil {
		s.publisher.Publish(projectID, out)
	}

	return &out, nil
}
