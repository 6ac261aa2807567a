package storage

import (
	"context"
	"strings"

	"github.com/shram-daan/shramdaan/internal/models"
	"github.com/shram-daan/shramdaan/internal/types"
	"gorm.io/gorm/clause"
)

func (d *Database) ListMessages(ctx context.Context, projectID string) ([]MessageWithSender, error) {
	var messages []models.Message

	err := d.conn(ctx).
		Preload("Sender").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&messages).Error

	if err != nil {
		return nil, wrap("list messages", err)
	}

	result := make([]MessageWithSender, 0, len(messages))
	for _, m := range messages {
		entry := MessageWithSender{Message: m}
		if m.Sender != nil {
			entry.Sender = *m.Sender
		}
		entry.Message.Sender = nil
		result = append(result, entry)
	}

	return result, nil
}

func (d *Database) CreateMessage(ctx context.Context, projectID, senderID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, types.NewValidationError("content", "must not be empty")
	}

	message := models.Message{
		ProjectID: projectID,
		SenderID:  senderID,
		Content:   content,
	}

	if err := d.conn(ctx).Omit(clause.Associations).Create(&message).Error; err != nil {
		return nil, wrap("create message", err)
	}

	return &message, nil
}
