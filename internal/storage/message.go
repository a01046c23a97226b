package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/easeaico/mindcare/internal/chat"
	"github.com/easeaico/mindcare/internal/types"
)

// messageModel maps to the chat_messages table. SessionID references chat_sessions.id.
type messageModel struct {
	ID              int    `gorm:"primaryKey"`
	SessionID       int    `gorm:"index;not null"`
	MessageType     string `gorm:"size:16;not null"`
	MessageText     string `gorm:"type:text;not null"`
	DetectedMood    string `gorm:"size:32;default:'neutral'"`
	ConfidenceScore float64
	CreatedAt       time.Time
}

func (messageModel) TableName() string {
	return "chat_messages"
}

type messageRepo struct {
	db *gorm.DB
}

// NewMessageRepo returns a chat.MessageRepo.
func NewMessageRepo(db *gorm.DB) chat.MessageRepo {
	return &messageRepo{db: db}
}

func (r *messageRepo) Add(ctx context.Context, msg *types.ChatMessage) error {
	if msg == nil {
		return fmt.Errorf("message cannot be nil")
	}
	record := messageModel{
		SessionID:       msg.SessionPK,
		MessageType:     msg.MessageType,
		MessageText:     msg.MessageText,
		DetectedMood:    msg.DetectedMood,
		ConfidenceScore: msg.ConfidenceScore,
		CreatedAt:       msg.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	msg.ID = record.ID
	return nil
}

func (r *messageRepo) ListBySession(ctx context.Context, sessionPK int, limit int) ([]types.ChatMessage, error) {
	var records []messageModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionPK).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}

	results := make([]types.ChatMessage, 0, len(records))
	for _, record := range records {
		results = append(results, messageFromModel(record))
	}

	// Oldest -> newest
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

func messageFromModel(model messageModel) types.ChatMessage {
	return types.ChatMessage{
		ID:              model.ID,
		SessionPK:       model.SessionID,
		MessageType:     model.MessageType,
		MessageText:     model.MessageText,
		DetectedMood:    model.DetectedMood,
		ConfidenceScore: model.ConfidenceScore,
		CreatedAt:       model.CreatedAt,
	}
}
