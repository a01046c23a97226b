package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/easeaico/mindcare/internal/chat"
	"github.com/easeaico/mindcare/internal/types"
)

// sessionModel maps to the chat_sessions table.
type sessionModel struct {
	ID           int    `gorm:"primaryKey"`
	SessionID    string `gorm:"size:64;uniqueIndex;not null"`
	UserIP       string `gorm:"size:255"`
	CreatedAt    time.Time
	LastActiveAt time.Time
}

func (sessionModel) TableName() string {
	return "chat_sessions"
}

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo returns a chat.SessionRepo.
func NewSessionRepo(db *gorm.DB) chat.SessionRepo {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *types.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}
	record := sessionModel{
		SessionID:    session.SessionID,
		UserIP:       session.UserIP,
		CreatedAt:    session.CreatedAt,
		LastActiveAt: session.LastActiveAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	session.ID = record.ID
	return nil
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*types.Session, error) {
	var record sessionModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Limit(1).
		Find(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &types.Session{
		ID:           record.ID,
		SessionID:    record.SessionID,
		UserIP:       record.UserIP,
		CreatedAt:    record.CreatedAt,
		LastActiveAt: record.LastActiveAt,
	}, nil
}

func (r *sessionRepo) Touch(ctx context.Context, sessionID string, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_id = ?", sessionID).
		Update("last_active_at", at).Error; err != nil {
		return fmt.Errorf("failed to update session activity: %w", err)
	}
	return nil
}
