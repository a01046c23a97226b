package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/easeaico/mindcare/internal/chat"
	"github.com/easeaico/mindcare/internal/types"
)

// moodAnalyticsModel maps to the mood_analytics table, one row per session and mood.
type moodAnalyticsModel struct {
	ID        int    `gorm:"primaryKey"`
	SessionID int    `gorm:"not null;uniqueIndex:idx_mood_analytics_session_mood"`
	Mood      string `gorm:"size:32;not null;uniqueIndex:idx_mood_analytics_session_mood"`
	Count     int    `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (moodAnalyticsModel) TableName() string {
	return "mood_analytics"
}

type analyticsRepo struct {
	db *gorm.DB
}

// NewAnalyticsRepo returns a chat.AnalyticsRepo.
func NewAnalyticsRepo(db *gorm.DB) chat.AnalyticsRepo {
	return &analyticsRepo{db: db}
}

// Increment bumps the counter with a single upsert so concurrent requests
// cannot lose updates.
func (r *analyticsRepo) Increment(ctx context.Context, sessionPK int, label string, at time.Time) error {
	record := moodAnalyticsModel{
		SessionID: sessionPK,
		Mood:      label,
		Count:     1,
		UpdatedAt: at,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "mood"}},
			DoUpdates: clause.Assignments(map[string]any{
				"count":      gorm.Expr("mood_analytics.count + 1"),
				"updated_at": at,
			}),
		}).
		Create(&record).Error; err != nil {
		return fmt.Errorf("failed to update mood analytics: %w", err)
	}
	return nil
}

func (r *analyticsRepo) ListBySession(ctx context.Context, sessionPK int) ([]types.MoodCount, error) {
	var records []moodAnalyticsModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionPK).
		Order("count DESC, mood ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query mood analytics: %w", err)
	}

	results := make([]types.MoodCount, 0, len(records))
	for _, record := range records {
		results = append(results, types.MoodCount{
			Mood:      record.Mood,
			Count:     record.Count,
			UpdatedAt: record.UpdatedAt,
		})
	}
	return results, nil
}
