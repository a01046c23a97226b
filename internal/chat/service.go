// Package chat runs a message through the mood engine and records the exchange.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/easeaico/mindcare/internal/mood"
	"github.com/easeaico/mindcare/internal/types"
)

var (
	// ErrMissingFields is returned when the session id or message is empty.
	ErrMissingFields = errors.New("missing required fields: message and session_id")
	// ErrInvalidSession is returned for unknown session ids.
	ErrInvalidSession = errors.New("invalid session")
)

const (
	defaultHistoryLimit    = 50
	defaultMaxMessageRunes = 2000
)

// SessionRepo stores chat sessions.
type SessionRepo interface {
	Create(ctx context.Context, session *types.Session) error
	GetBySessionID(ctx context.Context, sessionID string) (*types.Session, error)
	Touch(ctx context.Context, sessionID string, at time.Time) error
}

// MessageRepo stores chat messages.
type MessageRepo interface {
	Add(ctx context.Context, msg *types.ChatMessage) error
	ListBySession(ctx context.Context, sessionPK int, limit int) ([]types.ChatMessage, error)
}

// AnalyticsRepo counts detected moods per session.
type AnalyticsRepo interface {
	Increment(ctx context.Context, sessionPK int, label string, at time.Time) error
	ListBySession(ctx context.Context, sessionPK int) ([]types.MoodCount, error)
}

// Analyzer is the mood engine as seen by the service.
type Analyzer interface {
	Analyze(ctx context.Context, text string) mood.Result
}

// Reply is what the caller receives for one user message.
type Reply struct {
	Response   string     `json:"response"`
	Mood       mood.Label `json:"mood"`
	Confidence float64    `json:"confidence"`
	IsCrisis   bool       `json:"is_crisis"`
}

// Options tunes the service.
type Options struct {
	HistoryLimit    int
	MaxMessageRunes int
	Now             func() time.Time
	NewID           func() string
}

// Service coordinates sessions, analysis and persistence.
type Service struct {
	analyzer  Analyzer
	sessions  SessionRepo
	messages  MessageRepo
	analytics AnalyticsRepo
	opts      Options
}

// NewService returns a Service.
func NewService(analyzer Analyzer, sessions SessionRepo, messages MessageRepo, analytics AnalyticsRepo, opts Options) *Service {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.MaxMessageRunes <= 0 {
		opts.MaxMessageRunes = defaultMaxMessageRunes
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{
		analyzer:  analyzer,
		sessions:  sessions,
		messages:  messages,
		analytics: analytics,
		opts:      opts,
	}
}

// CreateSession starts a new anonymous session.
func (s *Service) CreateSession(ctx context.Context, userIP string) (*types.Session, error) {
	now := s.opts.Now()
	session := &types.Session{
		SessionID:    s.opts.NewID(),
		UserIP:       userIP,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	slog.Info("session created", "session_id", session.SessionID)
	return session, nil
}

// Send analyzes a user message and records both sides of the exchange.
// Writes after analysis are best-effort; the reply is returned even if they fail.
func (s *Service) Send(ctx context.Context, sessionID, text string) (*Reply, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" || strings.TrimSpace(text) == "" {
		return nil, ErrMissingFields
	}

	session, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.opts.Now()
	if err := s.sessions.Touch(ctx, sessionID, now); err != nil {
		slog.Warn("failed to update session activity", "session_id", sessionID, "error", err.Error())
	}

	// The full text is analyzed so a crisis phrase past the storage cap is still seen.
	result := s.analyzer.Analyze(ctx, text)
	if result.IsCrisis {
		slog.Warn("crisis message detected", "session_id", sessionID)
	}

	userMsg := &types.ChatMessage{
		SessionPK:       session.ID,
		MessageType:     types.MessageTypeUser,
		MessageText:     truncateRunes(text, s.opts.MaxMessageRunes),
		DetectedMood:    string(result.Mood),
		ConfidenceScore: result.Confidence,
		CreatedAt:       now,
	}
	if err := s.messages.Add(ctx, userMsg); err != nil {
		slog.Error("failed to save user message", "session_id", sessionID, "error", err.Error())
	}

	if err := s.analytics.Increment(ctx, session.ID, string(result.Mood), now); err != nil {
		slog.Error("failed to update mood analytics", "session_id", sessionID, "error", err.Error())
	}

	botMsg := &types.ChatMessage{
		SessionPK:       session.ID,
		MessageType:     types.MessageTypeBot,
		MessageText:     result.Response,
		DetectedMood:    string(mood.Neutral),
		ConfidenceScore: 0,
		CreatedAt:       now,
	}
	if err := s.messages.Add(ctx, botMsg); err != nil {
		slog.Error("failed to save bot message", "session_id", sessionID, "error", err.Error())
	}

	return &Reply{
		Response:   result.Response,
		Mood:       result.Mood,
		Confidence: result.Confidence,
		IsCrisis:   result.IsCrisis,
	}, nil
}

// History returns up to limit recent messages, oldest first. limit <= 0 uses the default.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]types.ChatMessage, error) {
	session, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.opts.HistoryLimit {
		limit = s.opts.HistoryLimit
	}
	history, err := s.messages.ListBySession(ctx, session.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	return history, nil
}

// MoodAnalytics returns mood counts for a session, most frequent first.
func (s *Service) MoodAnalytics(ctx context.Context, sessionID string) ([]types.MoodCount, error) {
	session, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	moods, err := s.analytics.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood analytics: %w", err)
	}
	return moods, nil
}

func (s *Service) lookup(ctx context.Context, sessionID string) (*types.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}
	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrInvalidSession
	}
	return session, nil
}

func truncateRunes(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max])
}
