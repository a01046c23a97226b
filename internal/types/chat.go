package types

import "time"

// Message roles.
const (
	MessageTypeUser = "user"
	MessageTypeBot  = "bot"
)

// Session is an anonymous chat session.
type Session struct {
	ID           int       `json:"id"`
	SessionID    string    `json:"session_id"`
	UserIP       string    `json:"user_ip,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// ChatMessage is one stored user or bot message.
type ChatMessage struct {
	ID              int       `json:"id"`
	SessionPK       int       `json:"-"`
	MessageType     string    `json:"message_type"`
	MessageText     string    `json:"message_text"`
	DetectedMood    string    `json:"detected_mood"`
	ConfidenceScore float64   `json:"confidence_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// MoodCount is how often a mood was detected in a session.
type MoodCount struct {
	Mood      string    `json:"mood"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}
