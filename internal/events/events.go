package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type constants for the portal's domain events.
const (
	EventResultRecorded        = "result.recorded"
	EventQuizSubmitted         = "quiz.submitted"
	EventPasswordResetIssued   = "password_reset.issued"
	EventPasswordChanged       = "password.changed"
	EventSubscriptionActivated = "subscription.activated"
)

// Event is the envelope every published message shares.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope around a payload.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "examportal-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ResultRecordedEvent is emitted after a mock-test submission is scored and
// stored.
type ResultRecordedEvent struct {
	UserID     uint      `json:"user_id"`
	TestID     uint      `json:"test_id"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
	TakenAt    time.Time `json:"taken_at"`
}

// QuizSubmittedEvent is emitted after a daily quiz submission is accepted.
type QuizSubmittedEvent struct {
	UserID      uint      `json:"user_id"`
	QuizID      uint      `json:"quiz_id"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// PasswordResetIssuedEvent is emitted when a reset code is generated. The
// code itself never appears in the event.
type PasswordResetIssuedEvent struct {
	UserID    uint      `json:"user_id"`
	Channel   string    `json:"channel"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordChangedEvent is emitted once a reset completes.
type PasswordChangedEvent struct {
	UserID    uint      `json:"user_id"`
	ChangedAt time.Time `json:"changed_at"`
}

// SubscriptionActivatedEvent is emitted when a payment is confirmed and the
// premium window opens.
type SubscriptionActivatedEvent struct {
	UserID    uint      `json:"user_id"`
	Plan      string    `json:"plan"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	OrderID   string    `json:"order_id"`
}
