package domain

import (
	"encoding/json"
	"time"
)

// EventStatus tracks the processing lifecycle of a webhook event.
type EventStatus string

const (
	StatusPending    EventStatus = "pending"
	StatusProcessing EventStatus = "processing"
	StatusCompleted  EventStatus = "completed"
	StatusFailed     EventStatus = "failed"
)

// Terminal reports whether no further transition is permitted out of s.
func (s EventStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next. The only legal moves are pending -> processing and
// processing -> completed|failed.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// Event represents a webhook event recorded at ingestion time. The payload is
// opaque to the service; no schema validation is performed.
type Event struct {
	ID           string          `json:"id"`
	Source       string          `json:"source"`
	Payload      json.RawMessage `json:"payload"`
	Status       EventStatus     `json:"status"`
	ReceivedAt   time.Time       `json:"received_at"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}
