package dto

import (
	"encoding/json"
	"time"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ReceiveWebhookResponse represents a successful webhook ingestion response
type ReceiveWebhookResponse struct {
	Message string `json:"message"`
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

// EventResponse represents one webhook event in read paths
type EventResponse struct {
	ID           string          `json:"id"`
	Source       string          `json:"source"`
	Payload      json.RawMessage `json:"payload"`
	Status       string          `json:"status"`
	ReceivedAt   time.Time       `json:"received_at"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

// ListEventsResponse represents the event list response
type ListEventsResponse struct {
	Count  int             `json:"count"`
	Events []EventResponse `json:"events"`
}

// NewEventResponse converts a domain event into its response form.
func NewEventResponse(event *domain.Event) EventResponse {
	return EventResponse{
		ID:           event.ID,
		Source:       event.Source,
		Payload:      event.Payload,
		Status:       string(event.Status),
		ReceivedAt:   event.ReceivedAt,
		ProcessedAt:  event.ProcessedAt,
		ErrorMessage: event.ErrorMessage,
	}
}
