package service

import (
	"context"
	"encoding/json"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
)

// WebhookServicer defines the interface for webhook service operations
type WebhookServicer interface {
	Receive(ctx context.Context, source string, payload json.RawMessage) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
}
