package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/notify"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/queue"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store"
)

// WebhookService is the ingestion gateway: it records an inbound event and
// hands it to the task queue. Persist and enqueue are the only work done on
// the request path; all processing happens on the worker.
type WebhookService struct {
	events    store.EventStore
	publisher queue.TaskPublisher
	log       *zap.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(events store.EventStore, publisher queue.TaskPublisher, log *zap.Logger) *WebhookService {
	return &WebhookService{
		events:    events,
		publisher: publisher,
		log:       log,
	}
}

// Receive persists the event in pending status and enqueues it for
// processing. When the enqueue fails the error is returned and the event is
// left pending, visible for a manual or scheduled re-drive; it is never
// silently lost.
func (s *WebhookService) Receive(ctx context.Context, source string, payload json.RawMessage) (*domain.Event, error) {
	event, err := s.events.Create(ctx, source, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}

	if err := s.publisher.Enqueue(ctx, queue.ProcessEventTask(event.ID)); err != nil {
		s.log.Error("Failed to enqueue event, leaving it pending",
			zap.String("event_id", event.ID),
			zap.String("source", source),
			zap.Error(err))
		return event, fmt.Errorf("failed to enqueue event %s: %w", event.ID, err)
	}

	// Arrival notice goes out of band through the same queue. Losing it is
	// acceptable; losing the event is not.
	notice := queue.SendSlackMessageTask(notify.EventReceivedMessage(source, event.ReceivedAt))
	if err := s.publisher.Enqueue(ctx, notice); err != nil {
		s.log.Warn("Failed to enqueue arrival notification",
			zap.String("event_id", event.ID),
			zap.Error(err))
	}

	s.log.Info("Webhook event accepted",
		zap.String("event_id", event.ID),
		zap.String("source", source))

	return event, nil
}

// List returns all events, newest first.
func (s *WebhookService) List(ctx context.Context) ([]*domain.Event, error) {
	return s.events.List(ctx)
}

// Get returns one event by id.
func (s *WebhookService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.Get(ctx, id)
}
