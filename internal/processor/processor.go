package processor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store"
)

// EventProcessor drives one queued event through its lifecycle:
// fetch, claim (pending -> processing), run the source handler, then record
// the terminal status.
type EventProcessor struct {
	events   store.EventStore
	registry *Registry
	log      *zap.Logger
}

// New creates a new event processor.
func New(events store.EventStore, registry *Registry, log *zap.Logger) *EventProcessor {
	return &EventProcessor{
		events:   events,
		registry: registry,
		log:      log,
	}
}

// Run processes a single event by id. It is safe under at-least-once
// delivery: a redelivered id loses the processing claim and exits without
// side effects.
func (p *EventProcessor) Run(ctx context.Context, eventID string) error {
	event, err := p.events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The enqueue raced with a deletion; nothing to re-drive.
			p.log.Error("Webhook event not found",
				zap.String("event_id", eventID))
			return nil
		}
		return fmt.Errorf("failed to fetch event %s: %w", eventID, err)
	}

	// Claim the event. Losing this transition means another delivery of the
	// same id already owns it, or it is already terminal.
	if err := p.events.Transition(ctx, eventID, domain.StatusProcessing, ""); err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			p.log.Info("Event already claimed, skipping duplicate delivery",
				zap.String("event_id", eventID),
				zap.String("status", string(event.Status)))
			return nil
		}
		return fmt.Errorf("failed to claim event %s: %w", eventID, err)
	}

	p.log.Info("Processing webhook event",
		zap.String("event_id", eventID),
		zap.String("source", event.Source))

	if err := p.registry.Handler(event.Source)(ctx, event.Payload); err != nil {
		p.log.Error("Handler failed for webhook event",
			zap.String("event_id", eventID),
			zap.String("source", event.Source),
			zap.Error(err))

		// Best-effort recovery write; redelivery is the queue's concern.
		if terr := p.events.Transition(ctx, eventID, domain.StatusFailed, err.Error()); terr != nil {
			return fmt.Errorf("failed to record failure for event %s: %w", eventID, terr)
		}
		return nil
	}

	if err := p.events.Transition(ctx, eventID, domain.StatusCompleted, ""); err != nil {
		return fmt.Errorf("failed to complete event %s: %w", eventID, err)
	}

	p.log.Info("Successfully processed webhook event",
		zap.String("event_id", eventID))
	return nil
}
