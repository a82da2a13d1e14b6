package store

import (
	"context"
	"encoding/json"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
)

// EventStore defines the durable record of webhook events and their
// lifecycle. It is the single source of truth: the transition guard must be
// enforced by the storage layer itself, not by in-process locking, so that
// multiple worker processes cannot double-claim an event.
type EventStore interface {
	// Create persists a new event in pending status and returns it with its
	// assigned id and receipt time.
	Create(ctx context.Context, source string, payload json.RawMessage) (*domain.Event, error)

	// Get returns the event with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Event, error)

	// List returns all events ordered newest-first by receipt time.
	List(ctx context.Context) ([]*domain.Event, error)

	// Transition moves the event to newStatus as a single atomic conditional
	// write. It returns ErrNotFound if the id is unknown and
	// ErrInvalidTransition if newStatus is not reachable from the current
	// status. On a terminal transition the processed time is set; a failed
	// transition requires a non-empty error message.
	Transition(ctx context.Context, id string, newStatus domain.EventStatus, errorMessage string) error
}

// ProcessStore holds the named scripts mirrored to the code host by the
// backup task.
type ProcessStore interface {
	// Upsert inserts the process or, if the code already exists, updates its
	// name and script. Returns true if a new row was created.
	Upsert(ctx context.Context, p *domain.Process) (bool, error)

	// List returns all processes ordered by code.
	List(ctx context.Context) ([]*domain.Process, error)
}
