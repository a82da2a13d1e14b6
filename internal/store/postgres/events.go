package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store"
)

// EventRepo implements store.EventStore on Postgres.
type EventRepo struct {
	db  *sql.DB
	log *zap.Logger
}

// NewEventRepo creates a new event repository.
func NewEventRepo(client *Client, log *zap.Logger) *EventRepo {
	return &EventRepo{db: client.DB(), log: log}
}

// Create persists a new event in pending status.
func (r *EventRepo) Create(ctx context.Context, source string, payload json.RawMessage) (*domain.Event, error) {
	const q = `
INSERT INTO webhook_events (id, source, payload, status)
VALUES ($1, $2, $3, $4)
RETURNING received_at;
`
	event := &domain.Event{
		ID:      uuid.NewString(),
		Source:  source,
		Payload: payload,
		Status:  domain.StatusPending,
	}

	err := r.db.QueryRowContext(ctx, q, event.ID, event.Source, []byte(event.Payload), event.Status).
		Scan(&event.ReceivedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	return event, nil
}

// Get returns the event with the given id, or store.ErrNotFound.
func (r *EventRepo) Get(ctx context.Context, id string) (*domain.Event, error) {
	const q = `
SELECT id, source, payload, status, received_at, processed_at, error_message
FROM webhook_events
WHERE id = $1;
`
	event, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	return event, nil
}

// List returns all events ordered newest-first by receipt time.
func (r *EventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	const q = `
SELECT id, source, payload, status, received_at, processed_at, error_message
FROM webhook_events
ORDER BY received_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// Transition moves the event to newStatus with a single conditional UPDATE.
// The WHERE clause on the current status is the mutual-exclusion gate: when
// two workers race on the same delivery, exactly one UPDATE matches and the
// loser gets ErrInvalidTransition.
func (r *EventRepo) Transition(ctx context.Context, id string, newStatus domain.EventStatus, errorMessage string) error {
	fromStatus, err := transitionSource(newStatus)
	if err != nil {
		return err
	}
	if newStatus == domain.StatusFailed && errorMessage == "" {
		return errors.New("failed status requires an error message")
	}

	var res sql.Result
	if newStatus.Terminal() {
		const q = `
UPDATE webhook_events
SET status = $1,
    processed_at = now(),
    error_message = $2
WHERE id = $3 AND status = $4;
`
		var errMsg *string
		if newStatus == domain.StatusFailed {
			errMsg = &errorMessage
		}
		res, err = r.db.ExecContext(ctx, q, newStatus, errMsg, id, fromStatus)
	} else {
		const q = `
UPDATE webhook_events
SET status = $1
WHERE id = $2 AND status = $3;
`
		res, err = r.db.ExecContext(ctx, q, newStatus, id, fromStatus)
	}
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// The guard did not match: distinguish unknown id from illegal move.
	const existsQ = `SELECT 1 FROM webhook_events WHERE id = $1;`
	var one int
	if err := r.db.QueryRowContext(ctx, existsQ, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to check event existence: %w", err)
	}
	return store.ErrInvalidTransition
}

// transitionSource returns the sole status newStatus is reachable from.
func transitionSource(newStatus domain.EventStatus) (domain.EventStatus, error) {
	switch newStatus {
	case domain.StatusProcessing:
		return domain.StatusPending, nil
	case domain.StatusCompleted, domain.StatusFailed:
		return domain.StatusProcessing, nil
	default:
		return "", store.ErrInvalidTransition
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var (
		event   domain.Event
		payload []byte
	)
	err := row.Scan(
		&event.ID,
		&event.Source,
		&payload,
		&event.Status,
		&event.ReceivedAt,
		&event.ProcessedAt,
		&event.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}
	event.Payload = payload
	return &event, nil
}
