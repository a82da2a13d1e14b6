package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store"
)

// EventStore is an in-memory implementation of store.EventStore, used in
// tests and for local development without a database. The transition guard is
// serialized by a single mutex, which is equivalent to the conditional UPDATE
// the postgres store issues as long as only one process shares the map.
type EventStore struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	now    func() time.Time
}

// NewEventStore creates an empty in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[string]*domain.Event),
		now:    time.Now,
	}
}

// Create persists a new event in pending status.
func (s *EventStore) Create(ctx context.Context, source string, payload json.RawMessage) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := &domain.Event{
		ID:         uuid.NewString(),
		Source:     source,
		Payload:    append(json.RawMessage(nil), payload...),
		Status:     domain.StatusPending,
		ReceivedAt: s.now().UTC(),
	}
	s.events[event.ID] = event

	return copyEvent(event), nil
}

// Get returns the event with the given id.
func (s *EventStore) Get(ctx context.Context, id string) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyEvent(event), nil
}

// List returns all events ordered newest-first by receipt time.
func (s *EventStore) List(ctx context.Context) ([]*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]*domain.Event, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, copyEvent(e))
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].ReceivedAt.After(events[j].ReceivedAt)
	})
	return events, nil
}

// Transition atomically moves the event to newStatus per the state machine.
func (s *EventStore) Transition(ctx context.Context, id string, newStatus domain.EventStatus, errorMessage string) error {
	if newStatus == domain.StatusFailed && errorMessage == "" {
		return errors.New("failed status requires an error message")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return store.ErrNotFound
	}
	if !event.Status.CanTransitionTo(newStatus) {
		return store.ErrInvalidTransition
	}

	event.Status = newStatus
	if newStatus.Terminal() {
		processedAt := s.now().UTC()
		event.ProcessedAt = &processedAt
	}
	if newStatus == domain.StatusFailed {
		msg := errorMessage
		event.ErrorMessage = &msg
	}
	return nil
}

func copyEvent(e *domain.Event) *domain.Event {
	cp := *e
	cp.Payload = append(json.RawMessage(nil), e.Payload...)
	if e.ProcessedAt != nil {
		t := *e.ProcessedAt
		cp.ProcessedAt = &t
	}
	if e.ErrorMessage != nil {
		m := *e.ErrorMessage
		cp.ErrorMessage = &m
	}
	return &cp
}

// ProcessStore is an in-memory implementation of store.ProcessStore.
type ProcessStore struct {
	mu        sync.Mutex
	processes map[string]*domain.Process
	now       func() time.Time
}

// NewProcessStore creates an empty in-memory process store.
func NewProcessStore() *ProcessStore {
	return &ProcessStore{
		processes: make(map[string]*domain.Process),
		now:       time.Now,
	}
}

// Upsert inserts or updates a process keyed by code.
func (s *ProcessStore) Upsert(ctx context.Context, p *domain.Process) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	existing, ok := s.processes[p.Code]
	if ok {
		existing.Name = p.Name
		existing.Script = p.Script
		existing.UpdatedAt = now
		return false, nil
	}

	s.processes[p.Code] = &domain.Process{
		Code:      p.Code,
		Name:      p.Name,
		Script:    p.Script,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return true, nil
}

// List returns all processes ordered by code.
func (s *ProcessStore) List(ctx context.Context) ([]*domain.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	processes := make([]*domain.Process, 0, len(s.processes))
	for _, p := range s.processes {
		cp := *p
		processes = append(processes, &cp)
	}
	sort.Slice(processes, func(i, j int) bool {
		return processes[i].Code < processes[j].Code
	})
	return processes, nil
}
