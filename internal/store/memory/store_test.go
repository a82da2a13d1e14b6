package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store"
)

func TestEventStore_Create_StartsPending(t *testing.T) {
	s := NewEventStore()

	event, err := s.Create(context.Background(), "github", json.RawMessage(`{"action":"push"}`))

	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, domain.StatusPending, event.Status)
	assert.Equal(t, "github", event.Source)
	assert.False(t, event.ReceivedAt.IsZero())
	assert.Nil(t, event.ProcessedAt)
	assert.Nil(t, event.ErrorMessage)
}

func TestEventStore_Get_NotFound(t *testing.T) {
	s := NewEventStore()

	_, err := s.Get(context.Background(), "no-such-id")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEventStore_Transition_HappyPath(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	event, err := s.Create(ctx, "stripe", json.RawMessage(`{}`))
	assert.NoError(t, err)

	assert.NoError(t, s.Transition(ctx, event.ID, domain.StatusProcessing, ""))
	got, err := s.Get(ctx, event.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, got.Status)
	assert.Nil(t, got.ProcessedAt)

	assert.NoError(t, s.Transition(ctx, event.ID, domain.StatusCompleted, ""))
	got, err = s.Get(ctx, event.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.NotNil(t, got.ProcessedAt)
	assert.Nil(t, got.ErrorMessage)
}

func TestEventStore_Transition_FailedRecordsErrorMessage(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	event, _ := s.Create(ctx, "stripe", json.RawMessage(`{}`))
	assert.NoError(t, s.Transition(ctx, event.ID, domain.StatusProcessing, ""))
	assert.NoError(t, s.Transition(ctx, event.ID, domain.StatusFailed, "handler exploded"))

	got, err := s.Get(ctx, event.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.NotNil(t, got.ProcessedAt)
	assert.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "handler exploded", *got.ErrorMessage)
}

func TestEventStore_Transition_CannotSkipProcessing(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	event, _ := s.Create(ctx, "github", json.RawMessage(`{}`))

	err := s.Transition(ctx, event.ID, domain.StatusCompleted, "")
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	// State must be unchanged after a rejected transition.
	got, _ := s.Get(ctx, event.ID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Nil(t, got.ProcessedAt)
}

func TestEventStore_Transition_TerminalIsFinal(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	event, _ := s.Create(ctx, "github", json.RawMessage(`{}`))
	assert.NoError(t, s.Transition(ctx, event.ID, domain.StatusProcessing, ""))
	assert.NoError(t, s.Transition(ctx, event.ID, domain.StatusCompleted, ""))

	for _, next := range []domain.EventStatus{
		domain.StatusPending,
		domain.StatusProcessing,
		domain.StatusCompleted,
		domain.StatusFailed,
	} {
		err := s.Transition(ctx, event.ID, next, "boom")
		assert.ErrorIs(t, err, store.ErrInvalidTransition)
	}
}

func TestEventStore_Transition_DuplicateClaimLosesRace(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	event, _ := s.Create(ctx, "github", json.RawMessage(`{}`))

	assert.NoError(t, s.Transition(ctx, event.ID, domain.StatusProcessing, ""))
	// A second delivery of the same event id must lose the claim.
	err := s.Transition(ctx, event.ID, domain.StatusProcessing, "")
	assert.ErrorIs(t, err, store.ErrInvalidTransition)
}

func TestEventStore_Transition_FailedRequiresErrorMessage(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	event, _ := s.Create(ctx, "github", json.RawMessage(`{}`))
	assert.NoError(t, s.Transition(ctx, event.ID, domain.StatusProcessing, ""))

	err := s.Transition(ctx, event.ID, domain.StatusFailed, "")
	assert.Error(t, err)

	got, _ := s.Get(ctx, event.ID)
	assert.Equal(t, domain.StatusProcessing, got.Status)
}

func TestEventStore_Transition_NotFound(t *testing.T) {
	s := NewEventStore()

	err := s.Transition(context.Background(), "no-such-id", domain.StatusProcessing, "")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEventStore_List_NewestFirst(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}

	first, _ := s.Create(ctx, "a", json.RawMessage(`{}`))
	second, _ := s.Create(ctx, "b", json.RawMessage(`{}`))
	third, _ := s.Create(ctx, "c", json.RawMessage(`{}`))

	events, err := s.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Equal(t, third.ID, events[0].ID)
	assert.Equal(t, second.ID, events[1].ID)
	assert.Equal(t, first.ID, events[2].ID)
}

func TestProcessStore_Upsert(t *testing.T) {
	s := NewProcessStore()
	ctx := context.Background()

	created, err := s.Upsert(ctx, &domain.Process{Code: "hello", Name: "Hello", Script: "print('hi')"})
	assert.NoError(t, err)
	assert.True(t, created)

	created, err = s.Upsert(ctx, &domain.Process{Code: "hello", Name: "Hello v2", Script: "print('hi again')"})
	assert.NoError(t, err)
	assert.False(t, created)

	processes, err := s.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, processes, 1)
	assert.Equal(t, "Hello v2", processes[0].Name)
	assert.Equal(t, "print('hi again')", processes[0].Script)
}

func TestProcessStore_List_OrderedByCode(t *testing.T) {
	s := NewProcessStore()
	ctx := context.Background()

	s.Upsert(ctx, &domain.Process{Code: "zeta", Name: "Z"})
	s.Upsert(ctx, &domain.Process{Code: "alpha", Name: "A"})
	s.Upsert(ctx, &domain.Process{Code: "mid", Name: "M"})

	processes, err := s.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, processes, 3)
	assert.Equal(t, "alpha", processes[0].Code)
	assert.Equal(t, "mid", processes[1].Code)
	assert.Equal(t, "zeta", processes[2].Code)
}
