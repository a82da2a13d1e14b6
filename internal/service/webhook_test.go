package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/queue"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store/memory"
)

// MockTaskPublisher is a mock implementation of queue.TaskPublisher
type MockTaskPublisher struct {
	mock.Mock
}

func (m *MockTaskPublisher) Enqueue(ctx context.Context, task queue.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func TestWebhookService_Receive_PersistsAndEnqueues(t *testing.T) {
	events := memory.NewEventStore()
	publisher := new(MockTaskPublisher)
	svc := NewWebhookService(events, publisher, zap.NewNop())

	publisher.On("Enqueue", mock.Anything, mock.MatchedBy(func(task queue.Task) bool {
		return task.Name == queue.TaskProcessWebhookEvent && task.Args[queue.ArgEventID] != ""
	})).Return(nil)
	publisher.On("Enqueue", mock.Anything, mock.MatchedBy(func(task queue.Task) bool {
		return task.Name == queue.TaskSendSlackMessage
	})).Return(nil)

	event, err := svc.Receive(context.Background(), "github", json.RawMessage(`{"action":"push"}`))

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, event.Status)

	stored, err := events.Get(context.Background(), event.ID)
	assert.NoError(t, err)
	assert.Equal(t, "github", stored.Source)
	publisher.AssertExpectations(t)
}

func TestWebhookService_Receive_EnqueueFailureLeavesEventPending(t *testing.T) {
	events := memory.NewEventStore()
	publisher := new(MockTaskPublisher)
	svc := NewWebhookService(events, publisher, zap.NewNop())

	publisher.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("queue unavailable"))

	event, err := svc.Receive(context.Background(), "github", json.RawMessage(`{}`))

	assert.Error(t, err)
	assert.NotNil(t, event)

	// The event must survive the enqueue failure, visible for a re-drive.
	stored, getErr := events.Get(context.Background(), event.ID)
	assert.NoError(t, getErr)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestWebhookService_Receive_NotificationFailureIsNotFatal(t *testing.T) {
	events := memory.NewEventStore()
	publisher := new(MockTaskPublisher)
	svc := NewWebhookService(events, publisher, zap.NewNop())

	publisher.On("Enqueue", mock.Anything, mock.MatchedBy(func(task queue.Task) bool {
		return task.Name == queue.TaskProcessWebhookEvent
	})).Return(nil)
	publisher.On("Enqueue", mock.Anything, mock.MatchedBy(func(task queue.Task) bool {
		return task.Name == queue.TaskSendSlackMessage
	})).Return(errors.New("queue unavailable"))

	event, err := svc.Receive(context.Background(), "github", json.RawMessage(`{}`))

	assert.NoError(t, err)
	assert.NotNil(t, event)
}

func TestWebhookService_Get_PassesThrough(t *testing.T) {
	events := memory.NewEventStore()
	publisher := new(MockTaskPublisher)
	svc := NewWebhookService(events, publisher, zap.NewNop())

	publisher.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	created, _ := svc.Receive(context.Background(), "slack", json.RawMessage(`{}`))

	got, err := svc.Get(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}
