package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
)

// MockRemoteStore is a mock implementation of RemoteStore
type MockRemoteStore struct {
	mock.Mock
}

func (m *MockRemoteStore) Lookup(ctx context.Context, name string) (*RemoteResource, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RemoteResource), args.Error(1)
}

func (m *MockRemoteStore) Create(ctx context.Context, name, content string) error {
	args := m.Called(ctx, name, content)
	return args.Error(0)
}

func (m *MockRemoteStore) Update(ctx context.Context, name, content, revision string) error {
	args := m.Called(ctx, name, content, revision)
	return args.Error(0)
}

func process(code, script string) *domain.Process {
	return &domain.Process{Code: code, Name: code, Script: script}
}

func TestReconciler_Reconcile_EmptyListIsSuccess(t *testing.T) {
	remote := new(MockRemoteStore)
	r := New(remote, zap.NewNop())

	result := r.Reconcile(context.Background(), nil)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Unchanged)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Errors)
	remote.AssertNotCalled(t, "Lookup")
}

func TestReconciler_Reconcile_CreatesMissingResource(t *testing.T) {
	remote := new(MockRemoteStore)
	remote.On("Lookup", mock.Anything, "hello").Return(nil, ErrRemoteNotFound)
	remote.On("Create", mock.Anything, "hello", "print('hi')").Return(nil)

	r := New(remote, zap.NewNop())

	result := r.Reconcile(context.Background(), []*domain.Process{process("hello", "print('hi')")})

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Unchanged)
	remote.AssertExpectations(t)
}

func TestReconciler_Reconcile_IdenticalContentIsUnchanged(t *testing.T) {
	remote := new(MockRemoteStore)
	remote.On("Lookup", mock.Anything, "hello").Return(&RemoteResource{
		Name:     "hello",
		Content:  "print('hi')",
		Revision: "abc123",
	}, nil)

	r := New(remote, zap.NewNop())

	result := r.Reconcile(context.Background(), []*domain.Process{process("hello", "print('hi')")})

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 1, result.Unchanged)
	remote.AssertNotCalled(t, "Create")
	remote.AssertNotCalled(t, "Update")
}

func TestReconciler_Reconcile_UpdatesChangedContent(t *testing.T) {
	remote := new(MockRemoteStore)
	remote.On("Lookup", mock.Anything, "hello").Return(&RemoteResource{
		Name:     "hello",
		Content:  "print('old')",
		Revision: "abc123",
	}, nil)
	remote.On("Update", mock.Anything, "hello", "print('new')", "abc123").Return(nil)

	r := New(remote, zap.NewNop())

	result := r.Reconcile(context.Background(), []*domain.Process{process("hello", "print('new')")})

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 1, result.Updated)
	remote.AssertExpectations(t)
}

func TestReconciler_Reconcile_OneBadRecordDoesNotBlockOthers(t *testing.T) {
	remote := new(MockRemoteStore)
	remote.On("Lookup", mock.Anything, "first").Return(nil, ErrRemoteNotFound)
	remote.On("Create", mock.Anything, "first", "a").Return(nil)
	remote.On("Lookup", mock.Anything, "second").Return(&RemoteResource{
		Name: "second", Content: "old", Revision: "rev2",
	}, nil)
	remote.On("Update", mock.Anything, "second", "b", "rev2").Return(errors.New("stale revision"))
	remote.On("Lookup", mock.Anything, "third").Return(&RemoteResource{
		Name: "third", Content: "c", Revision: "rev3",
	}, nil)

	r := New(remote, zap.NewNop())

	result := r.Reconcile(context.Background(), []*domain.Process{
		process("first", "a"),
		process("second", "b"),
		process("third", "c"),
	})

	assert.Equal(t, StatusPartial, result.Status)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, 3, result.Total)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, "second", result.Errors[0].Code)
	assert.Contains(t, result.Errors[0].Message, "stale revision")
	remote.AssertExpectations(t)
}

func TestReconciler_Reconcile_LookupErrorIsCollected(t *testing.T) {
	remote := new(MockRemoteStore)
	remote.On("Lookup", mock.Anything, "hello").Return(nil, errors.New("rate limited"))

	r := New(remote, zap.NewNop())

	result := r.Reconcile(context.Background(), []*domain.Process{process("hello", "x")})

	assert.Equal(t, StatusPartial, result.Status)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, "hello", result.Errors[0].Code)
	remote.AssertNotCalled(t, "Create")
}
