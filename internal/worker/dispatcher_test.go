package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockQueueConsumer is a mock implementation of queue.QueueConsumer
type MockQueueConsumer struct {
	mock.Mock
}

func (m *MockQueueConsumer) ReceiveMessages(ctx context.Context, input *awssqs.ReceiveMessageInput) (*awssqs.ReceiveMessageOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*awssqs.ReceiveMessageOutput), args.Error(1)
}

func (m *MockQueueConsumer) DeleteMessage(ctx context.Context, input *awssqs.DeleteMessageInput) (*awssqs.DeleteMessageOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*awssqs.DeleteMessageOutput), args.Error(1)
}

func (m *MockQueueConsumer) QueueURL() string {
	args := m.Called()
	return args.String(0)
}

func taskMessage(body string) types.Message {
	return types.Message{
		MessageId:     aws.String("msg-1"),
		Body:          aws.String(body),
		ReceiptHandle: aws.String("rh-1"),
	}
}

func TestDispatcher_Dispatch_RunsHandlerAndAcks(t *testing.T) {
	consumer := new(MockQueueConsumer)
	consumer.On("QueueURL").Return("http://queue")
	consumer.On("DeleteMessage", mock.Anything, mock.Anything).Return(&awssqs.DeleteMessageOutput{}, nil)

	registry := NewRegistry()
	var gotArgs map[string]string
	registry.Register("process_webhook_event", func(ctx context.Context, args map[string]string) error {
		gotArgs = args
		return nil
	})

	d := NewDispatcher(consumer, registry, zap.NewNop())
	d.dispatch(context.Background(), taskMessage(`{"task":"process_webhook_event","args":{"event_id":"evt-1"}}`))

	assert.Equal(t, "evt-1", gotArgs["event_id"])
	consumer.AssertCalled(t, "DeleteMessage", mock.Anything, mock.Anything)
}

func TestDispatcher_Dispatch_HandlerFailureLeavesMessage(t *testing.T) {
	consumer := new(MockQueueConsumer)
	consumer.On("QueueURL").Return("http://queue")

	registry := NewRegistry()
	registry.Register("process_webhook_event", func(ctx context.Context, args map[string]string) error {
		return errors.New("transient store error")
	})

	d := NewDispatcher(consumer, registry, zap.NewNop())
	d.dispatch(context.Background(), taskMessage(`{"task":"process_webhook_event","args":{"event_id":"evt-1"}}`))

	// The message stays visible for redelivery per queue policy.
	consumer.AssertNotCalled(t, "DeleteMessage", mock.Anything, mock.Anything)
}

func TestDispatcher_Dispatch_UnknownTaskIsDiscarded(t *testing.T) {
	consumer := new(MockQueueConsumer)
	consumer.On("QueueURL").Return("http://queue")
	consumer.On("DeleteMessage", mock.Anything, mock.Anything).Return(&awssqs.DeleteMessageOutput{}, nil)

	d := NewDispatcher(consumer, NewRegistry(), zap.NewNop())
	d.dispatch(context.Background(), taskMessage(`{"task":"no_such_task"}`))

	consumer.AssertCalled(t, "DeleteMessage", mock.Anything, mock.Anything)
}

func TestDispatcher_Dispatch_MalformedBodyIsDiscarded(t *testing.T) {
	consumer := new(MockQueueConsumer)
	consumer.On("QueueURL").Return("http://queue")
	consumer.On("DeleteMessage", mock.Anything, mock.Anything).Return(&awssqs.DeleteMessageOutput{}, nil)

	d := NewDispatcher(consumer, NewRegistry(), zap.NewNop())
	d.dispatch(context.Background(), taskMessage(`{not json`))

	consumer.AssertCalled(t, "DeleteMessage", mock.Anything, mock.Anything)
}
