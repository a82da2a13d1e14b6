package worker

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestReceiver_Start_ForwardsMessages(t *testing.T) {
	consumer := new(MockQueueConsumer)
	consumer.On("QueueURL").Return("http://queue")

	messages := []types.Message{
		{MessageId: aws.String("msg-1"), Body: aws.String(`{"task":"process_webhook_event"}`)},
		{MessageId: aws.String("msg-2"), Body: aws.String(`{"task":"backup_processes"}`)},
	}

	consumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&awssqs.ReceiveMessageOutput{Messages: messages}, nil).Once()
	consumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&awssqs.ReceiveMessageOutput{}, nil).Maybe()

	receiver := NewReceiver(consumer, ReceiverConfig{MaxMessages: 10, WaitTimeSeconds: 0}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan types.Message, 10)
	go receiver.Start(ctx, out)

	var received []types.Message
	for len(received) < 2 {
		select {
		case msg := <-out:
			received = append(received, msg)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for messages")
		}
	}
	cancel()

	assert.Equal(t, "msg-1", aws.ToString(received[0].MessageId))
	assert.Equal(t, "msg-2", aws.ToString(received[1].MessageId))
}

func TestReceiver_Start_ClosesOutputOnCancel(t *testing.T) {
	consumer := new(MockQueueConsumer)
	consumer.On("QueueURL").Return("http://queue")
	consumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&awssqs.ReceiveMessageOutput{}, nil).Maybe()

	receiver := NewReceiver(consumer, ReceiverConfig{MaxMessages: 1, WaitTimeSeconds: 0}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan types.Message)

	done := make(chan struct{})
	go func() {
		receiver.Start(ctx, out)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("receiver did not shut down")
	}

	_, open := <-out
	assert.False(t, open)
}
