package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// TaskPublisher defines the interface for enqueueing tasks onto the queue.
// Delivery is at-least-once; task handlers must tolerate redelivery.
type TaskPublisher interface {
	Enqueue(ctx context.Context, task Task) error
}

// QueueConsumer defines the interface for consuming messages from a queue
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
