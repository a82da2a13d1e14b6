package worker

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/queue"
)

// ReceiverConfig bounds a single SQS poll.
type ReceiverConfig struct {
	MaxMessages     int32
	WaitTimeSeconds int32
}

// Receiver long-polls the queue and feeds received messages to the
// dispatcher pool.
type Receiver struct {
	consumer queue.QueueConsumer
	config   ReceiverConfig
	log      *zap.Logger
}

// NewReceiver creates a new SQS receiver.
func NewReceiver(consumer queue.QueueConsumer, config ReceiverConfig, log *zap.Logger) *Receiver {
	return &Receiver{
		consumer: consumer,
		config:   config,
		log:      log,
	}
}

// Start polls until ctx is cancelled and closes out on the way down so the
// dispatchers drain and exit.
func (r *Receiver) Start(ctx context.Context, out chan<- types.Message) {
	defer close(out)

	for {
		if ctx.Err() != nil {
			r.log.Info("Receiver shutting down")
			return
		}

		messages, err := r.poll(ctx)
		if err != nil {
			r.log.Error("Error receiving messages from SQS", zap.Error(err))
			time.Sleep(1 * time.Second)
			continue
		}
		if len(messages) == 0 {
			continue
		}

		r.log.Info("Received messages from SQS", zap.Int("message_count", len(messages)))

		for _, msg := range messages {
			select {
			case <-ctx.Done():
				r.log.Info("Receiver shutting down while sending messages")
				return
			case out <- msg:
			}
		}
	}
}

func (r *Receiver) poll(ctx context.Context) ([]types.Message, error) {
	result, err := r.consumer.ReceiveMessages(ctx, &awssqs.ReceiveMessageInput{
		QueueUrl:              aws.String(r.consumer.QueueURL()),
		MaxNumberOfMessages:   r.config.MaxMessages,
		WaitTimeSeconds:       r.config.WaitTimeSeconds,
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return nil, err
	}
	return result.Messages, nil
}
