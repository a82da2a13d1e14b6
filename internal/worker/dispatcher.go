package worker

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/queue"
)

// Dispatcher decodes task messages and invokes the registered handler by
// name. A handler failure leaves the message on the queue for redelivery; an
// unknown task name or a malformed body is a poison message and is deleted.
type Dispatcher struct {
	consumer queue.QueueConsumer
	registry *Registry
	log      *zap.Logger
}

// NewDispatcher creates a new dispatcher over the given registry.
func NewDispatcher(consumer queue.QueueConsumer, registry *Registry, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		consumer: consumer,
		registry: registry,
		log:      log,
	}
}

// Start consumes messages until the input channel closes or the context is
// cancelled. Errors inside one task never stop the loop for the others.
func (d *Dispatcher) Start(ctx context.Context, in <-chan types.Message) {
	for {
		select {
		case <-ctx.Done():
			d.log.Info("Dispatcher shutting down")
			return
		case msg, ok := <-in:
			if !ok {
				d.log.Info("Dispatcher input channel closed")
				return
			}
			d.dispatch(ctx, msg)
		}
	}
}

// dispatch handles a single message end to end.
func (d *Dispatcher) dispatch(ctx context.Context, msg types.Message) {
	task, err := queue.DecodeTask([]byte(aws.ToString(msg.Body)))
	if err != nil {
		d.log.Warn("Failed to decode task message",
			zap.String("message_id", aws.ToString(msg.MessageId)),
			zap.Error(err))
		d.deleteMessage(ctx, msg)
		return
	}

	handler, err := d.registry.Handler(task.Name)
	if err != nil {
		d.log.Warn("Unknown task name, discarding message",
			zap.String("message_id", aws.ToString(msg.MessageId)),
			zap.String("task", task.Name))
		d.deleteMessage(ctx, msg)
		return
	}

	d.log.Info("Dispatching task",
		zap.String("task", task.Name),
		zap.String("message_id", aws.ToString(msg.MessageId)))

	if err := handler(ctx, task.Args); err != nil {
		// Leave the message in place; SQS redelivers it after the
		// visibility timeout per queue policy.
		d.log.Error("Task handler failed",
			zap.String("task", task.Name),
			zap.String("message_id", aws.ToString(msg.MessageId)),
			zap.Error(err))
		return
	}

	d.deleteMessage(ctx, msg)
}

// deleteMessage acknowledges the message by deleting it from SQS.
func (d *Dispatcher) deleteMessage(ctx context.Context, msg types.Message) {
	_, err := d.consumer.DeleteMessage(ctx, &awssqs.DeleteMessageInput{
		QueueUrl:      aws.String(d.consumer.QueueURL()),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		d.log.Error("Failed to delete message",
			zap.String("message_id", aws.ToString(msg.MessageId)),
			zap.Error(err))
	}
}
