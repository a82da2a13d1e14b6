package worker

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/queue"
)

// Worker runs the receive/dispatch pipeline: one receiver goroutine feeding a
// pool of dispatcher goroutines. Tasks across distinct messages run in
// parallel with no ordering guarantee.
type Worker struct {
	receiver    *Receiver
	registry    *Registry
	consumer    queue.QueueConsumer
	concurrency int
	log         *zap.Logger
}

// New creates a worker over the given task registry.
func New(consumer queue.QueueConsumer, registry *Registry, concurrency int, log *zap.Logger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}

	receiver := NewReceiver(consumer, ReceiverConfig{
		MaxMessages:     10,
		WaitTimeSeconds: 20,
	}, log)

	return &Worker{
		receiver:    receiver,
		registry:    registry,
		consumer:    consumer,
		concurrency: concurrency,
		log:         log,
	}
}

// Start runs the pipeline until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, 100)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.receiver.Start(ctx, messageChan)
	}()

	for i := 0; i < w.concurrency; i++ {
		dispatcher := NewDispatcher(w.consumer, w.registry, w.log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			dispatcher.Start(ctx, messageChan)
		}()
	}

	wg.Wait()
	return nil
}
