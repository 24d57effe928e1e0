package broker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/interbus/core/logger"
)

// queuedBroker writes messages onto the queue and returns as soon as
// enqueueing succeeds. The publisher is decoupled from delivery latency and
// failures: it only learns that the message was accepted, never whether
// delivery succeeded. Failures surface through the background dispatcher's
// log and stats instead.
type queuedBroker struct {
	queue *Queue
	log   *slog.Logger
}

// NewQueuedBroker creates a broker with the asynchronous queued strategy.
// The queue must be drained by a running background Dispatcher.
func NewQueuedBroker(queue *Queue, opts ...Option) Broker {
	o := newOptions(opts...)
	return &queuedBroker{
		queue: queue,
		log:   o.logger,
	}
}

// Publish enqueues all non-nil messages in batch order. Enqueueing never
// blocks; it only fails once the queue has been closed for shutdown.
func (b *queuedBroker) Publish(ctx context.Context, msgs ...any) error {
	batch := compact(msgs)
	if len(batch) == 0 {
		return nil
	}

	for _, msg := range batch {
		if err := b.queue.Enqueue(msg); err != nil {
			return fmt.Errorf("enqueue %T: %w", msg, err)
		}
	}

	b.log.DebugContext(ctx, "batch queued",
		logger.Component("broker.queued"),
		slog.Int("batch", len(batch)),
		slog.Int("backlog", b.queue.Len()))
	return nil
}
