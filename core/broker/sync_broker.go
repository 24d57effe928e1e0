package broker

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/interbus/core/logger"
	"github.com/dmitrymomot/interbus/pkg/async"
)

// syncBroker delivers every message through the client inside the
// publisher's call: the publisher observes end-to-end delivery latency and
// every delivery failure directly.
type syncBroker struct {
	client Deliverer
	log    *slog.Logger
}

// NewSyncBroker creates a broker with the immediate fan-out strategy.
func NewSyncBroker(client Deliverer, opts ...Option) Broker {
	o := newOptions(opts...)
	return &syncBroker{
		client: client,
		log:    o.logger,
	}
}

// Publish delivers all non-nil messages in parallel and waits for every
// delivery to finish. Failures are aggregated with errors.Join; one failing
// message never prevents delivery of the others.
func (b *syncBroker) Publish(ctx context.Context, msgs ...any) error {
	batch := compact(msgs)
	if len(batch) == 0 {
		return nil
	}

	start := time.Now()

	futures := make([]*async.ExecFuture, 0, len(batch))
	for _, msg := range batch {
		futures = append(futures, async.Exec(ctx, msg, b.client.Publish))
	}

	if err := async.JoinAll(futures...); err != nil {
		b.log.ErrorContext(ctx, "synchronous delivery failed",
			logger.Component("broker.sync"),
			slog.Int("batch", len(batch)),
			logger.Duration(time.Since(start)),
			logger.Error(err))
		return err
	}

	b.log.DebugContext(ctx, "batch delivered",
		logger.Component("broker.sync"),
		slog.Int("batch", len(batch)),
		logger.Duration(time.Since(start)))
	return nil
}

// compact drops nil entries from a message batch.
func compact(msgs []any) []any {
	out := msgs[:0:0]
	for _, msg := range msgs {
		if msg != nil {
			out = append(out, msg)
		}
	}
	return out
}
