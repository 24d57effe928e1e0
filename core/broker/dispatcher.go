package broker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/interbus/core/logger"
)

// Dispatcher is the single long-running consumer that drains the queue in
// arrival order and forwards each message to the delivery client. A failed
// delivery is logged and counted, then the loop moves on: one bad message
// never stops delivery of subsequent messages.
type Dispatcher struct {
	queue  *Queue
	client Deliverer
	log    *slog.Logger

	shutdownTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex

	delivered      atomic.Int64
	failed         atomic.Int64
	lastActivityAt atomic.Int64
}

// DispatcherStats provides observability metrics for monitoring and debugging.
type DispatcherStats struct {
	Delivered      int64
	Failed         int64
	Backlog        int
	IsRunning      bool
	LastActivityAt time.Time
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger for the background dispatcher.
// By default logging is discarded.
func WithDispatcherLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for an in-flight delivery.
// Default is 30 seconds.
func WithShutdownTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.shutdownTimeout = timeout
		}
	}
}

// NewDispatcher creates a background dispatcher draining queue into client.
func NewDispatcher(queue *Queue, client Deliverer, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		queue:           queue,
		client:          client,
		log:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		shutdownTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start begins draining the queue. This is a blocking operation that runs
// until the context is cancelled or the queue is closed and fully drained.
// Use Run() for errgroup pattern or call this in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.cancel != nil {
		d.mu.Unlock()
		return ErrDispatcherAlreadyStarted
	}
	d.ctx, d.cancel = context.WithCancel(ctx)
	ctx = d.ctx
	d.mu.Unlock()

	d.log.InfoContext(ctx, "background dispatcher started",
		logger.Component("broker.dispatcher"))

	for {
		msg, err := d.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) {
				d.log.Info("message queue closed, dispatcher stopping",
					logger.Component("broker.dispatcher"))
				return nil
			}
			d.log.Info("background dispatcher stopping",
				logger.Component("broker.dispatcher"),
				logger.Error(err))
			return err
		}

		d.deliver(ctx, msg)
	}
}

// deliver forwards one message to the client, isolating its failure from the
// rest of the loop.
func (d *Dispatcher) deliver(ctx context.Context, msg any) {
	d.wg.Add(1)
	defer d.wg.Done()
	defer d.lastActivityAt.Store(time.Now().Unix())

	defer func() {
		if r := recover(); r != nil {
			d.failed.Add(1)
			d.log.ErrorContext(ctx, "delivery panicked",
				logger.Component("broker.dispatcher"),
				slog.String("type", fmt.Sprintf("%T", msg)),
				slog.Any("panic", r))
		}
	}()

	start := time.Now()

	if err := d.client.Publish(ctx, msg); err != nil {
		d.failed.Add(1)
		d.log.ErrorContext(ctx, "delivery failed",
			logger.Component("broker.dispatcher"),
			slog.String("type", fmt.Sprintf("%T", msg)),
			logger.Duration(time.Since(start)),
			logger.Error(err))
		return
	}

	d.delivered.Add(1)
	d.log.DebugContext(ctx, "message delivered",
		logger.Component("broker.dispatcher"),
		slog.String("type", fmt.Sprintf("%T", msg)),
		logger.Duration(time.Since(start)))
}

// Stop gracefully shuts down the dispatcher, waiting up to the shutdown
// timeout for an in-flight delivery to finish. Messages still queued are
// lost; there is no persistence or replay.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if d.cancel == nil {
		d.mu.Unlock()
		return ErrDispatcherNotStarted
	}
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.log.Info("background dispatcher stopped cleanly",
			logger.Component("broker.dispatcher"))
		return nil
	case <-time.After(d.shutdownTimeout):
		d.log.Warn("dispatcher shutdown timeout exceeded - in-flight delivery abandoned",
			logger.Component("broker.dispatcher"),
			logger.Duration(d.shutdownTimeout))
		return fmt.Errorf("shutdown timeout exceeded after %s", d.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the dispatcher, monitors context
// cancellation, and performs graceful shutdown when the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- d.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = d.Stop() // Ignore stop error in normal shutdown
			<-errCh      // Wait for Start() to exit
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Stats returns current dispatcher statistics for observability and monitoring.
func (d *Dispatcher) Stats() DispatcherStats {
	d.mu.Lock()
	isRunning := d.cancel != nil
	d.mu.Unlock()

	lastActivity := d.lastActivityAt.Load()
	var lastActivityTime time.Time
	if lastActivity > 0 {
		lastActivityTime = time.Unix(lastActivity, 0)
	}

	return DispatcherStats{
		Delivered:      d.delivered.Load(),
		Failed:         d.failed.Load(),
		Backlog:        d.queue.Len(),
		IsRunning:      isRunning,
		LastActivityAt: lastActivityTime,
	}
}

// Healthcheck validates that the dispatcher is operational.
// Returns nil if healthy, or an error describing the health issue.
func (d *Dispatcher) Healthcheck(ctx context.Context) error {
	if !d.Stats().IsRunning {
		return errors.Join(ErrHealthcheckFailed, ErrDispatcherNotRunning)
	}
	return nil
}
