package event

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/interbus/core/logger"
	"github.com/dmitrymomot/interbus/pkg/async"
)

// Dispatcher routes events to the handlers registered within one module.
// Zero handlers for an event is valid: Publish is then a no-op.
// When several handlers match, they run concurrently and Publish waits for
// all of them before returning.
//
// Example:
//
//	dispatcher := event.NewDispatcher(event.WithLogger(log))
//	dispatcher.Subscribe(
//	    event.NewHandlerFunc(sendWelcomeEmail),
//	    event.NewHandlerFunc(provisionWorkspace),
//	)
//	err := dispatcher.Publish(ctx, UserCreated{UserID: "123"})
type Dispatcher struct {
	handlers map[string][]Handler
	log      *slog.Logger
	mu       sync.RWMutex

	eventsProcessed atomic.Int64
	eventsFailed    atomic.Int64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for the dispatcher.
// By default logging is discarded.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDispatcher creates a new event dispatcher with the given options.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string][]Handler),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Subscribe registers handlers for the event names they declare.
// Multiple handlers may share an event name. Panics on a nil handler:
// that is a startup-time defect, not a runtime condition.
func (d *Dispatcher) Subscribe(handlers ...Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, h := range handlers {
		if h == nil {
			panic(ErrNilHandler)
		}
		d.handlers[h.EventName()] = append(d.handlers[h.EventName()], h)
	}
}

// Publish routes the event to every handler registered for its type name,
// runs them concurrently, and waits for all to complete.
//
// A nil event or an event with zero handlers is a no-op. Failures from
// individual handlers are aggregated with errors.Join and returned together;
// one failing handler never prevents the others from running to completion.
// Handler panics are recovered and reported as errors.
func (d *Dispatcher) Publish(ctx context.Context, evt any) error {
	if evt == nil {
		return nil
	}

	eventName := getEventName(evt)

	d.mu.RLock()
	handlers := d.handlers[eventName]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	start := time.Now()

	futures := make([]*async.ExecFuture, 0, len(handlers))
	for _, h := range handlers {
		futures = append(futures, async.Exec(ctx, h, func(ctx context.Context, handler Handler) error {
			if err := safeHandle(handler, ctx, evt); err != nil {
				d.eventsFailed.Add(1)
				return fmt.Errorf("handler %s failed: %w", handler.EventName(), err)
			}
			d.eventsProcessed.Add(1)
			return nil
		}))
	}

	err := async.JoinAll(futures...)
	if err != nil {
		d.log.ErrorContext(ctx, "event handling failed",
			logger.Component("event.dispatcher"),
			slog.String("event", eventName),
			slog.Int("handlers", len(handlers)),
			logger.Duration(time.Since(start)),
			logger.Error(err))
		return err
	}

	d.log.DebugContext(ctx, "event handled",
		logger.Component("event.dispatcher"),
		slog.String("event", eventName),
		slog.Int("handlers", len(handlers)),
		logger.Duration(time.Since(start)))
	return nil
}

// Handlers returns the number of handlers registered for an event name.
func (d *Dispatcher) Handlers(eventName string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[eventName])
}

// Stats reports processed/failed handler execution counts for observability.
func (d *Dispatcher) Stats() (processed, failed int64) {
	return d.eventsProcessed.Load(), d.eventsFailed.Load()
}
