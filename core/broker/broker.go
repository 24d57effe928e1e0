package broker

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Broker is the module-facing publish API. Both delivery strategies expose
// the identical contract, so publisher code never changes when the strategy
// does; only the timing and visibility of delivery failures change.
type Broker interface {
	// Publish accepts a batch of messages for cross-module delivery.
	// Nil entries are filtered out; an empty or all-nil batch is a no-op.
	Publish(ctx context.Context, msgs ...any) error
}

// Deliverer performs the actual cross-module delivery of one message.
// *broadcast.Client is the production implementation.
type Deliverer interface {
	Publish(ctx context.Context, msg any) error
}

// Config selects the delivery strategy, read once at startup.
type Config struct {
	// AsyncDelivery enqueues messages for background delivery instead of
	// delivering synchronously inside the publisher's call.
	AsyncDelivery bool `env:"BUS_ASYNC_DELIVERY" envDefault:"false"`

	// ShutdownTimeout bounds how long the background dispatcher waits for an
	// in-flight delivery during Stop.
	ShutdownTimeout time.Duration `env:"BUS_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Option configures broker construction.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used by the broker and, for the queued strategy,
// the background dispatcher.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

func newOptions(opts ...Option) options {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New builds a broker for the configured delivery strategy.
//
// For the synchronous strategy the returned Dispatcher is nil: delivery
// happens inside Publish and there is nothing to run in the background.
// For the queued strategy the caller must run the returned Dispatcher
// (Start or Run) and stop it during shutdown; messages still queued at that
// point are lost.
//
// Example:
//
//	var cfg broker.Config
//	config.MustLoad(&cfg)
//
//	b, dispatcher := broker.New(client, cfg, broker.WithLogger(log))
//	if dispatcher != nil {
//	    go dispatcher.Start(ctx)
//	    defer dispatcher.Stop()
//	}
//	err := b.Publish(ctx, CredentialsProvided{Username: "alice"})
func New(client Deliverer, cfg Config, opts ...Option) (Broker, *Dispatcher) {
	o := newOptions(opts...)

	if !cfg.AsyncDelivery {
		return NewSyncBroker(client, opts...), nil
	}

	queue := NewQueue()
	dispatcher := NewDispatcher(queue, client,
		WithDispatcherLogger(o.logger),
		WithShutdownTimeout(cfg.ShutdownTimeout),
	)
	return NewQueuedBroker(queue, opts...), dispatcher
}
