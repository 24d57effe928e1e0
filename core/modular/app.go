package modular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/interbus/core/broadcast"
	"github.com/dmitrymomot/interbus/core/broker"
	"github.com/dmitrymomot/interbus/core/command"
	"github.com/dmitrymomot/interbus/core/event"
	"github.com/dmitrymomot/interbus/core/logger"
)

// App assembles the bus from a set of modules: one process-wide command
// dispatcher, one event dispatcher per module, a frozen broadcast registry
// with its client, and a broker for the configured delivery strategy.
//
// Example:
//
//	var cfg broker.Config
//	config.MustLoad(&cfg)
//
//	app, err := modular.New(cfg, []modular.Module{users.New(), iam.New()},
//	    modular.WithLogger(log))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Close()
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(app.Run(ctx))
//
//	err = app.Broker().Publish(ctx, CredentialsProvided{Username: "alice"})
type App struct {
	commands   *command.Dispatcher
	events     map[string]*event.Dispatcher
	registry   *broadcast.Registry
	client     *broadcast.Client
	broker     broker.Broker
	dispatcher *broker.Dispatcher
	log        *slog.Logger
}

// AppOption configures the assembly.
type AppOption func(*appOptions)

type appOptions struct {
	logger *slog.Logger
	codec  broadcast.Codec
}

// WithLogger sets the logger shared by all bus components.
// By default logging is discarded.
func WithLogger(log *slog.Logger) AppOption {
	return func(o *appOptions) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithCodec overrides the transcoding codec. Default is JSON.
func WithCodec(codec broadcast.Codec) AppOption {
	return func(o *appOptions) {
		if codec != nil {
			o.codec = codec
		}
	}
}

// New wires the modules together. This is the startup registration pass:
// every binding a module contributes is validated here, and any defect
// (duplicate module, invalid broadcast registration) fails construction.
// Duplicate command registrations across modules panic, as they would on a
// single dispatcher.
//
// The returned App's registry is frozen: no runtime re-registration.
func New(cfg broker.Config, modules []Module, opts ...AppOption) (*App, error) {
	o := appOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		codec:  broadcast.JSONCodec(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	app := &App{
		commands: command.NewDispatcher(
			command.WithMiddleware(command.LoggingMiddleware(o.logger)),
		),
		events:   make(map[string]*event.Dispatcher, len(modules)),
		registry: broadcast.NewRegistry(),
		log:      o.logger,
	}

	for _, m := range modules {
		if _, exists := app.events[m.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateModule, m.Name())
		}

		local := event.NewDispatcher(event.WithLogger(o.logger))
		local.Subscribe(m.Events()...)
		app.events[m.Name()] = local

		for _, h := range m.Commands() {
			app.commands.Register(h)
		}

		for _, reg := range m.Broadcasts(local) {
			if reg.Module == "" {
				reg.Module = m.Name()
			}
			if err := app.registry.Add(reg); err != nil {
				return nil, fmt.Errorf("%w: module %s: %w", ErrInvalidRegistration, m.Name(), err)
			}
		}

		o.logger.Info("module registered",
			logger.Component("modular"),
			slog.String("module", m.Name()),
			slog.Int("commands", len(m.Commands())),
			slog.Int("events", len(m.Events())))
	}

	app.registry.Freeze()

	app.client = broadcast.NewClient(app.registry,
		broadcast.WithCodec(o.codec),
		broadcast.WithLogger(o.logger),
	)
	app.broker, app.dispatcher = broker.New(app.client, cfg, broker.WithLogger(o.logger))

	return app, nil
}

// Broker returns the module-facing publish API.
func (a *App) Broker() broker.Broker {
	return a.broker
}

// Commands returns the process-wide command dispatcher.
func (a *App) Commands() *command.Dispatcher {
	return a.commands
}

// Events returns the event dispatcher owned by the named module.
func (a *App) Events(module string) (*event.Dispatcher, error) {
	d, ok := a.events[module]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, module)
	}
	return d, nil
}

// Registry exposes the frozen broadcast registry for diagnostics.
func (a *App) Registry() *broadcast.Registry {
	return a.registry
}

// Run provides errgroup compatibility. For the queued delivery strategy it
// runs the background dispatcher until the context is cancelled; for the
// synchronous strategy it simply blocks until cancellation.
func (a *App) Run(ctx context.Context) func() error {
	if a.dispatcher != nil {
		return a.dispatcher.Run(ctx)
	}
	return func() error {
		<-ctx.Done()
		return nil
	}
}

// Close stops the background dispatcher, abandoning any undelivered backlog.
// Safe to call for either delivery strategy.
func (a *App) Close() error {
	if a.dispatcher == nil {
		return nil
	}
	if err := a.dispatcher.Stop(); err != nil && !errors.Is(err, broker.ErrDispatcherNotStarted) {
		return err
	}
	return nil
}
