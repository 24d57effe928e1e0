package command

import (
	"context"
	"fmt"
	"sync"
)

// Dispatcher routes each command to its single registered handler.
// Commands execute synchronously in the caller's goroutine, so the caller
// observes the handler's full latency and failure.
//
// Example:
//
//	dispatcher := command.NewDispatcher(
//	    command.WithMiddleware(command.LoggingMiddleware(logger)),
//	)
//	dispatcher.Register(command.NewHandlerFunc(createUserHandler))
//	err := dispatcher.Send(ctx, CreateUser{Email: "user@example.com"})
type Dispatcher struct {
	handlers   map[string]Handler
	middleware []Middleware
	mu         sync.RWMutex
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// NewDispatcher creates a new command dispatcher with the given options.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers:   make(map[string]Handler),
		middleware: []Middleware{},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Register registers a handler for a command type.
// Panics if a handler is already registered for the command: a duplicate
// binding is a startup-time defect, not a runtime condition.
func (d *Dispatcher) Register(handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cmdName := handler.Name()
	if _, exists := d.handlers[cmdName]; exists {
		panic(fmt.Sprintf("%s: %s", ErrDuplicateHandler, cmdName))
	}

	d.handlers[cmdName] = handler
}

// Send routes the command to its registered handler and blocks until the
// handler completes.
//
// A nil command is a silent no-op. A command with no registered handler
// returns ErrNoHandler: this indicates a missing startup registration and is
// not retriable. Handler panics are recovered and returned as errors.
func (d *Dispatcher) Send(ctx context.Context, cmd any) error {
	if cmd == nil {
		return nil
	}

	cmdName := getCommandNameFromInstance(cmd)

	handler, exists := d.getHandler(cmdName)
	if !exists {
		return fmt.Errorf("%w: %s", ErrNoHandler, cmdName)
	}

	return safeHandle(handler, ctx, cmd)
}

// Handles reports whether a handler is registered for the given command name.
func (d *Dispatcher) Handles(cmdName string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, exists := d.handlers[cmdName]
	return exists
}

// getHandler retrieves a handler by command name with middleware applied.
func (d *Dispatcher) getHandler(cmdName string) (Handler, bool) {
	d.mu.RLock()
	handler, exists := d.handlers[cmdName]
	middleware := d.middleware
	d.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if len(middleware) > 0 {
		handler = chainMiddleware(handler, middleware)
	}

	return handler, true
}

// WithMiddleware sets middleware for the dispatcher.
// Middleware is applied to all handlers in the order provided.
// Middleware must be configured at construction time and cannot be changed later.
func WithMiddleware(middleware ...Middleware) Option {
	return func(d *Dispatcher) {
		d.middleware = middleware
	}
}
