package command

import (
	"context"
	"fmt"
)

// Handler defines the interface for command handlers.
// Each handler processes exactly one command type.
type Handler interface {
	// Name returns the unique command name this handler processes.
	Name() string

	// Handle executes the handler with the given command payload.
	// The payload must be of the type expected by this handler.
	Handle(ctx context.Context, payload any) error
}

// HandlerFunc is a type-safe function signature for handling commands of type T.
type HandlerFunc[T any] func(context.Context, T) error

// handlerFuncWrapper is a generic, type-safe command handler implementation.
type handlerFuncWrapper[T any] struct {
	name string
	fn   HandlerFunc[T]
}

// NewHandlerFunc creates a new type-safe command handler.
// The command name is automatically derived from the type T.
//
// Example:
//
//	handler := command.NewHandlerFunc(func(ctx context.Context, cmd CreateUser) error {
//	    return db.Insert(ctx, cmd.Email, cmd.Name)
//	})
func NewHandlerFunc[T any](fn HandlerFunc[T]) Handler {
	var zero T
	return &handlerFuncWrapper[T]{
		name: getCommandNameFromInstance(zero),
		fn:   fn,
	}
}

// NewHandler creates a handler with a manually specified command name.
// Use this when you need explicit control over the name.
func NewHandler[T any](name string, fn HandlerFunc[T]) Handler {
	return &handlerFuncWrapper[T]{
		name: name,
		fn:   fn,
	}
}

// Name returns the command name this handler processes.
func (h *handlerFuncWrapper[T]) Name() string {
	return h.name
}

// Handle executes the handler function with type-safe payload conversion.
func (h *handlerFuncWrapper[T]) Handle(ctx context.Context, payload any) error {
	cmd, ok := payload.(T)
	if !ok {
		return fmt.Errorf("%w: expected %s, got %T", ErrInvalidPayload, h.name, payload)
	}
	return h.fn(ctx, cmd)
}

// scopedHandler builds a fresh handler function for every dispatch.
type scopedHandler[T any] struct {
	name    string
	factory func() HandlerFunc[T]
}

// NewHandlerFactory creates a handler that constructs a fresh handler function
// for every dispatch. State captured inside the returned function lives for a
// single Send call and never leaks across concurrent dispatches.
//
// Example:
//
//	handler := command.NewHandlerFactory(func() command.HandlerFunc[ImportUsers] {
//	    batch := newImportBatch() // per-dispatch state
//	    return func(ctx context.Context, cmd ImportUsers) error {
//	        return batch.Run(ctx, cmd.Source)
//	    }
//	})
func NewHandlerFactory[T any](factory func() HandlerFunc[T]) Handler {
	var zero T
	return &scopedHandler[T]{
		name:    getCommandNameFromInstance(zero),
		factory: factory,
	}
}

// Name returns the command name this handler processes.
func (h *scopedHandler[T]) Name() string {
	return h.name
}

// Handle builds a fresh handler function and executes it.
func (h *scopedHandler[T]) Handle(ctx context.Context, payload any) error {
	cmd, ok := payload.(T)
	if !ok {
		return fmt.Errorf("%w: expected %s, got %T", ErrInvalidPayload, h.name, payload)
	}
	return h.factory()(ctx, cmd)
}
