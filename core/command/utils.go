package command

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// commandNameCache caches reflection results for command name lookups.
// Key is reflect.Type, value is the command name string.
var commandNameCache sync.Map

// getCommandName derives the command name from a reflect.Type.
// Pointers are dereferenced; named types use their bare name without the
// package path. Results are cached to avoid repeated reflection overhead.
func getCommandName(t reflect.Type) string {
	if name, ok := commandNameCache.Load(t); ok {
		return name.(string)
	}

	original := t
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}

	commandNameCache.Store(original, name)
	return name
}

// getCommandNameFromInstance returns the command name for a given command instance.
func getCommandNameFromInstance(cmd any) string {
	return getCommandName(reflect.TypeOf(cmd))
}

// chainMiddleware applies multiple middleware in order.
// The first middleware in the slice is the outermost (executed first).
func chainMiddleware(handler Handler, middleware []Middleware) Handler {
	// Reverse order required: wrapping innermost first makes it execute last
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}

// safeHandle executes a handler with panic recovery.
// If the handler panics, the panic is caught and converted to an error.
func safeHandle(handler Handler, ctx context.Context, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", handler.Name(), r)
		}
	}()
	return handler.Handle(ctx, payload)
}
