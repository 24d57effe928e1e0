package broadcast

import (
	"context"
	"fmt"
	"reflect"

	"github.com/dmitrymomot/interbus/core/event"
)

// Bind creates a type-safe registration: messages whose type name matches T's
// bare name are transcoded into T and passed to fn.
//
// Example:
//
//	reg := broadcast.Bind("iam", func(ctx context.Context, evt CredentialsProvided) error {
//	    return iam.StoreCredentials(ctx, evt.PublicKey, evt.Username)
//	})
//	registry.Add(reg)
func Bind[T any](module string, fn func(context.Context, T) error) Registration {
	return Registration{
		Module:       module,
		ReceiverType: reflect.TypeOf((*T)(nil)).Elem(),
		Action: func(ctx context.Context, payload any) error {
			typed, ok := payload.(T)
			if !ok {
				return fmt.Errorf("%w: expected %T, got %T", ErrTranscode, *new(T), payload)
			}
			return fn(ctx, typed)
		},
	}
}

// BindDispatcher creates a registration that forwards the transcoded message
// into the receiving module's own event dispatcher, where all locally
// subscribed handlers run. This is the standard wiring for cross-module
// event delivery.
//
// Example:
//
//	registry.Add(broadcast.BindDispatcher[CredentialsProvided]("iam", iamEvents))
func BindDispatcher[T any](module string, dispatcher *event.Dispatcher) Registration {
	return Bind(module, func(ctx context.Context, evt T) error {
		return dispatcher.Publish(ctx, evt)
	})
}
