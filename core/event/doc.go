// Package event provides a type-safe event dispatcher for notifications with
// zero-or-many handlers, concurrent handler execution, and aggregated failure
// reporting.
//
// Events represent facts that already occurred: UserCreated, PaymentReceived,
// CredentialsProvided. Unlike commands, an event with no handlers is valid
// (Publish is then a no-op), and when several handlers match they all observe
// the event exactly once.
//
// # Concurrency and Failure Semantics
//
// Publish runs every matching handler concurrently and does not return until
// all of them finish. Failures are aggregated with errors.Join, so a caller
// can inspect every failed handler with errors.Is/As; one failing handler
// never prevents the others from completing. Handler panics are recovered and
// converted to errors.
//
// # Quick Start
//
//	import "github.com/dmitrymomot/interbus/core/event"
//
//	type UserCreated struct {
//	    UserID string
//	    Email  string
//	}
//
//	dispatcher := event.NewDispatcher()
//	dispatcher.Subscribe(
//	    event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
//	        return mailer.SendWelcome(ctx, evt.Email)
//	    }),
//	    event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
//	        return analytics.Track(ctx, "signup", evt.UserID)
//	    }),
//	)
//
//	err := dispatcher.Publish(ctx, UserCreated{UserID: "123", Email: "a@b.c"})
//
// # Naming
//
// Events are routed by the bare type name without the package path. Each
// module owns one Dispatcher; cross-module delivery goes through the
// broadcast registry (see core/broadcast), which keys on the same short name.
package event
