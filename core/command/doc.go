// Package command provides a type-safe command dispatcher with one-to-one
// handler routing, middleware support, and unified panic recovery.
//
// Commands represent intent/orders with exactly one handler each: CreateUser,
// GenerateThumbnail, SendEmail. A command with no registered handler is a
// configuration error surfaced as ErrNoHandler; a duplicate registration
// panics at startup.
//
// Dispatch is synchronous: Send blocks until the handler completes and returns
// its error directly to the caller. A nil command is a deliberate no-op.
//
// # Quick Start
//
//	import "github.com/dmitrymomot/interbus/core/command"
//
//	type CreateUser struct {
//	    Email string
//	    Name  string
//	}
//
//	func createUserHandler(ctx context.Context, cmd CreateUser) error {
//	    return db.Insert(ctx, cmd.Email, cmd.Name)
//	}
//
//	dispatcher := command.NewDispatcher()
//	dispatcher.Register(command.NewHandlerFunc(createUserHandler))
//
//	err := dispatcher.Send(ctx, CreateUser{
//	    Email: "user@example.com",
//	    Name:  "John Doe",
//	})
//
// # Per-Dispatch State
//
// Handlers registered via NewHandlerFunc are shared across dispatches and must
// be safe for concurrent use. When a handler needs state scoped to a single
// dispatch, register it with NewHandlerFactory: the factory builds a fresh
// handler function per Send call, so nothing leaks across concurrent commands.
//
// # Naming
//
// Command names are the bare type name without the package path (CreateUser,
// not users.CreateUser). Two distinct types with the same short name resolve
// to the same handler slot; keep command type names unique across modules.
package command
