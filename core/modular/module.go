package modular

import (
	"github.com/dmitrymomot/interbus/core/broadcast"
	"github.com/dmitrymomot/interbus/core/command"
	"github.com/dmitrymomot/interbus/core/event"
)

// Module is an independently-authored unit of functionality that communicates
// with other modules only through the bus, never via direct type references.
//
// At startup every module contributes its bindings explicitly: command
// handlers (process-wide, exactly one per command type), event handlers
// (local to the module's own dispatcher), and broadcast registrations
// (cross-module receive declarations). No runtime type scanning is involved.
type Module interface {
	// Name returns the unique module name, used for registry diagnostics
	// and event dispatcher lookup.
	Name() string

	// Commands returns the module's command handlers. Command handling is
	// process-wide: two modules registering the same command type is a
	// startup defect.
	Commands() []command.Handler

	// Events returns handlers for the module's own events, subscribed on the
	// module-local dispatcher.
	Events() []event.Handler

	// Broadcasts declares which cross-module messages this module receives.
	// The local dispatcher is the module's own event dispatcher; bindings
	// created with broadcast.BindDispatcher deliver into it.
	Broadcasts(local *event.Dispatcher) []broadcast.Registration
}
