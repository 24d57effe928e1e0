package command

import "errors"

var (
	// ErrNoHandler is returned when a command has no registered handler.
	// This is a configuration error: every command type must be bound to
	// exactly one handler during startup.
	ErrNoHandler = errors.New("no handler registered for command")

	// ErrDuplicateHandler signals an attempt to register a second handler for
	// a command type. Exactly one handler may exist per command.
	ErrDuplicateHandler = errors.New("handler already registered for command")

	// ErrInvalidPayload is returned when a command payload does not match the
	// type expected by its handler.
	ErrInvalidPayload = errors.New("invalid command payload type")
)
