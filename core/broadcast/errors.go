package broadcast

import "errors"

var (
	// ErrUnnamedType is returned when a registration's receiver type is
	// anonymous or declared outside a package. Such types have no stable name
	// to key the registry by; this fails startup.
	ErrUnnamedType = errors.New("broadcast receiver type must be a named package-level type")

	// ErrNilAction is returned when a registration carries no delivery action.
	ErrNilAction = errors.New("broadcast registration action cannot be nil")

	// ErrDuplicateRegistration is returned when a module registers the same
	// receiver type twice. One registration per (type, module) pair; a second
	// one would deliver every message to that receiver twice.
	ErrDuplicateRegistration = errors.New("broadcast registration already exists for type and module")

	// ErrRegistryFrozen is returned when adding a registration after the
	// startup phase completed. Runtime re-registration is not supported.
	ErrRegistryFrozen = errors.New("broadcast registry is frozen")

	// ErrTranscode is returned when a message cannot be converted into a
	// receiver's declared type.
	ErrTranscode = errors.New("failed to transcode message")
)
