package modular

import "errors"

var (
	// ErrDuplicateModule is returned when two modules share a name.
	ErrDuplicateModule = errors.New("duplicate module name")

	// ErrInvalidRegistration is returned when a module's broadcast
	// registration is rejected by the registry. This fails startup.
	ErrInvalidRegistration = errors.New("invalid broadcast registration")

	// ErrUnknownModule is returned when looking up the event dispatcher of a
	// module that was not registered.
	ErrUnknownModule = errors.New("unknown module")
)
