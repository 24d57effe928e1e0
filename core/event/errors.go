package event

import "errors"

var (
	// ErrNilHandler is returned when a nil handler is passed to Subscribe.
	ErrNilHandler = errors.New("event handler cannot be nil")
)
