package config

import "errors"

var (
	// ErrNilConfig is returned when Load is called with a nil pointer.
	ErrNilConfig = errors.New("config target cannot be nil")

	// ErrParseFailed is returned when environment variables cannot be parsed
	// into the configuration struct.
	ErrParseFailed = errors.New("failed to parse environment")
)
