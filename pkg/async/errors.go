package async

import "errors"

var (
	// ErrTimeout is returned by AwaitWithTimeout when the computation does not
	// complete before the timeout elapses.
	ErrTimeout = errors.New("async operation timed out")
)
