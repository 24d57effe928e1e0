package broker

import "errors"

var (
	// ErrQueueClosed is returned when enqueueing to a closed queue, or when
	// dequeueing after a closed queue has been fully drained.
	ErrQueueClosed = errors.New("message queue is closed")

	// ErrDispatcherAlreadyStarted is returned when starting a dispatcher that is already running.
	ErrDispatcherAlreadyStarted = errors.New("background dispatcher already started")

	// ErrDispatcherNotStarted is returned when stopping a dispatcher that is not running.
	ErrDispatcherNotStarted = errors.New("background dispatcher not started")

	// ErrHealthcheckFailed is returned when the dispatcher health check fails.
	ErrHealthcheckFailed = errors.New("healthcheck failed")

	// ErrDispatcherNotRunning is returned by health checks while the dispatcher is stopped.
	ErrDispatcherNotRunning = errors.New("background dispatcher not running")
)
