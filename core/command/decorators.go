package command

import (
	"context"
	"fmt"
	"time"
)

// decoratorHandler wraps a Handler with additional functionality.
type decoratorHandler struct {
	name string
	fn   func(ctx context.Context, payload any) error
}

func (h *decoratorHandler) Name() string {
	return h.name
}

func (h *decoratorHandler) Handle(ctx context.Context, payload any) error {
	return h.fn(ctx, payload)
}

// WithRetry wraps a handler to retry on errors up to maxRetries times.
// Returns the last error if all retries fail. Retries stop early when the
// context is canceled.
//
// Example:
//
//	dispatcher.Register(command.WithRetry(
//	    command.NewHandlerFunc(createUserHandler),
//	    3,
//	))
func WithRetry(handler Handler, maxRetries int) Handler {
	return &decoratorHandler{
		name: handler.Name(),
		fn: func(ctx context.Context, payload any) error {
			var lastErr error

			for attempt := 0; attempt <= maxRetries; attempt++ {
				if attempt > 0 {
					if ctx.Err() != nil {
						return ctx.Err()
					}
				}

				err := handler.Handle(ctx, payload)
				if err == nil {
					return nil
				}

				lastErr = err
			}

			return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
		},
	}
}

// WithTimeout wraps a handler to enforce a per-dispatch deadline.
// The handler receives a context canceled after the timeout; the deadline
// error is returned if it fires first.
//
// Example:
//
//	dispatcher.Register(command.WithTimeout(
//	    command.NewHandlerFunc(generateReportHandler),
//	    5*time.Second,
//	))
func WithTimeout(handler Handler, timeout time.Duration) Handler {
	return &decoratorHandler{
		name: handler.Name(),
		fn: func(ctx context.Context, payload any) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- handler.Handle(ctx, payload)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
}
