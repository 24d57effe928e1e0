package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/interbus/core/logger"
)

// Middleware wraps a Handler to add cross-cutting functionality.
// Middleware can be used for logging, metrics, tracing, validation, etc.
type Middleware func(next Handler) Handler

// middlewareHandler wraps a Handler with middleware functionality.
type middlewareHandler struct {
	name string
	fn   func(ctx context.Context, payload any) error
}

func (h *middlewareHandler) Name() string {
	return h.name
}

func (h *middlewareHandler) Handle(ctx context.Context, payload any) error {
	return h.fn(ctx, payload)
}

// LoggingMiddleware returns a middleware that logs command execution with
// duration and outcome.
func LoggingMiddleware(log *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return &middlewareHandler{
			name: next.Name(),
			fn: func(ctx context.Context, payload any) error {
				start := time.Now()

				err := next.Handle(ctx, payload)

				if err != nil {
					log.ErrorContext(ctx, "command failed",
						logger.Component("command.dispatcher"),
						slog.String("command", next.Name()),
						logger.Duration(time.Since(start)),
						logger.Error(err))
					return err
				}

				log.DebugContext(ctx, "command completed",
					logger.Component("command.dispatcher"),
					slog.String("command", next.Name()),
					logger.Duration(time.Since(start)))
				return nil
			},
		}
	}
}
