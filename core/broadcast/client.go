package broadcast

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/dmitrymomot/interbus/core/logger"
	"github.com/dmitrymomot/interbus/pkg/async"
)

// Client is the cross-module publish entry point. It resolves registrations
// by the message's runtime type name, transcodes the message into each
// receiver's declared type, and invokes all matching delivery actions
// concurrently.
//
// Example:
//
//	client := broadcast.NewClient(registry, broadcast.WithLogger(log))
//	err := client.Publish(ctx, CredentialsProvided{PublicKey: key, Username: "alice"})
type Client struct {
	registry *Registry
	codec    Codec
	log      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithCodec overrides the codec used for transcoding. Default is JSON.
func WithCodec(codec Codec) ClientOption {
	return func(c *Client) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithLogger sets the logger for delivery diagnostics.
// By default logging is discarded.
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a module client over the given registry.
func NewClient(registry *Registry, opts ...ClientOption) *Client {
	c := &Client{
		registry: registry,
		codec:    JSONCodec(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Publish delivers the message to every registration matching its type name.
//
// Each matching registration receives its own transcoded instance: the
// message is encoded once, then decoded into a fresh value of the receiver's
// declared type, so sender and receiver need only structural compatibility
// (shared field names), never a shared concrete type. Deliveries run
// concurrently; failures are aggregated with errors.Join and one failing
// receiver never prevents the others from completing.
//
// A nil message or a message with no matching registrations is a no-op.
func (c *Client) Publish(ctx context.Context, msg any) error {
	if msg == nil {
		return nil
	}

	name := typeName(msg)
	regs := c.registry.Get(name)
	if len(regs) == 0 {
		c.log.DebugContext(ctx, "no broadcast registrations",
			logger.Component("broadcast.client"),
			logger.Message(name))
		return nil
	}

	// Encode once; every receiver decodes its own instance.
	data, err := c.codec.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTranscode, name, err)
	}

	start := time.Now()

	futures := make([]*async.ExecFuture, 0, len(regs))
	for _, reg := range regs {
		futures = append(futures, async.Exec(ctx, reg, func(ctx context.Context, reg Registration) error {
			payload, err := c.decodeInto(data, reg.ReceiverType)
			if err != nil {
				return fmt.Errorf("module %s: %w", reg.Module, err)
			}
			if err := reg.Action(ctx, payload); err != nil {
				return fmt.Errorf("module %s: delivery of %s failed: %w", reg.Module, name, err)
			}
			return nil
		}))
	}

	if err := async.JoinAll(futures...); err != nil {
		c.log.ErrorContext(ctx, "broadcast delivery failed",
			logger.Component("broadcast.client"),
			logger.Message(name, slog.Int("registrations", len(regs))),
			logger.Duration(time.Since(start)),
			logger.Error(err))
		return err
	}

	c.log.DebugContext(ctx, "broadcast delivered",
		logger.Component("broadcast.client"),
		logger.Message(name, slog.Int("registrations", len(regs))),
		logger.Duration(time.Since(start)))
	return nil
}

// decodeInto decodes the encoded message into a fresh instance of the target
// type and returns it as a value.
func (c *Client) decodeInto(data []byte, target reflect.Type) (any, error) {
	ptr := reflect.New(target)
	if err := c.codec.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("%w: into %s: %w", ErrTranscode, target.String(), err)
	}
	return ptr.Elem().Interface(), nil
}

// typeName returns the bare type name of a message, unwrapping pointers.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
