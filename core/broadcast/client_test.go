package broadcast_test

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/interbus/core/broadcast"
	"github.com/dmitrymomot/interbus/core/event"
	"github.com/dmitrymomot/interbus/internal/testmsg/iam"
	"github.com/dmitrymomot/interbus/internal/testmsg/users"
)

// =============================================================================
// Transcoding Tests
// =============================================================================

func TestClient_Publish_Transcoding(t *testing.T) {
	t.Parallel()

	t.Run("shared fields survive, extras drop, missing default", func(t *testing.T) {
		t.Parallel()

		received := make(chan iam.CredentialsProvided, 1)

		registry := broadcast.NewRegistry()
		require.NoError(t, registry.Add(broadcast.Bind("iam", func(ctx context.Context, evt iam.CredentialsProvided) error {
			received <- evt
			return nil
		})))
		registry.Freeze()

		client := broadcast.NewClient(registry)
		err := client.Publish(context.Background(), users.CredentialsProvided{
			PublicKey:  []byte{0xAA, 0xBB},
			Username:   "alice",
			Passphrase: "hunter2",
		})
		require.NoError(t, err)

		evt := <-received
		assert.True(t, bytes.Equal([]byte{0xAA, 0xBB}, evt.PublicKey))
		assert.Equal(t, "alice", evt.Username)
		assert.True(t, evt.GrantedAt.IsZero(), "field absent in source must stay at zero value")
	})

	t.Run("receivers never share the delivered instance", func(t *testing.T) {
		t.Parallel()

		mutated := make(chan []byte, 1)
		observed := make(chan []byte, 1)

		registry := broadcast.NewRegistry()
		require.NoError(t, registry.Add(broadcast.Bind("iam", func(ctx context.Context, evt iam.CredentialsProvided) error {
			evt.PublicKey[0] = 0xFF
			mutated <- evt.PublicKey
			return nil
		})))
		require.NoError(t, registry.Add(broadcast.Bind("audit", func(ctx context.Context, evt iam.CredentialsProvided) error {
			time.Sleep(20 * time.Millisecond) // let the first receiver mutate its copy
			observed <- evt.PublicKey
			return nil
		})))
		registry.Freeze()

		client := broadcast.NewClient(registry)
		require.NoError(t, client.Publish(context.Background(), users.CredentialsProvided{
			PublicKey: []byte{0x01},
			Username:  "alice",
		}))

		<-mutated
		assert.Equal(t, []byte{0x01}, <-observed, "each receiver must get its own transcoded instance")
	})
}

// =============================================================================
// Routing Tests
// =============================================================================

func TestClient_Publish_Routing(t *testing.T) {
	t.Parallel()

	t.Run("same-named types deliver to both registrations", func(t *testing.T) {
		t.Parallel()

		var usersSide, iamSide atomic.Int32

		registry := broadcast.NewRegistry()
		require.NoError(t, registry.Add(broadcast.Bind("users", func(ctx context.Context, evt users.CredentialsProvided) error {
			usersSide.Add(1)
			return nil
		})))
		require.NoError(t, registry.Add(broadcast.Bind("iam", func(ctx context.Context, evt iam.CredentialsProvided) error {
			iamSide.Add(1)
			return nil
		})))
		registry.Freeze()

		client := broadcast.NewClient(registry)

		// Publishing either module's type reaches both registrations.
		require.NoError(t, client.Publish(context.Background(), users.CredentialsProvided{Username: "a"}))
		require.NoError(t, client.Publish(context.Background(), iam.CredentialsProvided{Username: "b"}))

		assert.Equal(t, int32(2), usersSide.Load())
		assert.Equal(t, int32(2), iamSide.Load())
	})

	t.Run("each receiver observes a message exactly once", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		registry := broadcast.NewRegistry()
		require.NoError(t, registry.Add(broadcast.Bind("iam", func(ctx context.Context, evt iam.CredentialsProvided) error {
			calls.Add(1)
			return nil
		})))

		// A second binding for the same pair is a startup defect, never a
		// second delivery.
		require.Error(t, registry.Add(broadcast.Bind("iam", func(ctx context.Context, evt iam.CredentialsProvided) error {
			calls.Add(1)
			return nil
		})))
		registry.Freeze()

		client := broadcast.NewClient(registry)
		require.NoError(t, client.Publish(context.Background(), iam.CredentialsProvided{Username: "alice"}))

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("nil message is a no-op", func(t *testing.T) {
		t.Parallel()

		client := broadcast.NewClient(broadcast.NewRegistry())
		assert.NoError(t, client.Publish(context.Background(), nil))
	})

	t.Run("no registrations is a no-op", func(t *testing.T) {
		t.Parallel()

		registry := broadcast.NewRegistry()
		registry.Freeze()

		client := broadcast.NewClient(registry)
		assert.NoError(t, client.Publish(context.Background(), users.UserRegistered{UserID: "1"}))
	})

	t.Run("delivers into a module's event dispatcher", func(t *testing.T) {
		t.Parallel()

		received := make(chan iam.CredentialsProvided, 1)
		iamEvents := event.NewDispatcher()
		iamEvents.Subscribe(event.NewHandlerFunc(func(ctx context.Context, evt iam.CredentialsProvided) error {
			received <- evt
			return nil
		}))

		registry := broadcast.NewRegistry()
		require.NoError(t, registry.Add(broadcast.BindDispatcher[iam.CredentialsProvided]("iam", iamEvents)))
		registry.Freeze()

		client := broadcast.NewClient(registry)
		require.NoError(t, client.Publish(context.Background(), users.CredentialsProvided{Username: "alice"}))

		assert.Equal(t, "alice", (<-received).Username)
	})
}

// =============================================================================
// Partial Failure Tests
// =============================================================================

func TestClient_Publish_PartialFailure(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("iam store unavailable")
	var delivered atomic.Int32

	registry := broadcast.NewRegistry()
	require.NoError(t, registry.Add(broadcast.Bind("iam", func(ctx context.Context, evt iam.CredentialsProvided) error {
		return wantErr
	})))
	require.NoError(t, registry.Add(broadcast.Bind("audit", func(ctx context.Context, evt iam.CredentialsProvided) error {
		delivered.Add(1)
		return nil
	})))
	registry.Freeze()

	client := broadcast.NewClient(registry)
	err := client.Publish(context.Background(), users.CredentialsProvided{Username: "alice"})

	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Contains(t, err.Error(), "iam")
	assert.Equal(t, int32(1), delivered.Load(), "healthy receiver must complete despite sibling failure")
}
