package broker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/interbus/core/broker"
)

// recordingDeliverer captures delivered messages and fails on demand.
type recordingDeliverer struct {
	mu       sync.Mutex
	messages []any
	failOn   func(msg any) error
}

func (d *recordingDeliverer) Publish(ctx context.Context, msg any) error {
	if d.failOn != nil {
		if err := d.failOn(msg); err != nil {
			return err
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
	return nil
}

func (d *recordingDeliverer) delivered() []any {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]any, len(d.messages))
	copy(out, d.messages)
	return out
}

type Ping struct {
	Seq int
}

// =============================================================================
// Sync Broker Tests
// =============================================================================

func TestSyncBroker_Publish(t *testing.T) {
	t.Parallel()

	t.Run("delivers all messages before returning", func(t *testing.T) {
		t.Parallel()

		client := &recordingDeliverer{}
		b := broker.NewSyncBroker(client)

		require.NoError(t, b.Publish(context.Background(), Ping{1}, Ping{2}, Ping{3}))
		assert.Len(t, client.delivered(), 3)
	})

	t.Run("nil entries are filtered", func(t *testing.T) {
		t.Parallel()

		client := &recordingDeliverer{}
		b := broker.NewSyncBroker(client)

		require.NoError(t, b.Publish(context.Background(), nil, Ping{1}, nil, Ping{2}))
		assert.Len(t, client.delivered(), 2)
	})

	t.Run("all-nil batch is a pure no-op", func(t *testing.T) {
		t.Parallel()

		client := &recordingDeliverer{}
		b := broker.NewSyncBroker(client)

		assert.NoError(t, b.Publish(context.Background(), nil, nil))
		assert.NoError(t, b.Publish(context.Background()))
		assert.Empty(t, client.delivered())
	})

	t.Run("failures aggregate, other messages still delivered", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("receiver down")
		client := &recordingDeliverer{
			failOn: func(msg any) error {
				if p, ok := msg.(Ping); ok && p.Seq == 2 {
					return wantErr
				}
				return nil
			},
		}
		b := broker.NewSyncBroker(client)

		err := b.Publish(context.Background(), Ping{1}, Ping{2}, Ping{3})
		require.Error(t, err)
		assert.ErrorIs(t, err, wantErr)
		assert.Len(t, client.delivered(), 2, "publisher observes the failure but siblings deliver")
	})
}

// =============================================================================
// Queued Broker Tests
// =============================================================================

func TestQueuedBroker_Publish(t *testing.T) {
	t.Parallel()

	t.Run("returns after enqueue, before delivery", func(t *testing.T) {
		t.Parallel()

		queue := broker.NewQueue()
		b := broker.NewQueuedBroker(queue)

		// No dispatcher running; Publish must still return promptly.
		require.NoError(t, b.Publish(context.Background(), Ping{1}, Ping{2}))
		assert.Equal(t, 2, queue.Len())
	})

	t.Run("nil filtering matches the sync broker", func(t *testing.T) {
		t.Parallel()

		queue := broker.NewQueue()
		b := broker.NewQueuedBroker(queue)

		require.NoError(t, b.Publish(context.Background(), nil, Ping{1}, nil))
		assert.Equal(t, 1, queue.Len())

		require.NoError(t, b.Publish(context.Background(), nil, nil))
		assert.Equal(t, 1, queue.Len())
	})

	t.Run("publish after close reports the enqueue failure", func(t *testing.T) {
		t.Parallel()

		queue := broker.NewQueue()
		b := broker.NewQueuedBroker(queue)
		queue.Close()

		err := b.Publish(context.Background(), Ping{1})
		assert.ErrorIs(t, err, broker.ErrQueueClosed)
	})

	t.Run("delivery failure is invisible to the publisher", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("receiver down")
		client := &recordingDeliverer{failOn: func(any) error { return wantErr }}

		queue := broker.NewQueue()
		b := broker.NewQueuedBroker(queue)
		dispatcher := broker.NewDispatcher(queue, client)

		go func() { _ = dispatcher.Start(context.Background()) }()
		t.Cleanup(func() { _ = dispatcher.Stop() })

		assert.NoError(t, b.Publish(context.Background(), Ping{1}))

		require.Eventually(t, func() bool {
			return dispatcher.Stats().Failed == 1
		}, time.Second, 10*time.Millisecond)
	})
}

// =============================================================================
// Strategy Selection Tests
// =============================================================================

func TestNew_StrategySelection(t *testing.T) {
	t.Parallel()

	t.Run("sync strategy has no background dispatcher", func(t *testing.T) {
		t.Parallel()

		b, dispatcher := broker.New(&recordingDeliverer{}, broker.Config{AsyncDelivery: false})
		require.NotNil(t, b)
		assert.Nil(t, dispatcher)
	})

	t.Run("queued strategy returns a dispatcher to run", func(t *testing.T) {
		t.Parallel()

		client := &recordingDeliverer{}
		b, dispatcher := broker.New(client, broker.Config{AsyncDelivery: true})
		require.NotNil(t, b)
		require.NotNil(t, dispatcher)

		go func() { _ = dispatcher.Start(context.Background()) }()
		t.Cleanup(func() { _ = dispatcher.Stop() })

		require.NoError(t, b.Publish(context.Background(), Ping{1}))

		require.Eventually(t, func() bool {
			return len(client.delivered()) == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("same handlers receive messages under either strategy", func(t *testing.T) {
		t.Parallel()

		for _, asyncDelivery := range []bool{false, true} {
			client := &recordingDeliverer{}
			b, dispatcher := broker.New(client, broker.Config{AsyncDelivery: asyncDelivery})
			if dispatcher != nil {
				go func() { _ = dispatcher.Start(context.Background()) }()
			}

			require.NoError(t, b.Publish(context.Background(), Ping{1}, Ping{2}))

			require.Eventually(t, func() bool {
				return len(client.delivered()) == 2
			}, time.Second, 10*time.Millisecond, "async=%v", asyncDelivery)

			if dispatcher != nil {
				_ = dispatcher.Stop()
			}
		}
	})
}
