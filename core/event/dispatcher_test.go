package event_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/interbus/core/event"
)

// Test event types
type (
	UserCreated struct {
		UserID string
		Email  string
	}

	OrderPlaced struct {
		OrderID string
	}
)

// =============================================================================
// Publish Tests
// =============================================================================

func TestDispatcher_Publish(t *testing.T) {
	t.Parallel()

	t.Run("zero handlers is a no-op", func(t *testing.T) {
		t.Parallel()

		dispatcher := event.NewDispatcher()
		assert.NoError(t, dispatcher.Publish(context.Background(), UserCreated{UserID: "1"}))
	})

	t.Run("nil event is a no-op", func(t *testing.T) {
		t.Parallel()

		dispatcher := event.NewDispatcher()
		assert.NoError(t, dispatcher.Publish(context.Background(), nil))
	})

	t.Run("all handlers observe the event exactly once", func(t *testing.T) {
		t.Parallel()

		const handlerCount = 5
		var calls [handlerCount]atomic.Int32

		dispatcher := event.NewDispatcher()
		for i := 0; i < handlerCount; i++ {
			i := i
			dispatcher.Subscribe(event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
				calls[i].Add(1)
				assert.Equal(t, "42", evt.UserID)
				return nil
			}))
		}

		require.NoError(t, dispatcher.Publish(context.Background(), UserCreated{UserID: "42"}))

		for i := range calls {
			assert.Equal(t, int32(1), calls[i].Load(), "handler %d call count", i)
		}
	})

	t.Run("publish waits for all handlers", func(t *testing.T) {
		t.Parallel()

		var completed atomic.Int32
		dispatcher := event.NewDispatcher()
		for i := 0; i < 3; i++ {
			dispatcher.Subscribe(event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
				time.Sleep(30 * time.Millisecond)
				completed.Add(1)
				return nil
			}))
		}

		require.NoError(t, dispatcher.Publish(context.Background(), UserCreated{}))
		assert.Equal(t, int32(3), completed.Load(), "Publish returned before all handlers completed")
	})

	t.Run("handlers run concurrently", func(t *testing.T) {
		t.Parallel()

		// Each handler blocks until every other handler has started.
		// Sequential execution would deadlock; the timeout guards against it.
		const handlerCount = 3
		var wg sync.WaitGroup
		wg.Add(handlerCount)

		dispatcher := event.NewDispatcher()
		for i := 0; i < handlerCount; i++ {
			dispatcher.Subscribe(event.NewHandlerFunc(func(ctx context.Context, evt OrderPlaced) error {
				wg.Done()
				done := make(chan struct{})
				go func() {
					wg.Wait()
					close(done)
				}()
				select {
				case <-done:
					return nil
				case <-time.After(2 * time.Second):
					return errors.New("handlers did not overlap")
				}
			}))
		}

		assert.NoError(t, dispatcher.Publish(context.Background(), OrderPlaced{}))
	})

	t.Run("failures are aggregated and others still run", func(t *testing.T) {
		t.Parallel()

		errA := errors.New("handler A failed")
		errB := errors.New("handler B failed")
		var succeeded atomic.Int32

		dispatcher := event.NewDispatcher()
		dispatcher.Subscribe(
			event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error { return errA }),
			event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
				succeeded.Add(1)
				return nil
			}),
			event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error { return errB }),
		)

		err := dispatcher.Publish(context.Background(), UserCreated{})
		require.Error(t, err)
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
		assert.Equal(t, int32(1), succeeded.Load(), "healthy handler must run despite sibling failures")
	})

	t.Run("handler panic is recovered", func(t *testing.T) {
		t.Parallel()

		dispatcher := event.NewDispatcher()
		dispatcher.Subscribe(event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
			panic("boom")
		}))

		err := dispatcher.Publish(context.Background(), UserCreated{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panicked")
	})

	t.Run("pointer events deliver to value-typed handlers", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		dispatcher := event.NewDispatcher()
		dispatcher.Subscribe(event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
			calls.Add(1)
			assert.Equal(t, "7", evt.UserID)
			return nil
		}))

		require.NoError(t, dispatcher.Publish(context.Background(), &UserCreated{UserID: "7"}))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("events route by type name only", func(t *testing.T) {
		t.Parallel()

		var userCalls, orderCalls atomic.Int32
		dispatcher := event.NewDispatcher()
		dispatcher.Subscribe(
			event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
				userCalls.Add(1)
				return nil
			}),
			event.NewHandlerFunc(func(ctx context.Context, evt OrderPlaced) error {
				orderCalls.Add(1)
				return nil
			}),
		)

		require.NoError(t, dispatcher.Publish(context.Background(), OrderPlaced{OrderID: "o-1"}))
		assert.Equal(t, int32(0), userCalls.Load())
		assert.Equal(t, int32(1), orderCalls.Load())
	})
}

// =============================================================================
// Subscribe Tests
// =============================================================================

func TestDispatcher_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("nil handler panics", func(t *testing.T) {
		t.Parallel()

		dispatcher := event.NewDispatcher()
		assert.Panics(t, func() {
			dispatcher.Subscribe(nil)
		})
	})

	t.Run("handlers counts registrations per name", func(t *testing.T) {
		t.Parallel()

		dispatcher := event.NewDispatcher()
		dispatcher.Subscribe(
			event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error { return nil }),
			event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error { return nil }),
		)

		assert.Equal(t, 2, dispatcher.Handlers("UserCreated"))
		assert.Equal(t, 0, dispatcher.Handlers("OrderPlaced"))
	})
}

// =============================================================================
// Stats Tests
// =============================================================================

func TestDispatcher_Stats(t *testing.T) {
	t.Parallel()

	dispatcher := event.NewDispatcher()
	dispatcher.Subscribe(
		event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error { return nil }),
		event.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error { return assert.AnError }),
	)

	_ = dispatcher.Publish(context.Background(), UserCreated{})

	processed, failed := dispatcher.Stats()
	assert.Equal(t, int64(1), processed)
	assert.Equal(t, int64(1), failed)
}
