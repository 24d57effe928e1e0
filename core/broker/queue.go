package broker

import (
	"context"
	"sync"
)

// Queue is an unbounded, multi-producer/single-consumer in-memory queue of
// pending outgoing messages. Enqueue never blocks: the backlog grows without
// bound, so publishers are fully decoupled from delivery latency. The single
// consumer observes one total order of writes.
//
// Messages are not persisted; whatever remains in the backlog at shutdown is
// lost.
type Queue struct {
	items  []any
	closed bool
	mu     sync.Mutex

	// signal wakes the consumer when the backlog transitions from empty.
	// One slot is enough for a single consumer: it re-checks the backlog
	// before blocking again.
	signal chan struct{}
}

// NewQueue creates an empty message queue.
func NewQueue() *Queue {
	return &Queue{
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends a message to the backlog. Never blocks.
// Returns ErrQueueClosed after Close.
func (q *Queue) Enqueue(msg any) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, msg)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return nil
}

// Dequeue removes and returns the oldest message, blocking until one is
// available, the context is canceled, or the queue is closed and drained.
// A closed queue keeps serving its backlog; ErrQueueClosed is returned only
// once the backlog is empty.
func (q *Queue) Dequeue(ctx context.Context) (any, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			msg := q.items[0]
			q.items[0] = nil // release the reference for GC
			q.items = q.items[1:]
			if len(q.items) == 0 {
				q.items = nil
			}
			q.mu.Unlock()
			return msg, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return nil, ErrQueueClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.signal:
		}
	}
}

// Close stops accepting new messages and wakes the consumer so it can drain
// the backlog. Idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Len returns the current backlog size.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
