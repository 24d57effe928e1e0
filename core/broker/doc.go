// Package broker is the delivery-strategy front door of the bus: modules
// publish batches of messages through one Broker contract, and configuration
// decides whether delivery happens inside the publisher's call or through a
// background queue.
//
// # Strategies
//
// The synchronous broker fans every message out through the broadcast client
// in parallel and waits for completion, so the publisher observes delivery
// latency and failures directly.
//
// The queued broker writes messages onto an unbounded in-memory queue and
// returns immediately. A single background Dispatcher drains the queue in
// arrival order; a failed delivery is logged and counted, and the loop
// continues with the next message. The publisher never learns about delivery
// failures on this path.
//
// Switching strategies never changes which handlers ultimately receive a
// message, only the timing and the visibility of failures.
//
// # Lifecycle
//
//	var cfg broker.Config
//	config.MustLoad(&cfg)
//
//	b, dispatcher := broker.New(client, cfg, broker.WithLogger(log))
//	if dispatcher != nil { // queued strategy
//	    g, ctx := errgroup.WithContext(ctx)
//	    g.Go(dispatcher.Run(ctx))
//	}
//
//	err := b.Publish(ctx, CredentialsProvided{Username: "alice"}, UserRegistered{UserID: "1"})
//
// Queued messages are not persisted: whatever remains in the backlog at
// shutdown is lost. Per-producer enqueue order is preserved; no order is
// guaranteed across concurrent producers.
package broker
