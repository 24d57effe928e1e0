// Package async provides small primitives for asynchronous execution with Go generics.
//
// ExecFuture represents an in-flight computation that only produces an error.
// Futures are created with Exec and awaited individually (Await,
// AwaitWithTimeout) or as a group (ExecAll, JoinAll).
//
// Basic usage:
//
//	future := async.Exec(ctx, user, notifyUser)
//
//	// Do other work...
//
//	if err := future.Await(); err != nil {
//		log.Println(err)
//	}
//
// Fan-out with aggregated failures:
//
//	futures := make([]*async.ExecFuture, 0, len(handlers))
//	for _, h := range handlers {
//		futures = append(futures, async.Exec(ctx, payload, h.Handle))
//	}
//	err := async.JoinAll(futures...) // errors.Join of every failure
//
// JoinAll always awaits every future, so a failing branch never prevents the
// remaining branches from completing. Use ExecAll when only the first failure
// matters.
package async
