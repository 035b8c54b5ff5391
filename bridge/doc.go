// Package bridge provides an asynchronous, future-based interface onto a
// single serialized execution stream.
//
// The bridge exists for resources that are only safe to use from one thread
// and only safe to call synchronously, such as an embedded database handle.
// Any number of goroutines submit zero-argument operations; a single
// dedicated worker goroutine (locked to its OS thread) executes them in
// strict FIFO submission order and resolves each submission's completion
// handle with the value or error the operation produced.
//
// Key properties:
//   - Strict FIFO ordering across all submitters combined
//   - At most one operation executing against the resource at any time
//   - Each completion handle resolves exactly once, even under abandonment
//   - One failing operation never stops the worker or affects other items
//   - Close drains every queued item before completing, so no submitter
//     is left hanging
//
// Resolution is delivered through a buffered channel that only the
// submitting goroutine receives from: the worker sends and moves on, and the
// caller resumes on its own goroutine. The worker never runs caller code.
//
// Basic usage:
//
//	b := bridge.New()
//
//	handle, err := b.Connect(ctx, func() (any, error) {
//	    return openResource()
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := b.Submit(ctx, contracts.KindExec, func() (any, error) {
//	    return handle.Do("work")
//	})
//
// The lifecycle is one-shot: Unconnected, Connecting, Open, Closing, Closed.
// A closed bridge stays closed; submissions against it fail fast with
// ErrConnectionClosed and never reach the queue.
package bridge
