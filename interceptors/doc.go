// Package interceptors provides a chain of cross-cutting wrappers executed
// around every operation the bridge runs.
//
// Interceptors run on the worker goroutine, in registration order, with the
// operation itself as the innermost link. They see the submission's
// OperationInfo (id, kind, enqueue time) but never the operation's
// arguments, which stay opaque inside the closure.
//
// Built-in interceptors cover logging and metrics collection:
//
//	chain := interceptors.NewChain(logger).
//	    Add(interceptors.NewLoggingInterceptor(logger)).
//	    Add(interceptors.NewMetricsInterceptor(collector))
//
// Interceptors must not retain the next Operation beyond the Intercept
// call; each operation is invoked exactly once.
package interceptors
