package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/glimte/sqlbridge-go/contracts"
	"github.com/glimte/sqlbridge-go/interceptors"
)

const defaultPollInterval = 100 * time.Millisecond

// Bridge owns the task queue, the worker goroutine and the connection
// lifecycle for one logical connection. All cross-goroutine state lives
// here; the underlying resource handle itself is only ever touched by
// operations running on the worker.
type Bridge struct {
	queue        *taskQueue
	pollInterval time.Duration
	lockThread   bool
	logger       *slog.Logger
	chain        *interceptors.Chain

	mu    sync.Mutex
	state State

	// running gates worker shutdown: the worker keeps draining the queue
	// after running flips to false and exits only once the queue is empty.
	running    atomic.Bool
	workerDone chan struct{}

	// Bootstrap settlement. connectDone is closed exactly once, after which
	// connectVal/connectErr are immutable.
	connectDone chan struct{}
	connectVal  any
	connectErr  error

	// closeDone is closed when Close has finished and the worker has
	// drained and exited.
	closeDone chan struct{}
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithPollInterval sets how long the worker waits on an empty queue before
// re-checking for shutdown. Shorter intervals tighten close latency on an
// idle bridge at the cost of more wakeups.
func WithPollInterval(interval time.Duration) Option {
	return func(b *Bridge) {
		if interval > 0 {
			b.pollInterval = interval
		}
	}
}

// WithInterceptorChain wraps every executed operation with the given chain.
// The chain runs on the worker goroutine.
func WithInterceptorChain(chain *interceptors.Chain) Option {
	return func(b *Bridge) {
		b.chain = chain
	}
}

// WithOSThreadLock controls whether the worker goroutine is pinned to its
// OS thread. Enabled by default; cgo-backed handles that keep thread-local
// state rely on it.
func WithOSThreadLock(lock bool) Option {
	return func(b *Bridge) {
		b.lockThread = lock
	}
}

// New creates an unconnected bridge. No goroutine runs until Connect.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		queue:        newTaskQueue(),
		pollInterval: defaultPollInterval,
		lockThread:   true,
		logger:       slog.Default(),
		state:        StateUnconnected,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// State returns the current lifecycle state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// QueueDepth returns the number of operations waiting for the worker.
func (b *Bridge) QueueDepth() int {
	return b.queue.depth()
}

// Connect starts the worker and runs bootstrap through the queue, so the
// resource handle is constructed on the worker's own thread. The first
// caller drives the transition to Connecting; concurrent and subsequent
// callers await the same bootstrap outcome, making Connect idempotent on
// success. If bootstrap fails the bridge moves directly to Closed, the
// worker is stopped, and every awaiting caller receives the failure.
func (b *Bridge) Connect(ctx context.Context, bootstrap contracts.Operation) (any, error) {
	b.mu.Lock()
	switch b.state {
	case StateOpen:
		val := b.connectVal
		b.mu.Unlock()
		return val, nil

	case StateConnecting:
		done := b.connectDone
		b.mu.Unlock()
		return b.awaitBootstrap(ctx, done)

	case StateClosing, StateClosed:
		b.mu.Unlock()
		return nil, ErrConnectionClosed
	}

	// Unconnected: this caller triggers the connect.
	b.state = StateConnecting
	b.connectDone = make(chan struct{})
	b.workerDone = make(chan struct{})
	b.running.Store(true)

	item := newWorkItem(contracts.KindBootstrap, bootstrap)
	done := b.connectDone
	b.mu.Unlock()

	go b.workerLoop()
	go b.settleBootstrap(item)

	b.logger.Debug("connecting", "operationId", item.info.ID)
	b.queue.push(item)

	return b.awaitBootstrap(ctx, done)
}

// settleBootstrap waits for the bootstrap outcome and commits the resulting
// state transition. It waits without a context deadline so the lifecycle
// settles even when every Connect caller abandons early.
func (b *Bridge) settleBootstrap(item *workItem) {
	out := <-item.done.ch

	b.mu.Lock()
	if out.err != nil {
		b.state = StateClosed
		b.connectErr = out.err
		b.running.Store(false)
		b.logger.Error("bootstrap failed", "operationId", item.info.ID, "error", out.err)
	} else {
		b.state = StateOpen
		b.connectVal = out.value
		b.logger.Info("connection open", "operationId", item.info.ID)
	}
	close(b.connectDone)
	b.mu.Unlock()
}

func (b *Bridge) awaitBootstrap(ctx context.Context, done <-chan struct{}) (any, error) {
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	b.mu.Lock()
	val, err := b.connectVal, b.connectErr
	b.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return val, nil
}

// Submit enqueues op and suspends the caller until the worker reports an
// outcome. The outcome, value or error, is delivered on the submitting
// goroutine; the worker only ever sends into the completion handle.
//
// A caller whose ctx is done before resolution stops waiting but does not
// stop the operation: once enqueued, an operation always runs to
// completion, and the resolve-once completion handle absorbs the race.
func (b *Bridge) Submit(ctx context.Context, kind contracts.OperationKind, op contracts.Operation) (any, error) {
	b.mu.Lock()
	if b.state != StateOpen {
		b.mu.Unlock()
		return nil, ErrConnectionClosed
	}
	item := newWorkItem(kind, op)
	b.queue.push(item)
	b.mu.Unlock()

	select {
	case out := <-item.done.ch:
		return out.value, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close submits teardown through the normal queue, behind everything
// already enqueued, then stops the worker. Every previously submitted
// operation is resolved before Close returns, and the bridge always ends in
// StateClosed even when teardown fails; the teardown failure is logged and
// returned.
//
// Close is idempotent. Closing an unconnected bridge just marks it closed;
// concurrent Close calls await the first one.
func (b *Bridge) Close(ctx context.Context, teardown contracts.Operation) error {
	b.mu.Lock()
	switch b.state {
	case StateUnconnected:
		b.state = StateClosed
		b.mu.Unlock()
		return nil

	case StateClosed:
		b.mu.Unlock()
		return nil

	case StateClosing:
		done := b.closeDone
		b.mu.Unlock()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}

	case StateConnecting:
		// Let the bootstrap settle, then close from whatever state it
		// produced.
		done := b.connectDone
		b.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		return b.Close(ctx, teardown)
	}

	// Open: begin the drain.
	b.state = StateClosing
	b.closeDone = make(chan struct{})
	item := newWorkItem(contracts.KindTeardown, teardown)
	b.queue.push(item)
	b.mu.Unlock()

	b.logger.Debug("closing", "operationId", item.info.ID, "queued", b.queue.depth())

	// Cleanup runs on every path so the lifecycle can never get stuck in
	// Closing: the state is committed and the worker told to finish its
	// drain even when teardown failed or the caller gave up waiting.
	defer func() {
		b.mu.Lock()
		b.state = StateClosed
		b.mu.Unlock()

		b.running.Store(false)
		close(b.closeDone)
		b.logger.Info("connection closed")
	}()

	// Teardown is FIFO-last: by the time it resolves, every operation
	// submitted before Close has been resolved too.
	select {
	case out := <-item.done.ch:
		if out.err != nil {
			b.logger.Error("teardown failed", "operationId", item.info.ID, "error", out.err)
			return fmt.Errorf("close: %w", out.err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
