package bridge

import (
	"sync"
	"time"
)

// taskQueue is a thread-safe FIFO queue of work items.
//
// The queue is unbounded: push never blocks and always succeeds, so a
// submitter is never stalled by the worker. Backpressure is deliberately
// absent; queue depth is observable through Bridge.QueueDepth instead.
//
// Any number of goroutines may push concurrently. Exactly one consumer, the
// worker loop, pops. A buffered signal channel of size one coalesces wakeups
// so the consumer can wait with a bounded timeout instead of spinning.
type taskQueue struct {
	mu     sync.Mutex
	items  []*workItem
	signal chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		items:  make([]*workItem, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// push appends an item to the back of the queue and wakes the consumer.
func (q *taskQueue) push(item *workItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// pop removes and returns the front item, waiting up to timeout for one to
// arrive. Returns (nil, false) on timeout.
func (q *taskQueue) pop(timeout time.Duration) (*workItem, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if item, ok := q.tryPop(); ok {
			return item, true
		}

		select {
		case <-q.signal:
			// An item was pushed, or a stale wakeup from an item this
			// consumer already took. Re-check either way.
		case <-timer.C:
			return nil, false
		}
	}
}

// tryPop removes the front item without waiting.
func (q *taskQueue) tryPop() (*workItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}

	item := q.items[0]
	// Nil the slot so the backing array does not retain the item (and the
	// caller's closure) until the next reallocation.
	q.items[0] = nil
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}

	return item, true
}

// depth returns the number of items currently queued.
func (q *taskQueue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
