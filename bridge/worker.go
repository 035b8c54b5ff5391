package bridge

import (
	"runtime"
	"runtime/debug"
)

// workerLoop is the single consumer of the task queue and the only
// goroutine permitted to touch the underlying resource. It executes one
// item at a time, synchronously, which makes the resource's non-reentrant
// API safe without any lock around the handle.
//
// The loop outlives the connection: after running flips to false it keeps
// draining until the queue is empty, so every submitted item is resolved
// and no caller is left hanging.
func (b *Bridge) workerLoop() {
	if b.lockThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}
	defer close(b.workerDone)

	b.logger.Debug("worker started")
	for {
		item, ok := b.queue.pop(b.pollInterval)
		if !ok {
			if !b.running.Load() && b.queue.depth() == 0 {
				b.logger.Debug("worker drained, exiting")
				return
			}
			continue
		}

		value, err := b.execute(item)
		item.done.resolve(value, err)
	}
}

// execute runs one operation through the interceptor chain, containing any
// panic to this item. A failure here is the submission's outcome, never the
// worker's: the loop carries on with the next item regardless.
func (b *Bridge) execute(item *workItem) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = &PanicError{
				OperationID: item.info.ID,
				Value:       r,
				Stack:       debug.Stack(),
			}
			b.logger.Error("operation panicked",
				"operationId", item.info.ID,
				"kind", string(item.info.Kind),
				"panic", r,
			)
		}
	}()

	if b.chain != nil {
		return b.chain.Execute(item.info, item.op)
	}
	return item.op()
}
