package bridge

import (
	"sync"

	"github.com/glimte/sqlbridge-go/contracts"
)

// outcome is the settled result of one operation.
type outcome struct {
	value any
	err   error
}

// completion is a single-assignment result slot. The worker resolves it at
// most once; resolving an already-resolved completion is a no-op, which
// keeps races during shutdown and caller abandonment harmless. The channel
// is buffered so the worker never blocks on a caller that stopped waiting.
type completion struct {
	once sync.Once
	ch   chan outcome
}

func newCompletion() *completion {
	return &completion{ch: make(chan outcome, 1)}
}

func (c *completion) resolve(value any, err error) {
	c.once.Do(func() {
		c.ch <- outcome{value: value, err: err}
	})
}

// workItem pairs one operation with the completion handle used to report
// its outcome. Created at submission, consumed exactly once by the worker.
type workItem struct {
	info contracts.OperationInfo
	op   contracts.Operation
	done *completion
}

func newWorkItem(kind contracts.OperationKind, op contracts.Operation) *workItem {
	return &workItem{
		info: contracts.NewOperationInfo(kind),
		op:   op,
		done: newCompletion(),
	}
}
