package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionClosed is returned when an operation is submitted while
	// the bridge is not open. The operation is rejected synchronously and
	// never reaches the queue.
	ErrConnectionClosed = errors.New("sqlbridge: connection closed")
)

// PanicError wraps a panic recovered while executing an operation on the
// worker goroutine. The panic is contained to the submission that caused it;
// the worker keeps processing subsequent items.
type PanicError struct {
	OperationID string
	Value       any
	Stack       []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("sqlbridge: operation %s panicked: %v", e.OperationID, e.Value)
}
