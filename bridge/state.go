package bridge

// State describes where the bridge is in its connection lifecycle. The
// lifecycle is one-shot and moves strictly forward: a bridge that reaches
// StateClosed never reopens.
type State int

const (
	// StateUnconnected is the initial state; no worker is running.
	StateUnconnected State = iota
	// StateConnecting means the worker has started and the bootstrap
	// operation is in flight. Only the bootstrap submission is admitted.
	StateConnecting
	// StateOpen means the resource handle exists and submissions are
	// admitted.
	StateOpen
	// StateClosing means Close has been called; the queue is draining.
	StateClosing
	// StateClosed is terminal. Submissions fail fast with
	// ErrConnectionClosed.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnconnected:
		return "unconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
