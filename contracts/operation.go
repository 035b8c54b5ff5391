package contracts

import (
	"time"

	"github.com/google/uuid"
)

// Operation is a single unit of work executed on the bridge's worker
// goroutine. It closes over whatever arguments the caller supplied and is
// invoked exactly once; the bridge never inspects it.
type Operation func() (any, error)

// OperationKind classifies submissions for logging, metrics and the
// operation journal. The bridge attaches no semantics to kinds beyond
// carrying them through.
type OperationKind string

const (
	KindBootstrap OperationKind = "bootstrap"
	KindTeardown  OperationKind = "teardown"
	KindExec      OperationKind = "exec"
	KindQuery     OperationKind = "query"
	KindPing      OperationKind = "ping"
	KindTx        OperationKind = "tx"
	KindGeneric   OperationKind = "generic"
)

// OperationInfo carries the metadata of a single submission through the
// interceptor chain and into the journal.
type OperationInfo struct {
	ID         string
	Kind       OperationKind
	EnqueuedAt time.Time
}

// NewOperationInfo stamps a fresh submission with a unique ID and the
// enqueue timestamp.
func NewOperationInfo(kind OperationKind) OperationInfo {
	return OperationInfo{
		ID:         uuid.New().String(),
		Kind:       kind,
		EnqueuedAt: time.Now(),
	}
}
