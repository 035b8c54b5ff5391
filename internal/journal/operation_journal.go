// Package journal keeps a bounded in-memory record of operations that went
// through the bridge, for diagnostics and the Stats surface of the
// connection facade.
package journal

import (
	"sync"
	"time"

	"github.com/glimte/sqlbridge-go/contracts"
)

// Entry records one executed operation.
type Entry struct {
	ID         string                 `json:"id"`
	Kind       contracts.OperationKind `json:"kind"`
	EnqueuedAt time.Time              `json:"enqueuedAt"`
	QueueWait  time.Duration          `json:"queueWait"`
	Duration   time.Duration          `json:"duration"`
	Error      string                 `json:"error,omitempty"`
}

// Stats summarizes the journal contents.
type Stats struct {
	TotalOperations int64                              `json:"totalOperations"`
	ByKind          map[contracts.OperationKind]int64  `json:"byKind"`
	FailureCount    int64                              `json:"failureCount"`
	AverageDuration time.Duration                      `json:"averageDuration"`
	LastOperation   time.Time                          `json:"lastOperation"`
}

// OperationJournal is a ring-buffered journal of executed operations. All
// methods are safe for concurrent use; in practice Record is called from
// the worker goroutine while readers come from anywhere.
type OperationJournal struct {
	mu         sync.RWMutex
	entries    []*Entry
	maxEntries int

	// Aggregates cover the whole lifetime, not just the retained window.
	total         int64
	failures      int64
	byKind        map[contracts.OperationKind]int64
	totalDuration time.Duration
	last          time.Time
}

// Option configures the journal.
type Option func(*OperationJournal)

// WithMaxEntries sets how many entries are retained before the oldest are
// rotated out.
func WithMaxEntries(max int) Option {
	return func(j *OperationJournal) {
		if max > 0 {
			j.maxEntries = max
		}
	}
}

// New creates an operation journal retaining 1000 entries by default.
func New(opts ...Option) *OperationJournal {
	j := &OperationJournal{
		maxEntries: 1000,
		byKind:     make(map[contracts.OperationKind]int64),
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Record appends an entry, rotating out the oldest when the retention limit
// is reached.
func (j *OperationJournal) Record(entry *Entry) {
	if entry == nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, entry)
	if len(j.entries) > j.maxEntries {
		drop := len(j.entries) - j.maxEntries
		j.entries = append(j.entries[:0:0], j.entries[drop:]...)
	}

	j.total++
	j.byKind[entry.Kind]++
	j.totalDuration += entry.Duration
	if entry.Error != "" {
		j.failures++
	}
	if entry.EnqueuedAt.After(j.last) {
		j.last = entry.EnqueuedAt
	}
}

// Recent returns up to n of the most recent entries, newest last.
func (j *OperationJournal) Recent(n int) []*Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if n <= 0 || n > len(j.entries) {
		n = len(j.entries)
	}

	out := make([]*Entry, n)
	copy(out, j.entries[len(j.entries)-n:])
	return out
}

// Stats returns lifetime aggregates.
func (j *OperationJournal) Stats() Stats {
	j.mu.RLock()
	defer j.mu.RUnlock()

	byKind := make(map[contracts.OperationKind]int64, len(j.byKind))
	for k, v := range j.byKind {
		byKind[k] = v
	}

	stats := Stats{
		TotalOperations: j.total,
		ByKind:          byKind,
		FailureCount:    j.failures,
		LastOperation:   j.last,
	}
	if j.total > 0 {
		stats.AverageDuration = j.totalDuration / time.Duration(j.total)
	}
	return stats
}

// Clear drops all retained entries. Lifetime aggregates are kept.
func (j *OperationJournal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}
