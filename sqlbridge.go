// Package sqlbridge provides an asynchronous, goroutine-safe interface to a
// single SQLite connection.
//
// SQLite handles are synchronous and not safe for concurrent use. sqlbridge
// runs one dedicated worker goroutine that owns the handle exclusively and
// executes all operations against it in strict FIFO submission order; any
// number of goroutines call the Conn methods concurrently and each suspends
// until its own operation resolves.
//
//	conn, err := sqlbridge.Open(ctx, "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close(ctx)
//
//	_, err = conn.Execute(ctx, "INSERT INTO kv (k, v) VALUES (?, ?)", "a", "1")
//	rows, err := conn.Query(ctx, "SELECT k, v FROM kv")
//
// Every method is a thin proxy: it packages one handle call as a
// zero-argument operation, submits it through the bridge, and unwraps the
// outcome. The concurrency machinery lives entirely in the bridge package.
package sqlbridge

import (
	"context"
	"time"

	"github.com/glimte/sqlbridge-go/bridge"
	"github.com/glimte/sqlbridge-go/contracts"
	"github.com/glimte/sqlbridge-go/interceptors"
	"github.com/glimte/sqlbridge-go/internal/journal"
	"github.com/glimte/sqlbridge-go/internal/sqlite"
	"github.com/glimte/sqlbridge-go/monitor"
)

// Stats summarizes the operations a connection has executed.
type Stats = journal.Stats

// JournalEntry is one recorded operation.
type JournalEntry = journal.Entry

// Conn is an asynchronous proxy to one SQLite connection. All methods are
// safe for concurrent use from any goroutine.
type Conn struct {
	br      *bridge.Bridge
	handle  *sqlite.Handle
	journal *journal.OperationJournal
}

// Open establishes a connection to the SQLite database at dsn. The
// underlying handle is constructed on the worker goroutine, never on the
// caller's.
func Open(ctx context.Context, dsn string, opts ...Option) (*Conn, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	chain := interceptors.NewChain(cfg.logger)
	if cfg.logOperations {
		chain.Add(interceptors.NewLoggingInterceptor(cfg.logger))
	}

	bridgeOpts := []bridge.Option{
		bridge.WithLogger(cfg.logger),
		bridge.WithInterceptorChain(chain),
		bridge.WithOSThreadLock(cfg.lockThread),
	}
	if cfg.pollInterval > 0 {
		bridgeOpts = append(bridgeOpts, bridge.WithPollInterval(cfg.pollInterval))
	}
	br := bridge.New(bridgeOpts...)

	// The chain may be extended freely until Connect starts the worker.
	if cfg.metricsReg != nil {
		metrics := monitor.NewBridgeMetrics(cfg.metricsReg, br)
		chain.Add(interceptors.NewMetricsInterceptor(metrics))
	}

	jrnl := journal.New(journal.WithMaxEntries(cfg.journalSize))
	chain.Add(&journalInterceptor{journal: jrnl})

	for _, ic := range cfg.extra {
		chain.Add(ic)
	}

	value, err := br.Connect(ctx, func() (any, error) {
		return sqlite.Connect(dsn)
	})
	if err != nil {
		return nil, err
	}

	return &Conn{
		br:      br,
		handle:  value.(*sqlite.Handle),
		journal: jrnl,
	}, nil
}

// Execute runs a statement that returns no rows.
func (c *Conn) Execute(ctx context.Context, query string, args ...any) (contracts.Result, error) {
	value, err := c.br.Submit(ctx, contracts.KindExec, func() (any, error) {
		return c.handle.Exec(query, args)
	})
	if err != nil {
		return contracts.Result{}, err
	}
	return value.(contracts.Result), nil
}

// ExecuteMany runs a statement once per argument batch, all within a single
// queued operation.
func (c *Conn) ExecuteMany(ctx context.Context, query string, batches [][]any) (contracts.Result, error) {
	value, err := c.br.Submit(ctx, contracts.KindExec, func() (any, error) {
		return c.handle.ExecMany(query, batches)
	})
	if err != nil {
		return contracts.Result{}, err
	}
	return value.(contracts.Result), nil
}

// ExecuteInsert runs an INSERT ... RETURNING statement and returns the
// first returned row, or nil when the statement returned nothing.
func (c *Conn) ExecuteInsert(ctx context.Context, query string, args ...any) ([]any, error) {
	rows, err := c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows.Row(0), nil
}

// Query runs a statement and returns the fully materialized result set.
func (c *Conn) Query(ctx context.Context, query string, args ...any) (*contracts.Rows, error) {
	value, err := c.br.Submit(ctx, contracts.KindQuery, func() (any, error) {
		return c.handle.Query(query, args)
	})
	if err != nil {
		return nil, err
	}
	return value.(*contracts.Rows), nil
}

// QueryRow runs a statement and returns its first row, or ErrNoRows when
// the result set is empty.
func (c *Conn) QueryRow(ctx context.Context, query string, args ...any) ([]any, error) {
	rows, err := c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if rows.Len() == 0 {
		return nil, contracts.ErrNoRows
	}
	return rows.Row(0), nil
}

// Begin starts a transaction.
func (c *Conn) Begin(ctx context.Context) error {
	_, err := c.br.Submit(ctx, contracts.KindTx, func() (any, error) {
		return nil, c.handle.Begin()
	})
	return err
}

// Commit commits the current transaction.
func (c *Conn) Commit(ctx context.Context) error {
	_, err := c.br.Submit(ctx, contracts.KindTx, func() (any, error) {
		return nil, c.handle.Commit()
	})
	return err
}

// Rollback aborts the current transaction.
func (c *Conn) Rollback(ctx context.Context) error {
	_, err := c.br.Submit(ctx, contracts.KindTx, func() (any, error) {
		return nil, c.handle.Rollback()
	})
	return err
}

// Ping verifies the connection answers a full round trip through the
// queue and the worker.
func (c *Conn) Ping(ctx context.Context) error {
	_, err := c.br.Submit(ctx, contracts.KindPing, func() (any, error) {
		return nil, c.handle.Ping()
	})
	return err
}

// Submit runs an arbitrary operation on the worker goroutine. It is the
// escape hatch for collaborators that need handle calls the Conn surface
// does not wrap; op must not retain references past its return.
func (c *Conn) Submit(ctx context.Context, op contracts.Operation) (any, error) {
	return c.br.Submit(ctx, contracts.KindGeneric, op)
}

// Stats reports lifetime operation statistics.
func (c *Conn) Stats() Stats {
	return c.journal.Stats()
}

// RecentOperations returns up to n recent journal entries, newest last.
// n <= 0 returns everything retained.
func (c *Conn) RecentOperations(n int) []*JournalEntry {
	return c.journal.Recent(n)
}

// Bridge exposes the underlying bridge for observability integrations.
func (c *Conn) Bridge() *bridge.Bridge {
	return c.br
}

// State returns the connection lifecycle state.
func (c *Conn) State() bridge.State {
	return c.br.State()
}

// Close drains all queued operations, releases the underlying handle on
// the worker, and shuts the worker down. The connection is unusable
// afterwards regardless of the returned error.
func (c *Conn) Close(ctx context.Context) error {
	return c.br.Close(ctx, func() (any, error) {
		return nil, c.handle.Close()
	})
}

// journalInterceptor records every executed operation.
type journalInterceptor struct {
	journal *journal.OperationJournal
}

func (i *journalInterceptor) Intercept(info contracts.OperationInfo, next contracts.Operation) (any, error) {
	start := time.Now()
	value, err := next()

	entry := &journal.Entry{
		ID:         info.ID,
		Kind:       info.Kind,
		EnqueuedAt: info.EnqueuedAt,
		QueueWait:  start.Sub(info.EnqueuedAt),
		Duration:   time.Since(start),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	i.journal.Record(entry)

	return value, err
}

func (i *journalInterceptor) Name() string {
	return "OperationJournal"
}
