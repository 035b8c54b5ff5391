// Package sqlite wraps a single raw go-sqlite3 driver connection as the
// underlying resource behind the bridge.
//
// A raw driver.Conn is exactly the class of resource the bridge exists for:
// synchronous, stateful, and not safe for concurrent use. A Handle is
// therefore owned by the worker goroutine for its whole lifetime; nothing
// here takes a lock, and nothing here may be called from anywhere else.
package sqlite

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"

	"github.com/glimte/sqlbridge-go/contracts"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// Handle owns one live SQLite connection and, at most, one transaction in
// progress on it.
type Handle struct {
	conn *sqlite3.SQLiteConn
	dsn  string
	tx   driver.Tx
}

// Connect opens a new SQLite connection for the given DSN. Must run on the
// worker goroutine; the bridge's bootstrap operation is the only caller.
func Connect(dsn string) (*Handle, error) {
	d := &sqlite3.SQLiteDriver{}
	conn, err := d.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", dsn, err)
	}

	sc, ok := conn.(*sqlite3.SQLiteConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("unexpected driver connection type %T", conn)
	}

	return &Handle{conn: sc, dsn: dsn}, nil
}

// DSN returns the data source name the handle was opened with.
func (h *Handle) DSN() string {
	return h.dsn
}

// Exec runs a statement that returns no rows.
func (h *Handle) Exec(query string, args []any) (contracts.Result, error) {
	values, err := driverValues(args)
	if err != nil {
		return contracts.Result{}, err
	}

	res, err := h.conn.Exec(query, values)
	if err != nil {
		return contracts.Result{}, fmt.Errorf("exec: %w", err)
	}

	lastID, _ := res.LastInsertId()
	affected, _ := res.RowsAffected()
	return contracts.Result{LastInsertID: lastID, RowsAffected: affected}, nil
}

// ExecMany runs one statement once per argument batch. The whole batch runs
// as a single queued operation, mirroring the single round trip of the
// underlying driver's batched execution.
func (h *Handle) ExecMany(query string, batches [][]any) (contracts.Result, error) {
	var total contracts.Result
	for i, args := range batches {
		res, err := h.Exec(query, args)
		if err != nil {
			return total, fmt.Errorf("batch %d: %w", i, err)
		}
		total.RowsAffected += res.RowsAffected
		total.LastInsertID = res.LastInsertID
	}
	return total, nil
}

// Query runs a statement and materializes the entire result set. Draining
// the driver cursor here, on the worker, is what lets the returned Rows
// travel to the caller's goroutine safely.
func (h *Handle) Query(query string, args []any) (*contracts.Rows, error) {
	values, err := driverValues(args)
	if err != nil {
		return nil, err
	}

	dr, err := h.conn.Query(query, values)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer dr.Close()

	cols := dr.Columns()
	rows := &contracts.Rows{Columns: append([]string(nil), cols...)}

	dest := make([]driver.Value, len(cols))
	for {
		if err := dr.Next(dest); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make([]any, len(dest))
		for i, v := range dest {
			// The driver may reuse byte buffers between rows.
			if b, ok := v.([]byte); ok {
				row[i] = append([]byte(nil), b...)
			} else {
				row[i] = v
			}
		}
		rows.Values = append(rows.Values, row)
	}

	return rows, nil
}

// Begin starts a transaction. SQLite supports one write transaction per
// connection, so nesting is refused here rather than surfacing the
// driver's less clear error.
func (h *Handle) Begin() error {
	if h.tx != nil {
		return errors.New("transaction already in progress")
	}

	tx, err := h.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	h.tx = tx
	return nil
}

// Commit commits the current transaction.
func (h *Handle) Commit() error {
	if h.tx == nil {
		return contracts.ErrNoTransaction
	}

	err := h.tx.Commit()
	h.tx = nil
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback aborts the current transaction.
func (h *Handle) Rollback() error {
	if h.tx == nil {
		return contracts.ErrNoTransaction
	}

	err := h.tx.Rollback()
	h.tx = nil
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// Ping verifies the connection still answers queries.
func (h *Handle) Ping() error {
	_, err := h.Query("SELECT 1", nil)
	return err
}

// Close rolls back any open transaction and closes the connection.
func (h *Handle) Close() error {
	if h.tx != nil {
		h.tx.Rollback()
		h.tx = nil
	}
	return h.conn.Close()
}
