package contracts

import "errors"

var (
	// ErrNoRows is returned by single-row query helpers when the statement
	// produced an empty result set.
	ErrNoRows = errors.New("sqlbridge: no rows in result set")

	// ErrNoTransaction is returned when Commit or Rollback is called with no
	// transaction in progress on the underlying handle.
	ErrNoTransaction = errors.New("sqlbridge: no transaction in progress")
)
