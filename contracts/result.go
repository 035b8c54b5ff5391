package contracts

// Result reports the outcome of a statement that does not return rows.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Rows is a fully materialized result set. The worker goroutine drains the
// driver cursor before the rows are handed back to the caller, so a Rows
// value carries no reference to the underlying handle and may be read from
// any goroutine.
type Rows struct {
	Columns []string
	Values  [][]any
}

// Len returns the number of rows in the set.
func (r *Rows) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Values)
}

// Row returns the values of row i, or nil if i is out of range.
func (r *Rows) Row(i int) []any {
	if r == nil || i < 0 || i >= len(r.Values) {
		return nil
	}
	return r.Values[i]
}
