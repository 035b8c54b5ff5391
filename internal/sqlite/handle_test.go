package sqlite

import (
	"testing"
	"time"

	"github.com/glimte/sqlbridge-go/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestHandle(t *testing.T) *Handle {
	t.Helper()

	h, err := Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	_, err = h.Exec("CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)", nil)
	require.NoError(t, err)
	return h
}

func TestConnect(t *testing.T) {
	t.Run("opens an in-memory database", func(t *testing.T) {
		h, err := Connect(":memory:")
		require.NoError(t, err)
		defer h.Close()

		assert.Equal(t, ":memory:", h.DSN())
		assert.NoError(t, h.Ping())
	})

	t.Run("fails on an unusable path", func(t *testing.T) {
		_, err := Connect("file:/nonexistent-dir/sub/db.sqlite?mode=rw")
		assert.Error(t, err)
	})
}

func TestHandleExec(t *testing.T) {
	t.Run("insert reports rows affected and last insert id", func(t *testing.T) {
		h := openTestHandle(t)

		res, err := h.Exec("INSERT INTO kv (k, v) VALUES (?, ?)", []any{"a", "1"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.RowsAffected)
		assert.Equal(t, int64(1), res.LastInsertID)
	})

	t.Run("syntax error surfaces as an error", func(t *testing.T) {
		h := openTestHandle(t)

		_, err := h.Exec("INSRT INTO kv VALUES (1)", nil)
		assert.Error(t, err)
	})

	t.Run("unsupported argument type is rejected", func(t *testing.T) {
		h := openTestHandle(t)

		_, err := h.Exec("INSERT INTO kv (k, v) VALUES (?, ?)", []any{"a", struct{}{}})
		assert.ErrorContains(t, err, "unsupported argument type")
	})
}

func TestHandleExecMany(t *testing.T) {
	t.Run("runs the statement per batch", func(t *testing.T) {
		h := openTestHandle(t)

		res, err := h.ExecMany("INSERT INTO kv (k, v) VALUES (?, ?)", [][]any{
			{"a", "1"},
			{"b", "2"},
			{"c", "3"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.RowsAffected)

		rows, err := h.Query("SELECT COUNT(*) FROM kv", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), rows.Row(0)[0])
	})

	t.Run("stops on the first failing batch", func(t *testing.T) {
		h := openTestHandle(t)

		_, err := h.ExecMany("INSERT INTO kv (k, v) VALUES (?, ?)", [][]any{
			{"a", "1"},
			{"a", "dup"},
			{"b", "2"},
		})
		require.Error(t, err)
		assert.ErrorContains(t, err, "batch 1")

		rows, err := h.Query("SELECT COUNT(*) FROM kv", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows.Row(0)[0])
	})
}

func TestHandleQuery(t *testing.T) {
	t.Run("materializes all rows with columns", func(t *testing.T) {
		h := openTestHandle(t)
		_, err := h.ExecMany("INSERT INTO kv (k, v) VALUES (?, ?)", [][]any{
			{"a", "1"}, {"b", "2"},
		})
		require.NoError(t, err)

		rows, err := h.Query("SELECT k, v FROM kv ORDER BY k", nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"k", "v"}, rows.Columns)
		require.Equal(t, 2, rows.Len())
		assert.Equal(t, "a", string(rows.Row(0)[0].([]byte)))
		assert.Equal(t, "2", string(rows.Row(1)[1].([]byte)))
	})

	t.Run("empty result set has columns and no rows", func(t *testing.T) {
		h := openTestHandle(t)

		rows, err := h.Query("SELECT k, v FROM kv", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"k", "v"}, rows.Columns)
		assert.Equal(t, 0, rows.Len())
	})

	t.Run("converts numeric and time arguments", func(t *testing.T) {
		h := openTestHandle(t)
		_, err := h.Exec("CREATE TABLE typed (n INTEGER, f REAL, ts TIMESTAMP)", nil)
		require.NoError(t, err)

		now := time.Now().UTC().Truncate(time.Second)
		_, err = h.Exec("INSERT INTO typed (n, f, ts) VALUES (?, ?, ?)", []any{7, float32(1.5), now})
		require.NoError(t, err)

		rows, err := h.Query("SELECT n, f FROM typed", nil)
		require.NoError(t, err)
		require.Equal(t, 1, rows.Len())
		assert.Equal(t, int64(7), rows.Row(0)[0])
		assert.Equal(t, 1.5, rows.Row(0)[1])
	})
}

func TestHandleTransactions(t *testing.T) {
	t.Run("commit persists writes", func(t *testing.T) {
		h := openTestHandle(t)

		require.NoError(t, h.Begin())
		_, err := h.Exec("INSERT INTO kv (k, v) VALUES ('a', '1')", nil)
		require.NoError(t, err)
		require.NoError(t, h.Commit())

		rows, err := h.Query("SELECT COUNT(*) FROM kv", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows.Row(0)[0])
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		h := openTestHandle(t)

		require.NoError(t, h.Begin())
		_, err := h.Exec("INSERT INTO kv (k, v) VALUES ('a', '1')", nil)
		require.NoError(t, err)
		require.NoError(t, h.Rollback())

		rows, err := h.Query("SELECT COUNT(*) FROM kv", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows.Row(0)[0])
	})

	t.Run("commit without transaction fails", func(t *testing.T) {
		h := openTestHandle(t)
		assert.ErrorIs(t, h.Commit(), contracts.ErrNoTransaction)
		assert.ErrorIs(t, h.Rollback(), contracts.ErrNoTransaction)
	})

	t.Run("nested begin is refused", func(t *testing.T) {
		h := openTestHandle(t)
		require.NoError(t, h.Begin())
		assert.Error(t, h.Begin())
		require.NoError(t, h.Rollback())
	})
}
