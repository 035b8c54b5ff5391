package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/glimte/sqlbridge-go/contracts"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitFailure      = 1 // statement failed, bench errors, etc.
	ExitCommandError = 2 // command error (bad flags, database not found)
)

// ExitError carries a specific process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Non-ExitError values
// map to ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the standard JSON envelope for CLI output.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Success outputs a result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Rows renders a materialized result set.
func (f *OutputFormatter) Rows(rows *contracts.Rows) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: "ok",
			Data: map[string]any{
				"columns": rows.Columns,
				"rows":    printableRows(rows),
			},
		})
	}

	fmt.Fprintln(f.Writer, strings.Join(rows.Columns, "\t"))
	for i := 0; i < rows.Len(); i++ {
		cells := make([]string, len(rows.Row(i)))
		for j, v := range rows.Row(i) {
			cells[j] = printable(v)
		}
		fmt.Fprintln(f.Writer, strings.Join(cells, "\t"))
	}
	return nil
}

// printableRows converts every cell so json.Marshal never sees raw []byte,
// which it would base64-encode.
func printableRows(rows *contracts.Rows) [][]string {
	out := make([][]string, rows.Len())
	for i := 0; i < rows.Len(); i++ {
		row := rows.Row(i)
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = printable(v)
		}
		out[i] = cells
	}
	return out
}

func printable(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
