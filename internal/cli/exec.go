package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <sql> [args...]",
		Short: "Run a statement that returns no rows",
		Long: `Run a single SQL statement through the worker queue.

Trailing arguments bind to ? placeholders in order.

Example:
  sqlbridge exec --db app.db "INSERT INTO kv (k, v) VALUES (?, ?)" alpha 1`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, rootOpts, args[0], args[1:])
		},
	}
	return cmd
}

func runExec(cmd *cobra.Command, opts *RootOptions, query string, args []string) error {
	ctx := cmd.Context()

	conn, err := openConn(ctx, opts)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	res, err := conn.Execute(ctx, query, statementArgs(args)...)
	if err != nil {
		return WrapExitError(ExitFailure, "statement failed", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"rowsAffected": res.RowsAffected,
			"lastInsertId": res.LastInsertID,
		})
	}
	return formatter.Success(fmt.Sprintf("rows affected: %d, last insert id: %d", res.RowsAffected, res.LastInsertID))
}
