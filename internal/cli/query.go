package cli

import (
	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <sql> [args...]",
		Short: "Run a statement and print the result set",
		Long: `Run a SQL query through the worker queue and print every row.

Trailing arguments bind to ? placeholders in order.

Example:
  sqlbridge query --db app.db "SELECT k, v FROM kv WHERE v > ?" 10`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, rootOpts, args[0], args[1:])
		},
	}
	return cmd
}

func runQuery(cmd *cobra.Command, opts *RootOptions, query string, args []string) error {
	ctx := cmd.Context()

	conn, err := openConn(ctx, opts)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, query, statementArgs(args)...)
	if err != nil {
		return WrapExitError(ExitFailure, "query failed", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Rows(rows)
}
