// Package cli implements the sqlbridge command line tool. The commands are
// thin drivers over the sqlbridge connection facade so the whole queue and
// worker path is exercised end to end.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Database string
	Config   string
	Verbose  bool
	Format   string // "text" | "json"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sqlbridge CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlbridge",
		Short: "sqlbridge - serialized SQLite access over a worker queue",
		Long: `sqlbridge runs SQL statements against a SQLite database through a
single worker goroutine, so every invocation exercises the full
submit/queue/execute/resolve path.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (or dsn)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to yaml config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewExecCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewBenchCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
