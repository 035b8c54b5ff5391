package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	sqlbridge "github.com/glimte/sqlbridge-go"
)

// openConn assembles connection options from flags and the config file and
// opens the bridged connection.
func openConn(ctx context.Context, opts *RootOptions) (*sqlbridge.Conn, error) {
	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	dsn, err := resolveDatabase(opts, cfg)
	if err != nil {
		return nil, err
	}

	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	connOpts := []sqlbridge.Option{
		sqlbridge.WithLogger(logger),
		sqlbridge.WithOperationLogging(opts.Verbose || cfg.LogOperations),
	}
	if cfg.PollInterval > 0 {
		connOpts = append(connOpts, sqlbridge.WithPollInterval(time.Duration(cfg.PollInterval)))
	}
	if cfg.JournalSize > 0 {
		connOpts = append(connOpts, sqlbridge.WithJournalSize(cfg.JournalSize))
	}

	conn, err := sqlbridge.Open(ctx, dsn, connOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return conn, nil
}

// statementArgs converts trailing CLI arguments into statement parameters.
// SQLite coerces types itself, so strings are passed through as-is.
func statementArgs(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}
