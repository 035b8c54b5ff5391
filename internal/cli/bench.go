package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

// BenchOptions holds flags for the bench command.
type BenchOptions struct {
	*RootOptions
	Callers    int
	Operations int
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BenchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure queue throughput with concurrent callers",
		Long: `Insert rows into a scratch table from many goroutines at once and
report how fast the single worker drains the queue.

Example:
  sqlbridge bench --db :memory: --callers 16 --ops 500`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Callers, "callers", 8, "number of concurrent caller goroutines")
	cmd.Flags().IntVar(&opts.Operations, "ops", 100, "operations per caller")

	return cmd
}

// benchReport is the bench command's result payload.
type benchReport struct {
	Callers      int     `json:"callers"`
	Operations   int     `json:"operations"`
	Failures     int     `json:"failures"`
	ElapsedMs    int64   `json:"elapsedMs"`
	OpsPerSecond float64 `json:"opsPerSecond"`
}

func runBench(cmd *cobra.Command, opts *BenchOptions) error {
	ctx := cmd.Context()

	if opts.Callers < 1 || opts.Operations < 1 {
		return &ExitError{Code: ExitCommandError, Message: "--callers and --ops must be at least 1"}
	}

	conn, err := openConn(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	if _, err := conn.Execute(ctx, "CREATE TABLE IF NOT EXISTS bench_scratch (caller INTEGER, seq INTEGER)"); err != nil {
		return WrapExitError(ExitFailure, "failed to create scratch table", err)
	}

	var failures sync.Map
	var wg sync.WaitGroup
	start := time.Now()

	for g := 0; g < opts.Callers; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < opts.Operations; i++ {
				if _, err := conn.Execute(ctx, "INSERT INTO bench_scratch (caller, seq) VALUES (?, ?)", g, i); err != nil {
					failures.Store(fmt.Sprintf("%d-%d", g, i), err)
				}
			}
		}(g)
	}
	wg.Wait()
	elapsed := time.Since(start)

	failed := 0
	failures.Range(func(_, _ any) bool {
		failed++
		return true
	})

	total := opts.Callers * opts.Operations
	report := benchReport{
		Callers:      opts.Callers,
		Operations:   total,
		Failures:     failed,
		ElapsedMs:    elapsed.Milliseconds(),
		OpsPerSecond: float64(total) / elapsed.Seconds(),
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%d operations across %d callers in %s (%.0f ops/s), %d failed\n",
			total, opts.Callers, elapsed.Round(time.Millisecond), report.OpsPerSecond, failed)
	}

	if failed > 0 {
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d operations failed", failed)}
	}
	return nil
}
