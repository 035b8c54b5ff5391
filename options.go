package sqlbridge

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/glimte/sqlbridge-go/interceptors"
)

// config holds connection configuration.
type config struct {
	logger        *slog.Logger
	pollInterval  time.Duration
	journalSize   int
	logOperations bool
	lockThread    bool
	metricsReg    prometheus.Registerer
	extra         []interceptors.Interceptor
}

func defaultConfig() *config {
	return &config{
		logger:      slog.Default(),
		journalSize: 1000,
		lockThread:  true,
	}
}

// Option configures a connection.
type Option func(*config)

// WithLogger sets the logger used by the connection, the bridge and the
// built-in interceptors.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPollInterval sets the worker's idle poll interval.
func WithPollInterval(interval time.Duration) Option {
	return func(c *config) {
		c.pollInterval = interval
	}
}

// WithJournalSize sets how many operation journal entries are retained.
func WithJournalSize(size int) Option {
	return func(c *config) {
		c.journalSize = size
	}
}

// WithOperationLogging enables per-operation debug logging through the
// interceptor chain.
func WithOperationLogging(enabled bool) Option {
	return func(c *config) {
		c.logOperations = enabled
	}
}

// WithMetrics registers bridge metrics with reg and wires a metrics
// interceptor into the chain.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.metricsReg = reg
	}
}

// WithInterceptors appends custom interceptors after the built-in ones.
func WithInterceptors(ics ...interceptors.Interceptor) Option {
	return func(c *config) {
		c.extra = append(c.extra, ics...)
	}
}

// WithOSThreadLock controls pinning the worker goroutine to its OS thread.
func WithOSThreadLock(lock bool) Option {
	return func(c *config) {
		c.lockThread = lock
	}
}
