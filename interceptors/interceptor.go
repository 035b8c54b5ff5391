package interceptors

import (
	"log/slog"
	"time"

	"github.com/glimte/sqlbridge-go/contracts"
)

// Interceptor processes an operation before and after it reaches the
// underlying resource. Implementations call next exactly once, or not at
// all to short-circuit with their own outcome.
type Interceptor interface {
	// Intercept wraps the execution of one operation.
	Intercept(info contracts.OperationInfo, next contracts.Operation) (any, error)

	// Name returns the interceptor name for logging and debugging.
	Name() string
}

// InterceptorFunc is a function adapter for Interceptor.
type InterceptorFunc struct {
	name string
	fn   func(info contracts.OperationInfo, next contracts.Operation) (any, error)
}

// NewInterceptorFunc creates a new function-based interceptor.
func NewInterceptorFunc(name string, fn func(info contracts.OperationInfo, next contracts.Operation) (any, error)) *InterceptorFunc {
	return &InterceptorFunc{name: name, fn: fn}
}

// Intercept implements Interceptor.
func (i *InterceptorFunc) Intercept(info contracts.OperationInfo, next contracts.Operation) (any, error) {
	return i.fn(info, next)
}

// Name implements Interceptor.
func (i *InterceptorFunc) Name() string {
	return i.name
}

// Chain manages an ordered list of interceptors.
type Chain struct {
	interceptors []Interceptor
	logger       *slog.Logger
}

// NewChain creates an empty interceptor chain.
func NewChain(logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}

	return &Chain{
		interceptors: make([]Interceptor, 0),
		logger:       logger,
	}
}

// Add appends an interceptor to the chain.
func (c *Chain) Add(interceptor Interceptor) *Chain {
	c.interceptors = append(c.interceptors, interceptor)
	return c
}

// Len returns the number of interceptors in the chain.
func (c *Chain) Len() int {
	return len(c.interceptors)
}

// Execute runs op through the chain. The first added interceptor is
// outermost.
func (c *Chain) Execute(info contracts.OperationInfo, op contracts.Operation) (any, error) {
	if len(c.interceptors) == 0 {
		return op()
	}

	// Build the chain in reverse order so the first interceptor runs first.
	next := op
	for i := len(c.interceptors) - 1; i >= 0; i-- {
		interceptor := c.interceptors[i]
		inner := next
		next = func() (any, error) {
			return interceptor.Intercept(info, inner)
		}
	}

	return next()
}

// LoggingInterceptor logs operation execution.
type LoggingInterceptor struct {
	logger *slog.Logger
}

// NewLoggingInterceptor creates a new logging interceptor.
func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoggingInterceptor{logger: logger}
}

// Intercept implements Interceptor.
func (i *LoggingInterceptor) Intercept(info contracts.OperationInfo, next contracts.Operation) (any, error) {
	start := time.Now()

	i.logger.Debug("executing operation",
		"operationId", info.ID,
		"kind", string(info.Kind),
		"queuedFor", start.Sub(info.EnqueuedAt),
	)

	value, err := next()
	duration := time.Since(start)

	if err != nil {
		i.logger.Error("operation failed",
			"operationId", info.ID,
			"kind", string(info.Kind),
			"duration", duration,
			"error", err,
		)
	} else {
		i.logger.Debug("operation completed",
			"operationId", info.ID,
			"kind", string(info.Kind),
			"duration", duration,
		)
	}

	return value, err
}

// Name implements Interceptor.
func (i *LoggingInterceptor) Name() string {
	return "LoggingInterceptor"
}

// MetricsCollector defines the interface for collecting operation metrics.
// The monitor package provides a Prometheus-backed implementation.
type MetricsCollector interface {
	IncrementOperationCount(kind string)
	RecordQueueWait(kind string, wait time.Duration)
	RecordExecutionTime(kind string, duration time.Duration)
	IncrementErrorCount(kind string)
}

// MetricsInterceptor collects metrics about operation execution.
type MetricsInterceptor struct {
	collector MetricsCollector
}

// NewMetricsInterceptor creates a new metrics interceptor.
func NewMetricsInterceptor(collector MetricsCollector) *MetricsInterceptor {
	return &MetricsInterceptor{collector: collector}
}

// Intercept implements Interceptor.
func (i *MetricsInterceptor) Intercept(info contracts.OperationInfo, next contracts.Operation) (any, error) {
	kind := string(info.Kind)
	start := time.Now()

	i.collector.IncrementOperationCount(kind)
	i.collector.RecordQueueWait(kind, start.Sub(info.EnqueuedAt))

	value, err := next()
	i.collector.RecordExecutionTime(kind, time.Since(start))

	if err != nil {
		i.collector.IncrementErrorCount(kind)
	}

	return value, err
}

// Name implements Interceptor.
func (i *MetricsInterceptor) Name() string {
	return "MetricsInterceptor"
}
