package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/glimte/sqlbridge-go/bridge"
)

// BridgeObservable is the view of a bridge the metrics need. Implemented by
// *bridge.Bridge.
type BridgeObservable interface {
	QueueDepth() int
	State() bridge.State
}

// BridgeMetrics exposes bridge activity as Prometheus metrics and
// implements interceptors.MetricsCollector.
type BridgeMetrics struct {
	operationsTotal *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	execDuration    *prometheus.HistogramVec
	queueWait       *prometheus.HistogramVec
	queueDepth      prometheus.GaugeFunc
	connectionState prometheus.GaugeFunc
}

// NewBridgeMetrics builds and registers the bridge metric set with reg.
// Registering the same connection twice on one registerer panics, as usual
// for Prometheus collectors; use a dedicated registry per connection when
// observing more than one.
func NewBridgeMetrics(reg prometheus.Registerer, b BridgeObservable) *BridgeMetrics {
	m := &BridgeMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sqlbridge_operations_total",
				Help: "Total number of operations submitted to the worker.",
			},
			[]string{"kind"},
		),
		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sqlbridge_operation_failures_total",
				Help: "Total number of operations that resolved with an error.",
			},
			[]string{"kind"},
		),
		execDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sqlbridge_operation_duration_seconds",
				Help:    "Operation execution time on the worker, in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		queueWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sqlbridge_queue_wait_seconds",
				Help:    "Time an operation spent queued before execution, in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		queueDepth: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "sqlbridge_queue_depth",
				Help: "Number of operations currently waiting for the worker.",
			},
			func() float64 { return float64(b.QueueDepth()) },
		),
		connectionState: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "sqlbridge_connection_state",
				Help: "Connection lifecycle state (0 unconnected, 1 connecting, 2 open, 3 closing, 4 closed).",
			},
			func() float64 { return float64(b.State()) },
		),
	}

	reg.MustRegister(
		m.operationsTotal,
		m.failuresTotal,
		m.execDuration,
		m.queueWait,
		m.queueDepth,
		m.connectionState,
	)

	return m
}

// IncrementOperationCount implements interceptors.MetricsCollector.
func (m *BridgeMetrics) IncrementOperationCount(kind string) {
	m.operationsTotal.WithLabelValues(kind).Inc()
}

// RecordQueueWait implements interceptors.MetricsCollector.
func (m *BridgeMetrics) RecordQueueWait(kind string, wait time.Duration) {
	m.queueWait.WithLabelValues(kind).Observe(wait.Seconds())
}

// RecordExecutionTime implements interceptors.MetricsCollector.
func (m *BridgeMetrics) RecordExecutionTime(kind string, duration time.Duration) {
	m.execDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// IncrementErrorCount implements interceptors.MetricsCollector.
func (m *BridgeMetrics) IncrementErrorCount(kind string) {
	m.failuresTotal.WithLabelValues(kind).Inc()
}
