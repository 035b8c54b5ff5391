// Package monitor provides observability for a bridge connection: a
// Prometheus-backed metrics collector that plugs into the interceptor
// chain, and a health check registry with a checker that pings through the
// bridge.
//
// Metrics are instance-scoped rather than process-global so multiple
// connections can be observed independently:
//
//	metrics := monitor.NewBridgeMetrics(prometheus.DefaultRegisterer, conn.Bridge())
//	chain.Add(interceptors.NewMetricsInterceptor(metrics))
package monitor
