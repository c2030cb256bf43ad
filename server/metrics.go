package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "spendlens"

// Metrics holds the server's collectors on a private registry so several
// servers (tests) never collide on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTPRequestTotal counts requests by method, route and status.
	HTTPRequestTotal *prometheus.CounterVec
	// HTTPRequestDurationSeconds is request latency by method and route.
	HTTPRequestDurationSeconds *prometheus.HistogramVec
	// DashboardBuildDurationSeconds times BuildDashboardModel calls.
	DashboardBuildDurationSeconds prometheus.Histogram
	// DatasetRecords is the number of records served.
	DatasetRecords prometheus.Gauge
}

// NewMetrics creates and registers every collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10), // 1ms to ~9.3s
			},
			[]string{"method", "path"},
		),
		DashboardBuildDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dashboard_build_duration_seconds",
				Help:      "Dashboard model build duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
		),
		DatasetRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_records",
				Help:      "Number of spend records loaded.",
			},
		),
	}
	m.Registry.MustRegister(
		m.HTTPRequestTotal,
		m.HTTPRequestDurationSeconds,
		m.DashboardBuildDurationSeconds,
		m.DatasetRecords,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
