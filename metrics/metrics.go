// Package metrics provides Prometheus metrics for the dashboard.
// HTTP traffic:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Lookups:
//   - dashboard_submissions_total: Counter with outcome label
//   - completion_requests_total: Counter with outcome label
//   - completion_duration_seconds: Histogram of completion round trips
//   - report_faults_total: Counter with kind label
//   - exports_total: Counter of CSV downloads
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Completion outcomes
const (
	CompletionOK    = "ok"
	CompletionError = "error"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_submissions_total",
			Help: "Disease lookups by outcome",
		},
		[]string{"outcome"},
	)

	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_requests_total",
			Help: "Chat completion requests by outcome",
		},
		[]string{"outcome"},
	)

	// Completions routinely take several seconds
	CompletionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "completion_duration_seconds",
			Help:    "Chat completion latency",
			Buckets: []float64{.25, .5, 1, 2, 4, 8, 16, 32, 64},
		},
	)

	ReportFaultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_faults_total",
			Help: "Replies that could not be turned into a dashboard, by kind",
		},
		[]string{"kind"},
	)

	ExportsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "exports_total",
			Help: "CSV exports served",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(SubmissionsTotal)
	prometheus.MustRegister(CompletionRequestsTotal)
	prometheus.MustRegister(CompletionDuration)
	prometheus.MustRegister(ReportFaultsTotal)
	prometheus.MustRegister(ExportsTotal)
}
