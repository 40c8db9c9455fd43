// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess    = "success"
	OutcomeModelError = "model_error"
	OutcomeParseError = "parse_error"
	OutcomeError      = "error"
)

var (
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careergps_reports_total",
			Help: "Total number of report generations by outcome",
		},
		[]string{"outcome"},
	)

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careergps_exports_total",
			Help: "Total number of PDF exports by outcome",
		},
		[]string{"outcome"},
	)

	SchemaWarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "careergps_schema_warnings_total",
			Help: "Total number of schema findings on model responses",
		},
	)

	ReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "careergps_report_duration_seconds",
			Help:    "Duration of report generation in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		},
	)

	ExportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "careergps_export_duration_seconds",
			Help:    "Duration of PDF rendering in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "careergps_active_sessions",
			Help: "Number of live browser sessions",
		},
	)
)
