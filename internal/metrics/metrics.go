// Package metrics registers the Prometheus collectors exposed on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportDuration tracks end-to-end import latency per outcome.
	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "giftflow_import_duration_seconds",
			Help: "Duration of sheet imports in seconds",
			Buckets: []float64{
				0.05,
				0.1,
				0.25,
				0.5,
				1.0,
				2.5,
				5.0,
				10.0,
				30.0,
				60.0,
			},
		},
		[]string{"status"}, // success or failure
	)

	// ImportRows counts processed rows by outcome.
	ImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftflow_import_rows_total",
			Help: "Imported sheet rows by outcome",
		},
		[]string{"outcome"}, // success, failed or skipped
	)

	// ScoreRequests counts scoring computations served.
	ScoreRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "giftflow_score_requests_total",
			Help: "Influencer score computations served",
		},
	)
)

// RecordImportDuration records one import run.
func RecordImportDuration(status string, seconds float64) {
	ImportDuration.WithLabelValues(status).Observe(seconds)
}

// RecordImportRow counts one processed row.
func RecordImportRow(outcome string) {
	ImportRows.WithLabelValues(outcome).Inc()
}
