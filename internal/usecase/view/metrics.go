package view

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshesTotal counts aggregate refresh operations.
	// Labels: view (view name), outcome (upserted, removed)
	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregate_refreshes_total",
			Help: "Total number of aggregate view refresh operations",
		},
		[]string{"view", "outcome"},
	)

	// RefreshDurationSeconds tracks refresh latency. Refreshes run inline
	// on the write path, so this distribution bounds write latency too.
	RefreshDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregate_refresh_duration_seconds",
			Help:    "Aggregate refresh duration distribution",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.2, 0.5, 1.0},
		},
		[]string{"view"},
	)
)

// RecordRefresh records one refresh operation.
func RecordRefresh(view, outcome string, seconds float64) {
	RefreshesTotal.WithLabelValues(view, outcome).Inc()
	RefreshDurationSeconds.WithLabelValues(view).Observe(seconds)
}
