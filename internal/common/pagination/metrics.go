package pagination

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pagination metrics are registered once on the default registry and
// shared by every listing handler, labeled by view so dashboards can
// split traffic per collection.
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagination_requests_total",
			Help: "Total number of paginated requests",
		},
		[]string{"status", "view"},
	)

	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pagination_duration_seconds",
			Help:    "Paginated request duration distribution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
		},
		[]string{"operation"},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagination_errors_total",
			Help: "Total number of pagination errors",
		},
		[]string{"type"},
	)
)

// RecordRequest counts one paginated request against the given view.
func RecordRequest(statusCode int, view string) {
	RequestsTotal.WithLabelValues(strconv.Itoa(statusCode), view).Inc()
}

// RecordDuration observes how long one pagination stage took.
// Operation distinguishes the stage: handler, service or repository.
func RecordDuration(operation string, duration float64) {
	DurationSeconds.WithLabelValues(operation).Observe(duration)
}

// RecordError counts a pagination failure by type: validation, token,
// database or timeout.
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}
