package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_queries_total",
			Help: "Total number of search queries by view and status.",
		},
		[]string{"view", "status"},
	)

	queryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_query_duration_seconds",
			Help:    "Search query latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"view"},
	)
)

func recordQuery(view string, err error, seconds float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	queriesTotal.WithLabelValues(view, status).Inc()
	queryDurationSeconds.WithLabelValues(view).Observe(seconds)
}
