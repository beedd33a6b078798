package worker

import (
	"community-feed/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics combines the shared config metrics with counters for
// the sweep job itself: run outcomes, run duration, aggregates touched,
// and the last successful completion. Alerting keys off
// worker_cron_job_last_success_timestamp going stale.
type WorkerMetrics struct {
	*config.ConfigMetrics

	CronJobRunsTotal                *prometheus.CounterVec
	CronJobDurationSeconds          prometheus.Histogram
	CronJobAggregatesRefreshedTotal prometheus.Counter
	CronJobLastSuccessTimestamp     prometheus.Gauge
}

// NewWorkerMetrics builds and registers the worker metric set.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CronJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of cron job runs by status (started/success/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of cron job execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800}, // sweeps run seconds to tens of minutes
		}),

		CronJobAggregatesRefreshedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_aggregates_refreshed_total",
			Help: "Total number of aggregates refreshed across all cron job runs",
		}),

		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful cron job run",
		}),
	}
}

// MustRegister keeps the explicit-registration call shape at startup.
// promauto already registered everything in NewWorkerMetrics.
func (m *WorkerMetrics) MustRegister() {}

// RecordJobRun counts one run outcome ("started", "success" or "failure").
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes one run's wall-clock duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordAggregatesRefreshed adds one run's refreshed-aggregate count.
func (m *WorkerMetrics) RecordAggregatesRefreshed(count int) {
	m.CronJobAggregatesRefreshedTotal.Add(float64(count))
}

// RecordLastSuccess stamps the successful-completion gauge with now.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
