package worker

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// unregisteredMetrics builds a WorkerMetrics whose collectors live in a
// private registry so tests stay isolated from the promauto defaults.
func unregisteredMetrics(t *testing.T, prefix string) *WorkerMetrics {
	t.Helper()
	reg := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prefix + "_runs_total", Help: "test",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: prefix + "_duration_seconds", Help: "test",
		Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
	})
	refreshed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_aggregates_refreshed_total", Help: "test",
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: prefix + "_last_success_timestamp", Help: "test",
	})
	reg.MustRegister(runs, duration, refreshed, lastSuccess)

	return &WorkerMetrics{
		CronJobRunsTotal:                runs,
		CronJobDurationSeconds:          duration,
		CronJobAggregatesRefreshedTotal: refreshed,
		CronJobLastSuccessTimestamp:     lastSuccess,
	}
}

func histogramSampleCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestNewWorkerMetrics(t *testing.T) {
	// globalTestMetrics holds the one promauto-registered instance the
	// worker test suite shares.
	metrics := globalTestMetrics

	if metrics == nil {
		t.Fatal("NewWorkerMetrics returned nil")
	}
	if metrics.ConfigMetrics == nil {
		t.Error("ConfigMetrics is nil")
	}
	if metrics.CronJobRunsTotal == nil || metrics.CronJobDurationSeconds == nil ||
		metrics.CronJobAggregatesRefreshedTotal == nil || metrics.CronJobLastSuccessTimestamp == nil {
		t.Error("sweep metrics not fully initialized")
	}

	metrics.MustRegister() // must stay a safe no-op
}

func TestWorkerMetrics_RecordJobRun(t *testing.T) {
	metrics := unregisteredMetrics(t, "test_jobrun")

	metrics.RecordJobRun("success")
	metrics.RecordJobRun("success")
	metrics.RecordJobRun("failure")

	if got := testutil.ToFloat64(metrics.CronJobRunsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("success runs = %f, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.CronJobRunsTotal.WithLabelValues("failure")); got != 1 {
		t.Errorf("failure runs = %f, want 1", got)
	}
}

func TestWorkerMetrics_RecordJobDuration(t *testing.T) {
	metrics := unregisteredMetrics(t, "test_duration")

	metrics.RecordJobDuration(10.5)
	metrics.RecordJobDuration(120.0)
	metrics.RecordJobDuration(600.0)

	if got := histogramSampleCount(t, metrics.CronJobDurationSeconds); got != 3 {
		t.Errorf("duration observations = %d, want 3", got)
	}
}

func TestWorkerMetrics_RecordAggregatesRefreshed(t *testing.T) {
	metrics := unregisteredMetrics(t, "test_refreshed")

	metrics.RecordAggregatesRefreshed(10)
	metrics.RecordAggregatesRefreshed(25)
	metrics.RecordAggregatesRefreshed(5)
	metrics.RecordAggregatesRefreshed(0) // empty sweep is valid

	if got := testutil.ToFloat64(metrics.CronJobAggregatesRefreshedTotal); got != 40 {
		t.Errorf("refreshed total = %f, want 40", got)
	}
}

func TestWorkerMetrics_RecordLastSuccess(t *testing.T) {
	metrics := unregisteredMetrics(t, "test_lastsuccess")

	if got := testutil.ToFloat64(metrics.CronJobLastSuccessTimestamp); got != 0 {
		t.Errorf("initial timestamp = %f, want 0", got)
	}

	metrics.RecordLastSuccess()

	if got := testutil.ToFloat64(metrics.CronJobLastSuccessTimestamp); got <= 0 {
		t.Errorf("timestamp after success = %f, want > 0", got)
	}
}

func TestWorkerMetrics_FullSweepLifecycle(t *testing.T) {
	metrics := unregisteredMetrics(t, "test_lifecycle")

	// Two clean sweeps, then one that fails partway.
	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(45.5)
	metrics.RecordAggregatesRefreshed(10)
	metrics.RecordLastSuccess()

	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(38.2)
	metrics.RecordAggregatesRefreshed(12)
	metrics.RecordLastSuccess()

	metrics.RecordJobRun("failure")
	metrics.RecordJobDuration(5.0)

	if got := testutil.ToFloat64(metrics.CronJobRunsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("success runs = %f, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.CronJobRunsTotal.WithLabelValues("failure")); got != 1 {
		t.Errorf("failure runs = %f, want 1", got)
	}
	if got := histogramSampleCount(t, metrics.CronJobDurationSeconds); got != 3 {
		t.Errorf("duration observations = %d, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.CronJobAggregatesRefreshedTotal); got != 22 {
		t.Errorf("refreshed total = %f, want 22", got)
	}
	if got := testutil.ToFloat64(metrics.CronJobLastSuccessTimestamp); got <= 0 {
		t.Errorf("last success timestamp = %f, want > 0", got)
	}
}

func TestWorkerMetrics_ConcurrentUpdates(t *testing.T) {
	metrics := unregisteredMetrics(t, "test_concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metrics.RecordJobRun("success")
			metrics.RecordJobDuration(10.0)
			metrics.RecordAggregatesRefreshed(1)
			metrics.RecordLastSuccess()
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(metrics.CronJobRunsTotal.WithLabelValues("success")); got != 10 {
		t.Errorf("success runs = %f, want 10", got)
	}
	if got := testutil.ToFloat64(metrics.CronJobAggregatesRefreshedTotal); got != 10 {
		t.Errorf("refreshed total = %f, want 10", got)
	}
}
