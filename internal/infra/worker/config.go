package worker

import (
	"fmt"
	"log/slog"
	"time"

	"community-feed/internal/pkg/config"
)

// WorkerConfig controls the sweep worker: when the cron fires, how
// many aggregates refresh in parallel, how long a sweep may run, and
// where the health server listens.
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression for the sweep.
	CronSchedule string

	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string

	// SweepMaxConcurrent bounds parallel aggregate refreshes.
	SweepMaxConcurrent int

	// SweepTimeout cancels a sweep that runs too long.
	SweepTimeout time.Duration

	// HealthPort serves the worker's liveness and readiness probes.
	// Privileged ports are rejected.
	HealthPort int
}

// DefaultConfig returns the production defaults: a daily 5:30 sweep in
// JST, 10 concurrent refreshes, a 30-minute ceiling, health on 9091.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:       "30 5 * * *",
		Timezone:           "Asia/Tokyo",
		SweepMaxConcurrent: 10,
		SweepTimeout:       30 * time.Minute,
		HealthPort:         9091,
	}
}

// Validate checks every field and aggregates all failures into one
// error, so an operator sees the full list at once.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	// Tighter than the load-time ceiling: hand-built configs should not
	// exceed what the store comfortably sustains.
	if err := config.ValidateIntRange(c.SweepMaxConcurrent, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("sweep max concurrent: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.SweepTimeout); err != nil {
		errs = append(errs, fmt.Errorf("sweep timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// noteFallback logs and counts one field's fall back to its default.
func noteFallback(logger *slog.Logger, metrics *WorkerMetrics, field, metricField string, result config.ConfigLoadResult) bool {
	if !result.FallbackApplied {
		return false
	}
	metrics.RecordValidationError(metricField)
	metrics.RecordFallback(metricField, "default")
	for _, warning := range result.Warnings {
		logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}
	return true
}

// LoadConfigFromEnv reads the worker configuration from the
// environment, failing open: any invalid value is replaced by its
// default with a warning and a metric, and the returned config is
// always usable. The error result is always nil and exists only to
// keep the conventional constructor shape.
//
// Environment variables: CRON_SCHEDULE, WORKER_TIMEZONE,
// SWEEP_MAX_CONCURRENT (1-100), SWEEP_TIMEOUT (1m-4h),
// WORKER_HEALTH_PORT (1024-65535).
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	fallbackApplied = noteFallback(logger, metrics, "CronSchedule", "cron_schedule", result) || fallbackApplied

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	fallbackApplied = noteFallback(logger, metrics, "Timezone", "timezone", result) || fallbackApplied

	result = config.LoadEnvInt("SWEEP_MAX_CONCURRENT", cfg.SweepMaxConcurrent, func(v int) error {
		return config.ValidateIntRange(v, 1, 100)
	})
	cfg.SweepMaxConcurrent = result.Value.(int)
	fallbackApplied = noteFallback(logger, metrics, "SweepMaxConcurrent", "sweep_max_concurrent", result) || fallbackApplied

	result = config.LoadEnvDuration("SWEEP_TIMEOUT", cfg.SweepTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.SweepTimeout = result.Value.(time.Duration)
	fallbackApplied = noteFallback(logger, metrics, "SweepTimeout", "sweep_timeout", result) || fallbackApplied

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	fallbackApplied = noteFallback(logger, metrics, "HealthPort", "health_port", result) || fallbackApplied

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
