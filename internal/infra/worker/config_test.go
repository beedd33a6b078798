package worker

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// globalTestMetrics is shared because promauto registers against the
// default registry; a second NewWorkerMetrics call would panic.
var globalTestMetrics = NewWorkerMetrics()

var sweepEnvKeys = []string{
	"CRON_SCHEDULE",
	"WORKER_TIMEZONE",
	"SWEEP_MAX_CONCURRENT",
	"SWEEP_TIMEOUT",
	"WORKER_HEALTH_PORT",
}

// clearSweepEnv blanks every worker variable for the test's duration.
// The loader treats empty the same as unset.
func clearSweepEnv(t *testing.T) {
	t.Helper()
	for _, key := range sweepEnvKeys {
		t.Setenv(key, "")
	}
}

func loadWithCapturedLog(t *testing.T) (*WorkerConfig, string) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg, err := LoadConfigFromEnv(logger, globalTestMetrics)
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v, want nil (fail-open)", err)
	}
	return cfg, buf.String()
}

func fallbackCount(logOutput string) int {
	return strings.Count(logOutput, "Configuration fallback applied")
}

func TestDefaultConfig_Worker(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CronSchedule != "30 5 * * *" {
		t.Errorf("CronSchedule = %q, want daily 5:30", cfg.CronSchedule)
	}
	if cfg.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q, want Asia/Tokyo", cfg.Timezone)
	}
	if cfg.SweepMaxConcurrent != 10 {
		t.Errorf("SweepMaxConcurrent = %d, want 10", cfg.SweepMaxConcurrent)
	}
	if cfg.SweepTimeout != 30*time.Minute {
		t.Errorf("SweepTimeout = %v, want 30m", cfg.SweepTimeout)
	}
	if cfg.HealthPort != 9091 {
		t.Errorf("HealthPort = %d, want 9091", cfg.HealthPort)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestWorkerConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WorkerConfig)
		valid  bool
	}{
		{"custom valid config", func(c *WorkerConfig) {
			c.CronSchedule = "0 */6 * * *"
			c.Timezone = "UTC"
			c.SweepMaxConcurrent = 20
			c.SweepTimeout = 1 * time.Hour
			c.HealthPort = 8080
		}, true},
		{"invalid cron", func(c *WorkerConfig) { c.CronSchedule = "invalid cron" }, false},
		{"empty cron", func(c *WorkerConfig) { c.CronSchedule = "" }, false},
		{"invalid timezone", func(c *WorkerConfig) { c.Timezone = "Invalid/Timezone" }, false},
		{"empty timezone", func(c *WorkerConfig) { c.Timezone = "" }, false},
		{"concurrency at lower bound", func(c *WorkerConfig) { c.SweepMaxConcurrent = 1 }, true},
		{"concurrency at upper bound", func(c *WorkerConfig) { c.SweepMaxConcurrent = 50 }, true},
		{"concurrency zero", func(c *WorkerConfig) { c.SweepMaxConcurrent = 0 }, false},
		{"concurrency negative", func(c *WorkerConfig) { c.SweepMaxConcurrent = -1 }, false},
		{"concurrency above hand-edit ceiling", func(c *WorkerConfig) { c.SweepMaxConcurrent = 51 }, false},
		{"timeout zero", func(c *WorkerConfig) { c.SweepTimeout = 0 }, false},
		{"timeout negative", func(c *WorkerConfig) { c.SweepTimeout = -1 * time.Minute }, false},
		{"timeout one second", func(c *WorkerConfig) { c.SweepTimeout = 1 * time.Second }, true},
		{"timeout two hours", func(c *WorkerConfig) { c.SweepTimeout = 2 * time.Hour }, true},
		{"port at lower bound", func(c *WorkerConfig) { c.HealthPort = 1024 }, true},
		{"port at upper bound", func(c *WorkerConfig) { c.HealthPort = 65535 }, true},
		{"privileged port", func(c *WorkerConfig) { c.HealthPort = 1023 }, false},
		{"port out of range", func(c *WorkerConfig) { c.HealthPort = 65536 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestWorkerConfig_Validate_AggregatesErrors(t *testing.T) {
	cfg := WorkerConfig{
		CronSchedule:       "invalid",
		Timezone:           "Invalid/Zone",
		SweepMaxConcurrent: 0,
		SweepTimeout:       0,
		HealthPort:         100,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want aggregated errors")
	}
	for _, fragment := range []string{"cron schedule", "timezone", "sweep max concurrent", "sweep timeout", "health port"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q should name %q", err, fragment)
		}
	}
}

func TestLoadConfigFromEnv_AllValid(t *testing.T) {
	clearSweepEnv(t)
	t.Setenv("CRON_SCHEDULE", "0 6 * * *")
	t.Setenv("WORKER_TIMEZONE", "UTC")
	t.Setenv("SWEEP_MAX_CONCURRENT", "20")
	t.Setenv("SWEEP_TIMEOUT", "1h")
	t.Setenv("WORKER_HEALTH_PORT", "8080")

	cfg, logOutput := loadWithCapturedLog(t)

	if cfg.CronSchedule != "0 6 * * *" || cfg.Timezone != "UTC" {
		t.Errorf("schedule/timezone = (%q, %q), want env values", cfg.CronSchedule, cfg.Timezone)
	}
	if cfg.SweepMaxConcurrent != 20 || cfg.SweepTimeout != 1*time.Hour || cfg.HealthPort != 8080 {
		t.Errorf("numeric fields = (%d, %v, %d), want (20, 1h, 8080)",
			cfg.SweepMaxConcurrent, cfg.SweepTimeout, cfg.HealthPort)
	}
	if n := fallbackCount(logOutput); n != 0 {
		t.Errorf("fallback warnings = %d, want 0: %s", n, logOutput)
	}
}

func TestLoadConfigFromEnv_UnsetUsesDefaults(t *testing.T) {
	clearSweepEnv(t)

	cfg, logOutput := loadWithCapturedLog(t)

	if *cfg != DefaultConfig() {
		t.Errorf("config = %+v, want defaults", *cfg)
	}
	// Absent variables are not fallbacks, so nothing is logged.
	if n := fallbackCount(logOutput); n != 0 {
		t.Errorf("fallback warnings = %d, want 0", n)
	}
}

func TestLoadConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name      string
		envKey    string
		envValue  string
		fieldName string
		check     func(*WorkerConfig) bool
	}{
		{"bad cron", "CRON_SCHEDULE", "invalid cron", "CronSchedule",
			func(c *WorkerConfig) bool { return c.CronSchedule == DefaultConfig().CronSchedule }},
		{"bad timezone", "WORKER_TIMEZONE", "Invalid/Timezone", "Timezone",
			func(c *WorkerConfig) bool { return c.Timezone == DefaultConfig().Timezone }},
		{"concurrency zero", "SWEEP_MAX_CONCURRENT", "0", "SweepMaxConcurrent",
			func(c *WorkerConfig) bool { return c.SweepMaxConcurrent == 10 }},
		{"concurrency over ceiling", "SWEEP_MAX_CONCURRENT", "101", "SweepMaxConcurrent",
			func(c *WorkerConfig) bool { return c.SweepMaxConcurrent == 10 }},
		{"concurrency non-numeric", "SWEEP_MAX_CONCURRENT", "abc", "SweepMaxConcurrent",
			func(c *WorkerConfig) bool { return c.SweepMaxConcurrent == 10 }},
		{"timeout zero", "SWEEP_TIMEOUT", "0", "SweepTimeout",
			func(c *WorkerConfig) bool { return c.SweepTimeout == 30*time.Minute }},
		{"timeout negative", "SWEEP_TIMEOUT", "-1s", "SweepTimeout",
			func(c *WorkerConfig) bool { return c.SweepTimeout == 30*time.Minute }},
		{"timeout unparseable", "SWEEP_TIMEOUT", "invalid", "SweepTimeout",
			func(c *WorkerConfig) bool { return c.SweepTimeout == 30*time.Minute }},
		{"port privileged", "WORKER_HEALTH_PORT", "1023", "HealthPort",
			func(c *WorkerConfig) bool { return c.HealthPort == 9091 }},
		{"port over range", "WORKER_HEALTH_PORT", "65536", "HealthPort",
			func(c *WorkerConfig) bool { return c.HealthPort == 9091 }},
		{"port non-numeric", "WORKER_HEALTH_PORT", "abc", "HealthPort",
			func(c *WorkerConfig) bool { return c.HealthPort == 9091 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSweepEnv(t)
			t.Setenv(tt.envKey, tt.envValue)

			cfg, logOutput := loadWithCapturedLog(t)

			if !tt.check(cfg) {
				t.Errorf("%s did not fall back to its default: %+v", tt.fieldName, *cfg)
			}
			if n := fallbackCount(logOutput); n != 1 {
				t.Errorf("fallback warnings = %d, want 1: %s", n, logOutput)
			}
			if !strings.Contains(logOutput, tt.fieldName) {
				t.Errorf("warning should name field %s: %s", tt.fieldName, logOutput)
			}
		})
	}
}

func TestLoadConfigFromEnv_EveryFieldInvalid(t *testing.T) {
	clearSweepEnv(t)
	t.Setenv("CRON_SCHEDULE", "invalid")
	t.Setenv("WORKER_TIMEZONE", "Invalid/Zone")
	t.Setenv("SWEEP_MAX_CONCURRENT", "0")
	t.Setenv("SWEEP_TIMEOUT", "invalid")
	t.Setenv("WORKER_HEALTH_PORT", "100")

	cfg, logOutput := loadWithCapturedLog(t)

	if *cfg != DefaultConfig() {
		t.Errorf("config = %+v, want all defaults", *cfg)
	}
	if n := fallbackCount(logOutput); n != 5 {
		t.Errorf("fallback warnings = %d, want 5", n)
	}
}

func TestLoadConfigFromEnv_MixedValidity(t *testing.T) {
	clearSweepEnv(t)
	t.Setenv("CRON_SCHEDULE", "0 6 * * *")
	t.Setenv("WORKER_TIMEZONE", "Invalid/Zone")
	t.Setenv("SWEEP_MAX_CONCURRENT", "20")
	t.Setenv("SWEEP_TIMEOUT", "invalid")
	t.Setenv("WORKER_HEALTH_PORT", "8080")

	cfg, logOutput := loadWithCapturedLog(t)

	if cfg.CronSchedule != "0 6 * * *" || cfg.SweepMaxConcurrent != 20 || cfg.HealthPort != 8080 {
		t.Errorf("valid fields should keep env values: %+v", *cfg)
	}
	if cfg.Timezone != DefaultConfig().Timezone || cfg.SweepTimeout != DefaultConfig().SweepTimeout {
		t.Errorf("invalid fields should fall back: %+v", *cfg)
	}
	if n := fallbackCount(logOutput); n != 2 {
		t.Errorf("fallback warnings = %d, want 2", n)
	}
}
