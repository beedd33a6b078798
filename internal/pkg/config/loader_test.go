package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvWithFallback(t *testing.T) {
	rejectAll := func(string) error { return fmt.Errorf("not allowed") }

	tests := []struct {
		name          string
		envValue      string
		setEnv        bool
		validator     func(string) error
		want          string
		wantFallback  bool
		wantInWarning string
	}{
		{
			name:      "valid value passes validation",
			envValue:  "30 5 * * *",
			setEnv:    true,
			validator: ValidateCronSchedule,
			want:      "30 5 * * *",
		},
		{
			name:   "unset uses default without warning",
			want:   "30 5 * * *",
			setEnv: false,
		},
		{
			name:     "empty value uses default without warning",
			envValue: "",
			setEnv:   true,
			want:     "30 5 * * *",
		},
		{
			name:          "invalid value falls back with warning",
			envValue:      "not a schedule",
			setEnv:        true,
			validator:     ValidateCronSchedule,
			want:          "30 5 * * *",
			wantFallback:  true,
			wantInWarning: "falling back to default '30 5 * * *'",
		},
		{
			name:     "nil validator accepts anything",
			envValue: "anything goes",
			setEnv:   true,
			want:     "anything goes",
		},
		{
			name:          "warning names the variable",
			envValue:      "bad",
			setEnv:        true,
			validator:     rejectAll,
			want:          "30 5 * * *",
			wantFallback:  true,
			wantInWarning: "Invalid TEST_SWEEP_SCHEDULE='bad'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv("TEST_SWEEP_SCHEDULE", tt.envValue)
			}

			result := LoadEnvWithFallback("TEST_SWEEP_SCHEDULE", "30 5 * * *", tt.validator)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantInWarning != "" {
				assert.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], tt.wantInWarning)
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestLoadEnvDuration(t *testing.T) {
	tests := []struct {
		name          string
		envValue      string
		setEnv        bool
		validator     func(time.Duration) error
		want          time.Duration
		wantFallback  bool
		wantInWarning string
	}{
		{
			name:     "valid duration",
			envValue: "45m",
			setEnv:   true,
			want:     45 * time.Minute,
		},
		{
			name:     "compound duration",
			envValue: "1h30m",
			setEnv:   true,
			want:     90 * time.Minute,
		},
		{
			name: "unset uses default",
			want: 30 * time.Minute,
		},
		{
			name:          "unparseable falls back",
			envValue:      "ninety minutes",
			setEnv:        true,
			want:          30 * time.Minute,
			wantFallback:  true,
			wantInWarning: "falling back to default '30m0s'",
		},
		{
			name:          "parseable but rejected by validator",
			envValue:      "-5m",
			setEnv:        true,
			validator:     ValidatePositiveDuration,
			want:          30 * time.Minute,
			wantFallback:  true,
			wantInWarning: "falling back to default '30m0s'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv("TEST_SWEEP_TIMEOUT", tt.envValue)
			}

			result := LoadEnvDuration("TEST_SWEEP_TIMEOUT", 30*time.Minute, tt.validator)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantInWarning != "" {
				assert.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], tt.wantInWarning)
			}
		})
	}
}

func TestLoadEnvInt(t *testing.T) {
	portRange := func(v int) error { return ValidateIntRange(v, 1024, 65535) }

	tests := []struct {
		name          string
		envValue      string
		setEnv        bool
		validator     func(int) error
		want          int
		wantFallback  bool
		wantInWarning string
	}{
		{
			name:      "valid integer",
			envValue:  "9091",
			setEnv:    true,
			validator: portRange,
			want:      9091,
		},
		{
			name: "unset uses default",
			want: 9090,
		},
		{
			name:          "non-numeric falls back",
			envValue:      "ninety",
			setEnv:        true,
			want:          9090,
			wantFallback:  true,
			wantInWarning: "invalid integer format",
		},
		{
			name:          "out of range falls back",
			envValue:      "80",
			setEnv:        true,
			validator:     portRange,
			want:          9090,
			wantFallback:  true,
			wantInWarning: "falling back to default '9090'",
		},
		{
			name:     "negative integer parses",
			envValue: "-1",
			setEnv:   true,
			want:     -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv("TEST_HEALTH_PORT", tt.envValue)
			}

			result := LoadEnvInt("TEST_HEALTH_PORT", 9090, tt.validator)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantInWarning != "" {
				assert.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], tt.wantInWarning)
			}
		})
	}
}
