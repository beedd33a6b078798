// Package retry runs operations again after transient failures, with
// exponential backoff and jitter between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Config shapes the backoff schedule for one call site.
type Config struct {
	MaxAttempts    int           // total tries, including the first
	InitialDelay   time.Duration // wait before the second attempt
	MaxDelay       time.Duration // cap on the grown delay
	Multiplier     float64       // delay growth factor per attempt
	JitterFraction float64       // random extra delay, 0.0 to 1.0
}

// DefaultConfig suits ordinary request-path operations.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   1 * time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// DBConfig retries quickly. Store hiccups are usually brief, and the
// caller is holding an HTTP request open.
func DBConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   100 * time.Millisecond,
		MaxDelay:       1 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// SweepConfig retries patiently. The aggregate sweep runs off the
// request path, so waiting out a longer outage is fine.
func SweepConfig() Config {
	return Config{
		MaxAttempts:    5,
		InitialDelay:   1 * time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// WithBackoff runs fn until it succeeds, a non-retryable error occurs,
// or the attempt limit is reached. Retryability is decided by IsRetryable.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	return WithBackoffIf(ctx, cfg, fn, IsRetryable)
}

// WithBackoffIf is WithBackoff with a caller-supplied retryability check,
// for callers whose failure modes IsRetryable cannot classify (domain
// sentinels rather than network or HTTP errors).
func WithBackoffIf(ctx context.Context, cfg Config, fn func() error, retryable func(error) bool) error {
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}

		if !retryable(err) {
			slog.Warn("non-retryable error, aborting",
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			return err
		}

		if attempt == cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}

		delay = nextDelay(delay, cfg)
	}
}

func nextDelay(current time.Duration, cfg Config) time.Duration {
	grown := time.Duration(float64(current) * cfg.Multiplier)
	if grown > cfg.MaxDelay {
		grown = cfg.MaxDelay
	}
	return addJitter(grown, cfg.JitterFraction)
}

// IsRetryable reports whether an error looks transient: network
// timeouts, connection-level syscall errors, and HTTP 5xx/429/408.
// Context cancellation is never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ETIMEDOUT),
		errors.Is(err, syscall.ENETUNREACH):
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 && httpErr.StatusCode < 600 ||
			httpErr.StatusCode == http.StatusTooManyRequests ||
			httpErr.StatusCode == http.StatusRequestTimeout
	}

	return false
}

// HTTPError carries a status code so IsRetryable can classify upstream
// HTTP failures.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// addJitter stretches the delay by a random fraction so simultaneous
// retriers spread out.
func addJitter(duration time.Duration, jitterFraction float64) time.Duration {
	if jitterFraction <= 0 {
		return duration
	}
	if jitterFraction > 1.0 {
		jitterFraction = 1.0
	}
	// #nosec G404 -- jitter does not need cryptographic randomness.
	jitter := time.Duration(rand.Float64() * float64(duration) * jitterFraction)
	return duration + jitter
}
