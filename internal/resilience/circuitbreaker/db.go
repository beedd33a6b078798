package circuitbreaker

import (
	"context"
	"database/sql"
	"time"

	"github.com/sony/gobreaker"
)

// DBCircuitBreaker guards a *sql.DB behind a breaker. It satisfies the
// postgres store's DB interface, so the repositories stay unaware of it;
// once Postgres starts failing fast the breaker answers ErrOpenState
// without queueing more queries onto a dead pool.
type DBCircuitBreaker struct {
	breaker *CircuitBreaker
	db      *sql.DB
}

// DBConfig trips after 5 consecutive failures and probes again after 30s
// with up to 3 half-open requests.
func DBConfig() Config {
	return Config{
		Name:             "database",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}
}

// NewDBCircuitBreaker wraps db with the default database breaker.
func NewDBCircuitBreaker(db *sql.DB) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(db, DBConfig())
}

// NewDBCircuitBreakerWithConfig wraps db with a custom breaker config.
func NewDBCircuitBreakerWithConfig(db *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{breaker: New(cfg), db: db}
}

// QueryContext runs the query through the breaker. With the circuit open
// it fails immediately with gobreaker.ErrOpenState.
func (b *DBCircuitBreaker) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		return b.db.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return res.(*sql.Rows), nil
}

// ExecContext runs the statement through the breaker.
func (b *DBCircuitBreaker) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		return b.db.ExecContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return res.(sql.Result), nil
}

// QueryRowContext bypasses the breaker: *sql.Row defers its error to
// Scan, so there is nothing observable to count here.
func (b *DBCircuitBreaker) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return b.db.QueryRowContext(ctx, query, args...)
}

// State reports the breaker state.
func (b *DBCircuitBreaker) State() gobreaker.State {
	return b.breaker.State()
}

// IsOpen reports whether the circuit is open.
func (b *DBCircuitBreaker) IsOpen() bool {
	return b.breaker.IsOpen()
}

// DB exposes the raw pool for paths that must not trip the breaker,
// such as health probes and migrations.
func (b *DBCircuitBreaker) DB() *sql.DB {
	return b.db
}
