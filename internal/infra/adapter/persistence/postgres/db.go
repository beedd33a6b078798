// Package postgres provides PostgreSQL implementations of the repository
// interfaces, including the JSONB aggregate store and the view query
// builder that drives cursor-based pagination.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"

	"community-feed/internal/domain/entity"
)

// DB is the minimal query surface the repositories need. It is satisfied
// by *sql.DB and by circuitbreaker.DBCircuitBreaker, so callers choose
// whether store traffic runs behind a breaker.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// storeErr wraps a driver error with the operation name, classifying
// timeouts and connection loss as entity.ErrStoreUnavailable so callers
// can retry safely.
func storeErr(op string, err error) error {
	if isTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, entity.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}
