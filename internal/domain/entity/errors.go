package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all domain operations. Handlers map these
// to HTTP statuses; stores wrap driver errors into them.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStoreUnavailable indicates a transient backing-store failure
	// (timeout, connection loss). Operations failing with this error are
	// idempotent and safe to retry with backoff.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidInput indicates a request that fails domain validation.
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidFieldError reports a filter or sort field that is not declared in
// a view's field-mapping table, or a filter value incompatible with the
// field's type. It is detected before any store round-trip.
type InvalidFieldError struct {
	Field  string
	Reason string
}

// Error returns a formatted error message naming the offending field.
func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
