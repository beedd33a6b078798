// Package post provides use cases for managing post entities.
// It implements business logic for creating, updating, and deleting posts,
// keeping the materialized post and topic aggregates in step with every write.
package post

import "errors"

// Sentinel errors for post use case operations.
var (
	// ErrPostNotFound indicates that the requested post was not found.
	ErrPostNotFound = errors.New("post not found")

	// ErrInvalidPostID indicates that the provided post ID is invalid.
	// Post IDs must be positive integers.
	ErrInvalidPostID = errors.New("invalid post ID")
)
