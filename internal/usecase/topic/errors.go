// Package topic provides use cases for managing topic entities.
// Topics group posts and carry their own materialized aggregate tracking
// post and follower counts.
package topic

import "errors"

// Sentinel errors for topic use case operations.
var (
	// ErrTopicNotFound indicates that the requested topic was not found.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrInvalidTopicID indicates that the provided topic ID is invalid.
	// Topic IDs must be positive integers.
	ErrInvalidTopicID = errors.New("invalid topic ID")
)
