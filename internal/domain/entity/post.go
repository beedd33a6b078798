// Package entity defines the core domain entities for the community feed:
// topics, posts, comments, engagement records, and the denormalized
// aggregate documents materialized from them.
package entity

import "time"

// Post represents a user-authored post inside a topic.
type Post struct {
	ID        int64
	TopicID   int64
	AuthorID  int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Topic represents a discussion topic grouping posts.
type Topic struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// User is the minimal identity snapshot embedded into aggregate documents.
// Full identity management is owned by an external service.
type User struct {
	ID       int64
	Username string
}
