// Package topic provides HTTP handlers for topic endpoints: the topic
// directory served from materialized aggregates, topic CRUD, and follows.
package topic

import "time"

// DTO represents the JSON structure for a topic row as written.
type DTO struct {
	ID          int64     `json:"id" example:"3"`
	OwnerID     int64     `json:"owner_id" example:"1"`
	Name        string    `json:"name" example:"go"`
	Description string    `json:"description" example:"All things Go"`
	CreatedAt   time.Time `json:"created_at" example:"2026-08-01T00:00:00Z"`
}
