// Package post provides HTTP handlers for post endpoints: the aggregate
// feed, post detail, CRUD, and the engagement routes (likes, views,
// comments, replies) hanging off a post.
package post

import (
	"time"

	"community-feed/internal/domain/entity"
)

// DTO represents the JSON structure for a post row as written.
// Feed and detail reads are served from the materialized PostAggregate
// instead, which carries the denormalized author and engagement counters.
type DTO struct {
	ID        int64     `json:"id" example:"1"`
	TopicID   int64     `json:"topic_id" example:"3"`
	AuthorID  int64     `json:"author_id" example:"7"`
	Title     string    `json:"title" example:"Generics in practice"`
	Content   string    `json:"content" example:"A short field report..."`
	CreatedAt time.Time `json:"created_at" example:"2026-08-01T10:00:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2026-08-01T10:00:00Z"`
}

func toDTO(p *entity.Post) DTO {
	return DTO{
		ID:        p.ID,
		TopicID:   p.TopicID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// CommentDTO represents the JSON structure for a created comment.
type CommentDTO struct {
	ID        int64     `json:"id" example:"10"`
	PostID    int64     `json:"post_id" example:"1"`
	AuthorID  int64     `json:"author_id" example:"7"`
	Content   string    `json:"content" example:"Nice writeup"`
	CreatedAt time.Time `json:"created_at" example:"2026-08-01T11:00:00Z"`
}

// ReplyDTO represents the JSON structure for a created reply.
type ReplyDTO struct {
	ID        int64     `json:"id" example:"20"`
	CommentID int64     `json:"comment_id" example:"10"`
	AuthorID  int64     `json:"author_id" example:"8"`
	Content   string    `json:"content" example:"Agreed"`
	CreatedAt time.Time `json:"created_at" example:"2026-08-01T11:05:00Z"`
}
