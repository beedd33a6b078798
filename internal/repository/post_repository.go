// Package repository declares the persistence interfaces consumed by the
// use case layer. Implementations live under internal/infra/adapter.
package repository

import (
	"context"

	"community-feed/internal/domain/entity"
)

type PostRepository interface {
	// Get returns the post with the given id, or (nil, nil) if it does not exist.
	Get(ctx context.Context, id int64) (*entity.Post, error)
	// Create inserts the post and populates its ID.
	Create(ctx context.Context, post *entity.Post) error
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id int64) error
	// ListIDs returns the ids of all posts in ascending order. The
	// staleness sweep uses it to enumerate aggregates to refresh.
	ListIDs(ctx context.Context) ([]int64, error)
}

type TopicRepository interface {
	// Get returns the topic with the given id, or (nil, nil) if it does not exist.
	Get(ctx context.Context, id int64) (*entity.Topic, error)
	// Create inserts the topic and populates its ID.
	Create(ctx context.Context, topic *entity.Topic) error
	Delete(ctx context.Context, id int64) error
	// ListIDs returns the ids of all topics in ascending order.
	ListIDs(ctx context.Context) ([]int64, error)
}
