package repository

import (
	"context"

	"community-feed/internal/domain/entity"
)

type CommentRepository interface {
	// Get returns the comment with the given id, or (nil, nil) if it does not exist.
	Get(ctx context.Context, id int64) (*entity.Comment, error)
	// Create inserts the comment and populates its ID.
	Create(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id int64) error
}

type ReplyRepository interface {
	// Create inserts the reply and populates its ID.
	Create(ctx context.Context, reply *entity.Reply) error
	Delete(ctx context.Context, id int64) error
}

type LikeRepository interface {
	// Add records a like. Returns false without error when the user had
	// already liked the post (the operation is idempotent).
	Add(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, postID, userID int64) error
}

type ViewRepository interface {
	// Record stores a view event. Repeat views by the same user are
	// recorded as separate events; aggregates deduplicate viewer ids.
	Record(ctx context.Context, postID, userID int64) error
}

type FollowRepository interface {
	// Add records a follow. Returns false without error when the user
	// already follows the topic.
	Add(ctx context.Context, topicID, userID int64) (bool, error)
	Remove(ctx context.Context, topicID, userID int64) error
}
