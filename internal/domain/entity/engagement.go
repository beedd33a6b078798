package entity

import "time"

// Comment represents a top-level comment on a post.
type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time
}

// Reply represents a nested reply to a comment.
type Reply struct {
	ID        int64
	CommentID int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time
}

// Like records that a user liked a post. One row per (post, user).
type Like struct {
	ID        int64
	PostID    int64
	UserID    int64
	CreatedAt time.Time
}

// View records that a user viewed a post.
type View struct {
	ID        int64
	PostID    int64
	UserID    int64
	CreatedAt time.Time
}

// Follow records that a user follows a topic. One row per (topic, user).
type Follow struct {
	ID        int64
	TopicID   int64
	UserID    int64
	CreatedAt time.Time
}
