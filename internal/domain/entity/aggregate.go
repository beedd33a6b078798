package entity

import "time"

// Document is a raw aggregate document as stored in the aggregate
// collection. Pipeline stages and the aggregate store operate on this
// shape; typed views decode it into PostAggregate or TopicAggregate.
type Document = map[string]any

// AuthorSnapshot is the denormalized author embedded in aggregates.
type AuthorSnapshot struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// PostSnapshot is the denormalized post embedded in a PostAggregate.
// It mirrors the post row at the time of the last refresh.
type PostSnapshot struct {
	ID        int64          `json:"id"`
	TopicID   int64          `json:"topicId"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Author    AuthorSnapshot `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
}

// PostAggregate is the materialized read model for a single post.
// Its id is 1:1 with the source post id. The document reflects source
// state as of the last refresh and may be stale between refreshes.
type PostAggregate struct {
	ID            int64        `json:"id"`
	Post          PostSnapshot `json:"post"`
	LikeCount     int          `json:"likeCount"`
	CommentCount  int          `json:"commentCount"`
	ViewCount     int          `json:"viewCount"`
	LikedUserIDs  []int64      `json:"likedUserIds"`
	ViewedUserIDs []int64      `json:"viewedUserIds"`
	Score         float64      `json:"score"`
	LastUpdated   time.Time    `json:"lastUpdated"`
}

// TopicSnapshot is the denormalized topic embedded in a TopicAggregate.
type TopicSnapshot struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TopicAggregate is the materialized read model for a single topic.
type TopicAggregate struct {
	ID              int64         `json:"id"`
	Topic           TopicSnapshot `json:"topic"`
	PostCount       int           `json:"postCount"`
	FollowerCount   int           `json:"followerCount"`
	FollowerUserIDs []int64       `json:"followerUserIds"`
	Score           float64       `json:"score"`
	LastUpdated     time.Time     `json:"lastUpdated"`
}
