// Package engagement provides use cases for likes, comments, replies, view
// events, and topic follows. Each write that changes an aggregate's counters
// synchronously refreshes the affected materialized view.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
	"community-feed/internal/usecase/view"
	"community-feed/internal/utils/text"
)

// MaxCommentRunes caps comment and reply length, counted in runes.
const MaxCommentRunes = 2000

// Sentinel errors for engagement use case operations.
var (
	// ErrCommentNotFound indicates that the requested comment was not found.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrInvalidID indicates that a referenced entity ID is not positive.
	ErrInvalidID = errors.New("invalid ID")
)

// CommentInput represents the input parameters for commenting on a post.
type CommentInput struct {
	PostID   int64
	AuthorID int64
	Content  string
}

// ReplyInput represents the input parameters for replying to a comment.
type ReplyInput struct {
	CommentID int64
	AuthorID  int64
	Content   string
}

// Service coordinates engagement writes against their repositories and the
// aggregate view engine.
type Service struct {
	Comments repository.CommentRepository
	Replies  repository.ReplyRepository
	Likes    repository.LikeRepository
	Views    repository.ViewRepository
	Follows  repository.FollowRepository

	Engine *view.Engine
	Posts  view.Definition
	Topics view.Definition
}

// LikePost records a like and refreshes the post aggregate. The operation is
// idempotent: liking an already-liked post returns false without an error and
// skips the refresh.
func (s *Service) LikePost(ctx context.Context, postID, userID int64) (bool, error) {
	if postID <= 0 || userID <= 0 {
		return false, ErrInvalidID
	}

	added, err := s.Likes.Add(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("add like: %w", err)
	}
	if !added {
		return false, nil
	}

	if _, err := s.Engine.Refresh(ctx, s.Posts, postID); err != nil {
		return true, fmt.Errorf("refresh post aggregate: %w", err)
	}
	return true, nil
}

// UnlikePost removes a like and refreshes the post aggregate.
func (s *Service) UnlikePost(ctx context.Context, postID, userID int64) error {
	if postID <= 0 || userID <= 0 {
		return ErrInvalidID
	}

	if err := s.Likes.Remove(ctx, postID, userID); err != nil {
		return fmt.Errorf("remove like: %w", err)
	}

	if _, err := s.Engine.Refresh(ctx, s.Posts, postID); err != nil {
		return fmt.Errorf("refresh post aggregate: %w", err)
	}
	return nil
}

// RecordView stores a view event and refreshes the post aggregate. Repeat
// views by the same user raise the view count but not the viewer set.
func (s *Service) RecordView(ctx context.Context, postID, userID int64) error {
	if postID <= 0 || userID <= 0 {
		return ErrInvalidID
	}

	if err := s.Views.Record(ctx, postID, userID); err != nil {
		return fmt.Errorf("record view: %w", err)
	}

	if _, err := s.Engine.Refresh(ctx, s.Posts, postID); err != nil {
		return fmt.Errorf("refresh post aggregate: %w", err)
	}
	return nil
}

// Comment creates a comment on a post and refreshes the post aggregate.
// Returns a ValidationError if any input field is invalid.
func (s *Service) Comment(ctx context.Context, in CommentInput) (*entity.Comment, error) {
	if in.PostID <= 0 {
		return nil, &entity.ValidationError{Field: "postID", Message: "must be positive"}
	}
	if in.AuthorID <= 0 {
		return nil, &entity.ValidationError{Field: "authorID", Message: "must be positive"}
	}
	if in.Content == "" {
		return nil, &entity.ValidationError{Field: "content", Message: "is required"}
	}
	if text.Exceeds(in.Content, MaxCommentRunes) {
		return nil, &entity.ValidationError{Field: "content", Message: "is too long"}
	}

	c := &entity.Comment{
		PostID:    in.PostID,
		AuthorID:  in.AuthorID,
		Content:   in.Content,
		CreatedAt: time.Now(),
	}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if _, err := s.Engine.Refresh(ctx, s.Posts, c.PostID); err != nil {
		return nil, fmt.Errorf("refresh post aggregate: %w", err)
	}
	return c, nil
}

// DeleteComment removes a comment and refreshes the post aggregate it
// belonged to.
// Returns ErrCommentNotFound if the comment does not exist.
func (s *Service) DeleteComment(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	c, err := s.Comments.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get comment: %w", err)
	}
	if c == nil {
		return ErrCommentNotFound
	}

	if err := s.Comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if _, err := s.Engine.Refresh(ctx, s.Posts, c.PostID); err != nil {
		return fmt.Errorf("refresh post aggregate: %w", err)
	}
	return nil
}

// Reply creates a nested reply to a comment. Replies do not feed any
// aggregate counter, so no refresh is needed.
// Returns a ValidationError if any input field is invalid.
func (s *Service) Reply(ctx context.Context, in ReplyInput) (*entity.Reply, error) {
	if in.CommentID <= 0 {
		return nil, &entity.ValidationError{Field: "commentID", Message: "must be positive"}
	}
	if in.AuthorID <= 0 {
		return nil, &entity.ValidationError{Field: "authorID", Message: "must be positive"}
	}
	if in.Content == "" {
		return nil, &entity.ValidationError{Field: "content", Message: "is required"}
	}
	if text.Exceeds(in.Content, MaxCommentRunes) {
		return nil, &entity.ValidationError{Field: "content", Message: "is too long"}
	}

	r := &entity.Reply{
		CommentID: in.CommentID,
		AuthorID:  in.AuthorID,
		Content:   in.Content,
		CreatedAt: time.Now(),
	}
	if err := s.Replies.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	return r, nil
}

// FollowTopic records a follow and refreshes the topic aggregate. Like
// LikePost, the operation is idempotent.
func (s *Service) FollowTopic(ctx context.Context, topicID, userID int64) (bool, error) {
	if topicID <= 0 || userID <= 0 {
		return false, ErrInvalidID
	}

	added, err := s.Follows.Add(ctx, topicID, userID)
	if err != nil {
		return false, fmt.Errorf("add follow: %w", err)
	}
	if !added {
		return false, nil
	}

	if _, err := s.Engine.Refresh(ctx, s.Topics, topicID); err != nil {
		return true, fmt.Errorf("refresh topic aggregate: %w", err)
	}
	return true, nil
}

// UnfollowTopic removes a follow and refreshes the topic aggregate.
func (s *Service) UnfollowTopic(ctx context.Context, topicID, userID int64) error {
	if topicID <= 0 || userID <= 0 {
		return ErrInvalidID
	}

	if err := s.Follows.Remove(ctx, topicID, userID); err != nil {
		return fmt.Errorf("remove follow: %w", err)
	}

	if _, err := s.Engine.Refresh(ctx, s.Topics, topicID); err != nil {
		return fmt.Errorf("refresh topic aggregate: %w", err)
	}
	return nil
}
