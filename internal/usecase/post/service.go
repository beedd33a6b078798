package post

import (
	"context"
	"fmt"
	"time"

	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
	"community-feed/internal/usecase/view"
	"community-feed/internal/utils/text"
)

// Length limits are counted in runes so multi-byte text is not penalized.
const (
	MaxTitleRunes   = 200
	MaxContentRunes = 20000
)

// CreateInput represents the input parameters for creating a new post.
type CreateInput struct {
	TopicID  int64
	AuthorID int64
	Title    string
	Content  string
}

// UpdateInput represents the input parameters for updating an existing post.
// Fields with nil values will not be updated.
type UpdateInput struct {
	ID      int64
	Title   *string
	Content *string
}

// Service provides post management use cases. Every successful write
// synchronously refreshes the post aggregate, and the owning topic aggregate
// when the post count changes, so reads through the views never lag a write.
type Service struct {
	Repo   repository.PostRepository
	Engine *view.Engine
	Posts  view.Definition
	Topics view.Definition
}

// Get retrieves a single post by its ID.
// Returns ErrInvalidPostID if the ID is not positive.
// Returns ErrPostNotFound if the post does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Post, error) {
	if id <= 0 {
		return nil, ErrInvalidPostID
	}

	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// Create creates a new post with the provided input.
// Returns a ValidationError if any input field is invalid.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Post, error) {
	if in.TopicID <= 0 {
		return nil, &entity.ValidationError{Field: "topicID", Message: "must be positive"}
	}
	if in.AuthorID <= 0 {
		return nil, &entity.ValidationError{Field: "authorID", Message: "must be positive"}
	}
	if in.Title == "" {
		return nil, &entity.ValidationError{Field: "title", Message: "is required"}
	}
	if text.Exceeds(in.Title, MaxTitleRunes) {
		return nil, &entity.ValidationError{Field: "title", Message: "is too long"}
	}
	if in.Content == "" {
		return nil, &entity.ValidationError{Field: "content", Message: "is required"}
	}
	if text.Exceeds(in.Content, MaxContentRunes) {
		return nil, &entity.ValidationError{Field: "content", Message: "is too long"}
	}

	now := time.Now()
	p := &entity.Post{
		TopicID:   in.TopicID,
		AuthorID:  in.AuthorID,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if _, err := s.Engine.Refresh(ctx, s.Posts, p.ID); err != nil {
		return nil, fmt.Errorf("refresh post aggregate: %w", err)
	}
	if _, err := s.Engine.Refresh(ctx, s.Topics, p.TopicID); err != nil {
		return nil, fmt.Errorf("refresh topic aggregate: %w", err)
	}
	return p, nil
}

// Update modifies an existing post with the provided input.
// Only non-nil fields in the input will be updated.
// Returns ErrInvalidPostID if the ID is not positive.
// Returns ErrPostNotFound if the post does not exist.
// Returns a ValidationError if any updated field is invalid.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Post, error) {
	if in.ID <= 0 {
		return nil, ErrInvalidPostID
	}

	p, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, &entity.ValidationError{Field: "title", Message: "must not be empty"}
		}
		if text.Exceeds(*in.Title, MaxTitleRunes) {
			return nil, &entity.ValidationError{Field: "title", Message: "is too long"}
		}
		p.Title = *in.Title
	}
	if in.Content != nil {
		if *in.Content == "" {
			return nil, &entity.ValidationError{Field: "content", Message: "must not be empty"}
		}
		if text.Exceeds(*in.Content, MaxContentRunes) {
			return nil, &entity.ValidationError{Field: "content", Message: "is too long"}
		}
		p.Content = *in.Content
	}
	p.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	if _, err := s.Engine.Refresh(ctx, s.Posts, p.ID); err != nil {
		return nil, fmt.Errorf("refresh post aggregate: %w", err)
	}
	return p, nil
}

// Delete removes a post and its materialized aggregate, then refreshes the
// owning topic aggregate so its post count drops immediately.
// Returns ErrInvalidPostID if the ID is not positive.
// Returns ErrPostNotFound if the post does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidPostID
	}

	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if p == nil {
		return ErrPostNotFound
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if err := s.Engine.Remove(ctx, s.Posts, id); err != nil {
		return fmt.Errorf("remove post aggregate: %w", err)
	}
	if _, err := s.Engine.Refresh(ctx, s.Topics, p.TopicID); err != nil {
		return fmt.Errorf("refresh topic aggregate: %w", err)
	}
	return nil
}
