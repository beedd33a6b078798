package topic

import (
	"context"
	"fmt"
	"time"

	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
	"community-feed/internal/usecase/view"
)

// CreateInput represents the input parameters for creating a new topic.
type CreateInput struct {
	OwnerID     int64
	Name        string
	Description string
}

// Service provides topic management use cases. Writes synchronously refresh
// the topic aggregate so the materialized view always reflects the base row.
type Service struct {
	Repo   repository.TopicRepository
	Engine *view.Engine
	Topics view.Definition
}

// Get retrieves a single topic by its ID.
// Returns ErrInvalidTopicID if the ID is not positive.
// Returns ErrTopicNotFound if the topic does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Topic, error) {
	if id <= 0 {
		return nil, ErrInvalidTopicID
	}

	t, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}
	if t == nil {
		return nil, ErrTopicNotFound
	}
	return t, nil
}

// Create creates a new topic with the provided input.
// Returns a ValidationError if any input field is invalid.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Topic, error) {
	if in.OwnerID <= 0 {
		return nil, &entity.ValidationError{Field: "ownerID", Message: "must be positive"}
	}
	if in.Name == "" {
		return nil, &entity.ValidationError{Field: "name", Message: "is required"}
	}

	t := &entity.Topic{
		OwnerID:     in.OwnerID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}

	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}

	if _, err := s.Engine.Refresh(ctx, s.Topics, t.ID); err != nil {
		return nil, fmt.Errorf("refresh topic aggregate: %w", err)
	}
	return t, nil
}

// Delete removes a topic and its materialized aggregate.
// Returns ErrInvalidTopicID if the ID is not positive.
// Returns ErrTopicNotFound if the topic does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidTopicID
	}

	t, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get topic: %w", err)
	}
	if t == nil {
		return ErrTopicNotFound
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}

	if err := s.Engine.Remove(ctx, s.Topics, id); err != nil {
		return fmt.Errorf("remove topic aggregate: %w", err)
	}
	return nil
}
