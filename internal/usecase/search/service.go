package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"community-feed/internal/common/pagination"
	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
	"community-feed/internal/usecase/view"
)

// Config tunes how relevance is computed. Boost controls how strongly an
// aggregate's popularity score lifts its text-similarity rank; documents
// below MinSimilarity are excluded entirely.
type Config struct {
	Boost         float64 `yaml:"popularity_boost"`
	MinSimilarity float64 `yaml:"min_similarity"`
}

func DefaultConfig() Config {
	return Config{Boost: 1.0, MinSimilarity: 0.1}
}

// Service answers fuzzy text queries over materialized aggregate views.
type Service struct {
	store  repository.AggregateStore
	cfg    Config
	logger *slog.Logger
}

func NewService(store repository.AggregateStore, cfg Config, logger *slog.Logger) *Service {
	return &Service{store: store, cfg: cfg, logger: logger}
}

// Query runs text against a view's searchable fields and returns a page of
// decoded aggregates ordered by boosted relevance. Pagination behaves as in
// listing: a full page carries a continuation token, a short page ends it.
func Query[T any](ctx context.Context, s *Service, def view.Definition, text string, req pagination.Request) (pagination.Response[T], error) {
	var zero pagination.Response[T]

	text = strings.TrimSpace(text)
	if text == "" {
		return zero, &entity.ValidationError{Field: "q", Message: "search text must not be empty"}
	}

	spec := repository.SearchSpec{
		Text:          text,
		Fields:        def.SearchFields(),
		Boost:         s.cfg.Boost,
		MinSimilarity: s.cfg.MinSimilarity,
	}

	start := time.Now()
	raw, err := s.store.Search(ctx, def.Collection(), def.FieldMapping(), spec, req)
	recordQuery(def.Name(), err, time.Since(start).Seconds())
	if err != nil {
		s.logger.ErrorContext(ctx, "search query failed",
			slog.String("view", def.Name()),
			slog.String("error", err.Error()),
		)
		return zero, err
	}

	out := pagination.Response[T]{
		Items:         make([]T, 0, len(raw.Items)),
		NextPageToken: raw.NextPageToken,
	}
	for _, doc := range raw.Items {
		var item T
		if err := json.Unmarshal(doc, &item); err != nil {
			return zero, fmt.Errorf("decode %s search result: %w", def.Name(), err)
		}
		out.Items = append(out.Items, item)
	}

	s.logger.DebugContext(ctx, "search query served",
		slog.String("view", def.Name()),
		slog.Int("results", len(out.Items)),
	)
	return out, nil
}
