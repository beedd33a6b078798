// Package sweep rebuilds every materialized aggregate from its source
// rows. Write paths refresh aggregates synchronously, so the sweep is a
// repair mechanism: it reconciles aggregates that drifted because a
// refresh failed mid-write or a weight change left old scores behind.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
	"community-feed/internal/resilience/retry"
	"community-feed/internal/usecase/view"
)

// Stats summarizes one sweep run.
type Stats struct {
	// Refreshed is the number of aggregates recomputed and upserted.
	Refreshed int
	// Removed counts stale aggregates whose source row no longer exists.
	Removed int
	// Failed counts aggregates whose refresh failed after retries.
	Failed int
	// Duration is the wall-clock time of the whole run.
	Duration time.Duration
}

// Service sweeps both aggregate collections.
type Service struct {
	Posts  repository.PostRepository
	Topics repository.TopicRepository

	Engine    *view.Engine
	PostView  view.Definition
	TopicView view.Definition

	// MaxConcurrent bounds in-flight refreshes across both collections.
	MaxConcurrent int
	Logger        *slog.Logger
}

// Run refreshes every post and topic aggregate. Individual refresh
// failures are counted, logged, and do not abort the run; Run returns an
// error only when a collection cannot be enumerated at all.
func (s *Service) Run(ctx context.Context) (Stats, error) {
	start := time.Now()

	postIDs, err := s.Posts.ListIDs(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list post ids: %w", err)
	}
	topicIDs, err := s.Topics.ListIDs(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list topic ids: %w", err)
	}

	var refreshed, removed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	limit := s.MaxConcurrent
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	sweepOne := func(def view.Definition, id int64) func() error {
		return func() error {
			var kept bool
			err := retry.WithBackoffIf(gctx, retry.SweepConfig(), func() error {
				var err error
				kept, err = s.Engine.Refresh(gctx, def, id)
				return err
			}, sweepRetryable)
			switch {
			case err != nil:
				failed.Add(1)
				s.Logger.Warn("sweep refresh failed",
					slog.String("view", def.Name()),
					slog.Int64("id", id),
					slog.Any("error", err))
			case kept:
				refreshed.Add(1)
			default:
				removed.Add(1)
			}
			// Refresh failures never abort the sweep.
			return nil
		}
	}

	for _, id := range postIDs {
		g.Go(sweepOne(s.PostView, id))
	}
	for _, id := range topicIDs {
		g.Go(sweepOne(s.TopicView, id))
	}
	_ = g.Wait()

	stats := Stats{
		Refreshed: int(refreshed.Load()),
		Removed:   int(removed.Load()),
		Failed:    int(failed.Load()),
		Duration:  time.Since(start),
	}
	return stats, ctx.Err()
}

// sweepRetryable retries transient store outages on top of the generic
// network classification.
func sweepRetryable(err error) bool {
	return errors.Is(err, entity.ErrStoreUnavailable) || retry.IsRetryable(err)
}
