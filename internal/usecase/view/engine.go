package view

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"community-feed/internal/common/pagination"
	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
)

// Definition is the capability a concrete view implements: declare its
// refresh pipeline, own its field-mapping table, and shape the final
// aggregate. The engine and the query builder depend only on this
// interface, never on concrete view types.
type Definition interface {
	// Name identifies the view in logs and metrics.
	Name() string
	// Collection is the aggregate collection the view materializes into.
	Collection() string
	// Pipeline returns the refresh pipeline scoped to one source id.
	Pipeline(id int64) []Stage
	// FieldMapping is the static alias table scoping what is filterable
	// and sortable on this view.
	FieldMapping() repository.FieldMapping
	// SearchFields are the dotted document paths of the view's
	// text-bearing fields.
	SearchFields() []string
	// Assemble shapes the pipeline's working document into the typed
	// aggregate and its popularity score.
	Assemble(doc entity.Document, refreshedAt time.Time) (aggregate any, score float64, err error)
}

// Engine executes view pipelines and serves the materialized documents.
// It holds no per-request state; concurrent refreshes of the same id are
// idempotent (each recomputes from source truth, last write wins) and
// refreshes of different ids are independent.
type Engine struct {
	store  repository.AggregateStore
	reader repository.DocumentReader
	logger *slog.Logger
	now    func() time.Time
}

func NewEngine(store repository.AggregateStore, reader repository.DocumentReader, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		reader: reader,
		logger: logger,
		now:    time.Now,
	}
}

// Refresh recomputes the aggregate for one source id and upserts it.
// Returns true when the aggregate exists after the refresh. When the
// source entity no longer exists the stale aggregate is removed instead —
// an aggregate must never silently outlive its source — and Refresh
// returns false. Re-running with unchanged source data yields an equal
// document modulo the refresh timestamp.
func (e *Engine) Refresh(ctx context.Context, def Definition, id int64) (bool, error) {
	start := e.now()

	doc, err := e.runPipeline(ctx, def.Pipeline(id))
	if err != nil {
		return false, fmt.Errorf("refresh %s/%d: %w", def.Name(), id, err)
	}
	if doc == nil {
		if err := e.store.Delete(ctx, def.Collection(), id); err != nil {
			return false, fmt.Errorf("refresh %s/%d: remove stale aggregate: %w", def.Name(), id, err)
		}
		e.logger.Info("aggregate removed: source entity gone",
			"view", def.Name(), "id", id)
		RecordRefresh(def.Name(), "removed", e.now().Sub(start).Seconds())
		return false, nil
	}

	refreshedAt := e.now()
	aggregate, score, err := def.Assemble(doc, refreshedAt)
	if err != nil {
		return false, fmt.Errorf("refresh %s/%d: assemble: %w", def.Name(), id, err)
	}
	raw, err := json.Marshal(aggregate)
	if err != nil {
		return false, fmt.Errorf("refresh %s/%d: encode aggregate: %w", def.Name(), id, err)
	}
	if err := e.store.Upsert(ctx, def.Collection(), id, raw, score, refreshedAt); err != nil {
		return false, fmt.Errorf("refresh %s/%d: %w", def.Name(), id, err)
	}

	e.logger.Debug("aggregate refreshed",
		"view", def.Name(), "id", id, "score", score,
		"duration_ms", e.now().Sub(start).Milliseconds())
	RecordRefresh(def.Name(), "upserted", e.now().Sub(start).Seconds())
	return true, nil
}

// Remove deletes the aggregate for a source id. Write-side services call
// this explicitly on source-entity deletion rather than relying on Refresh
// to detect the absence.
func (e *Engine) Remove(ctx context.Context, def Definition, id int64) error {
	if err := e.store.Delete(ctx, def.Collection(), id); err != nil {
		return fmt.Errorf("remove %s/%d: %w", def.Name(), id, err)
	}
	return nil
}

// runPipeline executes the stage list. A nil document (without error)
// means the match stage found no source row.
func (e *Engine) runPipeline(ctx context.Context, stages []Stage) (entity.Document, error) {
	var doc entity.Document
	for _, stage := range stages {
		switch st := stage.(type) {
		case Match:
			docs, err := e.reader.FindByField(ctx, st.Collection, st.Field, st.Value)
			if err != nil {
				return nil, fmt.Errorf("match %s.%s: %w", st.Collection, st.Field, err)
			}
			if len(docs) == 0 {
				return nil, nil
			}
			doc = docs[0]
		case Lookup:
			if doc == nil {
				return nil, fmt.Errorf("lookup %s: no working document (missing match stage)", st.From)
			}
			related, err := e.reader.FindByField(ctx, st.From, st.ForeignField, doc[st.LocalField])
			if err != nil {
				return nil, fmt.Errorf("lookup %s.%s: %w", st.From, st.ForeignField, err)
			}
			doc[st.As] = related
		case Compute:
			if doc == nil {
				return nil, fmt.Errorf("compute %s: no working document (missing match stage)", st.Field)
			}
			doc[st.Field] = st.Fn(doc)
		case Project:
			if doc == nil {
				return nil, fmt.Errorf("project: no working document (missing match stage)")
			}
			projected := make(entity.Document, len(st.Fields))
			for _, f := range st.Fields {
				if v, ok := doc[f]; ok {
					projected[f] = v
				}
			}
			doc = projected
		default:
			return nil, fmt.Errorf("unknown pipeline stage %T", stage)
		}
	}
	return doc, nil
}

// Find returns the current materialized aggregate for id, decoded as T.
// Returns entity.ErrNotFound if the id was never refreshed (or removed).
func Find[T any](ctx context.Context, e *Engine, def Definition, id int64) (*T, error) {
	raw, err := e.store.Get(ctx, def.Collection(), id)
	if err != nil {
		return nil, fmt.Errorf("find %s/%d: %w", def.Name(), id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("find %s/%d: %w", def.Name(), id, entity.ErrNotFound)
	}
	var aggregate T
	if err := json.Unmarshal(raw, &aggregate); err != nil {
		return nil, fmt.Errorf("find %s/%d: decode aggregate: %w", def.Name(), id, err)
	}
	return &aggregate, nil
}

// FindAll serves a page of aggregates through the query builder, using the
// view's field-mapping table for alias validation and translation.
func FindAll[T any](ctx context.Context, e *Engine, def Definition, req pagination.Request) (pagination.Response[T], error) {
	raw, err := e.store.List(ctx, def.Collection(), def.FieldMapping(), req)
	if err != nil {
		return pagination.Response[T]{}, fmt.Errorf("find all %s: %w", def.Name(), err)
	}
	return decodePage[T](def, raw)
}

func decodePage[T any](def Definition, raw pagination.Response[json.RawMessage]) (pagination.Response[T], error) {
	items := make([]T, 0, len(raw.Items))
	for _, doc := range raw.Items {
		var item T
		if err := json.Unmarshal(doc, &item); err != nil {
			return pagination.Response[T]{}, fmt.Errorf("decode %s aggregate: %w", def.Name(), err)
		}
		items = append(items, item)
	}
	return pagination.Response[T]{Items: items, NextPageToken: raw.NextPageToken}, nil
}
