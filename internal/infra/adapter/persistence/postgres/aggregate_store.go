package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"community-feed/internal/common/pagination"
	"community-feed/internal/repository"
)

// AggregateStore persists materialized aggregate documents in per-view
// JSONB tables of the shape (id, doc, score, last_updated). The score and
// refresh timestamp are lifted into columns so ranking and staleness
// sweeps stay cheap; doc remains the source of truth for projected fields.
type AggregateStore struct {
	db DB
}

func NewAggregateStore(db DB) repository.AggregateStore {
	return &AggregateStore{db: db}
}

// Upsert creates or fully replaces the aggregate document for id.
// A failed upsert leaves the previous document intact (single-statement
// document-level atomicity).
func (s *AggregateStore) Upsert(ctx context.Context, collection string, id int64, doc []byte, score float64, lastUpdated time.Time) error {
	if !safeIdent(collection) {
		return fmt.Errorf("Upsert: unsafe collection name %q", collection)
	}
	query := fmt.Sprintf(`
INSERT INTO %s (id, doc, score, last_updated)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
	doc          = EXCLUDED.doc,
	score        = EXCLUDED.score,
	last_updated = EXCLUDED.last_updated`, collection)
	if _, err := s.db.ExecContext(ctx, query, id, doc, score, lastUpdated); err != nil {
		return storeErr("Upsert", err)
	}
	return nil
}

func (s *AggregateStore) Get(ctx context.Context, collection string, id int64) (json.RawMessage, error) {
	if !safeIdent(collection) {
		return nil, fmt.Errorf("Get: unsafe collection name %q", collection)
	}
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1 LIMIT 1`, collection)
	var doc []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("Get", err)
	}
	return doc, nil
}

func (s *AggregateStore) Delete(ctx context.Context, collection string, id int64) error {
	if !safeIdent(collection) {
		return fmt.Errorf("Delete: unsafe collection name %q", collection)
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, collection)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return storeErr("Delete", err)
	}
	return nil
}

// List executes the query builder's filtered/sorted/limited SELECT and
// mints the continuation token when the page came back full-size.
func (s *AggregateStore) List(ctx context.Context, collection string, mapping repository.FieldMapping, req pagination.Request) (pagination.Response[json.RawMessage], error) {
	qb, err := NewViewQueryBuilder(collection, mapping)
	if err != nil {
		return pagination.Response[json.RawMessage]{}, err
	}
	query, args, err := qb.BuildListQuery(req)
	if err != nil {
		return pagination.Response[json.RawMessage]{}, err
	}
	return s.runPageQuery(ctx, "List", query, args, req)
}

// Search executes the fuzzy relevance query with the same page contract.
func (s *AggregateStore) Search(ctx context.Context, collection string, mapping repository.FieldMapping, spec repository.SearchSpec, req pagination.Request) (pagination.Response[json.RawMessage], error) {
	qb, err := NewViewQueryBuilder(collection, mapping)
	if err != nil {
		return pagination.Response[json.RawMessage]{}, err
	}
	query, args, err := qb.BuildSearchQuery(spec, req)
	if err != nil {
		return pagination.Response[json.RawMessage]{}, err
	}
	return s.runPageQuery(ctx, "Search", query, args, req)
}

func (s *AggregateStore) runPageQuery(ctx context.Context, op, query string, args []any, req pagination.Request) (pagination.Response[json.RawMessage], error) {
	var page pagination.Response[json.RawMessage]

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return page, storeErr(op, err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]json.RawMessage, 0, req.Limit)
	var lastID int64
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&lastID, &doc); err != nil {
			return page, storeErr(op+": Scan", err)
		}
		items = append(items, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return page, storeErr(op, err)
	}

	page.Items = items
	// A full page means more results may exist; a short page is the end.
	if len(items) == req.Limit && req.Limit > 0 {
		page.NextPageToken = req.NextToken(lastID).Encode()
	}
	return page, nil
}
