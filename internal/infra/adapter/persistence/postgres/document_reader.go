package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
)

// sourceCollections whitelists the normalized collections the pipeline
// engine may read, and per collection the fields usable in a match or
// lookup stage. Stage descriptors are static view declarations, but the
// whitelist keeps a bad declaration from becoming dynamic SQL.
var sourceCollections = map[string]map[string]bool{
	"users":      {"id": true},
	"topics":     {"id": true, "owner_id": true},
	"posts":      {"id": true, "topic_id": true, "author_id": true},
	"comments":   {"id": true, "post_id": true},
	"replies":    {"id": true, "comment_id": true},
	"likes":      {"id": true, "post_id": true, "user_id": true},
	"post_views": {"id": true, "post_id": true, "user_id": true},
	"follows":    {"id": true, "topic_id": true, "user_id": true},
}

// DocumentReader reads normalized rows as JSON documents for the pipeline
// engine: one round-trip per match or lookup stage, rows in insertion
// order so derived id lists are deterministic.
type DocumentReader struct {
	db DB
}

func NewDocumentReader(db DB) repository.DocumentReader {
	return &DocumentReader{db: db}
}

func (r *DocumentReader) FindByField(ctx context.Context, collection, field string, value any) ([]entity.Document, error) {
	fields, ok := sourceCollections[collection]
	if !ok {
		return nil, fmt.Errorf("FindByField: unknown source collection %q", collection)
	}
	if !fields[field] {
		return nil, fmt.Errorf("FindByField: field %q not allowed for collection %q", field, collection)
	}

	query := fmt.Sprintf(`SELECT to_jsonb(t) FROM %s t WHERE t.%s = $1 ORDER BY t.id`, collection, field)
	rows, err := r.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, storeErr("FindByField", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []entity.Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, storeErr("FindByField: Scan", err)
		}
		var doc entity.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("FindByField: decode %s document: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
