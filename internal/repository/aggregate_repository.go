package repository

import (
	"context"
	"encoding/json"
	"time"

	"community-feed/internal/common/pagination"
	"community-feed/internal/domain/entity"
)

// FieldKind declares how a mapped field is typed for filtering and sorting.
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumeric
	KindTemporal
)

// MappedField is one entry of a view's field-mapping table: the dotted
// path of the field inside the aggregate document plus its kind.
type MappedField struct {
	Path string
	Kind FieldKind
}

// FieldMapping translates public field aliases to store-native document
// paths. It is static, owned by each concrete view, and scopes what is
// filterable and sortable: aliases absent from the table are rejected
// with *entity.InvalidFieldError, never silently dropped.
type FieldMapping map[string]MappedField

// SearchSpec describes a full-text query over a view's materialized
// text fields, combined with the popularity score as a ranking boost.
type SearchSpec struct {
	Text          string
	Fields        []string // dotted document paths of the searchable fields
	Boost         float64  // multiplier applied to the popularity score
	MinSimilarity float64  // trigram similarity floor for a row to match
}

// AggregateStore persists and queries materialized aggregate documents.
// Documents are keyed 1:1 by source entity id and live in a collection
// separate from the source rows. Individual operations are atomic; no
// further transactional semantics are assumed.
type AggregateStore interface {
	// Upsert creates or replaces the aggregate document for id.
	Upsert(ctx context.Context, collection string, id int64, doc []byte, score float64, lastUpdated time.Time) error
	// Get returns the raw document, or (nil, nil) if never refreshed.
	Get(ctx context.Context, collection string, id int64) (json.RawMessage, error)
	Delete(ctx context.Context, collection string, id int64) error
	// List executes a filtered, sorted, cursor-continued page query
	// described by req, translating aliases through mapping.
	List(ctx context.Context, collection string, mapping FieldMapping, req pagination.Request) (pagination.Response[json.RawMessage], error)
	// Search executes a fuzzy text query ranked by relevance and boosted
	// popularity, with the same cursor continuation contract as List.
	Search(ctx context.Context, collection string, mapping FieldMapping, spec SearchSpec, req pagination.Request) (pagination.Response[json.RawMessage], error)
}

// DocumentReader provides the pipeline engine's only data access: fetch
// the documents of a named source collection whose field equals a value,
// ordered by insertion (id ascending).
type DocumentReader interface {
	FindByField(ctx context.Context, collection, field string, value any) ([]entity.Document, error)
}
