// Package view implements the aggregate view engine: declarative
// multi-stage pipelines that join normalized collections, compute derived
// engagement metrics, and materialize denormalized read-model documents
// served through cursor-based pagination.
package view

import (
	"time"

	"community-feed/internal/domain/entity"
)

// Stage is one typed step of a view's refresh pipeline. Pipelines are
// data, not control flow: each view declares an ordered stage list and the
// engine executes stages uniformly, keeping join logic out of business code.
type Stage interface {
	stageName() string
}

// Match selects the pipeline's working document: the row of Collection
// whose Field equals Value. A refresh always matches on the source id
// first, bounding the pipeline to a single entity.
type Match struct {
	Collection string
	Field      string
	Value      any
}

func (Match) stageName() string { return "match" }

// Lookup joins a related collection by foreign-key equality: all From
// documents whose ForeignField equals the working document's LocalField,
// stored under As in insertion order.
type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
}

func (Lookup) stageName() string { return "lookup" }

// Compute derives a named field from the working document.
type Compute struct {
	Field string
	Fn    func(entity.Document) any
}

func (Compute) stageName() string { return "compute" }

// Project reduces the working document to the named fields, dropping the
// intermediate lookup payloads from the materialized shape.
type Project struct {
	Fields []string
}

func (Project) stageName() string { return "project" }

// ---- document helpers ----------------------------------------------------
//
// Pipeline documents come back from the store as JSON maps: integers as
// float64, timestamps as RFC 3339 strings, lookups as []entity.Document.
// Compute stages may also have written native Go values.

func docInt64(doc entity.Document, key string) int64 {
	switch v := doc[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func docFloat(doc entity.Document, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func docString(doc entity.Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

func docTime(doc entity.Document, key string) time.Time {
	switch v := doc[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func docList(doc entity.Document, key string) []entity.Document {
	switch v := doc[key].(type) {
	case []entity.Document:
		return v
	case []any:
		out := make([]entity.Document, 0, len(v))
		for _, item := range v {
			if d, ok := item.(entity.Document); ok {
				out = append(out, d)
			}
		}
		return out
	default:
		return nil
	}
}

func firstDoc(doc entity.Document, key string) entity.Document {
	list := docList(doc, key)
	if len(list) == 0 {
		return entity.Document{}
	}
	return list[0]
}

// idList extracts the named id from each document, in insertion order.
func idList(docs []entity.Document, key string) []int64 {
	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, docInt64(d, key))
	}
	return ids
}

// uniqueIDList extracts ids deduplicated, first occurrence wins.
func uniqueIDList(docs []entity.Document, key string) []int64 {
	seen := make(map[int64]bool, len(docs))
	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		id := docInt64(d, key)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
