package pagination

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Request is the contract for a paginated query: a bounded limit, an
// ordered set of equality filters, an ordered multi-field sort spec, and
// an optional continuation token from the previous page.
//
// Field names in Filters and Sorts are public aliases; the query builder
// validates them against the view's field-mapping table and rejects
// unknown aliases rather than silently dropping them.
type Request struct {
	Limit   int
	Filters []Filter
	Sorts   []Sort
	Token   *PageToken
}

// WithFilter returns a copy of the request with an equality filter
// appended. Previously set filters are preserved in insertion order.
func (r Request) WithFilter(field, value string) Request {
	filters := make([]Filter, len(r.Filters), len(r.Filters)+1)
	copy(filters, r.Filters)
	r.Filters = append(filters, Filter{Field: field, Value: value})
	return r
}

// WithSort returns a copy of the request with a sort field appended.
// Multi-field sorts apply left to right in insertion order.
func (r Request) WithSort(field string, direction Direction) Request {
	sorts := make([]Sort, len(r.Sorts), len(r.Sorts)+1)
	copy(sorts, r.Sorts)
	r.Sorts = append(sorts, Sort{Field: field, Direction: direction})
	return r
}

// EffectiveFilters returns the filters governing the next page: the
// token's copy when continuing, the request's own otherwise. A token is
// self-describing, so continuation ignores any filters supplied alongside it.
func (r Request) EffectiveFilters() []Filter {
	if r.Token != nil && r.Token.LastResourceID != nil {
		return r.Token.Filters
	}
	return r.Filters
}

// EffectiveSorts returns the sort spec governing the next page, with the
// same token-wins rule as EffectiveFilters.
func (r Request) EffectiveSorts() []Sort {
	if r.Token != nil && r.Token.LastResourceID != nil {
		return r.Token.Sorts
	}
	return r.Sorts
}

// NextToken mints the continuation token for the page that ended at lastID,
// carrying the filters and sorts that produced it.
func (r Request) NextToken(lastID int64) PageToken {
	return PageToken{
		Filters:        r.EffectiveFilters(),
		Sorts:          r.EffectiveSorts(),
		LastResourceID: &lastID,
	}
}

// ParseQueryParams parses a pagination request from HTTP query parameters.
//
// Query parameters:
//   - limit: items per page (clamped to config.MaxLimit, defaulted when absent)
//   - filter: repeated "field:value" equality conditions
//   - sort: repeated "field:asc" / "field:desc" conditions ("field" alone means asc)
//   - page_token: opaque continuation token from the Next-Page header
//
// Returns an error on an unparsable limit, a malformed filter/sort
// parameter, or a token that fails to decode (*MalformedTokenError).
func ParseQueryParams(r *http.Request, config Config) (Request, error) {
	req := Request{Limit: config.DefaultLimit}
	q := r.URL.Query()

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return req, fmt.Errorf("invalid query parameter: limit must be a positive integer")
		}
		if limit > config.MaxLimit {
			limit = config.MaxLimit
		}
		req.Limit = limit
	}

	for _, raw := range q["filter"] {
		field, value, ok := strings.Cut(raw, ":")
		if !ok || field == "" {
			return req, fmt.Errorf("invalid query parameter: filter must be \"field:value\", got %q", raw)
		}
		req = req.WithFilter(field, value)
	}

	for _, raw := range q["sort"] {
		field, dir, err := parseSortParam(raw)
		if err != nil {
			return req, err
		}
		req = req.WithSort(field, dir)
	}

	if tokenStr := q.Get("page_token"); tokenStr != "" {
		token, err := DecodeToken(tokenStr)
		if err != nil {
			return req, err
		}
		req.Token = &token
	}

	return req, nil
}

func parseSortParam(raw string) (string, Direction, error) {
	field, dirStr, ok := strings.Cut(raw, ":")
	if field == "" {
		return "", "", fmt.Errorf("invalid query parameter: sort must be \"field[:asc|desc]\", got %q", raw)
	}
	if !ok || dirStr == "" {
		return field, ASC, nil
	}
	switch Direction(strings.ToLower(dirStr)) {
	case ASC:
		return field, ASC, nil
	case DESC:
		return field, DESC, nil
	default:
		return "", "", fmt.Errorf("invalid query parameter: sort direction must be asc or desc, got %q", dirStr)
	}
}
