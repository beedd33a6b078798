package pagination

import "net/http"

// NextPageHeader is the response header carrying the continuation token.
// The token rides only in the header; clients page without parsing the
// body for cursor state.
const NextPageHeader = "Next-Page"

// Response is a generic page of results.
// NextPageToken is non-empty iff the returned page was full-size, meaning
// more results may exist; an empty token signals end-of-results.
type Response[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"-"`
}

// NewResponse creates a page from items and an optional continuation token.
func NewResponse[T any](items []T, nextPageToken string) Response[T] {
	return Response[T]{Items: items, NextPageToken: nextPageToken}
}

// MapResponse converts a page's item type while preserving the token.
func MapResponse[T, U any](page Response[T], fn func(T) U) Response[U] {
	items := make([]U, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, fn(item))
	}
	return Response[U]{Items: items, NextPageToken: page.NextPageToken}
}

// SetNextPageHeader surfaces the page's continuation token as the
// Next-Page response header. No header is written at end-of-results.
func SetNextPageHeader[T any](w http.ResponseWriter, page Response[T]) {
	if page.NextPageToken != "" {
		w.Header().Set(NextPageHeader, page.NextPageToken)
	}
}
