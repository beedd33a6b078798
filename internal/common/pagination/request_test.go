package pagination

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseQueryParams(t *testing.T) {
	cfg := Config{DefaultLimit: 20, MaxLimit: 100}

	tests := []struct {
		name    string
		query   url.Values
		want    Request
		wantErr bool
	}{
		{
			name:  "defaults when no parameters",
			query: url.Values{},
			want:  Request{Limit: 20},
		},
		{
			name:  "limit clamped to max",
			query: url.Values{"limit": {"500"}},
			want:  Request{Limit: 100},
		},
		{
			name:    "non-numeric limit rejected",
			query:   url.Values{"limit": {"abc"}},
			wantErr: true,
		},
		{
			name:    "zero limit rejected",
			query:   url.Values{"limit": {"0"}},
			wantErr: true,
		},
		{
			name:  "repeated filters preserve order",
			query: url.Values{"filter": {"topic:3", "author:7"}},
			want: Request{
				Limit: 20,
				Filters: []Filter{
					{Field: "topic", Value: "3"},
					{Field: "author", Value: "7"},
				},
			},
		},
		{
			name:  "sort with and without direction",
			query: url.Values{"sort": {"createdAt:desc", "likeCount"}},
			want: Request{
				Limit: 20,
				Sorts: []Sort{
					{Field: "createdAt", Direction: DESC},
					{Field: "likeCount", Direction: ASC},
				},
			},
		},
		{
			name:    "bad sort direction rejected",
			query:   url.Values{"sort": {"createdAt:sideways"}},
			wantErr: true,
		},
		{
			name:    "filter without value rejected",
			query:   url.Values{"filter": {"topiconly"}},
			wantErr: true,
		},
		{
			name:    "malformed page token rejected",
			query:   url.Values{"page_token": {"%%%"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/posts?"+tt.query.Encode(), nil)
			got, err := ParseQueryParams(r, cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQueryParams err=%v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseQueryParams_TokenRoundTrip(t *testing.T) {
	token := PageToken{
		Filters:        []Filter{{Field: "topic", Value: "3"}},
		Sorts:          []Sort{{Field: "createdAt", Direction: DESC}},
		LastResourceID: int64Ptr(12),
	}
	r := httptest.NewRequest("GET", "/posts?page_token="+url.QueryEscape(token.Encode()), nil)

	got, err := ParseQueryParams(r, DefaultConfig())
	if err != nil {
		t.Fatalf("ParseQueryParams err=%v", err)
	}
	if got.Token == nil {
		t.Fatal("want token, got nil")
	}
	if diff := cmp.Diff(token, *got.Token); diff != "" {
		t.Fatalf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestRequest_BuilderPreservesOrder(t *testing.T) {
	req := Request{Limit: 10}.
		WithFilter("topic", "3").
		WithSort("createdAt", DESC).
		WithFilter("author", "7").
		WithSort("likeCount", ASC)

	wantFilters := []Filter{{Field: "topic", Value: "3"}, {Field: "author", Value: "7"}}
	wantSorts := []Sort{{Field: "createdAt", Direction: DESC}, {Field: "likeCount", Direction: ASC}}

	if diff := cmp.Diff(wantFilters, req.Filters); diff != "" {
		t.Fatalf("filters (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantSorts, req.Sorts); diff != "" {
		t.Fatalf("sorts (-want +got):\n%s", diff)
	}
}

func TestRequest_WithFilterDoesNotMutateReceiver(t *testing.T) {
	base := Request{Limit: 10}.WithFilter("topic", "3")
	_ = base.WithFilter("author", "7")
	_ = base.WithFilter("author", "8")

	if len(base.Filters) != 1 {
		t.Fatalf("receiver mutated: %v", base.Filters)
	}
}

func TestRequest_EffectiveFiltersPreferToken(t *testing.T) {
	token := PageToken{
		Filters:        []Filter{{Field: "topic", Value: "3"}},
		Sorts:          []Sort{{Field: "createdAt", Direction: DESC}},
		LastResourceID: int64Ptr(5),
	}
	req := Request{Limit: 10, Token: &token}.WithFilter("author", "ignored")

	if diff := cmp.Diff(token.Filters, req.EffectiveFilters()); diff != "" {
		t.Fatalf("effective filters (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(token.Sorts, req.EffectiveSorts()); diff != "" {
		t.Fatalf("effective sorts (-want +got):\n%s", diff)
	}

	next := req.NextToken(9)
	if next.LastResourceID == nil || *next.LastResourceID != 9 {
		t.Fatalf("next token last id=%v", next.LastResourceID)
	}
	if diff := cmp.Diff(token.Filters, next.Filters); diff != "" {
		t.Fatalf("next token filters (-want +got):\n%s", diff)
	}
}
