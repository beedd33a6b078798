package pagination

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func int64Ptr(v int64) *int64 { return &v }

func TestPageToken_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		token PageToken
	}{
		{
			name:  "empty token",
			token: PageToken{},
		},
		{
			name:  "last id only",
			token: PageToken{LastResourceID: int64Ptr(42)},
		},
		{
			name: "filters and sorts preserved in order",
			token: PageToken{
				Filters: []Filter{
					{Field: "topic", Value: "3"},
					{Field: "author", Value: "7"},
				},
				Sorts: []Sort{
					{Field: "createdAt", Direction: DESC},
					{Field: "likeCount", Direction: ASC},
				},
				LastResourceID: int64Ptr(100),
			},
		},
		{
			name: "filter value containing separators",
			token: PageToken{
				Filters:        []Filter{{Field: "title", Value: "go:1.25 | rc=2"}},
				LastResourceID: int64Ptr(1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := tt.token.Encode()
			decoded, err := DecodeToken(encoded)
			if err != nil {
				t.Fatalf("DecodeToken err=%v", err)
			}
			if diff := cmp.Diff(tt.token, decoded); diff != "" {
				t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeToken_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not base64", input: "!!not-base64!!"},
		{name: "base64 of non-json", input: "bm90LWpzb24"},
		{name: "truncated token", input: PageToken{LastResourceID: int64Ptr(9)}.Encode()[:4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.input)
			var malformed *MalformedTokenError
			if !errors.As(err, &malformed) {
				t.Fatalf("want *MalformedTokenError, got %v", err)
			}
		})
	}
}

func TestDecodeToken_ForeignJSONIsLenient(t *testing.T) {
	// Unknown fields decode to the zero token rather than an error: the
	// payload shape is versioned by the struct itself.
	decoded, err := DecodeToken(PageToken{}.Encode())
	if err != nil {
		t.Fatalf("DecodeToken err=%v", err)
	}
	if decoded.LastResourceID != nil {
		t.Fatalf("want start-of-results token, got last=%d", *decoded.LastResourceID)
	}
}
