package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Direction is the sort direction of a single sort field.
type Direction string

const (
	ASC  Direction = "asc"
	DESC Direction = "desc"
)

// Filter is a single equality condition on a public field alias.
// Values are carried as strings and coerced by the query builder
// according to the field's declared kind.
type Filter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Sort is a single sort condition on a public field alias.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// PageToken is the self-describing continuation state of a paginated query.
// Decoding a token alone reproduces the exact query that produces the next
// page: the filters and sorts that shaped the previous page plus the id of
// the last item emitted. A nil LastResourceID means "start from the top".
//
// Tokens are serialized to an opaque URL-safe string. The server holds no
// cursor state; clients echo the token back to continue.
type PageToken struct {
	Filters        []Filter `json:"filters,omitempty"`
	Sorts          []Sort   `json:"sorts,omitempty"`
	LastResourceID *int64   `json:"last,omitempty"`
}

// MalformedTokenError reports a page token that failed to decode.
// Callers must restart pagination from the first page.
type MalformedTokenError struct {
	Cause error
}

// Error returns a formatted error message for the malformed token.
func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed page token: %v", e.Cause)
}

// Unwrap exposes the underlying decode failure.
func (e *MalformedTokenError) Unwrap() error { return e.Cause }

// Encode serializes the token to an opaque URL-safe string.
// Encodings of the same logical token are not guaranteed byte-stable;
// only DecodeToken(t.Encode()) == t is guaranteed.
func (t PageToken) Encode() string {
	data, err := json.Marshal(t)
	if err != nil {
		// PageToken contains only marshalable value types.
		panic(fmt.Sprintf("pagination: marshal token: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeToken parses an opaque token string produced by Encode.
// Corrupt or foreign input fails with *MalformedTokenError. Tokens carry
// no forward format compatibility guarantee across versions.
func DecodeToken(s string) (PageToken, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return PageToken{}, &MalformedTokenError{Cause: err}
	}
	var t PageToken
	if err := json.Unmarshal(data, &t); err != nil {
		return PageToken{}, &MalformedTokenError{Cause: err}
	}
	return t, nil
}
