package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the id segment of a URL path is not a
// positive integer.
var ErrInvalidID = errors.New("invalid id")

// ExtractID strips prefix from path and parses the remainder as an id,
// e.g. ExtractID("/posts/123", "/posts/") yields 123.
func ExtractID(path, prefix string) (int64, error) {
	return ParseID(strings.TrimPrefix(path, prefix))
}

// ParseID parses an ID segment captured by a route pattern's {id} wildcard.
// Returns ErrInvalidID if the segment is not a positive integer.
func ParseID(idStr string) (int64, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
