// Package pagination provides cursor-based pagination: an opaque,
// self-describing page token, the request/response contracts built around
// it, and the observability hooks shared by every paginated endpoint.
package pagination

import (
	"community-feed/pkg/config"
)

// Config bounds page sizes for every paginated endpoint.
type Config struct {
	DefaultLimit int // applied when the request names no limit
	MaxLimit     int // hard ceiling; larger requests are clamped
}

// DefaultConfig returns the stock page-size bounds (20 default, 100 max).
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_LIMIT and PAGINATION_MAX_LIMIT,
// keeping the stock bounds for anything unset or unparseable.
func LoadFromEnv() Config {
	return Config{
		DefaultLimit: config.GetEnvInt("PAGINATION_DEFAULT_LIMIT", 20),
		MaxLimit:     config.GetEnvInt("PAGINATION_MAX_LIMIT", 100),
	}
}
