package auth

import "strings"

// PublicEndpoints lists the paths served without a JWT. Health probes
// must stay reachable for the orchestrator, and /metrics for the
// Prometheus scraper. A security YAML can override this list at boot.
var PublicEndpoints = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
}

// IsPublicEndpoint reports whether path may be served unauthenticated.
// Entries ending in '/' match by prefix; all others match the exact
// path, the path with a trailing slash, or the path followed only by
// query parameters. /health therefore covers /health/ and /health?x=1
// but not /health/detail.
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}
		switch {
		case path == endpoint,
			path == endpoint+"/",
			strings.HasPrefix(path, endpoint+"?"):
			return true
		}
	}
	return false
}
