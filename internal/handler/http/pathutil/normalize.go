package pathutil

import "strings"

// idActions lists, per collection, the sub-resources that may follow a
// numeric ID. A path like /posts/123/like normalizes to
// /posts/:id/like only when "like" is registered here; unknown
// sub-paths pass through untouched so typos stay visible in metrics.
var idActions = map[string]map[string]bool{
	"posts":    {"like": true, "view": true, "comments": true},
	"comments": {"replies": true},
	"topics":   {"follow": true},
}

// NormalizePath replaces numeric IDs in known routes with the :id
// placeholder so metric labels stay bounded: /posts/123 becomes
// /posts/:id, /topics/7/follow becomes /topics/:id/follow. Query
// strings and trailing slashes are stripped first. Static routes such
// as /health or /search/posts come back unchanged. It runs on every
// request inside the metrics middleware, so it avoids allocation on
// the static-path fast path.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if len(path) < 2 || path[0] != '/' {
		return path
	}

	collection, rest, found := strings.Cut(path[1:], "/")
	if !found {
		return path
	}
	actions, ok := idActions[collection]
	if !ok {
		return path
	}

	id, action, hasAction := strings.Cut(rest, "/")
	if !isDigits(id) {
		return path
	}
	if !hasAction {
		return "/" + collection + "/:id"
	}
	if actions[action] {
		return "/" + collection + "/:id/" + action
	}
	return path
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
