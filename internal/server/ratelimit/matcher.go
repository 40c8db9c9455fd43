package ratelimit

import (
	"strings"
)

// unlimitedPaths are never rate limited.
var unlimitedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Match returns the rule for a request, or nil when the default limit applies.
// A rule with Limit 0 means unlimited. Exact paths win over prefixes.
func Match(path string, method string, rules []Rule) *Rule {
	if method == "GET" && unlimitedPaths[path] {
		return &Rule{Path: path, Method: method}
	}

	for i := range rules {
		if rules[i].Method == method && rules[i].Path == path {
			return &rules[i]
		}
	}

	for i := range rules {
		r := &rules[i]
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}

	return nil
}
