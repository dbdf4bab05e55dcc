// Package urlpath represents a normalized request path in the system.
package urlpath

import (
	"strings"
)

// Normalize maps any raw request path to its canonical form. The function
// is total: every input produces a usable path, so lookups never operate
// on two spellings of the same location.
//
// Rules: surrounding whitespace trims, backslashes become slashes,
// repeated slashes collapse, `.`
// segments drop, `..` segments pop without escaping the root, the result
// is lowercased, a leading slash is guaranteed, and a trailing slash is
// removed except for the root itself.
func Normalize(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "\\", "/")
	value = strings.ToLower(value)

	var stack []string
	for _, seg := range strings.Split(value, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}

	if len(stack) == 0 {
		return "/"
	}

	return "/" + strings.Join(stack, "/")
}

// Reserved reports whether the normalized path is owned by the platform
// and therefore unavailable as a content path. The /admin tree and every
// path starting with /_ are reserved.
func Reserved(path string) bool {
	path = Normalize(path)

	if path == "/admin" || strings.HasPrefix(path, "/admin/") {
		return true
	}

	return strings.HasPrefix(path, "/_")
}
