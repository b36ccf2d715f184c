package pathutil

import (
	"path"
	"strings"
)

// Normalize lexically collapses "." and ".." segments in a relative path
// and reports whether the result stays at or below the root it is relative
// to. No filesystem access. Returns "" with ok=true for the root itself.
func Normalize(p string) (clean string, ok bool) {
	p = strings.TrimLeft(p, "/")
	c := path.Clean(p)
	if c == "." || c == "" {
		return "", true
	}
	if c == ".." || strings.HasPrefix(c, "../") {
		return "", false
	}
	return c, true
}
