package assethandler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/keithlinneman/assetserve/internal/pathutil"
)

// variant is a precompressed copy of an asset stored under key+suffix and
// served with the matching Content-Encoding token.
type variant struct {
	token  string
	suffix string
}

// Preference order is fixed: Brotli before gzip. Quality weights in
// Accept-Encoding are not consulted, only token presence (a client sending
// "gzip;q=1.0, br;q=0.5" still gets the Brotli variant when both exist).
var variants = [...]variant{
	{token: "br", suffix: ".br"},
	{token: "gzip", suffix: ".gz"},
}

// resolveKey maps a raw (still percent-encoded) request path under mount to
// a store key.
//
// Returns:
// - key: relative store key, no leading slash ("" when root is true)
// - root: the path addresses the mount root itself
// - trailingSlash: the decoded path ends with "/" (directory-shaped)
// - ok: false when the path is malformed, unsafe, or escapes the mount
//
// Malformed percent-escapes are rejected, not passed through undecoded:
// store keys must not depend on client quoting.
func resolveKey(rawPath, mount string) (key string, root, trailingSlash, ok bool) {
	p, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", false, false, false
	}
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	// reject NUL and backslash outright, these are never valid store keys
	if strings.ContainsAny(p, "\x00\\") {
		return "", false, false, false
	}

	trailingSlash = strings.HasSuffix(p, "/")

	// mount always ends with "/" so the remainder is relative
	rel := strings.TrimPrefix(p, mount)

	key, ok = pathutil.Normalize(rel)
	if !ok {
		// normalization would escape above the mount root; indistinguishable
		// from a miss so nothing leaks about the key space
		return "", false, false, false
	}
	if key == "" {
		return "", true, trailingSlash, true
	}
	return key, false, trailingSlash, true
}

// acceptsEncoding reports whether any Accept-Encoding value lists the given
// content coding. Presence-only: q-values are ignored by design, including
// q=0. See the package docs for why this deviation is acceptable here.
func acceptsEncoding(h http.Header, token string) bool {
	for _, v := range h.Values("Accept-Encoding") {
		for _, part := range strings.Split(v, ",") {
			name, _, _ := strings.Cut(part, ";")
			if strings.EqualFold(strings.TrimSpace(name), token) {
				return true
			}
		}
	}
	return false
}
