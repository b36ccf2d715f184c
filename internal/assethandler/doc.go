// Package assethandler serves static assets from a read-only store baked
// into the binary, as one link in an HTTP handler chain.
//
// For each request the handler either writes a complete response or
// declines, in which case the caller passes control to the next handler.
// Resolution order for a validated key: Brotli variant (key+".br"),
// gzip variant (key+".gz"), the key itself, then an index.html fallback
// for directory-shaped paths. Content-Type always derives from the
// uncompressed key's extension.
//
// The handler never emits 404s: a miss is a decline, so the surrounding
// chain decides what "not found" looks like. The only terminal error it
// produces on its own is a 500 when the store confirms a key exists but
// then fails to deliver it.
package assethandler
