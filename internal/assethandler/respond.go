package assethandler

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
)

// serve writes the resolved asset. baseKey carries the original extension
// for Content-Type derivation; storeKey is what actually gets opened
// (baseKey or a compressed variant). encoding is "" for identity.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, baseKey, storeKey, encoding string) Outcome {
	rc, size, err := h.opts.Store.Open(storeKey)
	if err != nil {
		// existence was already confirmed, so a failing open is an internal
		// defect, not a miss. Declining now would hand a known-present asset
		// to the next handler as "not found", so this path is terminal.
		h.opts.Logger.Error(r.Context(), err, "asset open failed after existence check", "key", storeKey)
		if h.opts.OnError != nil {
			h.opts.OnError()
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "internal server error\n")
		return Served
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType(baseKey))
	if !h.opts.DisableCacheControl {
		w.Header().Set("Cache-Control", h.opts.CacheControl)
	}
	if encoding != "" {
		w.Header().Set("Content-Encoding", encoding)
	}
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)

	if h.opts.OnServed != nil {
		label := encoding
		if label == "" {
			label = "identity"
		}
		h.opts.OnServed(label)
	}

	if r.Method == http.MethodHead {
		return Served
	}

	if _, err := io.Copy(w, rc); err != nil {
		// status and headers are already on the wire; nothing to send
		h.opts.Logger.Error(r.Context(), err, "asset copy failed", "key", storeKey)
		if h.opts.OnError != nil {
			h.opts.OnError()
		}
	}
	return Served
}

// contentType derives the MIME type from the uncompressed key's extension.
// A compressed variant reports its base asset's type, never the .br/.gz.
func contentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
