package assethandler

import (
	"net/http"
	"strings"
)

// Outcome is the result of handing a request to the Handler.
type Outcome int

const (
	// Declined means the handler produced no response and the caller should
	// pass the request to the next handler in the chain.
	Declined Outcome = iota
	// Served means a complete response (including error responses the
	// handler owns, like 405 and 500) was written.
	Served
)

type Handler struct {
	opts Options
}

// New validates opts and returns an immutable Handler. The returned Handler
// is safe for concurrent use; it holds no per-request state.
func New(opts Options) (*Handler, error) {
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.MountPath = normalizeMount(opts.MountPath)
	return &Handler{opts: opts}, nil
}

// Handle resolves the request against the asset store and either writes a
// complete response (Served) or leaves the ResponseWriter untouched
// (Declined).
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) Outcome {
	// mount scoping first: requests outside the mount never pay for
	// decoding or a store lookup
	raw := r.URL.EscapedPath()
	if h.opts.MountPath != "/" && !strings.HasPrefix(raw, h.opts.MountPath) {
		return h.decline("mount")
	}

	// only GET/HEAD are servable; gate before key resolution so unsupported
	// methods never touch the store
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		if !h.opts.DisableFallthrough {
			return h.decline("method")
		}
		w.Header().Set("Allow", "GET, HEAD")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return Served
	}

	key, root, trailingSlash, ok := resolveKey(raw, h.opts.MountPath)
	if !ok {
		return h.decline("path")
	}

	if !root {
		if out, done := h.tryKey(w, r, key); done {
			return out
		}
	}

	// index fallback only for the mount root and directory-shaped paths
	if !h.opts.DisableIndex && (root || trailingSlash) {
		index := "index.html"
		if !root {
			index = key + "/index.html"
		}
		if out, done := h.tryKey(w, r, index); done {
			return out
		}
	}

	return h.decline("miss")
}

// Middleware adapts the Handler into a conventional middleware: declined
// requests continue to next.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Handle(w, r) == Declined {
			next.ServeHTTP(w, r)
		}
	})
}

// tryKey attempts the compressed variants then the key itself, in strict
// preference order. done is false when nothing matched and resolution
// should continue (index fallback or decline).
func (h *Handler) tryKey(w http.ResponseWriter, r *http.Request, key string) (out Outcome, done bool) {
	for _, v := range variants {
		if !acceptsEncoding(r.Header, v.token) {
			continue
		}
		if h.opts.Store.Exists(key + v.suffix) {
			return h.serve(w, r, key, key+v.suffix, v.token), true
		}
	}
	if h.opts.Store.Exists(key) {
		return h.serve(w, r, key, key, ""), true
	}
	return Declined, false
}

func (h *Handler) decline(reason string) Outcome {
	if h.opts.OnDeclined != nil {
		h.opts.OnDeclined(reason)
	}
	return Declined
}
