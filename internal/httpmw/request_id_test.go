package httpmw

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDGenerated(t *testing.T) {
	var ctxID string
	h := RequestID("X-Request-Id")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if ctxID == "" {
		t.Fatal("no request ID in context")
	}
	if len(ctxID) != 32 {
		t.Errorf("generated ID length = %d, want 32 hex chars", len(ctxID))
	}
	if got := w.Header().Get("X-Request-Id"); got != ctxID {
		t.Errorf("response header = %q, context = %q", got, ctxID)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var ctxID string
	h := RequestID("X-Request-Id")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-Id", "upstream-id")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if ctxID != "upstream-id" {
		t.Fatalf("context ID = %q, want propagated %q", ctxID, "upstream-id")
	}
	if got := w.Header().Get("X-Request-Id"); got != "upstream-id" {
		t.Errorf("response header = %q, want %q", got, "upstream-id")
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := RequestIDFromContext(r.Context()); got != "" {
		t.Fatalf("RequestIDFromContext on bare context = %q, want empty", got)
	}
}
