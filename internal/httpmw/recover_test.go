package httpmw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/keithlinneman/assetserve/internal/log"
)

func TestRecoverWritesInternalServerError(t *testing.T) {
	panics := 0
	h := Recover(log.Nop(), func() { panics++ })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if panics != 1 {
		t.Fatalf("onPanic fired %d times, want 1", panics)
	}
}

func TestRecoverPreservesStartedResponse(t *testing.T) {
	h := Recover(log.Nop(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
		panic("after headers")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	// headers already went out, so the middleware must not stack a second
	// status on top
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want original %d", w.Code, http.StatusNoContent)
	}
}

func TestRecoverRethrowsAbortHandler(t *testing.T) {
	h := Recover(log.Nop(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("recovered %v, want http.ErrAbortHandler to propagate", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRecoverNoPanicPassthrough(t *testing.T) {
	h := Recover(log.Nop(), func() { t.Fatal("onPanic fired without a panic") })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTeapot)
	}
}
