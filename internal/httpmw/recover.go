package httpmw

import (
	"net/http"

	"github.com/keithlinneman/assetserve/internal/log"
	"github.com/keithlinneman/assetserve/internal/xerrors"
)

// Recover converts handler panics into a 500 response and a logged error.
// onPanic, if set, is called once per recovered panic (metrics hook).
func Recover(l log.Logger, onPanic func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// http.ErrAbortHandler is the sanctioned way to abort a
				// response; let the server handle it
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				if onPanic != nil {
					onPanic()
				}
				err, ok := rec.(error)
				if !ok {
					err = xerrors.Newf("panic: %v", rec)
				}
				if l != nil {
					l.Error(r.Context(), xerrors.EnsureTrace(err), "panic recovered in http handler",
						"http.request.method", r.Method,
						"url.path", r.URL.Path,
					)
				}
				// only write a status if the handler had not started a response
				if rw.status == 0 {
					http.Error(rw, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
