package httpmw

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/keithlinneman/assetserve/internal/version"
)

// VersionHeaders adds X-Assets-Version and X-Assets-Commit to every
// response. Assets are baked into the binary, so the build identity IS the
// asset identity; this is what lets operators confirm which asset set an
// edge cache is holding.
func VersionHeaders(vi version.Info) func(http.Handler) http.Handler {
	commit := vi.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if vi.Version != "" {
				w.Header().Set("X-Assets-Version", vi.Version)
			}
			if commit != "" && commit != "none" {
				w.Header().Set("X-Assets-Commit", commit)
			}
			if span := trace.SpanFromContext(r.Context()); span != nil && span.IsRecording() {
				span.SetAttributes(attribute.String("assets.version", vi.Version))
			}
			next.ServeHTTP(w, r)
		})
	}
}
