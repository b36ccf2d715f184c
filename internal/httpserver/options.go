package httpserver

import (
	"net/http"

	"github.com/keithlinneman/assetserve/internal/assethandler"
	"github.com/keithlinneman/assetserve/internal/health"
	"github.com/keithlinneman/assetserve/internal/httpmw"
	"github.com/keithlinneman/assetserve/internal/log"
	"github.com/keithlinneman/assetserve/internal/version"
)

type Options struct {
	Logger log.Logger
	Port   int

	// Assets serves the embedded files. It is mounted as the router's
	// terminal handler so registered routes always win over asset keys.
	Assets *assethandler.Handler

	UseRecoverMW bool
	// OnPanic is called once per recovered panic, e.g. to increment a
	// prometheus counter.
	OnPanic func()

	MetricsMW   func(http.Handler) http.Handler
	RateLimitMW func(http.Handler) http.Handler

	ClientIPOpts httpmw.ClientIPOptions

	Health    health.Probe
	Readiness health.Probe

	// VersionInfo feeds the X-Assets-Version and X-Assets-Commit headers.
	VersionInfo version.Info
}
