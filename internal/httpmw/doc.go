// Package httpmw provides HTTP middleware for the public-facing asset
// server.
//
// Middleware is composed in a specific order in httpserver.NewHandler:
// security headers, panic recovery, request ID, client IP extraction, rate
// limiting, OTEL tracing, version headers, metrics, structured logging, and
// the chi router with the asset handler as its terminal route.
//
// Each middleware is an independent function that can be tested, reordered,
// or removed individually. User-supplied data (query params, user-agent,
// headers) is intentionally excluded from logs to prevent PII leaks and
// log injection.
package httpmw
