// Package ratelimit provides per-IP request rate limiting with background
// eviction of idle entries.
//
// The limiter is in-memory and single-instance. It exists to keep one
// misbehaving client from exhausting connections or goroutines on an asset
// server whose responses are otherwise cheap, and to surface abuse through
// callbacks wired to logs and counters. It is not a defense against
// distributed attacks; put a CDN or WAF in front for that.
package ratelimit
