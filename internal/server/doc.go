// Package server exposes recommendations, title search and movie metadata
// over HTTP.
//
// Routes are served by a chi router. Every request gets a correlation id
// (X-Request-ID), a structured access log line and Prometheus request
// metrics. The /api group is rate limited per client IP and optionally
// protected by a bearer token.
package server
