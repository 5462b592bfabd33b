// Package server exposes the dashboard's HTTP surface: the OAuth
// authorization endpoints, the inbox endpoints, health probes, and a
// dedicated metrics listener.
//
// Endpoints on the main listener:
//   - GET /                  service status
//   - GET /authorize         redirect to the Google consent screen
//   - GET /oauth2callback    OAuth redirect target, persists the token
//   - GET /emails            flat message list
//   - GET /inbox/by-client   messages grouped by bucket
//   - GET /inbox/summary     per-bucket counts
//   - GET /healthz           liveness probe
//   - GET /readyz            readiness probe
//
// Errors are returned as JSON objects with an "error" field. A missing
// token maps to 401, upstream Google failures map to 502.
package server
