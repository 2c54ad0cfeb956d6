// Package middleware provides HTTP middleware for the Roster API.
//
// # Available Middleware
//
//   - RequestID, Logger, Recovery, CORS, Compress: request plumbing
//   - Tracing: one OpenTelemetry server span per request
//   - RateLimit: per-account (or per-address) limiting backed by an
//     in-memory token bucket or by Redis when instances share a budget
//   - Idempotency: replays POST/PATCH responses sent with Idempotency-Key
//   - Auth / OptionalAuth: bearer token validation and requester resolution
//   - RequireWriter / RequireAdmin: role gates evaluated on the requester
//
// # Authentication
//
// Auth rejects requests without a valid token. OptionalAuth lets them
// through as anonymous, which is how public listings are served:
//
//	mux.Handle("GET /v1/contracts", middleware.Chain(h, middleware.OptionalAuth(authSvc)))
//
// After authentication, handlers read the resolved requester:
//
//	requester := middleware.GetRequester(r.Context())
//
// Auth also reports the resolved requester to Logger, so access log lines
// carry the caller's tier and account id.
//
// # Context Values
//
//   - GetRequestID(ctx): unique request identifier
//   - GetAccountID(ctx): authenticated account id, "" when anonymous
//   - GetClaims(ctx): validated token claims
//   - GetRequester(ctx): resolved requester, AnonymousRequester by default
package middleware
