// Package jobs implements background tasks for the Roster API.
//
// Jobs run independently of HTTP request handling on their own ticker and
// log through slog. Each exposes Start, Stop and RunOnce; RunOnce is the
// manual trigger used by tests.
//
// # Jobs
//
//   - ExpiryDigest: logs contracts ending within the next three months
//
// Failures are logged and the loop carries on with the next tick.
package jobs
