// Package observability configures OpenTelemetry tracing for the Roster API.
//
// InitTracing installs a global TracerProvider exporting to stdout or to an
// OTLP/HTTP collector and returns its Shutdown. The HTTP middleware in
// internal/middleware starts one server span per request from the global
// provider, so handlers and services need no tracing code of their own.
package observability
