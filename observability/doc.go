// Package observability provides an OpenTelemetry metrics extension for
// hookchain. The MetricsExtension implements the chain lifecycle hooks
// and records system-wide counters for registrations, stage bindings,
// abandoned attempts, completions, removals, and composite expansions.
//
// For per-callback duration metrics and tracing, see the middleware
// package: middleware.Metrics() and middleware.Tracing().
package observability
