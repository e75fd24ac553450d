// Package observe provides observability primitives for the runtime's guarded
// operations.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wrap pool submissions, breaker calls, and
// other guarded operations with the middleware, or record directly through
// Metrics.
package observe
