// Package testdoubles provides test doubles (spies) for the snapshotarray observability interfaces.
//
// This package contains spy implementations for the dependency-free observability
// interfaces used by snapshotarray.Array and the sources:
//   - MetricsCollectorSpy: captures metrics recording calls for verification
//   - TracingCollectorSpy: captures tracing spans with their start and end attributes
//   - ContextualLoggerSpy: captures structured logging with context
//   - LogHandlerSpy: captures slog records, usable with slog.New as a Logger
//
// All spies are safe for concurrent use.
package testdoubles
