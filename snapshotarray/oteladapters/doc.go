// Package oteladapters provides OpenTelemetry implementations of the snapshotarray observability interfaces.
//
// They cover logging (through the otelslog bridge or the OpenTelemetry log API), metrics and tracing,
// so an Array and its sources can be instrumented without writing adapters by hand:
//
//	array, err := snapshotarray.NewArrayOf[Task](source,
//		snapshotarray.WithContextualLogger(oteladapters.NewSlogBridgeLogger("taskboard")),
//		snapshotarray.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("taskboard"))),
//		snapshotarray.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("taskboard"))),
//	)
package oteladapters
