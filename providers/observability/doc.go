// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging throughout salvage.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics]
// and [Logger] into a single injectable dependency. Library code never
// requires one: [OrNop] turns a nil Provider into [Nop], which discards
// everything. A Provider and the active [Span] can travel through a
// [context.Context] with [ContextWithObserver] and [ContextWithSpan].
//
// semconv.go holds the attribute keys, span names and metric names emitted
// by the recovery pipeline.
package observability
