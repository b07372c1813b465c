// Package slogobs provides an observability.Provider backed by log/slog.
// Spans, metrics and log records all become structured log lines, written in
// a compact, pretty or JSON format by [Handler]. Counters and histograms also
// keep running totals in memory so a command can print a summary when it
// exits; see [Observer.Snapshot].
//
// The main entry point is [New]; output is tuned with [WithFormat],
// [WithLevel], [WithOutput], [WithColors] and [WithLogger]. Without options
// the format and level come from SALVAGE_LOG_FORMAT and SALVAGE_LOG_LEVEL.
package slogobs
