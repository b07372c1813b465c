package slogobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/examlens/salvage/providers/observability"
)

func newTestObserver(buf *bytes.Buffer, level slog.Level) *Observer {
	return New(WithOutput(buf), WithLevel(level), WithFormat(FormatCompact))
}

func TestObserver_Logging(t *testing.T) {
	var buf bytes.Buffer
	o := newTestObserver(&buf, slog.LevelDebug)
	ctx := context.Background()

	o.Trace(ctx, "hidden trace")
	o.Debug(ctx, "debug line", observability.String(observability.AttrTier, "fence"))
	o.Info(ctx, "info line")
	o.Warn(ctx, "warn line")
	o.Error(ctx, "error line")

	out := buf.String()
	if strings.Contains(out, "hidden trace") {
		t.Errorf("trace should be filtered at debug level, got: %s", out)
	}
	for _, want := range []string{"debug line", `"salvage.tier":"fence"`, "info line", "WARN", "ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestObserver_Span(t *testing.T) {
	var buf bytes.Buffer
	o := newTestObserver(&buf, slog.LevelDebug)

	ctx, span := o.StartSpan(context.Background(), observability.SpanExtract, observability.String(observability.AttrSchema, "questions"))
	if observability.SpanFromContext(ctx) != span {
		t.Error("StartSpan() should attach the span to the returned context")
	}
	span.AddEvent(observability.EventTierAttempt, observability.String(observability.AttrTier, "fence"))
	span.SetAttributes(observability.Int(observability.AttrRecords, 3))
	span.SetStatus(observability.StatusOK, "done")
	span.RecordError(errors.New("boom"))
	span.RecordError(nil)
	span.End()

	out := buf.String()
	for _, want := range []string{"Span started", observability.EventTierAttempt, "Span error", "boom", "Span ended", `"salvage.records":3`, `"status":"ok"`, `"status_description":"done"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestObserver_Metrics(t *testing.T) {
	var buf bytes.Buffer
	o := newTestObserver(&buf, slog.LevelInfo)
	ctx := context.Background()

	o.Counter("b.count").Add(ctx, 2)
	o.Counter("b.count").Add(ctx, 3)
	o.Histogram("a.duration").Record(ctx, 0.5)
	o.Histogram("a.duration").Record(ctx, 1.5)

	snap := o.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot() = %v, want 2 metrics", snap)
	}
	if snap[0].Name != "a.duration" || snap[0].Kind != "histogram" || snap[0].Count != 2 || snap[0].Sum != 2.0 {
		t.Errorf("histogram snapshot = %+v", snap[0])
	}
	if snap[1].Name != "b.count" || snap[1].Kind != "counter" || snap[1].Count != 5 {
		t.Errorf("counter snapshot = %+v", snap[1])
	}
	if buf.Len() != 0 {
		t.Errorf("metrics should log at trace level only, got: %s", buf.String())
	}
}

func TestNew_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	o := New(WithLogger(logger))
	if o.Logger() != logger {
		t.Fatal("WithLogger() should use the given logger")
	}
	o.Info(context.Background(), "through text handler")
	if !strings.Contains(buf.String(), "msg=\"through text handler\"") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
