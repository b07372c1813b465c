package slogobs

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/examlens/salvage/providers/observability"
)

// Observer implements observability.Provider on top of a slog.Logger.
type Observer struct {
	logger  *slog.Logger
	metrics *registry
}

var _ observability.Provider = (*Observer)(nil)

// New creates an Observer. Without options it writes compact lines to
// stderr at the level named by SALVAGE_LOG_LEVEL.
//
// Example:
//
//	observer := slogobs.New(
//	    slogobs.WithFormat(slogobs.FormatJSON),
//	    slogobs.WithLevel(slog.LevelDebug),
//	)
func New(opts ...Option) *Observer {
	cfg := applyOptions(opts...)

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(NewHandler(&HandlerOptions{
			Format: cfg.format,
			Level:  cfg.level,
			Output: cfg.output,
			Colors: cfg.colors,
		}))
	}
	return &Observer{
		logger:  logger,
		metrics: newRegistry(),
	}
}

// Logger returns the underlying slog.Logger.
func (o *Observer) Logger() *slog.Logger {
	return o.logger
}

// --- TRACING ---

// StartSpan logs the span start at debug level and returns a span whose End
// logs the elapsed time together with every attribute collected meanwhile.
// The returned context carries the span.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &span{
		name:   name,
		start:  time.Now(),
		logger: o.logger,
		attrs:  append([]observability.Attribute(nil), attrs...),
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, "Span started", withAttrs([]slog.Attr{
		slog.String("span", name),
	}, attrs)...)
	return observability.ContextWithSpan(ctx, span), span
}

type span struct {
	name   string
	start  time.Time
	logger *slog.Logger

	mu    sync.Mutex
	attrs []observability.Attribute
}

func (s *span) End() {
	s.mu.Lock()
	attrs := append([]observability.Attribute(nil), s.attrs...)
	s.mu.Unlock()

	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Span ended", withAttrs([]slog.Attr{
		slog.String("span", s.name),
		slog.Duration(observability.AttrDuration, time.Since(s.start)),
	}, attrs)...)
}

func (s *span) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *span) SetStatus(code observability.StatusCode, description string) {
	status := "unset"
	switch code {
	case observability.StatusOK:
		status = "ok"
	case observability.StatusError:
		status = "error"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, observability.String(observability.AttrStatus, status))
	if description != "" {
		s.attrs = append(s.attrs, observability.String(observability.AttrStatusDescription, description))
	}
}

func (s *span) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.attrs = append(s.attrs, observability.Error(err))
	s.mu.Unlock()

	s.logger.LogAttrs(context.Background(), slog.LevelError, "Span error",
		slog.String("span", s.name),
		slog.String(observability.AttrError, err.Error()),
	)
}

func (s *span) AddEvent(name string, attrs ...observability.Attribute) {
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, name, withAttrs([]slog.Attr{
		slog.String("span", s.name),
	}, attrs)...)
}

// --- METRICS ---

// Counter returns the counter registered under name, creating it on first use.
func (o *Observer) Counter(name string) observability.Counter {
	return o.metrics.counter(name, o.logger)
}

// Histogram returns the histogram registered under name, creating it on first use.
func (o *Observer) Histogram(name string) observability.Histogram {
	return o.metrics.histogram(name, o.logger)
}

// MetricValue is the running total of one metric.
type MetricValue struct {
	Name  string
	Kind  string  // "counter" or "histogram"
	Count int64   // counter total, or number of histogram observations
	Sum   float64 // counter total, or sum of histogram observations
}

// Snapshot returns the running totals of every metric, sorted by name.
func (o *Observer) Snapshot() []MetricValue {
	return o.metrics.snapshot()
}

type registry struct {
	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

func newRegistry() *registry {
	return &registry{
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
}

func (r *registry) counter(name string, logger *slog.Logger) *counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.counters[name]
	if !ok {
		c = &counter{name: name, logger: logger}
		r.counters[name] = c
	}
	return c
}

func (r *registry) histogram(name string, logger *slog.Logger) *histogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histograms[name]
	if !ok {
		h = &histogram{name: name, logger: logger}
		r.histograms[name] = h
	}
	return h
}

func (r *registry) snapshot() []MetricValue {
	r.mu.Lock()
	values := make([]MetricValue, 0, len(r.counters)+len(r.histograms))
	for _, c := range r.counters {
		c.mu.Lock()
		values = append(values, MetricValue{Name: c.name, Kind: "counter", Count: c.value, Sum: float64(c.value)})
		c.mu.Unlock()
	}
	for _, h := range r.histograms {
		h.mu.Lock()
		values = append(values, MetricValue{Name: h.name, Kind: "histogram", Count: h.count, Sum: h.sum})
		h.mu.Unlock()
	}
	r.mu.Unlock()

	sort.Slice(values, func(i, j int) bool { return values[i].Name < values[j].Name })
	return values
}

type counter struct {
	name   string
	logger *slog.Logger
	mu     sync.Mutex
	value  int64
}

// Add increments the counter and logs the new total at trace level.
func (c *counter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.value += value
	total := c.value
	c.mu.Unlock()

	c.logger.LogAttrs(ctx, LevelTrace, "Counter", withAttrs([]slog.Attr{
		slog.String("metric", c.name),
		slog.Int64("value", total),
		slog.Int64("delta", value),
	}, attrs)...)
}

type histogram struct {
	name   string
	logger *slog.Logger
	mu     sync.Mutex
	count  int64
	sum    float64
}

// Record adds an observation and logs it at trace level.
func (h *histogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.mu.Lock()
	h.count++
	h.sum += value
	h.mu.Unlock()

	h.logger.LogAttrs(ctx, LevelTrace, "Histogram", withAttrs([]slog.Attr{
		slog.String("metric", h.name),
		slog.Float64("value", value),
	}, attrs)...)
}

// --- LOGGING ---

// Trace logs below debug level; enable it with SALVAGE_LOG_LEVEL=trace.
func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, LevelTrace, msg, attrs...)
}

// Debug logs a message at DEBUG level.
func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelDebug, msg, attrs...)
}

// Info logs a message at INFO level.
func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelInfo, msg, attrs...)
}

// Warn logs a message at WARN level.
func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelWarn, msg, attrs...)
}

// Error logs a message at ERROR level.
func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelError, msg, attrs...)
}

func (o *Observer) log(ctx context.Context, level slog.Level, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, level, msg, withAttrs(nil, attrs)...)
}

// withAttrs appends attrs to base as slog attributes.
func withAttrs(base []slog.Attr, attrs []observability.Attribute) []slog.Attr {
	for _, a := range attrs {
		base = append(base, slog.Any(a.Key, a.Value))
	}
	return base
}
