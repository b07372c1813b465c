package slogobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler is a slog.Handler that writes compact, pretty or JSON lines.
// Attribute keys are written in sorted order so output is stable.
type Handler struct {
	format Format
	level  slog.Level
	colors bool
	attrs  []slog.Attr
	prefix string

	// mu guards out and is shared by handlers derived with WithAttrs/WithGroup.
	mu  *sync.Mutex
	out io.Writer
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Format specifies the output format (compact, pretty, json).
	Format Format
	// Level is the minimum log level to output.
	Level slog.Level
	// Output is where logs are written (defaults to os.Stderr).
	Output io.Writer
	// Colors enables ANSI color codes (only for compact/pretty formats).
	Colors bool
}

// NewHandler creates a new Handler with the given options.
func NewHandler(opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	format := opts.Format
	if format == "" {
		format = FormatCompact
	}
	return &Handler{
		format: format,
		level:  opts.Level,
		colors: opts.Colors && format != FormatJSON,
		mu:     &sync.Mutex{},
		out:    out,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes a log record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	attrs := h.collectAttrs(r)

	var line []byte
	var err error
	switch h.format {
	case FormatPretty:
		line = h.pretty(r, attrs)
	case FormatJSON:
		line, err = h.jsonLine(r, attrs)
	default:
		line = h.compact(r, attrs)
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.out.Write(line)
	return err
}

// WithAttrs returns a new Handler with additional attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup returns a new Handler that prefixes later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// compact: "2006-01-02 15:04:05 LEVEL message -> {"k":"v"}"
func (h *Handler) compact(r slog.Record, attrs map[string]any) []byte {
	buf := make([]byte, 0, 256)
	buf = append(buf, r.Time.Format("2006-01-02 15:04:05")...)
	buf = append(buf, ' ')
	buf = h.appendLevel(buf, r.Level, "%5s")
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	if len(attrs) > 0 {
		buf = append(buf, " -> "...)
		encoded, err := jsonAPI.Marshal(attrs)
		if err != nil {
			buf = append(buf, "[unencodable attributes]"...)
		} else {
			buf = append(buf, encoded...)
		}
	}
	return append(buf, '\n')
}

// pretty writes the header line followed by one indented line per attribute.
func (h *Handler) pretty(r slog.Record, attrs map[string]any) []byte {
	buf := make([]byte, 0, 256)
	buf = append(buf, r.Time.Format("2006-01-02 15:04:05")...)
	buf = append(buf, ' ')
	buf = h.appendLevel(buf, r.Level, "%-6s")
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, '\n')

	keys := sortedKeys(attrs)
	for i, key := range keys {
		if i == len(keys)-1 {
			buf = append(buf, "                    `- "...)
		} else {
			buf = append(buf, "                    |- "...)
		}
		buf = append(buf, key...)
		buf = append(buf, ": "...)
		buf = append(buf, fmt.Sprintf("%v", attrs[key])...)
		buf = append(buf, '\n')
	}
	return buf
}

func (h *Handler) jsonLine(r slog.Record, attrs map[string]any) ([]byte, error) {
	data := make(map[string]any, len(attrs)+3)
	for key, value := range attrs {
		data[key] = value
	}
	data["time"] = r.Time.Format("2006-01-02T15:04:05Z07:00")
	data["level"] = levelString(r.Level)
	data["msg"] = r.Message

	encoded, err := jsonAPI.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode log record: %w", err)
	}
	return append(encoded, '\n'), nil
}

func (h *Handler) appendLevel(buf []byte, level slog.Level, layout string) []byte {
	text := fmt.Sprintf(layout, levelString(level))
	if !h.colors {
		return append(buf, text...)
	}
	buf = append(buf, colorForLevel(level)...)
	buf = append(buf, text...)
	return append(buf, colorReset...)
}

// collectAttrs merges the handler's attributes with the record's.
func (h *Handler) collectAttrs(r slog.Record) map[string]any {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.prefix+a.Key] = a.Value.Resolve().Any()
		return true
	})
	return attrs
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

const colorReset = "\033[0m"

func colorForLevel(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "\033[90m"
	case level < slog.LevelInfo:
		return "\033[34m"
	case level < slog.LevelWarn:
		return "\033[32m"
	case level < slog.LevelError:
		return "\033[33m"
	default:
		return "\033[31m"
	}
}
