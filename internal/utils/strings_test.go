package utils

import (
	"strings"
	"testing"
)

func TestJSONToString(t *testing.T) {
	compact := JSONToString(map[string]int{"a": 1})
	if compact != `{"a":1}` {
		t.Errorf("JSONToString() = %q, want %q", compact, `{"a":1}`)
	}

	indented := JSONToString(map[string]int{"x": 42}, true)
	if !strings.Contains(indented, "\n  \"x\": 42") {
		t.Errorf("JSONToString(indent) = %q, want two-space indentation", indented)
	}

	failed := JSONToString(make(chan int))
	if !strings.HasPrefix(failed, `{"error":`) {
		t.Errorf("JSONToString(chan) = %q, want error object", failed)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"truncated", "hello world", 5, "hello... (truncated, total: 11 chars)"},
		{"multi-byte", "ééééé", 2, "éé... (truncated, total: 5 chars)"},
		{"default length", strings.Repeat("a", DefaultMaxStringLength), 0, strings.Repeat("a", DefaultMaxStringLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"collapses whitespace", "Here is\n\n  the   JSON:", 50, "Here is the JSON:"},
		{"cut", "abcdefgh", 3, "abc..."},
		{"empty", "  \n ", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
