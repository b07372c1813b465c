package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

const (
	// DefaultMaxStringLength is the default maximum length for truncated strings
	DefaultMaxStringLength = 500

	// DefaultPreviewLength is the length of model-text previews in log attributes
	DefaultPreviewLength = 120
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONToString renders object as JSON, indented with two spaces when indent
// is true. A marshalling failure is rendered as a JSON error object so the
// result is always safe to log.
func JSONToString(object any, indent ...bool) string {
	var encoded []byte
	var err error
	if len(indent) > 0 && indent[0] {
		encoded, err = jsonAPI.MarshalIndent(object, "", "  ")
	} else {
		encoded, err = jsonAPI.Marshal(object)
	}
	if err != nil {
		return `{"error": "failed to marshal to JSON: ` + strings.ReplaceAll(err.Error(), `"`, `'`) + `"}`
	}
	return string(encoded)
}

// TruncateString shortens s to at most maxLen characters, appending a suffix
// that records the original length. Multi-byte characters are never split.
// If maxLen is zero or negative, [DefaultMaxStringLength] is used instead.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	total := utf8.RuneCountInString(s)
	if total <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", prefix(s, maxLen), total)
}

// Preview returns a single-line excerpt of s for log output: runs of
// whitespace collapse to one space and the result is cut to maxLen
// characters with a trailing ellipsis.
func Preview(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultPreviewLength
	}
	flat := strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(flat) <= maxLen {
		return flat
	}
	return prefix(flat, maxLen) + "..."
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
