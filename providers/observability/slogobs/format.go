package slogobs

import (
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatCompact is a single-line format with JSON attributes.
	// Example: 2026-01-02 10:40:35 DEBUG Tier failed -> {"salvage.tier":"fence"}
	FormatCompact Format = "compact"

	// FormatPretty is a multi-line format with one attribute per line.
	// Example:
	// 2026-01-02 10:40:35 DEBUG  Tier failed
	//                    `- salvage.tier: fence
	FormatPretty Format = "pretty"

	// FormatJSON is one JSON object per line, for log aggregation.
	FormatJSON Format = "json"
)

// ParseFormat parses a format name. Unknown names yield FormatCompact.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv reads SALVAGE_LOG_FORMAT, then LOG_FORMAT.
// It returns FormatCompact when neither is set.
func GetFormatFromEnv() Format {
	if format := os.Getenv("SALVAGE_LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return FormatCompact
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}
