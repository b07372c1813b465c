package slogobs

import (
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"debug", slog.LevelDebug},
		{"DeBuG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"  DEBUG  ", slog.LevelDebug},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetLogLevelFromEnv(t *testing.T) {
	t.Run("prefixed variable wins", func(t *testing.T) {
		t.Setenv("SALVAGE_LOG_LEVEL", "debug")
		t.Setenv("LOG_LEVEL", "error")
		if got := GetLogLevelFromEnv(); got != slog.LevelDebug {
			t.Errorf("GetLogLevelFromEnv() = %v, want DEBUG", got)
		}
	})
	t.Run("generic fallback", func(t *testing.T) {
		t.Setenv("SALVAGE_LOG_LEVEL", "")
		t.Setenv("LOG_LEVEL", "warn")
		if got := GetLogLevelFromEnv(); got != slog.LevelWarn {
			t.Errorf("GetLogLevelFromEnv() = %v, want WARN", got)
		}
	})
	t.Run("default", func(t *testing.T) {
		t.Setenv("SALVAGE_LOG_LEVEL", "")
		t.Setenv("LOG_LEVEL", "")
		if got := GetLogLevelFromEnv(); got != slog.LevelInfo {
			t.Errorf("GetLogLevelFromEnv() = %v, want INFO", got)
		}
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"compact", FormatCompact},
		{"PRETTY", FormatPretty},
		{" json ", FormatJSON},
		{"xml", FormatCompact},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	t.Setenv("SALVAGE_LOG_FORMAT", "")
	t.Setenv("LOG_FORMAT", "json")
	if got := GetFormatFromEnv(); got != FormatJSON {
		t.Errorf("GetFormatFromEnv() = %v, want json", got)
	}
	if FormatPretty.String() != "pretty" {
		t.Errorf("String() = %q", FormatPretty.String())
	}
}

func TestApplyOptions(t *testing.T) {
	t.Setenv("SALVAGE_LOG_FORMAT", "pretty")
	t.Setenv("SALVAGE_LOG_LEVEL", "error")

	cfg := applyOptions()
	if cfg.format != FormatPretty || cfg.level != slog.LevelError {
		t.Errorf("defaults from env = %+v", cfg)
	}

	cfg = applyOptions(WithFormat(FormatJSON), WithLevel(slog.LevelDebug), WithColors(true))
	if cfg.format != FormatJSON || cfg.level != slog.LevelDebug || !cfg.colors {
		t.Errorf("options not applied: %+v", cfg)
	}
}
