// Package config loads salvage settings from .env files and the process
// environment. Environment variables win over .env values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/examlens/salvage/core/extract"
	"github.com/examlens/salvage/core/record"
	"github.com/examlens/salvage/providers/observability/slogobs"
)

// Environment variable names.
const (
	EnvSchema            = "SALVAGE_SCHEMA"
	EnvMaxStarts         = "SALVAGE_MAX_STARTS"
	EnvScanBudget        = "SALVAGE_SCAN_BUDGET"
	EnvMinQuestionLength = "SALVAGE_MIN_QUESTION_LENGTH"
	EnvDefaultTopic      = "SALVAGE_DEFAULT_TOPIC"
	EnvShuffle           = "SALVAGE_SHUFFLE"
	EnvConvertHTML       = "SALVAGE_CONVERT_HTML"
	EnvLogLevel          = "SALVAGE_LOG_LEVEL"
	EnvLogFormat         = "SALVAGE_LOG_FORMAT"
)

// Config holds the settings of the salvage command.
type Config struct {
	Schema            record.Schema
	MaxStarts         int
	ScanBudget        int
	MinQuestionLength int
	DefaultTopic      string
	Shuffle           bool
	ConvertHTML       bool
	LogLevel          slog.Level
	LogFormat         slogobs.Format
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Schema:            record.SchemaQuestions,
		MaxStarts:         extract.DefaultMaxStarts,
		ScanBudget:        extract.DefaultScanBudget,
		MinQuestionLength: record.DefaultMinQuestionLength,
		DefaultTopic:      record.DefaultQuestionTopic,
		LogLevel:          slog.LevelInfo,
		LogFormat:         slogobs.FormatCompact,
	}
}

// Load returns the default settings overridden by the given .env files (in
// order, later files winning) and then by the environment. Missing files
// are ignored. With no paths, ".env" in the working directory is tried.
func Load(paths ...string) (Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	file := map[string]string{}
	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for k, v := range values {
			file[k] = v
		}
	}
	return fromLookup(func(key string) string {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return v
		}
		return file[key]
	})
}

func fromLookup(get func(string) string) (Config, error) {
	cfg := Default()
	var errs []error

	if v := get(EnvSchema); v != "" {
		schema, err := record.ParseSchema(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", EnvSchema, err))
		} else {
			cfg.Schema = schema
		}
	}
	intVar(get, EnvMaxStarts, &cfg.MaxStarts, &errs)
	intVar(get, EnvScanBudget, &cfg.ScanBudget, &errs)
	intVar(get, EnvMinQuestionLength, &cfg.MinQuestionLength, &errs)
	boolVar(get, EnvShuffle, &cfg.Shuffle, &errs)
	boolVar(get, EnvConvertHTML, &cfg.ConvertHTML, &errs)

	if v := strings.TrimSpace(get(EnvDefaultTopic)); v != "" {
		cfg.DefaultTopic = v
	}

	level := get(EnvLogLevel)
	if level == "" {
		level = get("LOG_LEVEL")
	}
	if level != "" {
		cfg.LogLevel = slogobs.ParseLogLevel(level)
	}
	format := get(EnvLogFormat)
	if format == "" {
		format = get("LOG_FORMAT")
	}
	if format != "" {
		cfg.LogFormat = slogobs.ParseFormat(format)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func intVar(get func(string) string, key string, dst *int, errs *[]error) {
	v := strings.TrimSpace(get(key))
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return
	}
	*dst = n
}

func boolVar(get func(string) string, key string, dst *bool, errs *[]error) {
	v := strings.TrimSpace(get(key))
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return
	}
	*dst = b
}

// ExtractorOptions returns the extract options these settings imply.
func (c Config) ExtractorOptions() []extract.Option {
	return []extract.Option{
		extract.WithMaxStarts(c.MaxStarts),
		extract.WithScanBudget(c.ScanBudget),
	}
}

// NormalizerOptions returns the record normalizer options these settings
// imply.
func (c Config) NormalizerOptions() []record.NormalizerOption {
	return []record.NormalizerOption{
		record.WithMinQuestionLength(c.MinQuestionLength),
		record.WithDefaultTopic(c.DefaultTopic),
		record.WithHTMLConversion(c.ConvertHTML),
	}
}
