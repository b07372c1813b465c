// Command salvage recovers structured records from a language-model
// completion and prints them as JSON.
//
// Usage:
//
//	salvage [--schema questions|errors] [--shuffle] [--seed N] [--explain]
//	        [--topics a,b,...] [--print-schema] [file]
//
// The completion is read from file, or from standard input when no file is
// given. Records go to standard output; logs go to standard error. Settings
// not given as flags come from the SALVAGE_* environment variables or a .env
// file in the working directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/examlens/salvage/core/extract"
	"github.com/examlens/salvage/core/fallback"
	"github.com/examlens/salvage/core/record"
	"github.com/examlens/salvage/core/shuffle"
	"github.com/examlens/salvage/internal/config"
	"github.com/examlens/salvage/internal/utils"
	"github.com/examlens/salvage/providers/observability"
	"github.com/examlens/salvage/providers/observability/slogobs"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "salvage:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := pflag.NewFlagSet("salvage", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	schemaName := flags.StringP("schema", "s", cfg.Schema.String(), "record schema: questions or errors")
	shuffleOptions := flags.Bool("shuffle", cfg.Shuffle, "randomize the position of the correct answer (questions only)")
	seed := flags.Uint64("seed", 0, "seed for --shuffle; 0 picks a random seed")
	explain := flags.Bool("explain", false, "print the winning tier and the raw candidates to stderr")
	topics := flags.StringSlice("topics", nil, "emit placeholder questions for these topics when nothing is recovered")
	printSchema := flags.Bool("print-schema", false, "print the JSON Schema of the selected record array and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.NArg() > 1 {
		return fmt.Errorf("expected at most one input file, got %d", flags.NArg())
	}

	schema, err := record.ParseSchema(*schemaName)
	if err != nil {
		return err
	}
	if *printSchema {
		return writeSchema(stdout, schema)
	}

	text, err := readInput(flags.Arg(0), stdin)
	if err != nil {
		return err
	}

	observer := slogobs.New(
		slogobs.WithOutput(stderr),
		slogobs.WithLevel(cfg.LogLevel),
		slogobs.WithFormat(cfg.LogFormat),
	)
	ctx = observability.ContextWithObserver(ctx, observer)
	normalizer := record.NewNormalizer(cfg.NormalizerOptions()...)
	extractor := extract.New(append(cfg.ExtractorOptions(), extract.WithNormalizer(normalizer))...)

	if *explain {
		raws, tier := extractor.Raw(ctx, text, schema)
		fmt.Fprintf(stderr, "tier: %s\n%s\n", tier, utils.JSONToString(raws, true))
	}

	var out any
	switch schema {
	case record.SchemaErrors:
		out = extractor.Errors(ctx, text)
	default:
		questions := extractor.Questions(ctx, text)
		if len(questions) == 0 && len(*topics) > 0 {
			observer.Warn(ctx, "Using placeholder questions",
				observability.Int(observability.AttrRecords, len(*topics)))
			questions = fallback.PlaceholderQuestions(*topics, 0)
		}
		if *shuffleOptions {
			questions = newShuffler(*seed).All(questions)
		}
		out = questions
	}

	if _, err := fmt.Fprintln(stdout, utils.JSONToString(out, true)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeSchema(w io.Writer, schema record.Schema) error {
	s, err := record.JSONSchema(schema)
	if err != nil {
		return err
	}
	out, err := s.JSONString(true)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func newShuffler(seed uint64) *shuffle.Shuffler {
	if seed == 0 {
		return shuffle.Random()
	}
	return shuffle.New(seed)
}
