package parse

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/examlens/salvage/internal/repair"
)

// Stage names the step of the retry chain that produced a decoded value.
type Stage int

const (
	// StageStrict means the content decoded as is.
	StageStrict Stage = iota
	// StageRepaired means the content decoded after repair.Apply.
	StageRepaired
	// StageDeep means the content decoded after repair.Deep.
	StageDeep
)

// String returns a short name for the stage, suitable for log attributes.
func (s Stage) String() string {
	switch s {
	case StageStrict:
		return "strict"
	case StageRepaired:
		return "repaired"
	case StageDeep:
		return "deep"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

var (
	// ErrEmpty is returned when the content holds nothing but whitespace.
	ErrEmpty = errors.New("content is empty")
	// ErrNotArray is returned by Records when the content is valid JSON but
	// not an array.
	ErrNotArray = errors.New("content is not a JSON array")
	// ErrNotObject is returned by Object when the content is valid JSON but
	// not an object.
	ErrNotObject = errors.New("content is not a JSON object")
)

// api decodes numbers as json.Number so integer marks and question numbers
// survive without float rounding.
var api = jsoniter.Config{
	EscapeHTML:             false,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// Option configures a decode.
type Option func(*options)

type options struct {
	deep bool
}

// WithDeepRepair enables the final jsonrepair step of the retry chain.
// Deep repair closes unterminated structures, so it must only be enabled for
// content already known to be a complete span.
func WithDeepRepair(enabled bool) Option {
	return func(o *options) {
		o.deep = enabled
	}
}

// Decode parses content into a generic JSON value (map[string]any, []any,
// string, json.Number, bool or nil), walking the retry chain until one step
// succeeds. The returned Stage reports which step that was.
//
// Example:
//
//	v, stage, err := parse.Decode(`[{"a": 1,}]`)
//	// stage == parse.StageRepaired
func Decode(content string, opts ...Option) (any, Stage, error) {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if strings.TrimSpace(content) == "" {
		return nil, StageStrict, ErrEmpty
	}

	var result any
	err := api.UnmarshalFromString(content, &result)
	if err == nil {
		return result, StageStrict, nil
	}

	repaired := repair.Apply(content)
	if repaired != content {
		result = nil
		if repairedErr := api.UnmarshalFromString(repaired, &result); repairedErr == nil {
			return result, StageRepaired, nil
		}
	}

	if !cfg.deep {
		return nil, StageStrict, fmt.Errorf("failed to decode content: %w", err)
	}

	deep, deepErr := repair.Deep(repaired)
	if deepErr != nil {
		return nil, StageStrict, fmt.Errorf("failed to decode content and failed to repair it: decode error: %w, repair error: %v", err, deepErr)
	}
	result = nil
	if deepErr = api.UnmarshalFromString(deep, &result); deepErr != nil {
		return nil, StageStrict, fmt.Errorf("failed to decode repaired content: %w", deepErr)
	}
	return result, StageDeep, nil
}

// Records decodes content as an array and returns its object elements, with
// schema envelopes unwrapped, and the stage of the retry chain that decoded
// it. Elements that are not objects are skipped.
func Records(content string, opts ...Option) ([]map[string]any, Stage, error) {
	value, stage, err := Decode(content, opts...)
	if err != nil {
		return nil, stage, err
	}
	items, ok := value.([]any)
	if !ok {
		return nil, stage, ErrNotArray
	}
	return Objects(items), stage, nil
}

// Object decodes content as an object with schema envelopes unwrapped.
func Object(content string, opts ...Option) (map[string]any, Stage, error) {
	value, stage, err := Decode(content, opts...)
	if err != nil {
		return nil, stage, err
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, stage, ErrNotObject
	}
	unwrapped, ok := Unwrap(obj).(map[string]any)
	if !ok {
		return nil, stage, ErrNotObject
	}
	return unwrapped, stage, nil
}

// Objects returns the object elements of items with schema envelopes
// unwrapped, preserving order.
func Objects(items []any) []map[string]any {
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			if unwrapped, ok := Unwrap(obj).(map[string]any); ok {
				records = append(records, unwrapped)
			}
		}
	}
	return records
}
