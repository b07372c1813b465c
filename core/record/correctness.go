package record

import "strings"

var correctnessWords = map[string]Correctness{
	"correct":           Correct,
	"right":             Correct,
	"true":              Correct,
	"incorrect":         Incorrect,
	"wrong":             Incorrect,
	"false":             Incorrect,
	"partially_correct": PartiallyCorrect,
	"partially correct": PartiallyCorrect,
	"partially-correct": PartiallyCorrect,
	"partial":           PartiallyCorrect,
	"partially":         PartiallyCorrect,
}

// ParseCorrectness maps a model-supplied correctness value to the enum.
// Booleans are accepted. Unrecognized values report false.
func ParseCorrectness(v any) (Correctness, bool) {
	switch v := v.(type) {
	case bool:
		if v {
			return Correct, true
		}
		return Incorrect, true
	case string:
		c, ok := correctnessWords[strings.ToLower(strings.TrimSpace(v))]
		return c, ok
	}
	return "", false
}

// CorrectnessFromMarks derives correctness from marks. It needs both values
// and a positive total.
func CorrectnessFromMarks(received, total *float64) (Correctness, bool) {
	if received == nil || total == nil || *total <= 0 {
		return "", false
	}
	switch {
	case *received >= *total:
		return Correct, true
	case *received > 0:
		return PartiallyCorrect, true
	default:
		return Incorrect, true
	}
}

// ResolveCorrectness combines the explicit value, the marks and the
// incorrect default, in that order.
func ResolveCorrectness(v any, received, total *float64) Correctness {
	if c, ok := ParseCorrectness(v); ok {
		return c
	}
	if c, ok := CorrectnessFromMarks(received, total); ok {
		return c
	}
	return Incorrect
}

// Valid reports whether c is one of the three defined values.
func (c Correctness) Valid() bool {
	switch c {
	case Correct, Incorrect, PartiallyCorrect:
		return true
	}
	return false
}
