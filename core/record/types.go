package record

import (
	"fmt"
	"strings"
)

// Schema selects which canonical record shape an extraction targets.
type Schema int

const (
	// SchemaErrors targets AssessmentError records.
	SchemaErrors Schema = iota + 1
	// SchemaQuestions targets QuizQuestion records.
	SchemaQuestions
)

// String returns "errors" or "questions".
func (s Schema) String() string {
	switch s {
	case SchemaErrors:
		return "errors"
	case SchemaQuestions:
		return "questions"
	default:
		return fmt.Sprintf("schema(%d)", int(s))
	}
}

// ParseSchema parses a schema name. It accepts "errors", "error", "midterm",
// "questions", "question" and "quiz", case-insensitively.
func ParseSchema(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "errors", "error", "midterm":
		return SchemaErrors, nil
	case "questions", "question", "quiz":
		return SchemaQuestions, nil
	default:
		return 0, fmt.Errorf("unknown schema %q", name)
	}
}

// Correctness classifies a student's answer.
type Correctness string

const (
	Correct          Correctness = "correct"
	Incorrect        Correctness = "incorrect"
	PartiallyCorrect Correctness = "partially_correct"
)

// AssessmentError is one graded answer from a marked assessment.
type AssessmentError struct {
	Question      int         `json:"question" jsonschema:"description=Question number as printed on the paper"`
	YourAnswer    string      `json:"yourAnswer" jsonschema:"description=The student's answer"`
	CorrectAnswer string      `json:"correctAnswer" jsonschema:"description=The expected answer"`
	Topic         string      `json:"topic" jsonschema:"description=Concept the question tests"`
	Feedback      string      `json:"feedback" jsonschema:"description=What went wrong and how to fix it"`
	MarksReceived *float64    `json:"marksReceived" jsonschema:"description=Marks awarded"`
	TotalMarks    *float64    `json:"totalMarks" jsonschema:"description=Marks available"`
	Correctness   Correctness `json:"correctness" jsonschema:"enum=correct,enum=incorrect,enum=partially_correct"`
}

// Option is one answer choice of a quiz question.
type Option struct {
	ID   string `json:"id" jsonschema:"description=Option label: a or b or c or d"`
	Text string `json:"text"`
}

// QuizQuestion is a multiple-choice question. CorrectAnswer always names the
// ID of one of its Options.
type QuizQuestion struct {
	ID            string   `json:"id"`
	Text          string   `json:"text" jsonschema:"description=The question"`
	Options       []Option `json:"options" jsonschema:"description=At least two answer choices"`
	CorrectAnswer string   `json:"correctAnswer" jsonschema:"description=ID of the correct option"`
	Explanation   string   `json:"explanation"`
	Topic         string   `json:"topic"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

// CorrectOption returns the option CorrectAnswer refers to.
func (q QuizQuestion) CorrectOption() (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == q.CorrectAnswer {
			return opt, true
		}
	}
	return Option{}, false
}

// OptionID returns the canonical id of the option at index i:
// "a" through "z", then the decimal index ("26", "27", ...).
func OptionID(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('a' + i))
	}
	return fmt.Sprintf("%d", i)
}
