package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/examlens/salvage/core/record"
)

const (
	// minHeuristicQuestion is the length a question captured from prose must
	// exceed to be kept.
	minHeuristicQuestion = 20

	// maxHeuristicQuestion caps the text of a question captured from prose.
	maxHeuristicQuestion = 200

	heuristicExplanation = "Generated from model output"
)

var (
	questionMarker = regexp.MustCompile(`(?i)\b(?:question|q)\s*\d+`)
	questionWord   = regexp.MustCompile(`(?i)question`)
	errorBlock     = regexp.MustCompile(`(?is)question[:\s]+(\d+).*?your[\s_]?answer[:\s]+(.*?)correct[\s_]?answer[:\s]+(.*?)topic[:\s]+(.*?)feedback[:\s]+`)
)

func textTier(r *run) []map[string]any {
	switch r.schema {
	case record.SchemaQuestions:
		return questionsFromText(r.text)
	case record.SchemaErrors:
		return errorsFromText(r.text)
	}
	return nil
}

// questionsFromText splits prose on "Question N" / "Q N" markers. Each
// capture longer than minHeuristicQuestion becomes a question with four
// placeholder options, the first one marked correct.
func questionsFromText(text string) []map[string]any {
	markers := questionMarker.FindAllStringIndex(text, -1)
	var records []map[string]any
	matched := 0
	for k, loc := range markers {
		rest := text[loc[1]:]
		body := strings.TrimLeft(rest, ": \t\r\n")
		if len(body) == len(rest) {
			continue
		}
		end := len(text)
		if k+1 < len(markers) {
			end = markers[k+1][0]
		}
		bodyStart := loc[1] + len(rest) - len(body)
		if bodyStart >= end {
			continue
		}
		matched++

		capture := strings.TrimSpace(text[bodyStart:end])
		if utf8.RuneCountInString(capture) <= minHeuristicQuestion {
			continue
		}
		records = append(records, map[string]any{
			record.FieldID:            strconv.Itoa(matched),
			record.FieldText:          truncateRunes(capture, maxHeuristicQuestion),
			record.FieldOptions:       placeholderOptions(),
			record.FieldCorrectAnswer: "a",
			record.FieldExplanation:   heuristicExplanation,
		})
	}
	return records
}

func placeholderOptions() []any {
	opts := make([]any, 0, 4)
	for i, label := range []string{"A", "B", "C", "D"} {
		opts = append(opts, map[string]any{
			record.FieldID:   record.OptionID(i),
			record.FieldText: "Option " + label,
		})
	}
	return opts
}

// errorsFromText reads labelled blocks of the form
// "question: N ... yourAnswer: ... correctAnswer: ... topic: ... feedback: ...".
// Feedback runs to the next occurrence of "question" or the end of text.
func errorsFromText(text string) []map[string]any {
	var records []map[string]any
	for pos := 0; pos < len(text); {
		m := errorBlock.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		group := func(n int) string {
			return strings.TrimSpace(text[pos+m[2*n] : pos+m[2*n+1]])
		}

		feedbackStart := pos + m[1]
		end := len(text)
		if loc := questionWord.FindStringIndex(text[feedbackStart:]); loc != nil {
			end = feedbackStart + loc[0]
		}

		records = append(records, map[string]any{
			record.FieldQuestion:      group(1),
			record.FieldYourAnswer:    group(2),
			record.FieldCorrectAnswer: group(3),
			record.FieldTopic:         group(4),
			record.FieldFeedback:      strings.TrimSpace(text[feedbackStart:end]),
			record.FieldCorrectness:   string(record.Incorrect),
		})
		pos = end
	}
	return records
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
