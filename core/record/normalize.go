package record

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/examlens/salvage/internal/richtext"
	"github.com/examlens/salvage/internal/utils"
	"github.com/examlens/salvage/providers/observability"
)

// Defaults applied by the normalizer.
const (
	DefaultMinQuestionLength = 10
	DefaultQuestionTopic     = "General"
	DefaultErrorTopic        = "Unknown"
	MinOptions               = 2
)

// Reasons a candidate record is rejected.
var (
	ErrNoContent     = errors.New("record has no question, answer, feedback or marks")
	ErrNoText        = errors.New("question text is missing")
	ErrTextTooShort  = errors.New("question text is too short")
	ErrTooFewOptions = errors.New("question has fewer than two options")
)

// Normalizer coerces decoded objects into canonical records. It holds only
// immutable settings and is safe for concurrent use.
type Normalizer struct {
	minQuestionLength int
	defaultTopic      string
	convertHTML       bool
	observer          observability.Provider
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithMinQuestionLength sets the minimum trimmed length, in characters, of a
// question's text. Values below 1 are ignored.
func WithMinQuestionLength(n int) NormalizerOption {
	return func(nz *Normalizer) {
		if n > 0 {
			nz.minQuestionLength = n
		}
	}
}

// WithDefaultTopic sets the topic given to quiz questions that carry none.
func WithDefaultTopic(topic string) NormalizerOption {
	return func(nz *Normalizer) {
		if topic = strings.TrimSpace(topic); topic != "" {
			nz.defaultTopic = topic
		}
	}
}

// WithHTMLConversion converts HTML fragments in text fields to markdown.
func WithHTMLConversion(enabled bool) NormalizerOption {
	return func(nz *Normalizer) {
		nz.convertHTML = enabled
	}
}

// WithObserver logs rejected candidates through p. Without one, the
// provider attached to the call's context is used.
func WithObserver(p observability.Provider) NormalizerOption {
	return func(nz *Normalizer) {
		nz.observer = p
	}
}

// NewNormalizer returns a Normalizer with the given options applied.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	nz := &Normalizer{
		minQuestionLength: DefaultMinQuestionLength,
		defaultTopic:      DefaultQuestionTopic,
	}
	for _, opt := range opts {
		opt(nz)
	}
	return nz
}

var defaultNormalizer = NewNormalizer()

// NormalizeErrors normalizes raw objects with the default settings.
func NormalizeErrors(raws []map[string]any) []AssessmentError {
	return defaultNormalizer.Errors(context.Background(), raws)
}

// NormalizeQuestions normalizes raw objects with the default settings.
func NormalizeQuestions(raws []map[string]any) []QuizQuestion {
	return defaultNormalizer.Questions(context.Background(), raws)
}

// Errors normalizes every candidate and returns the valid records in input
// order. Rejected candidates are logged at debug level.
func (nz *Normalizer) Errors(ctx context.Context, raws []map[string]any) []AssessmentError {
	out := make([]AssessmentError, 0, len(raws))
	for i, raw := range raws {
		rec, err := nz.Error(raw)
		if err != nil {
			nz.dropped(ctx, SchemaErrors, i, err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Questions normalizes every candidate and returns the valid records in
// input order. A question without an id gets its 1-based output position.
func (nz *Normalizer) Questions(ctx context.Context, raws []map[string]any) []QuizQuestion {
	out := make([]QuizQuestion, 0, len(raws))
	for i, raw := range raws {
		q, err := nz.Question(raw, len(out)+1)
		if err != nil {
			nz.dropped(ctx, SchemaQuestions, i, err)
			continue
		}
		out = append(out, q)
	}
	return out
}

func (nz *Normalizer) dropped(ctx context.Context, schema Schema, index int, err error) {
	obs := nz.observer
	if obs == nil {
		obs = observability.OrNop(observability.ObserverFromContext(ctx))
	}
	obs.Debug(ctx, "Candidate record dropped",
		observability.String(observability.AttrSchema, schema.String()),
		observability.Int(observability.AttrRecordIndex, index),
		observability.String(observability.AttrDropReason, err.Error()),
	)
}

// Error normalizes one assessment-error candidate.
func (nz *Normalizer) Error(raw map[string]any) (AssessmentError, error) {
	values := ErrorFields.Resolve(raw)
	if !hasErrorContent(values) {
		return AssessmentError{}, ErrNoContent
	}

	rec := AssessmentError{
		YourAnswer:    nz.text(values.String(FieldYourAnswer)),
		CorrectAnswer: nz.text(values.String(FieldCorrectAnswer)),
		Topic:         values.String(FieldTopic),
		Feedback:      nz.text(values.String(FieldFeedback)),
	}
	if n, ok := toInt(values[FieldQuestion]); ok {
		rec.Question = n
	}
	if rec.Topic == "" {
		rec.Topic = DefaultErrorTopic
	}
	rec.MarksReceived, rec.TotalMarks = marks(values)
	rec.Correctness = ResolveCorrectness(values[FieldCorrectness], rec.MarksReceived, rec.TotalMarks)
	return rec, nil
}

// errorContentFields are the fields of which an assessment error needs at
// least one. Topic and correctness alone describe nothing.
var errorContentFields = []string{
	FieldQuestion,
	FieldYourAnswer,
	FieldCorrectAnswer,
	FieldFeedback,
	FieldMarksReceived,
	FieldTotalMarks,
}

func hasErrorContent(values Values) bool {
	for _, name := range errorContentFields {
		if values.Has(name) {
			return true
		}
	}
	return false
}

func marks(values Values) (received, total *float64) {
	if r, t, ok := fraction(values[FieldMarksReceived]); ok {
		received, total = utils.Ptr(r), utils.Ptr(t)
	} else if r, ok := toFloat(values[FieldMarksReceived]); ok {
		received = utils.Ptr(r)
	}
	if t, ok := toFloat(values[FieldTotalMarks]); ok {
		total = utils.Ptr(t)
	}
	return received, total
}

// Question normalizes one quiz-question candidate. position is used as the
// id when the candidate has none.
func (nz *Normalizer) Question(raw map[string]any, position int) (QuizQuestion, error) {
	values := QuestionFields.Resolve(raw)

	text := values.String(FieldText)
	if text == "" {
		return QuizQuestion{}, ErrNoText
	}
	if utf8.RuneCountInString(text) < nz.minQuestionLength {
		return QuizQuestion{}, ErrTextTooShort
	}

	opts := choices(values[FieldOptions])
	if len(opts) < MinOptions {
		return QuizQuestion{}, ErrTooFewOptions
	}
	correct, ok := correctID(values[FieldCorrectAnswer], opts)
	if !ok {
		correct = opts[0].ID
	}
	for i := range opts {
		opts[i].Text = nz.text(opts[i].Text)
	}

	q := QuizQuestion{
		ID:            values.String(FieldID),
		Text:          nz.text(text),
		Options:       opts,
		CorrectAnswer: correct,
		Explanation:   nz.text(values.String(FieldExplanation)),
		Topic:         values.String(FieldTopic),
		ImageURL:      values.String(FieldImageURL),
	}
	if q.ID == "" {
		q.ID = strconv.Itoa(position)
	}
	if q.Topic == "" {
		q.Topic = nz.defaultTopic
	}
	return q, nil
}

func (nz *Normalizer) text(s string) string {
	if !nz.convertHTML {
		return s
	}
	return richtext.Markdown(s)
}
