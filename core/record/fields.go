package record

import "strings"

// Canonical field names.
const (
	FieldQuestion      = "question"
	FieldYourAnswer    = "yourAnswer"
	FieldCorrectAnswer = "correctAnswer"
	FieldTopic         = "topic"
	FieldFeedback      = "feedback"
	FieldMarksReceived = "marksReceived"
	FieldTotalMarks    = "totalMarks"
	FieldCorrectness   = "correctness"

	FieldID          = "id"
	FieldText        = "text"
	FieldOptions     = "options"
	FieldExplanation = "explanation"
	FieldImageURL    = "imageUrl"
)

// Field maps one canonical field to the source keys accepted for it, in
// priority order.
type Field struct {
	Name    string
	Aliases []string
}

// Table is the field-resolution table of one schema.
type Table []Field

// ErrorFields resolves AssessmentError fields.
var ErrorFields = Table{
	{Name: FieldQuestion, Aliases: []string{"question", "questionNumber", "question_number", "number", "q"}},
	{Name: FieldYourAnswer, Aliases: []string{"yourAnswer", "your_answer", "studentAnswer", "student_answer", "answer"}},
	{Name: FieldCorrectAnswer, Aliases: []string{"correctAnswer", "correct_answer", "expectedAnswer", "expected_answer"}},
	{Name: FieldTopic, Aliases: []string{"topic", "subject", "concept"}},
	{Name: FieldFeedback, Aliases: []string{"feedback", "explanation", "comment"}},
	{Name: FieldMarksReceived, Aliases: []string{"marksReceived", "marks_received", "score", "marks"}},
	{Name: FieldTotalMarks, Aliases: []string{"totalMarks", "total_marks", "maxMarks", "max_marks", "outOf"}},
	{Name: FieldCorrectness, Aliases: []string{"correctness", "status", "correctness_status"}},
}

// QuestionFields resolves QuizQuestion fields.
var QuestionFields = Table{
	{Name: FieldID, Aliases: []string{"id", "questionId", "question_id"}},
	{Name: FieldText, Aliases: []string{"text", "question", "questionText", "question_text", "prompt"}},
	{Name: FieldOptions, Aliases: []string{"options", "choices", "answers"}},
	{Name: FieldCorrectAnswer, Aliases: []string{"correctAnswer", "correct_answer", "answer", "correct"}},
	{Name: FieldExplanation, Aliases: []string{"explanation", "rationale", "reason"}},
	{Name: FieldTopic, Aliases: []string{"topic", "subject", "category"}},
	{Name: FieldImageURL, Aliases: []string{"imageUrl", "image_url"}},
}

// OptionFields resolves the fields of an object-shaped quiz option.
var OptionFields = Table{
	{Name: FieldID, Aliases: []string{"id", "label", "key", "letter"}},
	{Name: FieldText, Aliases: []string{"text", "value", "content", "option"}},
}

// Values holds the resolved fields of one raw object, keyed by canonical name.
type Values map[string]any

// Resolve looks up every field of t in raw. For each field the first alias
// present with a non-blank value wins; exact key matches are tried before
// case-insensitive ones.
func (t Table) Resolve(raw map[string]any) Values {
	values := make(Values, len(t))
	var folded map[string]string
	for _, field := range t {
		for _, alias := range field.Aliases {
			v, ok := raw[alias]
			if !ok {
				if folded == nil {
					folded = foldKeys(raw)
				}
				key, found := folded[strings.ToLower(alias)]
				if !found {
					continue
				}
				v = raw[key]
			}
			if isBlank(v) {
				continue
			}
			values[field.Name] = v
			break
		}
	}
	return values
}

// Has reports whether the field resolved to a value.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// String returns the field coerced to a trimmed string, or "".
func (v Values) String(name string) string {
	s, _ := toString(v[name])
	return strings.TrimSpace(s)
}

func foldKeys(raw map[string]any) map[string]string {
	folded := make(map[string]string, len(raw))
	for key := range raw {
		lower := strings.ToLower(key)
		// Keep the lexically smallest original key so resolution is
		// deterministic when two keys differ only by case.
		if prev, ok := folded[lower]; !ok || key < prev {
			folded[lower] = key
		}
	}
	return folded
}

func isBlank(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// HasMandatoryFields reports whether raw carries the keys that identify a
// record of the given schema: a question text and options for quiz
// questions, a question number for assessment errors.
func HasMandatoryFields(raw map[string]any, schema Schema) bool {
	switch schema {
	case SchemaQuestions:
		v := QuestionFields.Resolve(raw)
		return v.Has(FieldText) && v.Has(FieldOptions)
	case SchemaErrors:
		return ErrorFields.Resolve(raw).Has(FieldQuestion)
	}
	return false
}
