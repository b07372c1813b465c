package record

import (
	"fmt"

	"github.com/examlens/salvage/internal/jsonschema"
)

// JSONSchema returns the JSON Schema of the array a model should emit for
// schema, for inclusion in prompts.
func JSONSchema(schema Schema) (*jsonschema.Schema, error) {
	switch schema {
	case SchemaErrors:
		return jsonschema.ArrayOf[AssessmentError]("Graded answers, one object per question")
	case SchemaQuestions:
		return jsonschema.ArrayOf[QuizQuestion]("Multiple-choice quiz questions")
	default:
		return nil, fmt.Errorf("unknown schema %v", schema)
	}
}
