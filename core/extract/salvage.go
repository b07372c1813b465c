package extract

import (
	"strings"

	"github.com/examlens/salvage/core/parse"
	"github.com/examlens/salvage/core/record"
)

// salvageTier recovers complete record objects one at a time, left to
// right. It is the tier that recovers the first N-1 records of an array
// truncated inside record N.
//
// Each '{' is scanned for a balanced span. A span that decodes (strictly or
// after repair.Apply) into an object carrying the schema's mandatory keys is
// kept and scanning resumes after it; anything else advances one byte, so
// records nested in an unterminated wrapper are still found. Deep repair is
// never used here because it completes truncated records with invented
// content.
//
// Only rejected starts count against maxStarts. Accepted spans are disjoint,
// so they add linear work at most.
func salvageTier(r *run) []map[string]any {
	var records []map[string]any
	misses := 0
	for i := 0; i < len(r.text); {
		offset := strings.IndexByte(r.text[i:], '{')
		if offset < 0 || r.budget.Exhausted() {
			break
		}
		start := i + offset

		if span, ok := r.balanced(start); ok {
			obj, stage, err := parse.Object(span.Text(r.text))
			if err == nil && record.HasMandatoryFields(obj, r.schema) {
				records = append(records, obj)
				r.stage = max(r.stage, stage)
				i = span.End
				continue
			}
		}

		misses++
		if r.maxStarts > 0 && misses >= r.maxStarts {
			break
		}
		i = start + 1
	}
	return records
}
