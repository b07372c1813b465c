package extract

import (
	"regexp"
	"slices"
	"strings"

	"github.com/examlens/salvage/core/parse"
	"github.com/examlens/salvage/core/record"
	"github.com/examlens/salvage/internal/scan"
)

// fencePattern matches the first fenced code block, with or without a
// language tag.
var fencePattern = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \t]*\r?\n?(.*?)```")

// containerKeys are the keys under which models nest record lists.
var containerKeys = map[record.Schema][]string{
	record.SchemaQuestions: {"questions", "quiz", "items"},
	record.SchemaErrors:    {"errors", "mistakes", "results"},
}

// maxContainerDepth bounds the search for a container key inside wrapper
// objects such as {"data": {"questions": [...]}}.
const maxContainerDepth = 2

func fenceTier(r *run) []map[string]any {
	m := fencePattern.FindStringSubmatch(r.text)
	if m == nil {
		return nil
	}
	body := strings.TrimSpace(m[1])
	start := strings.IndexAny(body, "[{")
	if start < 0 {
		return nil
	}
	span, ok := r.balancedIn(body, start)
	if !ok {
		return nil
	}
	records, stage := r.decode(span.Text(body), span.Kind, start == 0 && span.End == len(body))
	r.stage = stage
	return records
}

// largestArrayTier decodes every balanced array and keeps the one with the
// most valid records. Ties go to the first occurrence.
func largestArrayTier(r *run) []map[string]any {
	var best []map[string]any
	bestScore := 0
	for _, start := range scan.Starts(r.text, '[', r.maxStarts) {
		if r.budget.Exhausted() {
			break
		}
		span, ok := r.balanced(start)
		if !ok {
			continue
		}
		records, stage := r.decode(span.Text(r.text), scan.Array, false)
		if score := r.accepted(records); score > bestScore {
			best, bestScore = records, score
			r.stage = stage
		}
	}
	return best
}

// containerTier looks for an object holding the records under a container
// key. An object that spans the whole text and is itself a record is
// returned as a one-element list.
func containerTier(r *run) []map[string]any {
	first, last := trimmedBounds(r.text)
	skipUntil := 0
	for _, start := range scan.Starts(r.text, '{', r.maxStarts) {
		if start < skipUntil {
			continue
		}
		if r.budget.Exhausted() {
			break
		}
		span, ok := r.balanced(start)
		if !ok {
			continue
		}
		obj, stage, err := parse.Object(span.Text(r.text), r.parseOptions()...)
		if err != nil {
			continue
		}
		records := r.unpack(obj, start == first && span.End == last)
		if r.accepted(records) > 0 {
			r.stage = stage
			return records
		}
		skipUntil = span.End
	}
	return nil
}

// decode parses a complete span into candidate records and reports the
// retry-chain stage that decoded it.
func (r *run) decode(content string, kind scan.Kind, whole bool) ([]map[string]any, parse.Stage) {
	switch kind {
	case scan.Array:
		records, stage, err := parse.Records(content, r.parseOptions()...)
		if err != nil {
			return nil, stage
		}
		return records, stage
	case scan.Object:
		obj, stage, err := parse.Object(content, r.parseOptions()...)
		if err != nil {
			return nil, stage
		}
		return r.unpack(obj, whole), stage
	}
	return nil, parse.StageStrict
}

func (r *run) unpack(obj map[string]any, whole bool) []map[string]any {
	if records := containerRecords(obj, r.schema, maxContainerDepth); records != nil {
		return records
	}
	if whole && record.HasMandatoryFields(obj, r.schema) {
		return []map[string]any{obj}
	}
	return nil
}

// containerRecords returns the record list stored under a container key of
// obj, looking through up to depth levels of wrapper objects.
func containerRecords(obj map[string]any, schema record.Schema, depth int) []map[string]any {
	for _, key := range containerKeys[schema] {
		switch v := obj[key].(type) {
		case []any:
			return parse.Objects(v)
		case map[string]any:
			if records := containerRecords(v, schema, depth-1); records != nil {
				return records
			}
		}
	}
	if depth <= 0 {
		return nil
	}

	keys := make([]string, 0, len(obj))
	for key, v := range obj {
		if _, ok := v.(map[string]any); ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	for _, key := range keys {
		if records := containerRecords(obj[key].(map[string]any), schema, depth-1); records != nil {
			return records
		}
	}
	return nil
}

// trimmedBounds returns the offsets of the first non-space byte and just
// past the last one.
func trimmedBounds(s string) (first, last int) {
	trimmedLeft := strings.TrimLeft(s, " \t\r\n")
	first = len(s) - len(trimmedLeft)
	last = len(strings.TrimRight(s, " \t\r\n"))
	return first, last
}
