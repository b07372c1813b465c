package record

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// labelled matches option texts that carry their own label, e.g. "A) 4",
// "b. four" or "(C) 4".
var labelled = regexp.MustCompile(`^\(?([A-Za-z]|\d{1,2})[).:]\s+(\S.*)$`)

type choice struct {
	id   string
	text string
}

// choices normalizes the raw options value of a quiz question. Entries
// without any usable text or id are dropped and duplicate ids cause the
// whole set to be re-sequenced.
func choices(v any) []Option {
	var items []choice
	switch raw := v.(type) {
	case []any:
		items = listChoices(raw)
	case map[string]any:
		items = mapChoices(raw)
	}
	return assignIDs(items)
}

func listChoices(raw []any) []choice {
	items := make([]choice, 0, len(raw))
	scalars := 0
	for _, entry := range raw {
		switch entry := entry.(type) {
		case map[string]any:
			values := OptionFields.Resolve(entry)
			id := values.String(FieldID)
			text := values.String(FieldText)
			if text == "" {
				text = id
			}
			if text == "" {
				continue
			}
			items = append(items, choice{id: id, text: text})
		case []any:
			// nested lists are not options
		default:
			s, ok := toString(entry)
			if s = strings.TrimSpace(s); !ok || s == "" {
				continue
			}
			items = append(items, choice{text: s})
			scalars++
		}
	}
	if scalars > 0 && scalars == len(items) {
		stripLabels(items)
	}
	return items
}

// stripLabels turns "A) 4" style entries into {a, 4}, but only when every
// entry is labelled.
func stripLabels(items []choice) {
	parts := make([][]string, len(items))
	for i, item := range items {
		m := labelled.FindStringSubmatch(item.text)
		if m == nil {
			return
		}
		parts[i] = m
	}
	for i := range items {
		items[i] = choice{id: strings.ToLower(parts[i][1]), text: strings.TrimSpace(parts[i][2])}
	}
}

func mapChoices(raw map[string]any) []choice {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareOptionKeys)

	items := make([]choice, 0, len(keys))
	for _, key := range keys {
		s, ok := toString(raw[key])
		if s = strings.TrimSpace(s); !ok || s == "" {
			continue
		}
		items = append(items, choice{id: strings.TrimSpace(key), text: s})
	}
	return items
}

// compareOptionKeys orders numeric keys numerically and everything else
// lexically, numbers first.
func compareOptionKeys(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	if c := cmp.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

func assignIDs(items []choice) []Option {
	used := make(map[string]bool, len(items))
	for _, item := range items {
		if item.id == "" {
			continue
		}
		key := strings.ToLower(item.id)
		if used[key] {
			clear(used)
			for i := range items {
				items[i].id = ""
			}
			break
		}
		used[key] = true
	}

	out := make([]Option, 0, len(items))
	next := 0
	for _, item := range items {
		id := item.id
		for id == "" {
			candidate := OptionID(next)
			next++
			if !used[candidate] {
				id = candidate
				used[candidate] = true
			}
		}
		out = append(out, Option{ID: id, Text: item.text})
	}
	return out
}

// correctID binds a model-supplied answer to one of opts. The answer is
// matched against option ids, then option texts, then as a 1-based position
// (0 selects the first option). It reports false when nothing matches.
func correctID(v any, opts []Option) (string, bool) {
	if len(opts) == 0 {
		return "", false
	}
	switch v := v.(type) {
	case nil:
		return "", false
	case map[string]any:
		values := OptionFields.Resolve(v)
		if id, ok := matchID(values.String(FieldID), opts); ok {
			return id, true
		}
		return matchText(values.String(FieldText), opts)
	case []any:
		if len(v) == 0 {
			return "", false
		}
		return correctID(v[0], opts)
	case string:
		return matchString(strings.TrimSpace(v), opts)
	}

	s, ok := toString(v)
	if !ok {
		return "", false
	}
	if id, ok := matchID(s, opts); ok {
		return id, true
	}
	n, ok := toInt(v)
	if !ok {
		return "", false
	}
	return matchPosition(n, opts)
}

func matchString(s string, opts []Option) (string, bool) {
	if s == "" {
		return "", false
	}
	if id, ok := matchID(s, opts); ok {
		return id, true
	}
	if id, ok := matchText(s, opts); ok {
		return id, true
	}
	if m := labelled.FindStringSubmatch(s); m != nil {
		if id, ok := matchID(m[1], opts); ok {
			return id, true
		}
		if id, ok := matchText(m[2], opts); ok {
			return id, true
		}
	}
	lower := strings.ToLower(s)
	for _, prefix := range []string{"option ", "answer ", "choice "} {
		if rest, found := strings.CutPrefix(lower, prefix); found {
			if id, ok := matchID(strings.Trim(rest, " .):"), opts); ok {
				return id, true
			}
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return matchPosition(n, opts)
	}
	return "", false
}

func matchID(s string, opts []Option) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, opt := range opts {
		if strings.EqualFold(opt.ID, s) {
			return opt.ID, true
		}
	}
	return "", false
}

func matchText(s string, opts []Option) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, opt := range opts {
		if strings.EqualFold(strings.TrimSpace(opt.Text), s) {
			return opt.ID, true
		}
	}
	return "", false
}

func matchPosition(n int, opts []Option) (string, bool) {
	switch {
	case n == 0:
		return opts[0].ID, true
	case n >= 1 && n <= len(opts):
		return opts[n-1].ID, true
	}
	return "", false
}
