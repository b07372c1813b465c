package parse

// Unwrap removes schema-like envelopes from a decoded JSON value.
// This is a common error when LLMs confuse JSON schema definitions with
// actual data.
//
// Example input:
//
//	{"text": {"type": "string", "value": "What is 2+2?"}, "options": ["3", "4"]}
//
// Example output:
//
//	{"text": "What is 2+2?", "options": ["3", "4"]}
//
// The top-level value is never replaced by its own envelope contents unless
// it is itself an envelope.
func Unwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if inner, ok := envelope(v); ok {
			return Unwrap(inner)
		}
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = Unwrap(val)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = Unwrap(val)
		}
		return result

	default:
		return data
	}
}

// envelope reports whether m has exactly the keys "type" and "value", with a
// string type, and returns the wrapped value.
func envelope(m map[string]any) (any, bool) {
	if len(m) != 2 {
		return nil, false
	}
	if _, ok := m["type"].(string); !ok {
		return nil, false
	}
	value, ok := m["value"]
	return value, ok
}
