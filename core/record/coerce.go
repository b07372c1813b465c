package record

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingNumber = regexp.MustCompile(`^[-+]?\d+(?:\.\d+)?`)
	firstInteger  = regexp.MustCompile(`\d+`)
)

// toString coerces scalar JSON values to a string. Lists of scalars are
// joined with ", ".
func toString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := toString(item)
			if !ok {
				return "", false
			}
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), len(parts) > 0
	}
	return "", false
}

// toFloat coerces numbers and strings starting with a number.
func toFloat(v any) (float64, bool) {
	var f float64
	switch v := v.(type) {
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		m := leadingNumber.FindString(strings.TrimSpace(v))
		if m == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// fraction splits "3/5" (or "3 / 5", "3 out of 5") into its two parts.
func fraction(v any) (received, total float64, ok bool) {
	s, isString := v.(string)
	if !isString {
		return 0, 0, false
	}
	s = strings.ToLower(strings.TrimSpace(s))
	sep := "/"
	if !strings.Contains(s, sep) {
		sep = "out of"
	}
	left, right, found := strings.Cut(s, sep)
	if !found {
		return 0, 0, false
	}
	r, okR := toFloat(strings.TrimSpace(left))
	t, okT := toFloat(strings.TrimSpace(right))
	if !okR || !okT {
		return 0, 0, false
	}
	return r, t, true
}

// toInt coerces question numbers: integers, integral floats and strings
// such as "Q3" or "3.".
func toInt(v any) (int, bool) {
	switch v := v.(type) {
	case string:
		m := firstInteger.FindString(v)
		if m == "" {
			return 0, false
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			return 0, false
		}
		return n, true
	case bool, nil:
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
