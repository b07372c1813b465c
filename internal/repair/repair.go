package repair

import (
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// Apply performs the lightweight syntax repair pass on s:
//
//   - "//" line comments outside string literals are removed up to the end
//     of the line (the newline itself is kept);
//   - commas that immediately precede a closing '}' or ']', optionally
//     separated by whitespace, are removed;
//   - raw newlines, carriage returns and tabs inside string literals that are
//     not preceded by a backslash are replaced by their escape sequences.
//
// Apply(Apply(s)) == Apply(s) for every s, and valid JSON is returned as is.
func Apply(s string) string {
	out := make([]byte, 0, len(s)+16)

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
				out = append(out, c)
			case c == '\\':
				escaped = true
				out = append(out, c)
			case c == '"':
				inString = false
				out = append(out, c)
			case c == '\n':
				out = append(out, '\\', 'n')
			case c == '\r':
				out = append(out, '\\', 'r')
			case c == '\t':
				out = append(out, '\\', 't')
			default:
				out = append(out, c)
			}
			continue
		}

		switch c {
		case '"':
			inString = true
			out = append(out, c)
		case '/':
			if i+1 < len(s) && s[i+1] == '/' {
				for i < len(s) && s[i] != '\n' {
					i++
				}
				if i < len(s) {
					out = append(out, '\n')
				}
				continue
			}
			out = append(out, c)
		case '}', ']':
			out = dropTrailingCommas(out)
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// dropTrailingCommas removes every comma at the end of b that is followed
// only by whitespace, keeping the whitespace.
func dropTrailingCommas(b []byte) []byte {
	for {
		j := len(b) - 1
		for j >= 0 && isSpace(b[j]) {
			j--
		}
		if j < 0 || b[j] != ',' {
			return b
		}
		b = append(b[:j], b[j+1:]...)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

// Deep repairs s with jsonrepair. It fixes defects Apply leaves alone, such
// as single-quoted strings, unquoted keys and unclosed structures.
func Deep(s string) (string, error) {
	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return "", fmt.Errorf("failed to repair JSON: %w", err)
	}
	return repaired, nil
}
