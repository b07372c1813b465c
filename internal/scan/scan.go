package scan

// Kind identifies the opening delimiter of a span.
type Kind int

const (
	// Object is a span opened by '{'.
	Object Kind = iota + 1
	// Array is a span opened by '['.
	Array
)

// String returns "object" or "array".
func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return "unknown"
	}
}

// KindOf reports the span kind that the byte c opens.
func KindOf(c byte) (Kind, bool) {
	switch c {
	case '{':
		return Object, true
	case '[':
		return Array, true
	}
	return 0, false
}

func (k Kind) delimiters() (open, close byte) {
	if k == Array {
		return '[', ']'
	}
	return '{', '}'
}

// Span is a balanced region of a text. End is exclusive.
type Span struct {
	Start int
	End   int
	Kind  Kind
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Text returns the substring of src covered by the span.
func (s Span) Text(src string) string {
	return src[s.Start:s.End]
}

// state is the lexical state of the scanner.
type state int

const (
	neutral state = iota
	inString
	escaped
)

// Balanced scans text from start, which must index '{' or '[', and returns the
// span that ends at the matching closing delimiter.
//
// Only delimiters of the opening kind are counted: when scanning an array,
// braces are ignored and vice versa. Quoted-string contents never affect the
// depth, and a backslash inside a string consumes the following byte.
//
// The boolean is false when start does not point at an opening delimiter or
// when the text ends before the span closes.
//
// Example:
//
//	span, ok := scan.Balanced(`{"a": "}"}`, 0)
//	// ok == true, span.End == 10
func Balanced(text string, start int) (Span, bool) {
	span, ok, _ := balanced(text, start, -1)
	return span, ok
}

// balanced is the state machine behind Balanced. A negative limit means no
// limit; otherwise at most limit bytes are examined. The third result is the
// number of bytes examined.
func balanced(text string, start, limit int) (Span, bool, int) {
	if start < 0 || start >= len(text) {
		return Span{}, false, 0
	}
	kind, ok := KindOf(text[start])
	if !ok {
		return Span{}, false, 0
	}
	open, close := kind.delimiters()

	st := neutral
	depth := 0
	examined := 0
	for i := start; i < len(text); i++ {
		if limit >= 0 && examined >= limit {
			return Span{}, false, examined
		}
		examined++

		c := text[i]
		switch st {
		case escaped:
			st = inString
		case inString:
			switch c {
			case '\\':
				st = escaped
			case '"':
				st = neutral
			}
		case neutral:
			switch c {
			case '"':
				st = inString
			case open:
				depth++
			case close:
				depth--
				if depth == 0 {
					return Span{Start: start, End: i + 1, Kind: kind}, true, examined
				}
			}
		}
	}
	return Span{}, false, examined
}

// Starts returns the offsets of every occurrence of open in text, in order.
// At most limit offsets are returned; a limit of zero or less means no limit.
func Starts(text string, open byte, limit int) []int {
	var starts []int
	for i := 0; i < len(text); i++ {
		if text[i] != open {
			continue
		}
		starts = append(starts, i)
		if limit > 0 && len(starts) >= limit {
			break
		}
	}
	return starts
}
