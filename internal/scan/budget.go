package scan

// Budget bounds the total number of bytes examined by a series of scans over
// the same input. Scanning from every '[' of an adversarial text is quadratic;
// a budget turns that into a hard ceiling.
//
// A Budget is not safe for concurrent use. Create one per extraction.
type Budget struct {
	remaining int
	unlimited bool
}

// NewBudget returns a budget allowing n examined bytes. A value of zero or
// less yields an unlimited budget.
func NewBudget(n int) *Budget {
	if n <= 0 {
		return &Budget{unlimited: true}
	}
	return &Budget{remaining: n}
}

// Exhausted reports whether no further bytes may be examined.
func (b *Budget) Exhausted() bool {
	if b == nil || b.unlimited {
		return false
	}
	return b.remaining <= 0
}

// Remaining returns the bytes still available, or -1 for an unlimited budget.
func (b *Budget) Remaining() int {
	if b == nil || b.unlimited {
		return -1
	}
	return b.remaining
}

// Balanced behaves like the package-level Balanced but charges the examined
// bytes against the budget. A scan that runs out of budget before closing
// reports no span. A nil budget is unlimited.
func (b *Budget) Balanced(text string, start int) (Span, bool) {
	if b == nil || b.unlimited {
		return Balanced(text, start)
	}
	if b.remaining <= 0 {
		return Span{}, false
	}
	span, ok, used := balanced(text, start, b.remaining)
	b.remaining -= used
	return span, ok
}
