package compile

// Dispatch decides which variant of a sum type accepts an input.
//
// Literal variants are indexed by their exact text. A literal hit at
// declaration index i still yields to an earlier regex variant that
// matches, so the result is always the first matching variant in
// declaration order.
type Dispatch struct {
	Literals map[string]int
	// Regex lists the indexes of regex variants in declaration order.
	Regex []int
}

// Decide returns the index of the first variant accepting input. match
// reports whether the regex variant at an index matches.
func (d *Dispatch) Decide(input string, match func(index int) bool) (int, bool) {
	lit, hasLit := d.Literals[input]

	for _, i := range d.Regex {
		if hasLit && i > lit {
			break
		}

		if match(i) {
			return i, true
		}
	}

	if hasLit {
		return lit, true
	}

	return -1, false
}

// IsLiteralOnly returns true when every variant is a literal.
func (d *Dispatch) IsLiteralOnly() bool {
	return len(d.Regex) == 0
}
