package primitive

// CategoryEnum selects the lenient textual forms Parse accepts on top of
// the canonical ones. The canonical forms are what rendering produces:
// decimal or base-N numbers, true/false, RFC 3339 times and Go durations.
type CategoryEnum int

const (
	CategoryPrefixedNumber CategoryEnum = 1 << iota // 0x, 0o, 0b prefixed integers in decimal placeholders
	CategoryNumericBool                             // 0, 1 representation of boolean values
	CategoryTextualBool                             // yes, no, on, off representation of boolean values (any case)
	CategoryTimestamp                               // int(Unix seconds) -> time.Time
	CategorySeconds                                 // float(seconds) -> time.Duration

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // canonical forms only
)

// Has returns true if every category in other is enabled.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}
