package primitive

// Pattern returns a regular expression matching the canonical text of kind
// in the given integer base, or "" when any text may be valid.
func Pattern(kind KindEnum, base int) string {
	switch {
	case kind.IsInteger():
		sign := `[+-]?`
		if kind.IsUnsigned() {
			sign = `\+?`
		}

		switch base {
		case 16:
			return sign + `(?:0[xX])?[0-9a-fA-F]+`
		case 8:
			return sign + `(?:0[oO])?[0-7]+`
		case 2:
			return sign + `(?:0[bB])?[01]+`
		default:
			return sign + `[0-9]+`
		}
	case kind.IsFloat():
		return `[+-]?(?:(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?|(?i:inf|infinity|nan))`
	case kind == KindBool:
		return `true|false`
	case kind == KindDuration:
		return `[+-]?(?:0|(?:[0-9]+(?:\.[0-9]*)?(?:ns|us|µs|μs|ms|s|m|h))+)`
	default:
		return ""
	}
}
