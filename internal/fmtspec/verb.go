package fmtspec

import (
	"strconv"
	"strings"
)

// Class is the broad category of a rendered value.
type Class int

const (
	ClassOther Class = iota
	ClassString
	ClassInt
	ClassFloat
)

// IsNumeric returns true for integers and floats.
func (c Class) IsNumeric() bool {
	return c == ClassInt || c == ClassFloat
}

// PadsWithFmt returns true when padding is delegated to fmt (zero flag on a
// numeric value).
func (s Spec) PadsWithFmt(c Class) bool {
	return s.Zero && c.IsNumeric()
}

// EffectiveAlign returns the alignment to pad with: the explicit one, else
// right for numbers and left for everything else.
func (s Spec) EffectiveAlign(c Class) Align {
	if s.Align != AlignNone {
		return s.Align
	}

	if c.IsNumeric() {
		return AlignRight
	}

	return AlignLeft
}

// Verb builds the fmt directive ("%+#08.3f" style) for a value of class c.
// width and prec are the resolved counts, negative when absent. The width is
// only part of the directive when padding is delegated to fmt.
func (s Spec) Verb(c Class, width, prec int) string {
	var flags strings.Builder

	if s.Sign == SignPlus {
		flags.WriteByte('+')
	}

	verb := "v"

	switch s.Kind {
	case Plain:
		if c == ClassFloat && prec >= 0 {
			verb = "f"
		}
	case Debug:
		switch {
		case s.Alternate:
			flags.WriteByte('#')
		case c == ClassString:
			verb = "q"
		case c == ClassFloat && prec >= 0:
			verb = "f"
		}
	case DebugHexLower, HexLower:
		verb = "x"
	case DebugHexUpper, HexUpper:
		verb = "X"
	case Octal:
		verb = "o"
		if s.Alternate {
			verb = "O"
		}
	case Pointer:
		verb = "p"
	case Binary:
		verb = "b"
	case ExpLower:
		verb = "e"
	case ExpUpper:
		verb = "E"
	}

	prefixed := verb == "O"
	if s.Alternate && (verb == "x" || verb == "X" || verb == "b") {
		flags.WriteByte('#')

		prefixed = true
	}

	// fmt pads after the base prefix; the width here includes it.
	if prefixed && c == ClassInt {
		width -= 2
	}

	if s.PadsWithFmt(c) && width > 0 {
		flags.WriteByte('0')
		flags.WriteString(strconv.Itoa(width))
	}

	if prec >= 0 {
		flags.WriteByte('.')
		flags.WriteString(strconv.Itoa(prec))
	}

	return "%" + flags.String() + verb
}
