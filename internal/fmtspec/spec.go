package fmtspec

import (
	"strconv"
	"strings"
)

// Align is the alignment of padded output.
type Align int

const (
	AlignNone Align = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// Sign is the sign flag.
type Sign int

const (
	SignNone Sign = iota
	SignPlus
	SignMinus
)

// CountKind tells how a width or precision is obtained.
type CountKind int

const (
	CountNone  CountKind = iota
	CountValue           // literal integer
	CountIndex           // <index>$: positional argument
	CountName            // <name>$: named argument
	CountNext            // *: next input argument (precision only)
)

// Count is a width or precision.
type Count struct {
	Kind  CountKind
	Value int
	Name  string
}

// Value returns a literal count.
func Value(n int) Count { return Count{Kind: CountValue, Value: n} }

// Index returns a positional argument reference.
func Index(n int) Count { return Count{Kind: CountIndex, Value: n} }

// Name returns a named argument reference.
func Name(s string) Count { return Count{Kind: CountName, Name: s} }

// Next returns the "take next argument" precision.
func Next() Count { return Count{Kind: CountNext} }

// IsSet returns true if a count was given.
func (c Count) IsSet() bool { return c.Kind != CountNone }

// String returns the count as written in a format spec.
func (c Count) String() string {
	switch c.Kind {
	case CountValue:
		return strconv.Itoa(c.Value)
	case CountIndex:
		return strconv.Itoa(c.Value) + "$"
	case CountName:
		return c.Name + "$"
	case CountNext:
		return "*"
	default:
		return ""
	}
}

// Kind is the render kind selected by the trailing type indicator.
type Kind int

const (
	Plain Kind = iota
	Debug
	DebugHexLower
	DebugHexUpper
	Octal
	HexLower
	HexUpper
	Pointer
	Binary
	ExpLower
	ExpUpper
)

var kindIndicators = map[string]Kind{
	"":   Plain,
	"?":  Debug,
	"x?": DebugHexLower,
	"X?": DebugHexUpper,
	"o":  Octal,
	"x":  HexLower,
	"X":  HexUpper,
	"p":  Pointer,
	"b":  Binary,
	"e":  ExpLower,
	"E":  ExpUpper,
}

// Indicator returns the trailing type indicator of the kind.
func (k Kind) Indicator() string {
	for s, kk := range kindIndicators {
		if kk == k {
			return s
		}
	}

	return ""
}

// Base returns the integer base implied by the kind (10 when not a base kind).
func (k Kind) Base() int {
	switch k {
	case Octal:
		return 8
	case HexLower, HexUpper, DebugHexLower, DebugHexUpper:
		return 16
	case Binary:
		return 2
	default:
		return 10
	}
}

// IsDebug returns true for the debug kinds.
func (k Kind) IsDebug() bool {
	return k == Debug || k == DebugHexLower || k == DebugHexUpper
}

// Spec is a parsed format spec. The zero value is the default spec: no fill,
// no alignment, no sign, not alternate, not zero-padded, no width, no
// precision, plain kind.
type Spec struct {
	// Fill is the padding character; 0 means none was given.
	Fill      rune
	Align     Align
	Sign      Sign
	Alternate bool
	Zero      bool
	Width     Count
	Precision Count
	Kind      Kind
}

// IsZero returns true for the default spec.
func (s Spec) IsZero() bool {
	return s == Spec{}
}

// FillRune returns the fill character, defaulting to a space.
func (s Spec) FillRune() rune {
	if s.Fill == 0 {
		return ' '
	}

	return s.Fill
}

// String returns the canonical spec text; Parse(s.String()) == s.
func (s Spec) String() string {
	var sb strings.Builder

	if s.Align != AlignNone {
		if s.Fill != 0 {
			sb.WriteRune(s.Fill)
		}

		sb.WriteByte("?<>^"[s.Align])
	}

	switch s.Sign {
	case SignPlus:
		sb.WriteByte('+')
	case SignMinus:
		sb.WriteByte('-')
	case SignNone:
	}

	if s.Alternate {
		sb.WriteByte('#')
	}

	if s.Zero {
		sb.WriteByte('0')
	}

	sb.WriteString(s.Width.String())

	if s.Precision.IsSet() {
		sb.WriteByte('.')
		sb.WriteString(s.Precision.String())
	}

	sb.WriteString(s.Kind.Indicator())

	return sb.String()
}
