package fmtspec

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// ErrInvalid is the sentinel wrapped by every *Error.
var ErrInvalid = errors.New("invalid format spec")

// Error reports a malformed format spec.
type Error struct {
	Spec string
	Pos  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("format spec %q at %d: %s", e.Spec, e.Pos, e.Msg)
}

// Unwrap returns ErrInvalid.
func (e *Error) Unwrap() error {
	return ErrInvalid
}

// Parse parses a format spec following the standard Rust grammar:
//
//	[[fill]align][sign]['#']['0'][width]['.' precision][type]
func Parse(src string) (Spec, error) {
	p := &parser{src: src, rs: []rune(src)}

	return p.parse()
}

// MustParse is like Parse but panics on error.
func MustParse(src string) Spec {
	s, err := Parse(src)
	if err != nil {
		panic(err)
	}

	return s
}

type parser struct {
	src string
	rs  []rune
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &Error{Spec: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) peek(offset int) (rune, bool) {
	if p.pos+offset >= len(p.rs) {
		return 0, false
	}

	return p.rs[p.pos+offset], true
}

func alignOf(r rune) (Align, bool) {
	switch r {
	case '<':
		return AlignLeft, true
	case '>':
		return AlignRight, true
	case '^':
		return AlignCenter, true
	default:
		return AlignNone, false
	}
}

func (p *parser) parse() (Spec, error) {
	var s Spec

	if second, ok := p.peek(1); ok {
		if a, isAlign := alignOf(second); isAlign {
			s.Fill = p.rs[0]
			s.Align = a
			p.pos += 2
		}
	}

	if s.Align == AlignNone {
		if first, ok := p.peek(0); ok {
			if a, isAlign := alignOf(first); isAlign {
				s.Align = a
				p.pos++
			}
		}
	}

	if r, ok := p.peek(0); ok && (r == '+' || r == '-') {
		s.Sign = SignPlus
		if r == '-' {
			s.Sign = SignMinus
		}

		p.pos++
	}

	if r, ok := p.peek(0); ok && r == '#' {
		s.Alternate = true
		p.pos++
	}

	if r, ok := p.peek(0); ok && r == '0' {
		if next, ok := p.peek(1); !ok || next != '$' {
			s.Zero = true
			p.pos++
		}
	}

	width, err := p.count(false)
	if err != nil {
		return Spec{}, err
	}

	s.Width = width

	if r, ok := p.peek(0); ok && r == '.' {
		p.pos++

		prec, err := p.count(true)
		if err != nil {
			return Spec{}, err
		}

		if !prec.IsSet() {
			return Spec{}, p.errorf("expected precision after '.'")
		}

		s.Precision = prec
	}

	rest := string(p.rs[p.pos:])

	kind, ok := kindIndicators[rest]
	if !ok {
		return Spec{}, p.errorf("unknown format type %q", rest)
	}

	s.Kind = kind

	return s, nil
}

// count parses an optional width or precision. Identifiers not followed by
// '$' are left for the type indicator when parsing a width.
func (p *parser) count(precision bool) (Count, error) {
	r, ok := p.peek(0)
	if !ok {
		return Count{}, nil
	}

	if precision && r == '*' {
		p.pos++
		return Next(), nil
	}

	start := p.pos

	if unicode.IsDigit(r) && r < unicode.MaxASCII {
		for {
			c, ok := p.peek(0)
			if !ok || c < '0' || c > '9' {
				break
			}

			p.pos++
		}

		n, err := strconv.Atoi(string(p.rs[start:p.pos]))
		if err != nil {
			return Count{}, p.errorf("invalid count: %v", err)
		}

		if c, ok := p.peek(0); ok && c == '$' {
			p.pos++
			return Index(n), nil
		}

		return Value(n), nil
	}

	if unicode.IsLetter(r) || r == '_' {
		for {
			c, ok := p.peek(0)
			if !ok || !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_') {
				break
			}

			p.pos++
		}

		name := string(p.rs[start:p.pos])

		if c, ok := p.peek(0); ok && c == '$' {
			p.pos++
			return Name(name), nil
		}

		p.pos = start

		if precision {
			return Count{}, p.errorf("precision %q must be an integer, '*' or end with '$'", name)
		}
	}

	return Count{}, nil
}
