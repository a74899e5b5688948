package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidTypeRef is returned when a type expression cannot be parsed.
var ErrInvalidTypeRef = errors.New("invalid type expression")

// TypeRefKind is the shape of a type expression.
type TypeRefKind int

const (
	TypeRefNone    TypeRefKind = iota
	TypeRefNamed               // T, int, time.Time, Pair[K, V]
	TypeRefPointer             // *T
	TypeRefSlice               // []T
	TypeRefArray               // [N]T
	TypeRefMap                 // map[K]V
)

// TypeRef is a parsed Go type expression as written in a schema file.
// It is the schema-level view of a field type used for bound inference
// and code generation.
type TypeRef struct {
	Kind TypeRefKind
	// Name is the (possibly package-qualified) name for named types.
	Name string
	// Args are the type arguments of an instantiated generic type.
	Args []TypeRef
	// Elem is the element type of pointers, slices, arrays and maps.
	Elem *TypeRef
	// Key is the key type of maps.
	Key *TypeRef
	// Len is the array length as written.
	Len string
}

// ParseTypeRef parses a Go type expression such as "map[string][]*Pair[K, V]".
// The empty string yields the zero TypeRef.
func ParseTypeRef(s string) (TypeRef, error) {
	p := &typeParser{src: s}
	p.skipSpace()

	if p.done() {
		return TypeRef{}, nil
	}

	t, err := p.parse()
	if err != nil {
		return TypeRef{}, err
	}

	p.skipSpace()

	if !p.done() {
		return TypeRef{}, p.errorf("unexpected %q", p.src[p.pos:])
	}

	return t, nil
}

// MustParseTypeRef is like ParseTypeRef but panics on error.
func MustParseTypeRef(s string) TypeRef {
	t, err := ParseTypeRef(s)
	if err != nil {
		panic(err)
	}

	return t
}

// IsZero returns true for the zero TypeRef (no type given).
func (t TypeRef) IsZero() bool {
	return t.Kind == TypeRefNone
}

// String returns the canonical Go spelling of the type.
func (t TypeRef) String() string {
	switch t.Kind {
	case TypeRefNamed:
		if len(t.Args) == 0 {
			return t.Name
		}

		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}

		return t.Name + "[" + strings.Join(args, ", ") + "]"
	case TypeRefPointer:
		return "*" + t.Elem.String()
	case TypeRefSlice:
		return "[]" + t.Elem.String()
	case TypeRefArray:
		return "[" + t.Len + "]" + t.Elem.String()
	case TypeRefMap:
		return "map[" + t.Key.String() + "]" + t.Elem.String()
	default:
		return ""
	}
}

// Param returns the parameter name if t is exactly one of params.
func (t TypeRef) Param(params []string) (string, bool) {
	if t.Kind != TypeRefNamed || len(t.Args) > 0 {
		return "", false
	}

	for _, p := range params {
		if p == t.Name {
			return p, true
		}
	}

	return "", false
}

// Mentions returns true if any of params occurs anywhere in t.
func (t TypeRef) Mentions(params []string) bool {
	if _, ok := t.Param(params); ok {
		return true
	}

	for _, a := range t.Args {
		if a.Mentions(params) {
			return true
		}
	}

	if t.Elem != nil && t.Elem.Mentions(params) {
		return true
	}

	return t.Key != nil && t.Key.Mentions(params)
}

// Substitute replaces type parameters by the given arguments.
func (t TypeRef) Substitute(args map[string]TypeRef) TypeRef {
	if t.Kind == TypeRefNamed && len(t.Args) == 0 {
		if r, ok := args[t.Name]; ok {
			return r
		}

		return t
	}

	out := t
	if len(t.Args) > 0 {
		out.Args = make([]TypeRef, len(t.Args))
		for i, a := range t.Args {
			out.Args[i] = a.Substitute(args)
		}
	}

	if t.Elem != nil {
		e := t.Elem.Substitute(args)
		out.Elem = &e
	}

	if t.Key != nil {
		k := t.Key.Substitute(args)
		out.Key = &k
	}

	return out
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TypeRef) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return errors.New("expected type expression string")
	}

	parsed, err := ParseTypeRef(s)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t TypeRef) MarshalYAML() (any, error) {
	return t.String(), nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) done() bool {
	return p.pos >= len(p.src)
}

func (p *typeParser) skipSpace() {
	for !p.done() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w %q at %d: %s", ErrInvalidTypeRef, p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) consume(prefix string) bool {
	p.skipSpace()

	if strings.HasPrefix(p.src[p.pos:], prefix) {
		p.pos += len(prefix)
		return true
	}

	return false
}

func (p *typeParser) parse() (TypeRef, error) {
	p.skipSpace()

	switch {
	case p.consume("*"):
		elem, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}

		return TypeRef{Kind: TypeRefPointer, Elem: &elem}, nil
	case p.consume("[]"):
		elem, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}

		return TypeRef{Kind: TypeRefSlice, Elem: &elem}, nil
	case p.consume("["):
		start := p.pos
		for !p.done() && p.src[p.pos] != ']' {
			p.pos++
		}

		if p.done() {
			return TypeRef{}, p.errorf("unterminated array length")
		}

		n := strings.TrimSpace(p.src[start:p.pos])
		p.pos++

		elem, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}

		return TypeRef{Kind: TypeRefArray, Len: n, Elem: &elem}, nil
	case p.consume("map["):
		key, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}

		if !p.consume("]") {
			return TypeRef{}, p.errorf("expected ] after map key")
		}

		elem, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}

		return TypeRef{Kind: TypeRefMap, Key: &key, Elem: &elem}, nil
	}

	name := p.qualifiedIdent()
	if name == "" {
		return TypeRef{}, p.errorf("expected type name")
	}

	t := TypeRef{Kind: TypeRefNamed, Name: name}

	if p.consume("[") {
		for {
			arg, err := p.parse()
			if err != nil {
				return TypeRef{}, err
			}

			t.Args = append(t.Args, arg)

			if p.consume(",") {
				continue
			}

			if p.consume("]") {
				break
			}

			return TypeRef{}, p.errorf("expected , or ] in type arguments")
		}
	}

	return t, nil
}

func (p *typeParser) qualifiedIdent() string {
	p.skipSpace()
	start := p.pos

	for !p.done() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' {
			p.pos += size
			continue
		}

		break
	}

	name := p.src[start:p.pos]
	if strings.HasPrefix(p.src[p.pos:], "{}") && name == "interface" {
		p.pos += 2
		return "interface{}"
	}

	return name
}
