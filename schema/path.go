package schema

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidPath is returned when a field path or key cannot be parsed.
var ErrInvalidPath = errors.New("invalid field path")

// FieldKey addresses one field of a type: either by name or by position.
type FieldKey struct {
	// Name is the field name for named keys.
	Name string
	// Index is the field position for positional keys.
	Index int
	// IsIndex reports whether the key is positional.
	IsIndex bool
}

// NamedKey returns a named field key.
func NamedKey(name string) FieldKey {
	return FieldKey{Name: name}
}

// PositionalKey returns a positional field key.
func PositionalKey(index int) FieldKey {
	return FieldKey{Index: index, IsIndex: true}
}

// String returns the key as it appears in template source.
func (k FieldKey) String() string {
	if k.IsIndex {
		return strconv.Itoa(k.Index)
	}

	return k.Name
}

// Compare orders positional keys before named keys, positional keys by index
// and named keys by string.
func (k FieldKey) Compare(other FieldKey) int {
	switch {
	case k.IsIndex && other.IsIndex:
		return cmp.Compare(k.Index, other.Index)
	case k.IsIndex:
		return -1
	case other.IsIndex:
		return 1
	default:
		return strings.Compare(k.Name, other.Name)
	}
}

// ParseKey parses a single path segment. Non-negative integers are positional,
// identifiers are named (a leading "r#" raw-identifier prefix is stripped).
func ParseKey(seg string) (FieldKey, error) {
	if seg == "" {
		return FieldKey{}, fmt.Errorf("%w: empty segment", ErrInvalidPath)
	}

	if isDigits(seg) {
		if len(seg) > 1 && seg[0] == '0' {
			return FieldKey{}, fmt.Errorf("%w: index %q has a leading zero", ErrInvalidPath, seg)
		}

		n, err := strconv.Atoi(seg)
		if err != nil {
			return FieldKey{}, fmt.Errorf("%w: index %q: %w", ErrInvalidPath, seg, err)
		}

		return PositionalKey(n), nil
	}

	name := strings.TrimPrefix(seg, "r#")
	if !IsIdent(name) {
		return FieldKey{}, fmt.Errorf("%w: invalid identifier %q", ErrInvalidPath, seg)
	}

	return NamedKey(name), nil
}

// FieldPath is a non-empty ordered sequence of field keys; the empty path
// denotes the value itself.
type FieldPath []FieldKey

// ParsePath parses a dot-separated field path. The empty string yields the
// empty path.
func ParsePath(path string) (FieldPath, error) {
	if path == "" {
		return nil, nil
	}

	var result FieldPath

	for part := range strings.SplitSeq(path, ".") {
		key, err := ParseKey(part)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", path, err)
		}

		result = append(result, key)
	}

	return result, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(path string) FieldPath {
	p, err := ParsePath(path)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the dot-separated form of the path.
func (p FieldPath) String() string {
	var sb strings.Builder

	for i, k := range p {
		if i > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(k.String())
	}

	return sb.String()
}

// IsEmpty returns true if the path has no segments.
func (p FieldPath) IsEmpty() bool {
	return len(p) == 0
}

// Head returns the first key and the remaining path.
func (p FieldPath) Head() (FieldKey, FieldPath) {
	if len(p) == 0 {
		return FieldKey{}, nil
	}

	return p[0], p[1:]
}

// Equal returns true if both paths have the same keys.
func (p FieldPath) Equal(other FieldPath) bool {
	if len(p) != len(other) {
		return false
	}

	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// HasPrefix returns true if prefix is a (possibly equal) prefix of p.
func (p FieldPath) HasPrefix(prefix FieldPath) bool {
	return len(prefix) <= len(p) && p[:len(prefix)].Equal(prefix)
}

// Join returns a new path made of p followed by rest.
func (p FieldPath) Join(rest FieldPath) FieldPath {
	out := make(FieldPath, 0, len(p)+len(rest))
	out = append(out, p...)

	return append(out, rest...)
}

// IsIdent reports whether s is a valid identifier.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
		} else if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return s != ""
}
