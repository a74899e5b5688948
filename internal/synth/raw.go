package synth

import (
	"errors"
	"fmt"
	"regexp/syntax"
	"strconv"
	"strings"

	"display-generator/internal/capture"
	"display-generator/schema"
)

// ErrRegexSyntax is wrapped by *RegexSyntaxError.
var ErrRegexSyntax = errors.New("regex syntax error")

// RegexSyntaxError reports a raw fragment that does not parse or uses a
// named group where it is not allowed.
type RegexSyntaxError struct {
	Pattern string
	Msg     string
	Err     error
}

func (e *RegexSyntaxError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}

		msg += e.Err.Error()
	}

	return fmt.Sprintf("regex %q: %s", e.Pattern, msg)
}

// Unwrap returns ErrRegexSyntax and the underlying parse error.
func (e *RegexSyntaxError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRegexSyntax, e.Err}
	}

	return []error{ErrRegexSyntax}
}

// Context tells where a raw fragment was supplied.
type Context int

const (
	// FieldContext is a field's own regex: the empty group name is the
	// field itself and other names are relative to the field.
	FieldContext Context = iota
	// VariantContext is a sum type or variant regex: the empty group name
	// stands for the literal variant tag.
	VariantContext
	// TypeContext is a struct's own regex, where the empty group name is
	// not allowed.
	TypeContext
)

// RawOptions configures the rewrite of a raw fragment.
type RawOptions struct {
	Context Context
	// Tag is substituted for empty-name groups in VariantContext.
	Tag string
	// Resolve maps a group name parsed as a field path to its slot.
	Resolve func(schema.FieldPath) (capture.Slot, error)
}

const tempPrefix = "__g"

// Raw parses and rewrites a caller-supplied fragment and adds it to the arena.
//
// Named groups "(?P<name>" and "(?<name>" are resolved: the empty name by
// context, any other name as a field path through opts.Resolve. Unnamed
// groups become non-capturing, so the only named groups left are slot names.
func (a *Arena) Raw(src string, opts RawOptions) (NodeID, error) {
	prepared, names, err := prescan(src)
	if err != nil {
		return 0, &RegexSyntaxError{Pattern: src, Err: err}
	}

	re, err := syntax.Parse(prepared, syntax.Perl)
	if err != nil {
		return 0, &RegexSyntaxError{Pattern: src, Err: err}
	}

	rw := &rewriter{src: src, names: names, opts: opts}

	out, err := rw.rewrite(re)
	if err != nil {
		return 0, err
	}

	return a.add(Node{Kind: KindRaw, Re: out}), nil
}

// prescan replaces every real named-group opener with a temporary name the
// regex parser accepts, returning the original names by index. Openers that
// are escaped (preceded by an odd number of backslashes), inside a character
// class or inside \Q...\E are left alone.
func prescan(src string) (string, []string, error) {
	var (
		sb      strings.Builder
		names   []string
		inClass bool
	)

	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case c == '\\':
			if i+1 < len(src) && src[i+1] == 'Q' {
				end := strings.Index(src[i+2:], `\E`)
				if end < 0 {
					sb.WriteString(src[i:])
					i = len(src)

					continue
				}

				stop := i + 2 + end + 2
				sb.WriteString(src[i:stop])
				i = stop

				continue
			}

			stop := min(i+2, len(src))
			sb.WriteString(src[i:stop])
			i = stop
		case inClass:
			if c == ']' {
				inClass = false
			}

			sb.WriteByte(c)
			i++
		case c == '[':
			inClass = true

			sb.WriteByte(c)
			i++

			if i < len(src) && src[i] == '^' {
				sb.WriteByte('^')
				i++
			}

			if i < len(src) && src[i] == ']' {
				sb.WriteByte(']')
				i++
			}
		case c == '(':
			nameStart := namedOpener(src[i:])
			if nameStart < 0 {
				sb.WriteByte(c)
				i++

				continue
			}

			nameStart += i

			gt := strings.IndexByte(src[nameStart:], '>')
			if gt < 0 {
				return "", nil, fmt.Errorf("unterminated group name at %d", i)
			}

			names = append(names, src[nameStart:nameStart+gt])
			sb.WriteString("(?P<" + tempPrefix + strconv.Itoa(len(names)-1) + ">")
			i = nameStart + gt + 1
		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String(), names, nil
}

// namedOpener returns the offset of the group name if s starts with a named
// group opener, else -1.
func namedOpener(s string) int {
	switch {
	case strings.HasPrefix(s, "(?P<"):
		return 4
	case strings.HasPrefix(s, "(?<") && !strings.HasPrefix(s, "(?<=") && !strings.HasPrefix(s, "(?<!"):
		return 3
	default:
		return -1
	}
}

type rewriter struct {
	src   string
	names []string
	opts  RawOptions
}

func (rw *rewriter) errorf(format string, args ...any) error {
	return &RegexSyntaxError{Pattern: rw.src, Msg: fmt.Sprintf(format, args...)}
}

// rewrite returns a rewritten copy of re; the input tree is not modified.
func (rw *rewriter) rewrite(re *syntax.Regexp) (*syntax.Regexp, error) {
	subs := make([]*syntax.Regexp, len(re.Sub))

	for i, sub := range re.Sub {
		s, err := rw.rewrite(sub)
		if err != nil {
			return nil, err
		}

		subs[i] = s
	}

	if re.Op != syntax.OpCapture {
		n := *re
		n.Sub = subs
		n.Sub0 = [1]*syntax.Regexp{}

		return &n, nil
	}

	if re.Name == "" {
		return subs[0], nil
	}

	idx, err := strconv.Atoi(strings.TrimPrefix(re.Name, tempPrefix))
	if err != nil || idx < 0 || idx >= len(rw.names) {
		return nil, rw.errorf("unexpected group name %q", re.Name)
	}

	name := rw.names[idx]

	if name == "" {
		switch rw.opts.Context {
		case FieldContext:
			return captureNode(capture.SelfName, subs[0]), nil
		case VariantContext:
			return literalNode(rw.opts.Tag), nil
		default:
			return nil, rw.errorf("anonymous self capture is not allowed in a struct regex")
		}
	}

	path, err := schema.ParsePath(name)
	if err != nil {
		return nil, &RegexSyntaxError{Pattern: rw.src, Msg: fmt.Sprintf("group name %q", name), Err: err}
	}

	if rw.opts.Resolve == nil {
		return nil, rw.errorf("group %q refers to a field but no fields are available", name)
	}

	slot, err := rw.opts.Resolve(path)
	if err != nil {
		return nil, err
	}

	return captureNode(slot.Name(), subs[0]), nil
}

func captureNode(name string, body *syntax.Regexp) *syntax.Regexp {
	return &syntax.Regexp{Op: syntax.OpCapture, Name: name, Sub: []*syntax.Regexp{body}}
}

func literalNode(text string) *syntax.Regexp {
	if text == "" {
		return &syntax.Regexp{Op: syntax.OpEmptyMatch}
	}

	return &syntax.Regexp{Op: syntax.OpLiteral, Rune: []rune(text)}
}
