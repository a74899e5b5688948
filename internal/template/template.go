package template

import (
	"errors"
	"fmt"
	"strings"

	"display-generator/schema"
)

// ErrSyntax is the sentinel wrapped by every *SyntaxError.
var ErrSyntax = errors.New("template syntax error")

// Span is a half-open byte range [Start, End) of the template source.
type Span struct {
	Start int
	End   int
}

// SyntaxError reports malformed placeholders or brace nesting.
type SyntaxError struct {
	Source string
	Span   Span
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template %q at %d..%d: %s", e.Source, e.Span.Start, e.Span.End, e.Msg)
}

// Unwrap returns ErrSyntax.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Kind discriminates tokens.
type Kind int

const (
	Literal Kind = iota
	EscapedBrace
	Placeholder
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case EscapedBrace:
		return "escaped_brace"
	case Placeholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Token is one element of a parsed template.
type Token struct {
	Kind Kind
	Span Span
	// Text is the literal text, or "{" / "}" for escaped braces.
	Text string
	// Path is the placeholder's field path; empty means the value itself.
	Path schema.FieldPath
	// Spec is the raw format spec after ':'.
	Spec string
	// HasSpec reports whether a ':' was present.
	HasSpec bool
}

// Template is an immutable parsed template.
type Template struct {
	Source string
	Tokens []Token
}

// Parse tokenizes a template. "{{" and "}}" escape literal braces; "{" opens
// a placeholder "{path[:spec]}".
func Parse(src string) (*Template, error) {
	t := &Template{Source: src}

	litStart := 0

	flush := func(end int) {
		if end > litStart {
			t.Tokens = append(t.Tokens, Token{
				Kind: Literal,
				Span: Span{Start: litStart, End: end},
				Text: src[litStart:end],
			})
		}
	}

	for i := 0; i < len(src); {
		switch src[i] {
		case '{':
			flush(i)

			if i+1 < len(src) && src[i+1] == '{' {
				t.Tokens = append(t.Tokens, Token{Kind: EscapedBrace, Span: Span{Start: i, End: i + 2}, Text: "{"})
				i += 2
				litStart = i

				continue
			}

			tok, err := parsePlaceholder(src, i)
			if err != nil {
				return nil, err
			}

			t.Tokens = append(t.Tokens, tok)
			i = tok.Span.End
			litStart = i
		case '}':
			if i+1 < len(src) && src[i+1] == '}' {
				flush(i)
				t.Tokens = append(t.Tokens, Token{Kind: EscapedBrace, Span: Span{Start: i, End: i + 2}, Text: "}"})
				i += 2
				litStart = i

				continue
			}

			return nil, &SyntaxError{Source: src, Span: Span{Start: i, End: i + 1}, Msg: "unmatched '}'"}
		default:
			i++
		}
	}

	flush(len(src))

	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string) *Template {
	t, err := Parse(src)
	if err != nil {
		panic(err)
	}

	return t
}

func parsePlaceholder(src string, start int) (Token, error) {
	end := -1

	for j := start + 1; j < len(src); j++ {
		if src[j] == '}' {
			end = j
			break
		}

		if src[j] == '{' {
			return Token{}, &SyntaxError{
				Source: src,
				Span:   Span{Start: start, End: j + 1},
				Msg:    "unexpected '{' inside placeholder",
			}
		}
	}

	if end < 0 {
		return Token{}, &SyntaxError{Source: src, Span: Span{Start: start, End: len(src)}, Msg: "unterminated placeholder"}
	}

	body := src[start+1 : end]
	pathText, spec, hasSpec := strings.Cut(body, ":")

	path, err := schema.ParsePath(pathText)
	if err != nil {
		return Token{}, &SyntaxError{
			Source: src,
			Span:   Span{Start: start + 1, End: start + 1 + len(pathText)},
			Msg:    err.Error(),
		}
	}

	return Token{
		Kind:    Placeholder,
		Span:    Span{Start: start, End: end + 1},
		Path:    path,
		Spec:    spec,
		HasSpec: hasSpec,
	}, nil
}

// Placeholders returns the placeholder tokens in order.
func (t *Template) Placeholders() []Token {
	var out []Token

	for _, tok := range t.Tokens {
		if tok.Kind == Placeholder {
			out = append(out, tok)
		}
	}

	return out
}

// IsLiteral returns true if the template has no placeholders.
func (t *Template) IsLiteral() bool {
	for _, tok := range t.Tokens {
		if tok.Kind == Placeholder {
			return false
		}
	}

	return true
}

// LiteralText concatenates literal and escaped-brace text, skipping placeholders.
func (t *Template) LiteralText() string {
	var sb strings.Builder

	for _, tok := range t.Tokens {
		if tok.Kind != Placeholder {
			sb.WriteString(tok.Text)
		}
	}

	return sb.String()
}

// String reprints the template source.
func (t *Template) String() string {
	return t.Source
}
