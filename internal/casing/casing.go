package casing

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnknownStyle is returned by Parse for unrecognized style names.
var ErrUnknownStyle = errors.New("unknown case style")

// Style is a casing convention applied to identifier-like tags.
type Style int

const (
	None Style = iota
	Lower
	Upper
	Snake
	UpperSnake
	LowerCamel
	UpperCamel
	Kebab
	UpperKebab
	TitleCase
	TitleCaseHead
	TitleCaseLower
	TitleCaseUpper
)

var names = map[Style]string{
	None:           "none",
	Lower:          "lowercase",
	Upper:          "UPPERCASE",
	Snake:          "snake_case",
	UpperSnake:     "SNAKE_CASE",
	LowerCamel:     "camelCase",
	UpperCamel:     "CamelCase",
	Kebab:          "kebab-case",
	UpperKebab:     "KEBAB-CASE",
	TitleCase:      "Title Case",
	TitleCaseHead:  "Title case",
	TitleCaseLower: "title case",
	TitleCaseUpper: "TITLE CASE",
}

// Parse returns the style with the given name. An empty name is None.
func Parse(name string) (Style, error) {
	if name == "" {
		return None, nil
	}

	for s, n := range names {
		if n == name {
			return s, nil
		}
	}

	return None, fmt.Errorf("%w %q", ErrUnknownStyle, name)
}

// String returns the style name as accepted by Parse.
func (s Style) String() string {
	if n, ok := names[s]; ok {
		return n
	}

	return fmt.Sprintf("Style(%d)", int(s))
}

type wordCase int

const (
	caseLower wordCase = iota
	caseUpper
)

// rule is one row of the style table: the separator, and the casing of the
// first letter and of the rest of each word. The head fields apply to the
// first word only.
type rule struct {
	sep       string
	headFirst wordCase
	headRest  wordCase
	first     wordCase
	rest      wordCase
}

var rules = map[Style]rule{
	Lower:          {"", caseLower, caseLower, caseLower, caseLower},
	Upper:          {"", caseUpper, caseUpper, caseUpper, caseUpper},
	Snake:          {"_", caseLower, caseLower, caseLower, caseLower},
	UpperSnake:     {"_", caseUpper, caseUpper, caseUpper, caseUpper},
	LowerCamel:     {"", caseLower, caseLower, caseUpper, caseLower},
	UpperCamel:     {"", caseUpper, caseLower, caseUpper, caseLower},
	Kebab:          {"-", caseLower, caseLower, caseLower, caseLower},
	UpperKebab:     {"-", caseUpper, caseUpper, caseUpper, caseUpper},
	TitleCase:      {" ", caseUpper, caseLower, caseUpper, caseLower},
	TitleCaseHead:  {" ", caseUpper, caseLower, caseLower, caseLower},
	TitleCaseLower: {" ", caseLower, caseLower, caseLower, caseLower},
	TitleCaseUpper: {" ", caseUpper, caseUpper, caseUpper, caseUpper},
}

// Apply converts ident to the style. None returns ident unchanged.
func (s Style) Apply(ident string) string {
	r, ok := rules[s]
	if !ok {
		return ident
	}

	var sb strings.Builder

	sb.Grow(len(ident) + 4)

	for i, word := range Words(ident) {
		first, rest := r.first, r.rest
		if i == 0 {
			first, rest = r.headFirst, r.headRest
		} else {
			sb.WriteString(r.sep)
		}

		for j, c := range word {
			wc := rest
			if j == 0 {
				wc = first
			}

			if wc == caseUpper {
				sb.WriteRune(unicode.ToUpper(c))
			} else {
				sb.WriteRune(unicode.ToLower(c))
			}
		}
	}

	return sb.String()
}

// Words splits an identifier into words. A word starts at each transition
// from a non-uppercase to an uppercase letter and after every run of
// non-alphanumeric separators; separators are dropped.
func Words(ident string) []string {
	var (
		words   []string
		current []rune
		prev    rune
		hasPrev bool
	)

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for _, c := range ident {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			flush()

			hasPrev = false

			continue
		}

		if hasPrev && unicode.IsUpper(c) && !unicode.IsUpper(prev) {
			flush()
		}

		current = append(current, c)
		prev, hasPrev = c, true
	}

	flush()

	return words
}
