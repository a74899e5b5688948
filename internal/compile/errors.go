package compile

import (
	"errors"
	"fmt"

	"display-generator/internal/capture"
	"display-generator/internal/fmtspec"
	"display-generator/internal/synth"
	"display-generator/internal/template"
	"display-generator/schema"
)

// Sentinels for errors.Is on compile failures.
var (
	ErrTemplateSyntax   = template.ErrSyntax
	ErrFormatSpec       = fmtspec.ErrInvalid
	ErrUnknownField     = capture.ErrUnknownField
	ErrUnreachableField = errors.New("unreachable field")
	ErrRegexSyntax      = synth.ErrRegexSyntax
)

// RegexSyntaxError reports an invalid raw regex fragment.
type RegexSyntaxError = synth.RegexSyntaxError

// UnreachableFieldError reports a field that never appears in the template
// or regex and has no default.
type UnreachableFieldError struct {
	Field schema.FieldKey
}

func (e *UnreachableFieldError) Error() string {
	return fmt.Sprintf("field %q never appears in the template and has no default", e.Field.String())
}

// Unwrap returns ErrUnreachableField.
func (e *UnreachableFieldError) Unwrap() error {
	return ErrUnreachableField
}

// Error adds the type and variant context to a compile failure.
type Error struct {
	Type    string
	Variant string
	Err     error
}

func (e *Error) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("compile %s::%s: %v", e.Type, e.Variant, e.Err)
	}

	return fmt.Sprintf("compile %s: %v", e.Type, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
