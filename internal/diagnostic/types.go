package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"display-generator/internal/common"
)

// Codes reported by the compiler.
const (
	CodeTemplateSyntax     = "template_syntax"
	CodeFormatSpec         = "format_spec"
	CodeUnknownField       = "unknown_field"
	CodeUnreachableField   = "unreachable_field"
	CodeRegexSyntax        = "regex_syntax"
	CodeOptionalEmptyMatch = "optional_empty_match"
	CodeUnusedDefault      = "unused_default"
	CodeBoundOverride      = "explicit_bounds"
	CodeLiteralDispatch    = "literal_dispatch"
	CodeSchema             = "schema"
)

// Diagnostics holds all diagnostics produced while compiling a schema.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic is a single message.
type Diagnostic struct {
	Severity Severity
	// Code identifies the kind of diagnostic.
	Code    string
	Message string
	// Type is the type (and variant, "Type::Variant") concerned, if any.
	Type string
	// FieldPath is the field concerned, if any.
	FieldPath string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends d to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typeName, fieldPath string) {
	d.Add(Diagnostic{Severity: SeverityError, Code: code, Message: message, Type: typeName, FieldPath: fieldPath})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typeName, fieldPath string) {
	d.Add(Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Type: typeName, FieldPath: fieldPath})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typeName, fieldPath string) {
	d.Add(Diagnostic{Severity: SeverityInfo, Code: code, Message: message, Type: typeName, FieldPath: fieldPath})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge appends all diagnostics of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// All returns errors, warnings and infos in that order.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	return append(out, d.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Type != "" {
		prefix = append(prefix, "["+d.Type+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
