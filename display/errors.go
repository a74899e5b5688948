package display

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnrecognized is returned when no template accepts the input.
	ErrUnrecognized = errors.New("input not recognized")
	// ErrNoCapability is returned when a value cannot be rendered or parsed.
	ErrNoCapability = errors.New("no display capability")
	// ErrAssert is returned when a parsed value fails its assertion.
	ErrAssert = errors.New("assertion failed")
	// ErrBinding is returned when a Go type does not fit its definition.
	ErrBinding = errors.New("invalid display binding")
)

// ParseError reports a failure to parse text into a display type.
type ParseError struct {
	Type    string
	Variant string
	// Path names the field whose text failed to parse, if any.
	Path  string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString("parse ")
	sb.WriteString(e.Type)

	if e.Variant != "" {
		sb.WriteString("::")
		sb.WriteString(e.Variant)
	}

	if e.Path != "" {
		sb.WriteString(" field ")
		sb.WriteString(e.Path)
	}

	fmt.Fprintf(&sb, " from %q: %v", e.Input, e.Err)

	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RenderError reports a failure to render a value.
type RenderError struct {
	Type string
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("render %s field %s: %v", e.Type, e.Path, e.Err)
	}

	return fmt.Sprintf("render %s: %v", e.Type, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
