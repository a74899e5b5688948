package schema

import (
	"errors"
	"fmt"
)

// File represents the root of a YAML display definition file.
type File struct {
	// Version of the schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Package is the Go package name of generated files.
	Package string `yaml:"package,omitempty"`

	// Runtime is the import path of the shared runtime package used by
	// generated code. Types may override it.
	Runtime string `yaml:"runtime,omitempty"`

	// Types lists the display types.
	Types []TypeDef `yaml:"types"`

	// Capabilities names Go values implementing custom "with" capabilities
	// that generated code registers.
	Capabilities []CapabilityRef `yaml:"capabilities,omitempty"`
}

// Kind distinguishes record types from sum types.
type Kind string

const (
	KindStruct Kind = "struct"
	KindEnum   Kind = "enum"
)

// WidthMode selects how padding widths are measured.
type WidthMode string

const (
	// WidthRunes counts Unicode code points.
	WidthRunes WidthMode = "runes"
	// WidthCells counts terminal display cells.
	WidthCells WidthMode = "cells"
)

// TypeDef describes one display type: its shape and its format configuration.
type TypeDef struct {
	// Name is the type name in the schema.
	Name string `yaml:"name"`

	// GoType is the Go type expression used by generated code.
	// Defaults to Name (instantiated with TypeParams).
	GoType string `yaml:"go_type,omitempty"`

	// Kind is struct or enum. Defaults to enum when variants are present.
	Kind Kind `yaml:"kind,omitempty"`

	// TypeParams are the generic type parameter names.
	TypeParams []string `yaml:"type_params,omitempty"`

	// Format is the type-level template.
	Format string `yaml:"format,omitempty"`

	// Regex is a raw regular expression used for parsing instead of the
	// regex synthesized from Format.
	Regex string `yaml:"regex,omitempty"`

	// Style is the default case style of unit variants.
	Style string `yaml:"style,omitempty"`

	// Default marks every field as falling back to its default value when
	// it does not appear in the template.
	Default bool `yaml:"default,omitempty"`

	// Bounds is an explicit list of generic bounds. When present it
	// replaces bound inference.
	Bounds BoundList `yaml:"bounds,omitempty"`

	// Runtime overrides File.Runtime for this type.
	Runtime string `yaml:"runtime,omitempty"`

	// Assert is a boolean expression evaluated after parsing.
	Assert string `yaml:"assert,omitempty"`

	// WidthMode selects rune or cell width measurement for padding.
	WidthMode WidthMode `yaml:"width_mode,omitempty"`

	// Fields lists the fields of a struct type.
	Fields []Field `yaml:"fields,omitempty"`

	// Variants lists the variants of an enum type.
	Variants []Variant `yaml:"variants,omitempty"`
}

// Field describes one field and its per-field configuration.
type Field struct {
	// Name is the field key: an identifier or a position index.
	Name string `yaml:"name"`

	// Type is the field type expression.
	Type TypeRef `yaml:"type,omitempty"`

	// GoName is the Go struct field name. Defaults to the key.
	GoName string `yaml:"go_name,omitempty"`

	// Format is a sub-template for the field. Empty placeholders in it refer
	// to the field value itself.
	Format string `yaml:"format,omitempty"`

	// Regex is a raw regular expression for the field.
	Regex string `yaml:"regex,omitempty"`

	// With names a custom capability that renders and parses the field.
	With string `yaml:"with,omitempty"`

	// Default makes the field fall back to its default when absent from
	// the template.
	Default bool `yaml:"default,omitempty"`

	// DefaultValue is text parsed with the field parser to obtain the default.
	DefaultValue *string `yaml:"default_value,omitempty"`

	// Optional makes the field's occurrence zero-or-one.
	Optional bool `yaml:"optional,omitempty"`

	// Delimiter joins the elements of slice fields.
	Delimiter string `yaml:"delimiter,omitempty"`
}

// Variant describes one alternative of an enum type.
type Variant struct {
	// Name is the variant tag.
	Name string `yaml:"name"`

	// Format is the variant template.
	Format string `yaml:"format,omitempty"`

	// Regex is a raw regular expression for the variant.
	Regex string `yaml:"regex,omitempty"`

	// Style is the case style applied to the tag.
	Style string `yaml:"style,omitempty"`

	// Default marks every variant field as defaulted when absent.
	Default bool `yaml:"default,omitempty"`

	// GoType is the Go type of the variant for interface sum types.
	GoType string `yaml:"go_type,omitempty"`

	// Value is the Go constant for scalar enum types.
	Value string `yaml:"value,omitempty"`

	// Bounds is an explicit bound list for this variant.
	Bounds BoundList `yaml:"bounds,omitempty"`

	// Fields lists the variant payload fields.
	Fields []Field `yaml:"fields,omitempty"`
}

// CapabilityRef names a Go value that implements a "with" capability.
type CapabilityRef struct {
	// Name is the capability name referenced by Field.With.
	Name string `yaml:"name"`

	// Go is the Go expression evaluating to the capability.
	Go string `yaml:"go"`

	// Package is the import path where the Go value lives.
	Package string `yaml:"package,omitempty"`
}

// BoundList is an explicit list of generic bounds such as "T: render".
// An explicit empty list still disables inference.
type BoundList struct {
	Explicit bool
	Items    []string
}

// Bounds returns an explicit bound list.
func Bounds(items ...string) BoundList {
	return BoundList{Explicit: true, Items: items}
}

// IsZero reports whether no list was given.
func (b BoundList) IsZero() bool {
	return !b.Explicit
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *BoundList) UnmarshalYAML(unmarshal func(any) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*b = Bounds(single)
		return nil
	}

	var multi []string
	if err := unmarshal(&multi); err == nil {
		*b = Bounds(multi...)
		return nil
	}

	return errors.New("expected string or list of strings for bounds")
}

// MarshalYAML implements yaml.Marshaler.
func (b BoundList) MarshalYAML() (any, error) {
	if b.Items == nil {
		return []string{}, nil
	}

	return b.Items, nil
}

// IsEnum returns true for sum types.
func (t *TypeDef) IsEnum() bool {
	return t.Kind == KindEnum
}

// Variant returns the variant with the given tag.
func (t *TypeDef) Variant(name string) (*Variant, bool) {
	for i := range t.Variants {
		if t.Variants[i].Name == name {
			return &t.Variants[i], true
		}
	}

	return nil, false
}

// Field returns the field with the given key.
func (t *TypeDef) Field(key FieldKey) (*Field, bool) {
	return lookupField(t.Fields, key)
}

// IsUnit returns true if the variant carries no fields.
func (v *Variant) IsUnit() bool {
	return len(v.Fields) == 0
}

// Field returns the variant field with the given key.
func (v *Variant) Field(key FieldKey) (*Field, bool) {
	return lookupField(v.Fields, key)
}

// Key parses the field name into a FieldKey.
func (f *Field) Key() (FieldKey, error) {
	key, err := ParseKey(f.Name)
	if err != nil {
		return FieldKey{}, fmt.Errorf("field %q: %w", f.Name, err)
	}

	return key, nil
}

// GoFieldName returns the Go struct field name for named fields.
func (f *Field) GoFieldName() string {
	if f.GoName != "" {
		return f.GoName
	}

	return f.Name
}

// HasParseOverride reports whether the field brings its own parse capability.
func (f *Field) HasParseOverride() bool {
	return f.With != ""
}

func lookupField(fields []Field, key FieldKey) (*Field, bool) {
	for i := range fields {
		k, err := fields[i].Key()
		if err == nil && k == key {
			return &fields[i], true
		}
	}

	return nil, false
}
