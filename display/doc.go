// Package display renders Go values through display templates and parses
// text back into values.
//
// A definition (schema.TypeDef) is compiled once into render plans and
// anchored regular expressions. A Codec binds it to a Go type with
// reflection: struct fields are addressed by name or position, and enum
// variants are bound to prototype values with WithVariant.
//
// Field values are parsed with, in order, a custom capability named by the
// field's "with", a registered display type, encoding.TextUnmarshaler, the
// primitive parsers, then pointers and delimited lists of those.
package display
