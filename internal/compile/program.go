package compile

import (
	"display-generator/internal/capture"
	"display-generator/internal/diagnostic"
	"display-generator/internal/fmtspec"
	"display-generator/schema"
)

// SegmentKind discriminates render segments.
type SegmentKind int

const (
	// SegLiteral writes Text.
	SegLiteral SegmentKind = iota
	// SegField writes the value at Path.
	SegField
	// SegSelf writes the value being rendered (inside a field format).
	SegSelf
	// SegTag writes the rendered variant tag.
	SegTag
)

// Segment is one step of a render plan.
type Segment struct {
	Kind SegmentKind
	Text string
	// Path is relative to the value the plan renders.
	Path schema.FieldPath
	Spec fmtspec.Spec
	// Field is the configuration of the field at Path when Path is a
	// single key.
	Field *schema.Field
	// Sub is the field's own format.
	Sub *RenderPlan
}

// RenderPlan renders a value as a sequence of segments.
type RenderPlan struct {
	Template string
	Segments []Segment
}

// Source tells where a field's base value comes from.
type Source int

const (
	// FromCapture parses the field's top-level capture.
	FromCapture Source = iota
	// FromDefault uses the field's default.
	FromDefault
	// FromZero starts from the zero value before deep assignments.
	FromZero
)

func (s Source) String() string {
	switch s {
	case FromCapture:
		return "capture"
	case FromDefault:
		return "default"
	case FromZero:
		return "zero"
	default:
		return "unknown"
	}
}

// DeepAssign parses one deep capture into a sub-path of a field.
type DeepAssign struct {
	// Path is the tail below the field.
	Path  schema.FieldPath
	Group string
	// Spec is the format spec of the placeholder the group captures.
	Spec fmtspec.Spec
}

// FieldPlan reconstructs one field after a match.
type FieldPlan struct {
	Key    schema.FieldKey
	Field  *schema.Field
	Source Source
	// Group is the top-level capture group when Source is FromCapture.
	Group string
	Spec  fmtspec.Spec
	// Deep assignments run after the base value, prefix paths first.
	Deep []DeepAssign
}

// Capture describes one named group of a pattern.
type Capture struct {
	Group string
	Slot  capture.Slot
	Path  schema.FieldPath
}

// Program is the parse program of a struct or a variant.
type Program struct {
	// Literal is the exact input accepted when IsLiteral.
	Literal   string
	IsLiteral bool
	// Pattern is the anchored regular expression.
	Pattern  string
	Captures []Capture
	Fields   []FieldPlan
}

// Variant is one compiled alternative of a sum type.
type Variant struct {
	Index int
	Name  string
	// Tag is the case-transformed tag.
	Tag     string
	Def     *schema.Variant
	Render  *RenderPlan
	Program *Program
}

// Usage records how a template exercises a field, for bound inference.
type Usage struct {
	Variant string
	Field   *schema.Field
	// Path is the full path from the type or variant root.
	Path   schema.FieldPath
	Render bool
	Parse  bool
}

// Unit is a compiled type.
type Unit struct {
	Def *schema.TypeDef
	// Render and Program are set for structs.
	Render  *RenderPlan
	Program *Program
	// Variants and Dispatch are set for enums.
	Variants    []*Variant
	Dispatch    Dispatch
	Usage       []Usage
	Diagnostics diagnostic.Diagnostics
}

// Name returns the compiled type name.
func (u *Unit) Name() string {
	return u.Def.Name
}

// Variant returns the compiled variant with the given name.
func (u *Unit) Variant(name string) (*Variant, bool) {
	for _, v := range u.Variants {
		if v.Name == name {
			return v, true
		}
	}

	return nil, false
}
