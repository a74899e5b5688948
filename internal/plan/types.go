package plan

import (
	"display-generator/internal/analyze"
	"display-generator/internal/bounds"
	"display-generator/internal/compile"
	"display-generator/internal/diagnostic"
	"display-generator/schema"
)

// Plan is the final output of the resolution pipeline.
// It contains everything needed for code generation.
type Plan struct {
	// Package is the Go package name of generated files.
	Package string
	// Types is the list of resolved display types, in file order.
	Types []ResolvedType
	// Capabilities are the custom capabilities generated code registers.
	Capabilities []schema.CapabilityRef
	// Graph holds the analyzed shapes, nil when no package was loaded.
	Graph *analyze.Graph
	// Diagnostics contains all warnings and errors from resolution.
	Diagnostics diagnostic.Diagnostics
}

// Type returns the resolved type with the given schema name.
func (p *Plan) Type(name string) (*ResolvedType, bool) {
	for i := range p.Types {
		if p.Types[i].Def.Name == name {
			return &p.Types[i], true
		}
	}

	return nil, false
}

// Form is the Go form of a display type.
type Form int

const (
	// FormStruct is a struct type.
	FormStruct Form = iota
	// FormInterface is a sum type over the Go types of its variants.
	FormInterface
	// FormScalar is a named scalar type whose variants are constants.
	FormScalar
)

// String returns a human-readable form name.
func (f Form) String() string {
	switch f {
	case FormStruct:
		return "struct"
	case FormInterface:
		return "interface"
	case FormScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// ResolvedType is one display type ready for generation.
type ResolvedType struct {
	Def  *schema.TypeDef
	Unit *compile.Unit
	// Bounds lists what the type requires of its type parameters.
	Bounds *bounds.Report
	// Shape is the analyzed Go type, nil without analysis.
	Shape *analyze.Shape
	// GoType is the Go type name without type arguments.
	GoType string
	Form   Form
	// Variants lists the prototypes of an enum's variants.
	Variants []ResolvedVariant
}

// IsGeneric returns true for types with type parameters.
func (t *ResolvedType) IsGeneric() bool {
	return len(t.Def.TypeParams) > 0
}

// ResolvedVariant binds one enum variant to a Go value.
type ResolvedVariant struct {
	Name string
	// Proto is the Go expression of the variant prototype, such as
	// "Circle{}", "&Rect{}" or "ColorRed".
	Proto string
	// GoType is the variant's own Go type for interface sum types.
	GoType string
	// Pointer is set when the variant is held by pointer.
	Pointer bool
}
