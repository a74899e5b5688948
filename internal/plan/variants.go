package plan

import (
	"fmt"
	"slices"

	"display-generator/internal/analyze"
	"display-generator/internal/diagnostic"
	"display-generator/schema"
)

// variants binds every variant of an enum to a Go prototype. Without a
// shape, variants naming a constant make a scalar enum and the others are
// taken as types implementing an interface.
func (r *Resolver) variants(def *schema.TypeDef, goType string, shape *analyze.Shape, diags *diagnostic.Diagnostics) (Form, []ResolvedVariant) {
	form := FormInterface

	switch {
	case shape != nil && shape.Kind == analyze.ShapeScalar:
		form = FormScalar
	case shape == nil && slices.ContainsFunc(def.Variants, func(v schema.Variant) bool { return v.Value != "" }):
		form = FormScalar
	}

	out := make([]ResolvedVariant, 0, len(def.Variants))

	for i := range def.Variants {
		v := &def.Variants[i]
		where := def.Name + "::" + v.Name
		rv := ResolvedVariant{Name: v.Name}

		switch form {
		case FormScalar:
			rv.Proto = v.Value
			if rv.Proto == "" {
				rv.Proto = scalarConst(goType, v.Name, shape)
			}

			if shape != nil && !slices.Contains(shape.Consts, rv.Proto) {
				diags.AddError(diagnostic.CodeSchema,
					fmt.Sprintf("no constant %s of type %s", rv.Proto, goType), where, "")
			}
		case FormInterface:
			rv.GoType = v.GoType
			if rv.GoType == "" {
				rv.GoType = v.Name
			}

			if shape != nil && shape.Kind == analyze.ShapeInterface {
				impl, ok := shape.Implements(rv.GoType)
				if !ok {
					diags.AddError(diagnostic.CodeSchema,
						fmt.Sprintf("%s does not implement %s", rv.GoType, goType), where, "")
				}

				rv.Pointer = impl.Pointer
			}

			rv.Proto = rv.GoType + "{}"
			if rv.Pointer {
				rv.Proto = "&" + rv.Proto
			}
		}

		out = append(out, rv)
	}

	return form, out
}

// scalarConst guesses the constant of a variant: the type name followed by
// the variant name when the shape declares it, else the variant name.
func scalarConst(goType, variant string, shape *analyze.Shape) string {
	prefixed := goType + variant
	if shape == nil || slices.Contains(shape.Consts, prefixed) {
		return prefixed
	}

	return variant
}
