package compile

import (
	"display-generator/internal/fmtspec"
	"display-generator/primitive"
	"display-generator/schema"
)

// PrimitiveHint returns the pattern of a primitive kind as rendered with
// spec. It reports false when the rendered text has no fixed shape: a fill
// rune may surround it, or the format spec selects a form the primitive parsers
// do not read back.
func PrimitiveHint(kind primitive.KindEnum, spec fmtspec.Spec) (string, bool) {
	class := ClassOf(kind)

	if spec.Width.IsSet() && !spec.PadsWithFmt(class) {
		return "", false
	}

	switch {
	case kind.IsInteger():
		if spec.Kind == fmtspec.Pointer || spec.Kind == fmtspec.ExpLower || spec.Kind == fmtspec.ExpUpper {
			return "", false
		}
	case kind.IsFloat():
		if spec.Kind.Base() != 10 || spec.Kind == fmtspec.Pointer {
			return "", false
		}
	case kind == primitive.KindBool, kind == primitive.KindDuration:
		if spec.Kind != fmtspec.Plain && spec.Kind != fmtspec.Debug {
			return "", false
		}
	default:
		return "", false
	}

	p := primitive.Pattern(kind, spec.Kind.Base())

	return p, p != ""
}

// ClassOf returns the rendering class of a primitive kind.
func ClassOf(kind primitive.KindEnum) fmtspec.Class {
	switch {
	case kind.IsInteger():
		return fmtspec.ClassInt
	case kind.IsFloat():
		return fmtspec.ClassFloat
	case kind == primitive.KindString:
		return fmtspec.ClassString
	default:
		return fmtspec.ClassOther
	}
}

// StaticHint derives capture patterns from schema type expressions alone.
// It serves tools that compile definitions without the Go types at hand.
func StaticHint(req HintRequest) (string, bool) {
	if req.With != "" {
		return "", false
	}

	t := req.Type
	if req.Element {
		if t.Kind != schema.TypeRefSlice && t.Kind != schema.TypeRefArray {
			return "", false
		}

		t = *t.Elem
	}

	for t.Kind == schema.TypeRefPointer {
		t = *t.Elem
	}

	if t.Kind != schema.TypeRefNamed || len(t.Args) > 0 {
		return "", false
	}

	kind, ok := primitive.FromName(t.Name)
	if !ok {
		return "", false
	}

	return PrimitiveHint(kind, req.Spec)
}
