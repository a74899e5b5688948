package compile

import (
	"errors"
	"fmt"

	"display-generator/internal/casing"
	"display-generator/internal/diagnostic"
	"display-generator/internal/fmtspec"
	"display-generator/internal/synth"
	"display-generator/schema"
)

// HintRequest asks for a capability pattern for the value at Path.
type HintRequest struct {
	// Variant is the variant being compiled, empty for structs.
	Variant string
	Path    schema.FieldPath
	Type    schema.TypeRef
	// Element is set when the pattern is for one element of a delimited list.
	Element bool
	// Spec is the format spec of the placeholder the value appears in.
	Spec fmtspec.Spec
	// With names the field's custom capability, if any.
	With string
}

// Options configures compilation.
type Options struct {
	// Hint returns a pattern that replaces the lazy fallback of a field.
	// The pattern must not contain named groups.
	Hint func(req HintRequest) (string, bool)
	// Lookup returns the definition of a named type referenced by a field.
	// It enables deep path validation.
	Lookup func(name string) (*schema.TypeDef, bool)
}

// Compile compiles one type definition into render plans and parse programs.
func Compile(def *schema.TypeDef, opts Options) (*Unit, error) {
	if def == nil {
		return nil, errors.New("compile: nil type definition")
	}

	if def.IsEnum() {
		return compileEnum(def, opts)
	}

	return compileStruct(def, opts)
}

func compileStruct(def *schema.TypeDef, opts Options) (*Unit, error) {
	u := &Unit{Def: def}

	wrap := func(err error) error {
		return &Error{Type: def.Name, Err: err}
	}

	if def.Format == "" && def.Regex == "" {
		return nil, wrap(fmt.Errorf("%w: struct has neither format nor regex", ErrTemplateSyntax))
	}

	b, err := newBuilder(def, "", def.Fields, def.Default, opts, &u.Diagnostics)
	if err != nil {
		return nil, wrap(err)
	}

	if def.Format != "" {
		if u.Render, err = b.renderPlan(def.Format); err != nil {
			return nil, wrap(err)
		}
	}

	var root synth.NodeID

	if def.Regex != "" {
		root, err = b.arena.Raw(def.Regex, synth.RawOptions{Context: synth.TypeContext, Resolve: b.alloc.Request})
	} else {
		root, err = b.templateNode(def.Format)
	}

	if err != nil {
		return nil, wrap(err)
	}

	if u.Program, err = b.finish(root); err != nil {
		return nil, wrap(err)
	}

	u.Usage = b.usage(u.Program)

	return u, nil
}

func compileEnum(def *schema.TypeDef, opts Options) (*Unit, error) {
	u := &Unit{Def: def, Dispatch: Dispatch{Literals: map[string]int{}}}

	typeStyle, err := casing.Parse(def.Style)
	if err != nil {
		return nil, &Error{Type: def.Name, Err: err}
	}

	for i := range def.Variants {
		v := &def.Variants[i]

		cv, usage, err := compileVariant(def, v, i, typeStyle, opts, &u.Diagnostics)
		if err != nil {
			return nil, &Error{Type: def.Name, Variant: v.Name, Err: err}
		}

		u.Variants = append(u.Variants, cv)
		u.Usage = append(u.Usage, usage...)

		where := def.Name + "::" + v.Name

		if !cv.Program.IsLiteral {
			u.Dispatch.Regex = append(u.Dispatch.Regex, i)
			continue
		}

		if prev, dup := u.Dispatch.Literals[cv.Program.Literal]; dup {
			u.Diagnostics.AddWarning(diagnostic.CodeLiteralDispatch,
				fmt.Sprintf("literal %q is already accepted by variant %s; this variant never parses",
					cv.Program.Literal, def.Variants[prev].Name),
				where, "")

			continue
		}

		u.Dispatch.Literals[cv.Program.Literal] = i
		u.Diagnostics.AddInfo(diagnostic.CodeLiteralDispatch,
			fmt.Sprintf("dispatched by exact match on %q", cv.Program.Literal), where, "")
	}

	return u, nil
}

func compileVariant(
	def *schema.TypeDef,
	v *schema.Variant,
	index int,
	typeStyle casing.Style,
	opts Options,
	diags *diagnostic.Diagnostics,
) (*Variant, []Usage, error) {
	style := typeStyle

	if v.Style != "" {
		s, err := casing.Parse(v.Style)
		if err != nil {
			return nil, nil, err
		}

		style = s
	}

	cv := &Variant{Index: index, Name: v.Name, Tag: style.Apply(v.Name), Def: v}

	b, err := newBuilder(def, v.Name, v.Fields, def.Default || v.Default, opts, diags)
	if err != nil {
		return nil, nil, err
	}

	b.enum = true
	b.tag = cv.Tag

	format := v.Format
	regex := v.Regex

	if format == "" {
		switch {
		case v.IsUnit():
			format = "{}"
		case def.Format != "":
			format = def.Format
		}

		if regex == "" {
			regex = def.Regex
		}
	}

	if format == "" && regex == "" {
		return nil, nil, fmt.Errorf("%w: variant with fields needs a format or regex", ErrTemplateSyntax)
	}

	if format != "" {
		if cv.Render, err = b.renderPlan(format); err != nil {
			return nil, nil, err
		}
	}

	var root synth.NodeID

	if regex != "" {
		root, err = b.arena.Raw(regex, synth.RawOptions{
			Context: synth.VariantContext,
			Tag:     cv.Tag,
			Resolve: b.alloc.Request,
		})
	} else {
		root, err = b.templateNode(format)
	}

	if err != nil {
		return nil, nil, err
	}

	if cv.Program, err = b.finish(root); err != nil {
		return nil, nil, err
	}

	return cv, b.usage(cv.Program), nil
}
