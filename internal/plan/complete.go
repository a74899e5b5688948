package plan

import (
	"fmt"
	"strings"

	"display-generator/internal/analyze"
	"display-generator/internal/casing"
	"display-generator/internal/diagnostic"
	"display-generator/schema"
)

// complete fills a definition from the shape of its Go type: type
// parameters, the field list with types and Go names, and the variants of
// scalar enums declaring none.
func (r *Resolver) complete(def *schema.TypeDef, diags *diagnostic.Diagnostics) *analyze.Shape {
	if r.graph == nil {
		return nil
	}

	name := def.GoType
	if name == "" {
		name = def.Name
	}

	shape := r.shape(name)
	if shape == nil {
		diags.AddWarning(diagnostic.CodeSchema,
			fmt.Sprintf("Go type %s not found in the loaded packages", name), def.Name, "")

		return nil
	}

	if len(def.TypeParams) == 0 {
		def.TypeParams = shape.TypeParams
	}

	if !def.IsEnum() {
		def.Fields = mergeFields(def.Fields, shape)
		return shape
	}

	if len(def.Variants) == 0 && shape.Kind == analyze.ShapeScalar {
		def.Variants = scalarVariants(name, shape)
	}

	if shape.Kind != analyze.ShapeInterface {
		return shape
	}

	for i := range def.Variants {
		v := &def.Variants[i]

		goName := v.GoType
		if goName == "" {
			goName = v.Name
		}

		impl, ok := shape.Implements(goName)
		if !ok {
			continue
		}

		if vs := r.graph.Shape(impl.ID); vs != nil && vs.Kind == analyze.ShapeStruct && (len(vs.Fields) > 0 || len(v.Fields) > 0) {
			v.Fields = mergeFields(v.Fields, vs)
		}
	}

	return shape
}

func (r *Resolver) shape(name string) *analyze.Shape {
	if base, _, ok := strings.Cut(name, "["); ok {
		name = base
	}

	if r.config.PkgPath != "" {
		if s := r.graph.Shape(analyze.TypeID{PkgPath: r.config.PkgPath, Name: name}); s != nil {
			return s
		}
	}

	s, _ := r.graph.Find(name)

	return s
}

// mergeFields lays the declared fields over the fields of a struct shape.
// Shape fields keep their order; declared fields not in the shape
// follow them.
func mergeFields(declared []schema.Field, shape *analyze.Shape) []schema.Field {
	if shape.Kind != analyze.ShapeStruct {
		return declared
	}

	used := make([]bool, len(declared))
	out := make([]schema.Field, 0, len(shape.Fields)+len(declared))

	for i := range shape.Fields {
		sf := &shape.Fields[i]
		if sf.Skipped() {
			continue
		}

		f := schema.Field{Name: sf.DisplayName()}

		if j := matchField(declared, sf); j >= 0 {
			f = declared[j]
			used[j] = true
		}

		if f.Type.IsZero() {
			f.Type = sf.Type
		}

		if f.GoName == "" && f.Name != sf.Name {
			f.GoName = sf.Name
		}

		out = append(out, f)
	}

	for j := range declared {
		if !used[j] {
			out = append(out, declared[j])
		}
	}

	return out
}

// matchField finds the declared field configuring sf: by Go name, display
// name, or the CamelCase form of the declared key.
func matchField(declared []schema.Field, sf *analyze.FieldInfo) int {
	for j := range declared {
		d := &declared[j]

		switch {
		case d.GoName != "":
			if d.GoName == sf.Name {
				return j
			}
		case d.Name == sf.Name, d.Name == sf.DisplayName(), casing.UpperCamel.Apply(d.Name) == sf.Name:
			return j
		}
	}

	return -1
}

// scalarVariants derives unit variants from the constants of a scalar
// type; the type name is trimmed from constant names that start with it.
func scalarVariants(typeName string, shape *analyze.Shape) []schema.Variant {
	out := make([]schema.Variant, 0, len(shape.Consts))

	for _, c := range shape.Consts {
		name := strings.TrimPrefix(c, typeName)
		if name == "" || !schema.IsIdent(name) {
			name = c
		}

		out = append(out, schema.Variant{Name: name, Value: c})
	}

	return out
}
