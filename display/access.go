package display

import (
	"fmt"
	"reflect"

	"display-generator/internal/casing"
	"display-generator/schema"
)

// accessor addresses the value at a field path below a root value.
// Pointers met on the way are followed, and allocated when setting.
type accessor struct {
	path schema.FieldPath
	// steps are struct field indexes; -1 stands for the value itself.
	steps []int
	typ   reflect.Type
	// field is the schema configuration of the last segment, when known.
	field *schema.Field
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

// resolveAccessor resolves path on root. fields are the schema fields of
// root; nested types are looked up by the resolver.
func (c *codec) resolveAccessor(root reflect.Type, fields []schema.Field, path schema.FieldPath) (*accessor, error) {
	acc := &accessor{path: path, typ: root}

	for i, key := range path {
		t := indirectType(acc.typ)

		f, _ := lookupField(fields, key)

		idx, ft, err := fieldIndex(t, key, f)
		if err != nil {
			return nil, fmt.Errorf("%w: path %s: %w", ErrBinding, path[:i+1], err)
		}

		acc.steps = append(acc.steps, idx)
		acc.typ = ft
		acc.field = f
		fields = c.fieldsOf(ft)
	}

	return acc, nil
}

func lookupField(fields []schema.Field, key schema.FieldKey) (*schema.Field, bool) {
	for i := range fields {
		if k, err := fields[i].Key(); err == nil && k == key {
			return &fields[i], true
		}
	}

	return nil, false
}

// fieldsOf returns the schema fields of a nested type, if it is known.
func (c *codec) fieldsOf(t reflect.Type) []schema.Field {
	t = indirectType(t)

	if r, ok := registered(t); ok && !r.def.IsEnum() {
		return r.def.Fields
	}

	if def, ok := c.cfg.types[t.Name()]; ok && !def.IsEnum() {
		return def.Fields
	}

	return nil
}

// fieldIndex finds the Go field for key. Positional keys index the struct
// fields; position 0 of a non-struct type is the value itself. Named keys
// match the configured Go name, the key itself, then its CamelCase form.
func fieldIndex(t reflect.Type, key schema.FieldKey, f *schema.Field) (int, reflect.Type, error) {
	if t.Kind() != reflect.Struct {
		if key.IsIndex && key.Index == 0 {
			return -1, t, nil
		}

		return 0, nil, fmt.Errorf("%s is not a struct", t)
	}

	if key.IsIndex {
		if key.Index >= t.NumField() {
			return 0, nil, fmt.Errorf("%s has no field at position %d", t, key.Index)
		}

		sf := t.Field(key.Index)
		if !sf.IsExported() {
			return 0, nil, fmt.Errorf("field %s of %s is not exported", sf.Name, t)
		}

		return key.Index, sf.Type, nil
	}

	candidates := []string{key.Name, casing.UpperCamel.Apply(key.Name)}
	if f != nil && f.GoName != "" {
		candidates = []string{f.GoName}
	}

	for _, name := range candidates {
		sf, ok := t.FieldByName(name)
		if !ok || len(sf.Index) != 1 {
			continue
		}

		if !sf.IsExported() {
			return 0, nil, fmt.Errorf("field %s of %s is not exported", sf.Name, t)
		}

		return sf.Index[0], sf.Type, nil
	}

	return 0, nil, fmt.Errorf("%s has no field %s", t, key)
}

// get returns the value at the accessor's path. It reports false when a nil
// pointer or interface interrupts the path.
func (a *accessor) get(root reflect.Value) (reflect.Value, bool) {
	v := root

	for _, idx := range a.steps {
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return reflect.Value{}, false
			}

			v = v.Elem()
		}

		if idx >= 0 {
			v = v.Field(idx)
		}
	}

	return v, true
}

// target returns the settable value at the accessor's path, allocating nil
// pointers on the way. root must be settable.
func (a *accessor) target(root reflect.Value) reflect.Value {
	v := root

	for _, idx := range a.steps {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		if idx >= 0 {
			v = v.Field(idx)
		}
	}

	return v
}
