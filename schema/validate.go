package schema

import (
	"errors"
	"fmt"

	"display-generator/internal/casing"
)

// ValidationError describes one structural problem in a schema.
type ValidationError struct {
	Type  string
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("type %s: field %s: %s", e.Type, e.Field, e.Msg)
	}

	return fmt.Sprintf("type %s: %s", e.Type, e.Msg)
}

// Validate checks a file for structural problems. It does not compile
// templates; that is left to the compiler.
func Validate(f *File) error {
	if f == nil {
		return errors.New("schema file is nil")
	}

	var errs []error

	seenTypes := map[string]struct{}{}

	for i := range f.Types {
		t := &f.Types[i]
		if _, ok := seenTypes[t.Name]; ok {
			errs = append(errs, &ValidationError{Type: t.Name, Msg: "duplicate type"})
		}

		seenTypes[t.Name] = struct{}{}

		errs = append(errs, ValidateType(t))
	}

	seenCaps := map[string]struct{}{}

	for _, c := range f.Capabilities {
		if c.Name == "" || c.Go == "" {
			errs = append(errs, fmt.Errorf("capability %q: name and go are required", c.Name))
			continue
		}

		if _, ok := seenCaps[c.Name]; ok {
			errs = append(errs, fmt.Errorf("duplicate capability %q", c.Name))
		}

		seenCaps[c.Name] = struct{}{}
	}

	return errors.Join(errs...)
}

// ValidateType checks a single type definition.
func ValidateType(t *TypeDef) error {
	var errs []error

	fail := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Type: t.Name, Field: field, Msg: fmt.Sprintf(format, args...)})
	}

	if !IsIdent(t.Name) {
		fail("", "invalid type name %q", t.Name)
	}

	seenParams := map[string]struct{}{}

	for _, p := range t.TypeParams {
		if !IsIdent(p) {
			fail("", "invalid type parameter %q", p)
		}

		if _, ok := seenParams[p]; ok {
			fail("", "duplicate type parameter %q", p)
		}

		seenParams[p] = struct{}{}
	}

	if t.Style != "" {
		if _, err := casing.Parse(t.Style); err != nil {
			fail("", "%v", err)
		}
	}

	if t.WidthMode != "" && t.WidthMode != WidthRunes && t.WidthMode != WidthCells {
		fail("", "unknown width mode %q", t.WidthMode)
	}

	switch t.Kind {
	case KindStruct:
		if len(t.Variants) > 0 {
			fail("", "struct type cannot declare variants")
		}

		validateFields(t.Fields, fail)
	case KindEnum:
		if len(t.Fields) > 0 {
			fail("", "enum type cannot declare fields; declare them on variants")
		}

		if len(t.Variants) == 0 {
			fail("", "enum type has no variants")
		}

		seen := map[string]struct{}{}

		for i := range t.Variants {
			v := &t.Variants[i]
			if v.Name == "" {
				fail("", "variant %d has no name", i)
				continue
			}

			if _, ok := seen[v.Name]; ok {
				fail("", "duplicate variant %q", v.Name)
			}

			seen[v.Name] = struct{}{}

			if v.Style != "" {
				if _, err := casing.Parse(v.Style); err != nil {
					fail("", "variant %s: %v", v.Name, err)
				}
			}

			if v.GoType != "" && v.Value != "" {
				fail("", "variant %s: go_type and value are exclusive", v.Name)
			}

			validateFields(v.Fields, func(field, format string, args ...any) {
				fail(v.Name+"."+field, format, args...)
			})
		}
	default:
		fail("", "unknown kind %q", t.Kind)
	}

	return errors.Join(errs...)
}

func validateFields(fields []Field, fail func(field, format string, args ...any)) {
	seen := map[FieldKey]struct{}{}

	for i := range fields {
		f := &fields[i]

		key, err := f.Key()
		if err != nil {
			fail(f.Name, "%v", err)
			continue
		}

		if _, ok := seen[key]; ok {
			fail(f.Name, "duplicate field")
		}

		seen[key] = struct{}{}

		if f.Delimiter != "" && !f.Type.IsZero() && f.Type.Kind != TypeRefSlice && f.Type.Kind != TypeRefArray {
			fail(f.Name, "delimiter requires a slice or array type, got %s", f.Type)
		}

		if f.DefaultValue != nil && f.Optional {
			fail(f.Name, "optional fields cannot declare default_value")
		}
	}
}
