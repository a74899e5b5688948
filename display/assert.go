package display

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"display-generator/schema"
)

// VariantVar names the variant of a parsed enum value in assertions.
const VariantVar = "variant"

func (c *codec) compileAssert() (*vm.Program, error) {
	opts := []expr.Option{expr.AsBool()}

	if c.main != nil {
		opts = append(opts, expr.Env(c.main.env(reflect.New(c.typ).Elem())))
	} else {
		opts = append(opts, expr.AllowUndefinedVariables())
	}

	return expr.Compile(c.def.Assert, opts...)
}

// env exposes the top-level fields of v by schema name and by Go name.
func (b *body) env(v reflect.Value) map[string]any {
	env := map[string]any{}

	for i := range b.fields {
		key, err := b.fields[i].Key()
		if err != nil {
			continue
		}

		acc := b.access[schema.FieldPath{key}.String()]

		val, ok := acc.get(v)
		if !ok || !val.CanInterface() {
			continue
		}

		x := val.Interface()

		if !key.IsIndex {
			env[key.Name] = x
		}

		if idx := acc.steps[len(acc.steps)-1]; idx >= 0 {
			env[indirectType(b.typ).Field(idx).Name] = x
		}
	}

	return env
}

// check evaluates the assertion against a parsed value.
func (c *codec) check(v reflect.Value, variantName, input string) error {
	if c.assert == nil {
		return nil
	}

	var env map[string]any

	if c.main != nil {
		env = c.main.env(v)
	} else {
		vr, dyn, err := c.variantOf(v)
		if err != nil {
			return &ParseError{Type: c.def.Name, Variant: variantName, Input: input, Err: err}
		}

		env = vr.env(dyn)
		env[VariantVar] = variantName
	}

	out, err := expr.Run(c.assert, env)
	if err != nil {
		return &ParseError{Type: c.def.Name, Variant: variantName, Input: input, Err: fmt.Errorf("%w: %w", ErrAssert, err)}
	}

	if ok, _ := out.(bool); !ok {
		return &ParseError{
			Type:    c.def.Name,
			Variant: variantName,
			Input:   input,
			Err:     fmt.Errorf("%w: %s", ErrAssert, c.def.Assert),
		}
	}

	return nil
}
