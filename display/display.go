package display

import (
	"fmt"
	"reflect"

	"display-generator/internal/bounds"
	"display-generator/internal/compile"
	"display-generator/schema"
)

// Codec renders values of T to text and parses them back, following a
// display definition.
type Codec[T any] struct {
	c *codec
}

// New compiles def and binds it to T. T is a struct for struct
// definitions, and an interface or a named scalar type for enums.
func New[T any](def *schema.TypeDef, opts ...Option) (*Codec[T], error) {
	c, err := newCodec(reflect.TypeFor[T](), def, newConfig(opts))
	if err != nil {
		return nil, err
	}

	return &Codec[T]{c: c}, nil
}

// Cached is like New but builds the codec once per process for T and def;
// later calls ignore opts.
func Cached[T any](def *schema.TypeDef, opts ...Option) (*Codec[T], error) {
	c, err := cachedCodec(reflect.TypeFor[T](), def, opts)
	if err != nil {
		return nil, err
	}

	return &Codec[T]{c: c}, nil
}

// Render returns the text of v.
func (c *Codec[T]) Render(v T) (string, error) {
	return c.c.render(reflect.ValueOf(&v).Elem())
}

// Parse returns the value s represents.
func (c *Codec[T]) Parse(s string) (T, error) {
	var zero T

	v, err := c.c.parse(s)
	if err != nil {
		return zero, err
	}

	return v.Interface().(T), nil
}

// Program returns the compiled definition.
func (c *Codec[T]) Program() *compile.Unit {
	return c.c.unit
}

// Bounds returns the capabilities the definition requires of its type
// parameters.
func (c *Codec[T]) Bounds() *bounds.Report {
	return c.c.report
}

// Pattern returns the anchored pattern of a struct (variant "") or of one
// variant. It reports false for literal programs and unknown variants.
func (c *Codec[T]) Pattern(variant string) (string, bool) {
	for _, b := range c.c.bodies() {
		if b.name == variant {
			return b.prog.Pattern, !b.prog.IsLiteral
		}
	}

	return "", false
}

// Format renders v with the cached codec of T, returning a fmt-style error
// marker instead of an error. Generated String methods use it.
func Format[T any](def *schema.TypeDef, v T, opts ...Option) string {
	c, err := Cached[T](def, opts...)
	if err != nil {
		return fmt.Sprintf("%%!v(display: %v)", err)
	}

	s, err := c.Render(v)
	if err != nil {
		return fmt.Sprintf("%%!v(display: %v)", err)
	}

	return s
}

// ParseText parses s with the cached codec of T.
func ParseText[T any](def *schema.TypeDef, s string, opts ...Option) (T, error) {
	c, err := Cached[T](def, opts...)
	if err != nil {
		var zero T
		return zero, err
	}

	return c.Parse(s)
}
