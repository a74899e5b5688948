package display

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"

	"display-generator/primitive"
	"display-generator/schema"
)

// Capability renders and parses the values of a field that names it with
// "with". Either function may be nil when the field is only rendered or
// only parsed.
type Capability struct {
	Render func(v any) (string, error)
	Parse  func(text string) (any, error)
	// Regex narrows the text the field's capture accepts. It must not
	// contain named groups.
	Regex string
}

// RegexHinter is implemented by types that narrow the text their values
// are captured from.
type RegexHinter interface {
	DisplayRegex() string
}

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	regexHinterType     = reflect.TypeFor[RegexHinter]()
)

type registration struct {
	typ  reflect.Type
	def  *schema.TypeDef
	opts []Option
}

var (
	registry       sync.Map // reflect.Type -> *registration
	registryByName sync.Map // string -> *registration
)

// Register makes T a display type that other display types can nest: its
// values are rendered and parsed with its own definition wherever they
// appear as fields, and deep paths into it are validated against def.
func Register[T any](def *schema.TypeDef, opts ...Option) {
	r := &registration{typ: reflect.TypeFor[T](), def: def, opts: opts}

	registry.Store(r.typ, r)
	registryByName.Store(def.Name, r)
}

func registered(t reflect.Type) (*registration, bool) {
	r, ok := registry.Load(t)
	if !ok {
		return nil, false
	}

	return r.(*registration), true
}

func registeredDef(name string) (*schema.TypeDef, bool) {
	r, ok := registryByName.Load(name)
	if !ok {
		return nil, false
	}

	return r.(*registration).def, true
}

// regexHint returns the pattern a type narrows its captures to.
func regexHint(t reflect.Type) (string, bool) {
	switch {
	case t.Implements(regexHinterType):
		return reflect.Zero(t).Interface().(RegexHinter).DisplayRegex(), true
	case reflect.PointerTo(t).Implements(regexHinterType):
		return reflect.New(t).Interface().(RegexHinter).DisplayRegex(), true
	default:
		return "", false
	}
}

// canParse reports whether values of t have a parse capability.
func canParse(t reflect.Type) bool {
	if _, ok := registered(t); ok {
		return true
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) || primitive.IsSupported(t) {
		return true
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return canParse(t.Elem())
	default:
		return false
	}
}

func (c *config) capability(name string) (Capability, error) {
	capability, ok := c.caps[name]
	if !ok {
		return Capability{}, fmt.Errorf("%w: capability %q is not registered", ErrNoCapability, name)
	}

	return capability, nil
}
