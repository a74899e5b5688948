package display

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"display-generator/internal/compile"
	"display-generator/internal/fmtspec"
	"display-generator/primitive"
	"display-generator/schema"
)

func (c *codec) parse(s string) (reflect.Value, error) {
	out := reflect.New(c.typ).Elem()

	if c.main != nil {
		if err := c.main.fill(out, s); err != nil {
			return reflect.Value{}, err
		}

		return out, c.check(out, "", s)
	}

	vr, err := c.dispatch(s)
	if err != nil {
		return reflect.Value{}, err
	}

	val := reflect.New(vr.proto.Type()).Elem()

	switch {
	case vr.unit:
		val.Set(vr.proto)
	case vr.ptr:
		val.Set(reflect.New(val.Type().Elem()))
	}

	if !vr.unit {
		if err := vr.fill(val, s); err != nil {
			return reflect.Value{}, err
		}
	}

	out.Set(val)

	return out, c.check(out, vr.cv.Name, s)
}

// dispatch picks the first variant, in declaration order, accepting s.
func (c *codec) dispatch(s string) (*variant, error) {
	var reErr error

	idx, ok := c.unit.Dispatch.Decide(s, func(i int) bool {
		re, err := c.variants[i].re()
		if err != nil {
			reErr = errors.Join(reErr, err)
			return false
		}

		return re.MatchString(s)
	})

	if !ok {
		err := ErrUnrecognized
		if reErr != nil {
			err = errors.Join(ErrUnrecognized, reErr)
		}

		return nil, &ParseError{Type: c.def.Name, Input: s, Err: err}
	}

	c.log.Debug("dispatched", zap.String("variant", c.variants[idx].cv.Name), zap.Int("index", idx))

	return c.variants[idx], nil
}

type groups struct {
	re    *regexp.Regexp
	match []int
	input string
}

// get returns the text of a group and whether it took part in the match.
func (g groups) get(name string) (string, bool) {
	if g.re == nil {
		return "", false
	}

	i := g.re.SubexpIndex(name)
	if i < 0 || g.match[2*i] < 0 {
		return "", false
	}

	return g.input[g.match[2*i]:g.match[2*i+1]], true
}

// fill matches s and constructs the fields of dst from the captures: the
// base value of each field first, then its deep assignments.
func (b *body) fill(dst reflect.Value, s string) error {
	g, err := b.match(s)
	if err != nil {
		return b.parseError("", s, err)
	}

	for _, fp := range b.prog.Fields {
		path := schema.FieldPath{fp.Key}
		acc := b.access[path.String()]

		switch fp.Source {
		case compile.FromCapture:
			if text, ok := g.get(fp.Group); ok {
				if err := b.c.parseValue(acc.target(dst), text, fp.Spec, fp.Field); err != nil {
					return b.parseError(path.String(), s, err)
				}
			}
		case compile.FromDefault:
			if fp.Field.DefaultValue != nil {
				if err := b.c.parseValue(acc.target(dst), *fp.Field.DefaultValue, fmtspec.Spec{}, fp.Field); err != nil {
					return b.parseError(path.String(), s, fmt.Errorf("default value: %w", err))
				}
			}
		}

		for _, d := range fp.Deep {
			text, ok := g.get(d.Group)
			if !ok {
				continue
			}

			full := path.Join(d.Path)
			deep := b.access[full.String()]

			if err := b.c.parseValue(deep.target(dst), text, d.Spec, deep.field); err != nil {
				return b.parseError(full.String(), s, err)
			}
		}
	}

	return nil
}

func (b *body) match(s string) (groups, error) {
	if b.prog.IsLiteral {
		if s != b.prog.Literal {
			return groups{}, ErrUnrecognized
		}

		return groups{}, nil
	}

	re, err := b.re()
	if err != nil {
		return groups{}, err
	}

	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return groups{}, ErrUnrecognized
	}

	return groups{re: re, match: m, input: s}, nil
}

func (b *body) parseError(path, input string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Type == b.c.def.Name {
		return err
	}

	return &ParseError{Type: b.c.def.Name, Variant: b.name, Path: path, Input: input, Err: err}
}

// parseValue parses the captured text of one value into dst.
func (c *codec) parseValue(dst reflect.Value, text string, spec fmtspec.Spec, f *schema.Field) error {
	text = trimFill(text, spec, classOfType(indirectType(dst.Type())))

	if f != nil && f.With != "" {
		capability, err := c.cfg.capability(f.With)
		if err != nil {
			return err
		}

		if capability.Parse == nil {
			return fmt.Errorf("%w: capability %q cannot parse", ErrNoCapability, f.With)
		}

		v, err := capability.Parse(text)
		if err != nil {
			return err
		}

		return assign(dst, v)
	}

	delimiter := ""
	if f != nil {
		delimiter = f.Delimiter
	}

	return c.parseInto(dst, text, spec, delimiter)
}

// parseInto tries, in order: a nested display type, encoding.TextUnmarshaler,
// the primitive parsers, then pointers and delimited lists.
func (c *codec) parseInto(dst reflect.Value, text string, spec fmtspec.Spec, delimiter string) error {
	t := dst.Type()

	if r, ok := registered(t); ok {
		sub, err := r.codec()
		if err != nil {
			return err
		}

		v, err := sub.parse(text)
		if err != nil {
			return err
		}

		dst.Set(v)

		return nil
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) && dst.CanAddr() {
		return dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text))
	}

	kind := primitive.Resolve(t)

	switch {
	case kind == primitive.KindString && spec.Kind == fmtspec.Debug && !spec.Alternate:
		s, err := strconv.Unquote(text)
		if err != nil {
			return fmt.Errorf("unquote %s: %w", text, err)
		}

		dst.SetString(s)

		return nil
	case kind != 0:
		return primitive.Parse(dst, text, spec.Kind.Base(), c.cfg.lenient)
	}

	switch t.Kind() {
	case reflect.Pointer:
		p := reflect.New(t.Elem())
		if err := c.parseInto(p.Elem(), text, spec, delimiter); err != nil {
			return err
		}

		dst.Set(p)

		return nil
	case reflect.Slice, reflect.Array:
		return c.parseList(dst, text, spec, delimiter)
	}

	return fmt.Errorf("%w: %s cannot be parsed", ErrNoCapability, t)
}

func (c *codec) parseList(dst reflect.Value, text string, spec fmtspec.Spec, delimiter string) error {
	t := dst.Type()

	if delimiter == "" {
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			dst.SetBytes([]byte(text))
			return nil
		}

		return fmt.Errorf("%w: %s needs a delimiter", ErrNoCapability, t)
	}

	var parts []string
	if text != "" {
		parts = strings.Split(text, delimiter)
	}

	list := dst
	if t.Kind() == reflect.Slice {
		list = reflect.MakeSlice(t, len(parts), len(parts))
	} else if len(parts) != t.Len() {
		return fmt.Errorf("expected %d elements, got %d", t.Len(), len(parts))
	}

	elem := fmtspec.Spec{Sign: spec.Sign, Alternate: spec.Alternate, Kind: spec.Kind}

	for i, part := range parts {
		if err := c.parseInto(list.Index(i), part, elem, ""); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}

	if t.Kind() == reflect.Slice {
		dst.Set(list)
	}

	return nil
}

// trimFill removes the padding a width spec added around a value.
func trimFill(text string, spec fmtspec.Spec, class fmtspec.Class) string {
	if !spec.Width.IsSet() || spec.PadsWithFmt(class) {
		return text
	}

	fill := string(spec.FillRune())

	switch spec.EffectiveAlign(class) {
	case fmtspec.AlignRight:
		return strings.TrimLeft(text, fill)
	case fmtspec.AlignCenter:
		return strings.Trim(text, fill)
	default:
		return strings.TrimRight(text, fill)
	}
}

func assign(dst reflect.Value, v any) error {
	rv := reflect.ValueOf(v)

	switch {
	case !rv.IsValid():
		dst.SetZero()
	case rv.Type().AssignableTo(dst.Type()):
		dst.Set(rv)
	case rv.Type().ConvertibleTo(dst.Type()):
		dst.Set(rv.Convert(dst.Type()))
	default:
		return fmt.Errorf("%w: capability returned %s, want %s", ErrBinding, rv.Type(), dst.Type())
	}

	return nil
}
