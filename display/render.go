package display

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"display-generator/internal/compile"
	"display-generator/internal/fmtspec"
	"display-generator/primitive"
	"display-generator/schema"
)

func (c *codec) render(v reflect.Value) (string, error) {
	b, root := c.main, v

	if c.main == nil {
		vr, dyn, err := c.variantOf(v)
		if err != nil {
			return "", &RenderError{Type: c.def.Name, Err: err}
		}

		b, root = vr.body, dyn
	}

	if b.render == nil {
		return "", &RenderError{Type: c.def.Name, Err: fmt.Errorf("%w: no format to render with", ErrNoCapability)}
	}

	var sb strings.Builder
	if err := b.renderPlan(&sb, b.render, root, nil); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// variantOf finds the variant a value belongs to. Unit variants sharing a
// Go type are told apart by comparing with their prototypes.
func (c *codec) variantOf(v reflect.Value) (*variant, reflect.Value, error) {
	dyn := v
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, reflect.Value{}, fmt.Errorf("%w: nil value", ErrNoCapability)
		}

		dyn = v.Elem()
	}

	var first *variant

	for _, vr := range c.variants {
		if vr.proto.Type() != dyn.Type() {
			continue
		}

		if vr.unit {
			if eq, ok := sameValue(dyn, vr.proto); ok {
				if eq {
					return vr, dyn, nil
				}

				continue
			}
		}

		if first == nil {
			first = vr
		}
	}

	if first == nil {
		return nil, reflect.Value{}, fmt.Errorf("%w: %v matches no variant", ErrNoCapability, dyn)
	}

	return first, dyn, nil
}

// sameValue compares two values of one type, looking through pointers. It
// reports false as its second result when they cannot be compared.
func sameValue(a, b reflect.Value) (bool, bool) {
	for a.Kind() == reflect.Pointer && b.Kind() == reflect.Pointer {
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil(), true
		}

		a, b = a.Elem(), b.Elem()
	}

	if !a.Comparable() || !b.Comparable() {
		return false, false
	}

	return a.Equal(b), true
}

func (b *body) renderPlan(sb *strings.Builder, plan *compile.RenderPlan, root reflect.Value, prefix schema.FieldPath) error {
	for _, seg := range plan.Segments {
		switch seg.Kind {
		case compile.SegLiteral:
			sb.WriteString(seg.Text)
			continue
		case compile.SegTag:
			width, err := b.count(root, seg.Spec.Width)
			if err != nil {
				return b.renderError(nil, err)
			}

			sb.WriteString(b.c.pad(seg.Text, seg.Spec, fmtspec.ClassString, width))

			continue
		}

		path := prefix
		if seg.Kind == compile.SegField {
			path = prefix.Join(seg.Path)
		}

		text, class, skip, err := b.segmentText(seg, root, path)
		if err != nil {
			return b.renderError(path, err)
		}

		if skip {
			continue
		}

		width, err := b.count(root, seg.Spec.Width)
		if err != nil {
			return b.renderError(path, err)
		}

		sb.WriteString(b.c.pad(text, seg.Spec, class, width))
	}

	return nil
}

// segmentText renders the value of one field or self segment. Absent
// optional top-level fields are skipped.
func (b *body) segmentText(seg compile.Segment, root reflect.Value, path schema.FieldPath) (string, fmtspec.Class, bool, error) {
	acc := b.access[path.String()]

	val, ok := acc.get(root)
	optional := len(path) == 1 && seg.Kind == compile.SegField && acc.field != nil && acc.field.Optional

	if !ok || isNil(val) {
		if optional {
			return "", 0, true, nil
		}

		if !ok {
			return "", 0, false, fmt.Errorf("%w: nil value on the path", ErrNoCapability)
		}
	}

	if seg.Kind == compile.SegField && seg.Sub != nil {
		var sub strings.Builder
		if err := b.renderPlan(&sub, seg.Sub, root, path); err != nil {
			return "", 0, false, err
		}

		return sub.String(), fmtspec.ClassString, false, nil
	}

	width, err := b.count(root, seg.Spec.Width)
	if err != nil {
		return "", 0, false, err
	}

	prec, err := b.count(root, seg.Spec.Precision)
	if err != nil {
		return "", 0, false, err
	}

	text, class, err := b.c.valueText(val, seg.Spec, acc.field, width, prec)

	return text, class, false, err
}

func (b *body) renderError(path schema.FieldPath, err error) error {
	var re *RenderError
	if errors.As(err, &re) {
		return err
	}

	name := b.c.def.Name
	if b.name != "" {
		name += "::" + b.name
	}

	return &RenderError{Type: name, Path: path.String(), Err: err}
}

// count resolves a width or precision; -1 means absent.
func (b *body) count(root reflect.Value, cnt fmtspec.Count) (int, error) {
	switch cnt.Kind {
	case fmtspec.CountNone, fmtspec.CountNext:
		return -1, nil
	case fmtspec.CountValue:
		return cnt.Value, nil
	}

	key, _ := countKey(cnt)

	val, ok := b.access[key.String()].get(root)
	for ok && (val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface) && !val.IsNil() {
		val = val.Elem()
	}

	switch {
	case !ok:
		return 0, fmt.Errorf("count argument %s is nil", key)
	case val.CanInt():
		return int(val.Int()), nil
	case val.CanUint():
		return int(val.Uint()), nil
	default:
		return 0, fmt.Errorf("count argument %s is a %s, not an integer", key, val.Type())
	}
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// valueText renders one value: a custom capability, a nested display type,
// a delimited list, or fmt with the verb the format spec selects.
func (c *codec) valueText(val reflect.Value, spec fmtspec.Spec, f *schema.Field, width, prec int) (string, fmtspec.Class, error) {
	if f != nil && f.With != "" {
		capability, err := c.cfg.capability(f.With)
		if err != nil {
			return "", 0, err
		}

		if capability.Render == nil || !val.CanInterface() {
			return "", 0, fmt.Errorf("%w: capability %q cannot render", ErrNoCapability, f.With)
		}

		s, err := capability.Render(val.Interface())

		return s, classOfType(val.Type()), err
	}

	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return "", 0, fmt.Errorf("%w: nil value", ErrNoCapability)
		}

		val = val.Elem()
	}

	if r, ok := registered(val.Type()); ok {
		sub, err := r.codec()
		if err != nil {
			return "", 0, err
		}

		s, err := sub.render(val)

		return s, fmtspec.ClassString, err
	}

	if kind := val.Kind(); kind == reflect.Slice || kind == reflect.Array {
		switch {
		case f != nil && f.Delimiter != "":
			elem := fmtspec.Spec{Sign: spec.Sign, Alternate: spec.Alternate, Kind: spec.Kind}
			parts := make([]string, val.Len())

			for i := range parts {
				s, _, err := c.valueText(val.Index(i), elem, nil, -1, prec)
				if err != nil {
					return "", 0, fmt.Errorf("element %d: %w", i, err)
				}

				parts[i] = s
			}

			return strings.Join(parts, f.Delimiter), fmtspec.ClassString, nil
		case kind == reflect.Slice && val.Type().Elem().Kind() == reflect.Uint8 && spec.Kind == fmtspec.Plain:
			return string(val.Bytes()), fmtspec.ClassString, nil
		}
	}

	class := classOfType(val.Type())

	if spec.Kind == fmtspec.Plain {
		if s, ok := primitive.Format(val); ok {
			return s, class, nil
		}
	}

	if !val.CanInterface() {
		return "", 0, fmt.Errorf("%w: unexported value of %s", ErrNoCapability, val.Type())
	}

	return fmt.Sprintf(spec.Verb(class, width, prec), val.Interface()), class, nil
}

func (c *codec) measure(s string) int {
	if c.widthMode == schema.WidthCells {
		return runewidth.StringWidth(s)
	}

	return utf8.RuneCountInString(s)
}

// pad pads s to width with the format spec's fill rune. Zero-padded numbers were
// already padded by fmt.
func (c *codec) pad(s string, spec fmtspec.Spec, class fmtspec.Class, width int) string {
	if width <= 0 || spec.PadsWithFmt(class) {
		return s
	}

	n := c.measure(s)
	if n >= width {
		return s
	}

	fill := spec.FillRune()

	step := 1
	if c.widthMode == schema.WidthCells {
		step = max(1, runewidth.RuneWidth(fill))
	}

	total := (width - n) / step
	left, right := 0, total

	switch spec.EffectiveAlign(class) {
	case fmtspec.AlignRight:
		left, right = total, 0
	case fmtspec.AlignCenter:
		left = total / 2
		right = total - left
	}

	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), right)
}
