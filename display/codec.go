package display

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"sync"

	"github.com/expr-lang/expr/vm"
	"go.uber.org/zap"

	"display-generator/internal/bounds"
	"display-generator/internal/compile"
	"display-generator/internal/fmtspec"
	"display-generator/primitive"
	"display-generator/schema"
)

// codec is the untyped engine behind Codec.
type codec struct {
	typ       reflect.Type
	def       *schema.TypeDef
	cfg       *config
	log       *zap.Logger
	widthMode schema.WidthMode

	unit     *compile.Unit
	main     *body
	variants []*variant
	report   *bounds.Report
	assert   *vm.Program

	units map[string]*compile.Unit
}

// body renders and parses the fields of a struct or of a variant payload.
type body struct {
	c      *codec
	name   string
	typ    reflect.Type
	fields []schema.Field
	render *compile.RenderPlan
	prog   *compile.Program
	re     func() (*regexp.Regexp, error)
	access map[string]*accessor
}

type variant struct {
	*body
	cv    *compile.Variant
	proto reflect.Value
	ptr   bool
	unit  bool
}

func newCodec(typ reflect.Type, def *schema.TypeDef, cfg *config) (*codec, error) {
	if def == nil {
		return nil, errors.New("display: nil type definition")
	}

	c := &codec{
		typ:       typ,
		def:       def,
		cfg:       cfg,
		log:       cfg.logger.With(zap.String("type", def.Name)),
		widthMode: def.WidthMode,
		units:     map[string]*compile.Unit{},
	}

	if cfg.widthMode != "" {
		c.widthMode = cfg.widthMode
	}

	unit, err := compile.Compile(def, compile.Options{Hint: c.hint, Lookup: c.lookupDef})
	if err != nil {
		return nil, err
	}

	c.unit = unit

	for _, d := range unit.Diagnostics.Warnings {
		c.log.Warn(d.Message, zap.String("code", d.Code), zap.String("where", d.Type), zap.String("field", d.FieldPath))
	}

	if def.IsEnum() {
		err = c.bindEnum()
	} else {
		err = c.bindStruct()
	}

	if err != nil {
		return nil, fmt.Errorf("bind %s to %s: %w", def.Name, typ, err)
	}

	c.report = bounds.Infer(def, unit.Usage, c.lookupUnit)

	if err := c.checkBounds(); err != nil {
		return nil, fmt.Errorf("bind %s to %s: %w", def.Name, typ, err)
	}

	for _, b := range c.bodies() {
		if err := b.checkCapabilities(); err != nil {
			return nil, fmt.Errorf("bind %s to %s: %w", def.Name, typ, err)
		}
	}

	if def.Assert != "" {
		if c.assert, err = c.compileAssert(); err != nil {
			return nil, fmt.Errorf("compile assert of %s: %w", def.Name, err)
		}
	}

	return c, nil
}

func (c *codec) bodies() []*body {
	if c.main != nil {
		return []*body{c.main}
	}

	out := make([]*body, len(c.variants))
	for i, v := range c.variants {
		out[i] = v.body
	}

	return out
}

func (c *codec) lookupDef(name string) (*schema.TypeDef, bool) {
	if def, ok := c.cfg.types[name]; ok {
		return def, true
	}

	return registeredDef(name)
}

func (c *codec) lookupUnit(name string) (*compile.Unit, bool) {
	if name == c.def.Name {
		return c.unit, true
	}

	if u, ok := c.units[name]; ok {
		return u, u != nil
	}

	def, ok := c.lookupDef(name)
	if !ok {
		return nil, false
	}

	u, err := compile.Compile(def, compile.Options{Lookup: c.lookupDef})
	if err != nil {
		u = nil
	}

	c.units[name] = u

	return u, u != nil
}

func (c *codec) bindStruct() error {
	if indirectType(c.typ).Kind() != reflect.Struct {
		return fmt.Errorf("%w: struct definition needs a struct type", ErrBinding)
	}

	b, err := c.newBody("", c.typ, c.def.Fields, c.unit.Render, c.unit.Program)
	if err != nil {
		return err
	}

	c.main = b

	return nil
}

func (c *codec) bindEnum() error {
	iface := c.typ.Kind() == reflect.Interface

	for _, cv := range c.unit.Variants {
		proto, ok := c.cfg.variants[cv.Name]
		if !ok {
			return fmt.Errorf("%w: variant %s has no prototype", ErrBinding, cv.Name)
		}

		pv := reflect.ValueOf(proto)

		switch {
		case !pv.IsValid():
			return fmt.Errorf("%w: variant %s has a nil prototype", ErrBinding, cv.Name)
		case iface && !pv.Type().Implements(c.typ):
			return fmt.Errorf("%w: variant %s: %s does not implement %s", ErrBinding, cv.Name, pv.Type(), c.typ)
		case !iface && !pv.Type().ConvertibleTo(c.typ):
			return fmt.Errorf("%w: variant %s: %s is not a %s", ErrBinding, cv.Name, pv.Type(), c.typ)
		case !iface:
			pv = pv.Convert(c.typ)
		}

		b, err := c.newBody(cv.Name, pv.Type(), cv.Def.Fields, cv.Render, cv.Program)
		if err != nil {
			return fmt.Errorf("variant %s: %w", cv.Name, err)
		}

		c.variants = append(c.variants, &variant{
			body:  b,
			cv:    cv,
			proto: pv,
			ptr:   pv.Kind() == reflect.Pointer,
			unit:  cv.Def.IsUnit(),
		})
	}

	return nil
}

func (c *codec) newBody(
	name string,
	typ reflect.Type,
	fields []schema.Field,
	render *compile.RenderPlan,
	prog *compile.Program,
) (*body, error) {
	b := &body{
		c:      c,
		name:   name,
		typ:    typ,
		fields: fields,
		render: render,
		prog:   prog,
		access: map[string]*accessor{},
	}

	b.re = sync.OnceValues(func() (*regexp.Regexp, error) {
		re, err := regexp.Compile(prog.Pattern)
		if err != nil {
			return nil, err
		}

		c.log.Debug("compiled display pattern", zap.String("variant", name), zap.String("pattern", prog.Pattern))

		return re, nil
	})

	var paths []schema.FieldPath

	for i := range fields {
		if key, err := fields[i].Key(); err == nil {
			paths = append(paths, schema.FieldPath{key})
		}
	}

	collectPaths(render, nil, func(p schema.FieldPath) { paths = append(paths, p) })

	for _, fp := range prog.Fields {
		for _, d := range fp.Deep {
			paths = append(paths, schema.FieldPath{fp.Key}.Join(d.Path))
		}
	}

	for _, p := range paths {
		k := p.String()
		if _, ok := b.access[k]; ok {
			continue
		}

		acc, err := c.resolveAccessor(typ, fields, p)
		if err != nil {
			return nil, err
		}

		b.access[k] = acc
	}

	return b, nil
}

// collectPaths lists every path a render plan reads, including width and
// precision arguments.
func collectPaths(plan *compile.RenderPlan, prefix schema.FieldPath, add func(schema.FieldPath)) {
	if plan == nil {
		return
	}

	for _, seg := range plan.Segments {
		for _, cnt := range []fmtspec.Count{seg.Spec.Width, seg.Spec.Precision} {
			if key, ok := countKey(cnt); ok {
				add(schema.FieldPath{key})
			}
		}

		if seg.Kind == compile.SegField {
			full := prefix.Join(seg.Path)
			add(full)
			collectPaths(seg.Sub, full, add)
		}
	}
}

func countKey(cnt fmtspec.Count) (schema.FieldKey, bool) {
	switch cnt.Kind {
	case fmtspec.CountIndex:
		return schema.PositionalKey(cnt.Value), true
	case fmtspec.CountName:
		return schema.NamedKey(cnt.Name), true
	default:
		return schema.FieldKey{}, false
	}
}

// hint narrows a capture using the capability of the Go type found at the
// requested path.
func (c *codec) hint(req compile.HintRequest) (string, bool) {
	if req.With != "" {
		capability, ok := c.cfg.caps[req.With]
		return capability.Regex, ok && capability.Regex != ""
	}

	root, fields := c.typ, c.def.Fields

	if req.Variant != "" {
		proto, ok := c.cfg.variants[req.Variant]
		v, vok := c.def.Variant(req.Variant)

		if !ok || !vok || proto == nil {
			return "", false
		}

		root, fields = reflect.TypeOf(proto), v.Fields
	}

	acc, err := c.resolveAccessor(root, fields, req.Path)
	if err != nil {
		return "", false
	}

	if len(req.Path) > 1 && acc.field != nil && acc.field.With != "" {
		capability, ok := c.cfg.caps[acc.field.With]
		return capability.Regex, ok && capability.Regex != ""
	}

	t := acc.typ
	if req.Element {
		t = indirectType(t)
		if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
			return "", false
		}

		t = t.Elem()
	}

	return typeHint(t, req.Spec)
}

func typeHint(t reflect.Type, spec fmtspec.Spec) (string, bool) {
	if p, ok := regexHint(t); ok {
		return p, p != ""
	}

	t = indirectType(t)

	if _, ok := registered(t); ok || reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return "", false
	}

	return compile.PrimitiveHint(primitive.Resolve(t), spec)
}

func classOfType(t reflect.Type) fmtspec.Class {
	return compile.ClassOf(primitive.Resolve(t))
}

// checkBounds binds type parameters to the Go types found in the bound
// fields and checks that parsed parameters can be parsed.
func (c *codec) checkBounds() error {
	params := c.def.TypeParams
	if len(params) == 0 {
		return nil
	}

	binding := map[string]reflect.Type{}

	for _, b := range c.bodies() {
		for i := range b.fields {
			f := &b.fields[i]

			key, err := f.Key()
			if err != nil {
				continue
			}

			acc, ok := b.access[key.String()]
			if !ok || f.Type.IsZero() {
				continue
			}

			if err := unify(f.Type, acc.typ, params, binding); err != nil {
				return fmt.Errorf("field %s: %w", key, err)
			}
		}
	}

	for _, req := range c.report.Requirements {
		t, ok := binding[req.Param]
		if !ok || req.Caps&bounds.Parse == 0 {
			continue
		}

		if !canParse(t) {
			return fmt.Errorf("%w: type parameter %s is %s, which cannot be parsed", ErrNoCapability, req.Param, t)
		}
	}

	return nil
}

// unify matches a schema type expression against a Go type, recording the
// Go type of every type parameter it meets.
func unify(ref schema.TypeRef, t reflect.Type, params []string, binding map[string]reflect.Type) error {
	switch ref.Kind {
	case schema.TypeRefNamed:
		if len(ref.Args) > 0 || !slices.Contains(params, ref.Name) {
			return nil
		}

		if prev, ok := binding[ref.Name]; ok && prev != t {
			return fmt.Errorf("%w: type parameter %s is both %s and %s", ErrBinding, ref.Name, prev, t)
		}

		binding[ref.Name] = t
	case schema.TypeRefPointer:
		if t.Kind() == reflect.Pointer {
			return unify(*ref.Elem, t.Elem(), params, binding)
		}
	case schema.TypeRefSlice, schema.TypeRefArray:
		if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
			return unify(*ref.Elem, t.Elem(), params, binding)
		}
	case schema.TypeRefMap:
		if t.Kind() == reflect.Map {
			if err := unify(*ref.Key, t.Key(), params, binding); err != nil {
				return err
			}

			return unify(*ref.Elem, t.Elem(), params, binding)
		}
	}

	return nil
}

// checkCapabilities fails early for fields that are parsed or rendered
// without a way to do so.
func (b *body) checkCapabilities() error {
	check := func(path schema.FieldPath, f *schema.Field, t reflect.Type) error {
		if f != nil && f.With != "" {
			capability, err := b.c.cfg.capability(f.With)
			if err != nil {
				return fmt.Errorf("field %s: %w", path, err)
			}

			if capability.Parse == nil {
				return fmt.Errorf("field %s: %w: capability %q cannot parse", path, ErrNoCapability, f.With)
			}

			return nil
		}

		if !canParse(t) {
			return fmt.Errorf("field %s: %w: %s cannot be parsed", path, ErrNoCapability, t)
		}

		return nil
	}

	for _, fp := range b.prog.Fields {
		path := schema.FieldPath{fp.Key}
		acc := b.access[path.String()]

		if fp.Source == compile.FromCapture || (fp.Source == compile.FromDefault && fp.Field.DefaultValue != nil) {
			if err := check(path, fp.Field, acc.typ); err != nil {
				return err
			}
		}

		for _, d := range fp.Deep {
			full := path.Join(d.Path)
			deep := b.access[full.String()]

			if err := check(full, deep.field, deep.typ); err != nil {
				return err
			}
		}
	}

	var err error

	walkSegments(b.render, func(seg compile.Segment) {
		if err == nil && seg.Field != nil && seg.Field.With != "" {
			capability, cerr := b.c.cfg.capability(seg.Field.With)

			switch {
			case cerr != nil:
				err = fmt.Errorf("field %s: %w", seg.Path, cerr)
			case capability.Render == nil:
				err = fmt.Errorf("field %s: %w: capability %q cannot render", seg.Path, ErrNoCapability, seg.Field.With)
			}
		}
	})

	return err
}

func walkSegments(plan *compile.RenderPlan, fn func(compile.Segment)) {
	if plan == nil {
		return
	}

	for _, seg := range plan.Segments {
		fn(seg)
		walkSegments(seg.Sub, fn)
	}
}
