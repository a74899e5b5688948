package compile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"display-generator/internal/capture"
	"display-generator/internal/common"
	"display-generator/internal/diagnostic"
	"display-generator/internal/fmtspec"
	"display-generator/internal/match"
	"display-generator/internal/synth"
	"display-generator/internal/template"
	"display-generator/schema"
)

// builder compiles the templates of one struct or variant.
type builder struct {
	def     *schema.TypeDef
	variant string
	fields  []schema.Field
	enum    bool
	tag     string
	opts    Options
	alloc   *capture.Allocator
	arena   *synth.Arena
	diags   *diagnostic.Diagnostics

	templates map[string]*template.Template
	// fragments holds each field's first fragment before optional wrapping.
	fragments map[schema.FieldKey]synth.NodeID
	rendered  []schema.FieldPath
	// specs holds the format spec of each slot's first capture.
	specs map[capture.Slot]fmtspec.Spec
}

func newBuilder(
	def *schema.TypeDef,
	variant string,
	fields []schema.Field,
	defaultAll bool,
	opts Options,
	diags *diagnostic.Diagnostics,
) (*builder, error) {
	alloc, err := capture.New(fields, defaultAll)
	if err != nil {
		return nil, err
	}

	return &builder{
		def:       def,
		variant:   variant,
		fields:    fields,
		opts:      opts,
		alloc:     alloc,
		arena:     synth.NewArena(),
		diags:     diags,
		templates: map[string]*template.Template{},
		fragments: map[schema.FieldKey]synth.NodeID{},
		specs:     map[capture.Slot]fmtspec.Spec{},
	}, nil
}

func (b *builder) where() string {
	if b.variant != "" {
		return b.def.Name + "::" + b.variant
	}

	return b.def.Name
}

func (b *builder) parse(src string) (*template.Template, error) {
	if t, ok := b.templates[src]; ok {
		return t, nil
	}

	t, err := template.Parse(src)
	if err != nil {
		return nil, err
	}

	b.templates[src] = t

	return t, nil
}

// spec parses a placeholder's format spec and checks its argument references.
func (b *builder) spec(tok template.Token) (fmtspec.Spec, error) {
	if tok.Spec == "" {
		return fmtspec.Spec{}, nil
	}

	spec, err := fmtspec.Parse(tok.Spec)
	if err != nil {
		return fmtspec.Spec{}, err
	}

	if spec.Precision.Kind == fmtspec.CountNext {
		return fmtspec.Spec{}, &fmtspec.Error{
			Spec: tok.Spec,
			Pos:  strings.IndexByte(tok.Spec, '*'),
			Msg:  "precision '*' has no next argument to take",
		}
	}

	for _, c := range []fmtspec.Count{spec.Width, spec.Precision} {
		var key schema.FieldKey

		switch c.Kind {
		case fmtspec.CountIndex:
			key = schema.PositionalKey(c.Value)
		case fmtspec.CountName:
			key = schema.NamedKey(c.Name)
		default:
			continue
		}

		if _, err := b.alloc.Lookup(schema.FieldPath{key}); err != nil {
			return fmtspec.Spec{}, err
		}
	}

	return spec, nil
}

func appendLiteral(segs []Segment, text string) []Segment {
	if n := len(segs); n > 0 && segs[n-1].Kind == SegLiteral {
		segs[n-1].Text += text
		return segs
	}

	return append(segs, Segment{Kind: SegLiteral, Text: text})
}

func (b *builder) selfError(tpl *template.Template, tok template.Token) error {
	return &template.SyntaxError{
		Source: tpl.Source,
		Span:   tok.Span,
		Msg:    "empty placeholder refers to the value itself; name a field",
	}
}

// renderPlan builds the render plan of a type or variant template.
func (b *builder) renderPlan(src string) (*RenderPlan, error) {
	tpl, err := b.parse(src)
	if err != nil {
		return nil, err
	}

	plan := &RenderPlan{Template: src}

	for _, tok := range tpl.Tokens {
		if tok.Kind != template.Placeholder {
			plan.Segments = appendLiteral(plan.Segments, tok.Text)
			continue
		}

		spec, err := b.spec(tok)
		if err != nil {
			return nil, err
		}

		if tok.Path.IsEmpty() {
			if !b.enum {
				return nil, b.selfError(tpl, tok)
			}

			plan.Segments = append(plan.Segments, Segment{Kind: SegTag, Text: b.tag, Spec: spec})

			continue
		}

		entry, err := b.alloc.Lookup(tok.Path)
		if err != nil {
			return nil, err
		}

		if err := b.checkPath(tok.Path); err != nil {
			return nil, err
		}

		seg := Segment{Kind: SegField, Path: tok.Path, Spec: spec}

		if len(tok.Path) == 1 {
			seg.Field = entry.Field

			if entry.Field.Format != "" {
				if seg.Sub, err = b.fieldPlan(entry.Field, tok.Path); err != nil {
					return nil, fmt.Errorf("field %s: %w", tok.Path, err)
				}
			} else {
				b.rendered = append(b.rendered, tok.Path)
			}
		} else {
			b.rendered = append(b.rendered, tok.Path)
		}

		plan.Segments = append(plan.Segments, seg)
	}

	return plan, nil
}

// fieldPlan builds the render plan of a field's own format. Its empty
// placeholder is the field value; other paths are relative to the field.
func (b *builder) fieldPlan(f *schema.Field, prefix schema.FieldPath) (*RenderPlan, error) {
	tpl, err := b.parse(f.Format)
	if err != nil {
		return nil, err
	}

	plan := &RenderPlan{Template: f.Format}

	for _, tok := range tpl.Tokens {
		if tok.Kind != template.Placeholder {
			plan.Segments = appendLiteral(plan.Segments, tok.Text)
			continue
		}

		spec, err := b.spec(tok)
		if err != nil {
			return nil, err
		}

		if tok.Path.IsEmpty() {
			b.rendered = append(b.rendered, prefix)
			plan.Segments = append(plan.Segments, Segment{Kind: SegSelf, Spec: spec, Field: f})

			continue
		}

		full := prefix.Join(tok.Path)
		if err := b.checkPath(full); err != nil {
			return nil, err
		}

		b.rendered = append(b.rendered, full)
		plan.Segments = append(plan.Segments, Segment{Kind: SegField, Path: tok.Path, Spec: spec})
	}

	return plan, nil
}

// templateNode builds the pattern tree of a type or variant template.
func (b *builder) templateNode(src string) (synth.NodeID, error) {
	tpl, err := b.parse(src)
	if err != nil {
		return 0, err
	}

	nodes := make([]synth.NodeID, 0, len(tpl.Tokens))

	for _, tok := range tpl.Tokens {
		switch {
		case tok.Kind != template.Placeholder:
			nodes = append(nodes, b.arena.Literal(tok.Text))
		case tok.Path.IsEmpty():
			if !b.enum {
				return 0, b.selfError(tpl, tok)
			}

			spec, err := b.spec(tok)
			if err != nil {
				return 0, err
			}

			nodes = append(nodes, b.padded(spec, b.arena.Tag(b.tag)))
		default:
			spec, err := b.spec(tok)
			if err != nil {
				return 0, err
			}

			n, err := b.placeholderNode(tok.Path, spec)
			if err != nil {
				return 0, err
			}

			nodes = append(nodes, n)
		}
	}

	return b.arena.Concat(nodes...), nil
}

func (b *builder) placeholderNode(path schema.FieldPath, spec fmtspec.Spec) (synth.NodeID, error) {
	entry, err := b.alloc.Lookup(path)
	if err != nil {
		return 0, err
	}

	if err := b.checkPath(path); err != nil {
		return 0, err
	}

	slot, err := b.alloc.Request(path)
	if err != nil {
		return 0, err
	}

	if len(path) > 1 {
		return b.capture(slot, spec, b.hintOrAny(HintRequest{Path: path, Type: b.typeAt(path), Spec: spec})), nil
	}

	frag, err := b.fieldFragment(entry.Field, path, slot, spec)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", path, err)
	}

	if _, seen := b.fragments[entry.Key]; !seen {
		b.fragments[entry.Key] = frag
	}

	if entry.Field.Optional {
		return b.arena.Optional(frag), nil
	}

	return frag, nil
}

// fieldFragment is the pattern of one occurrence of a top-level field:
// its raw regex, its own format, or a capture of its value.
func (b *builder) fieldFragment(f *schema.Field, path schema.FieldPath, slot capture.Slot, spec fmtspec.Spec) (synth.NodeID, error) {
	switch {
	case f.Regex != "":
		sc := b.alloc.Scope(path)

		raw, err := b.arena.Raw(f.Regex, synth.RawOptions{Context: synth.FieldContext, Resolve: sc.Request})
		if err != nil {
			return 0, err
		}

		return b.padded(spec, b.arena.Scope(slot, raw)), nil
	case f.Format != "":
		body, err := b.fieldFormatNode(f, path, slot)
		if err != nil {
			return 0, err
		}

		return b.padded(spec, b.arena.Scope(slot, body)), nil
	default:
		return b.capture(slot, spec, b.valueBody(path, f, spec)), nil
	}
}

func (b *builder) fieldFormatNode(f *schema.Field, path schema.FieldPath, self capture.Slot) (synth.NodeID, error) {
	tpl, err := b.parse(f.Format)
	if err != nil {
		return 0, err
	}

	sc := b.alloc.Scope(path)
	nodes := make([]synth.NodeID, 0, len(tpl.Tokens))

	for _, tok := range tpl.Tokens {
		if tok.Kind != template.Placeholder {
			nodes = append(nodes, b.arena.Literal(tok.Text))
			continue
		}

		spec, err := b.spec(tok)
		if err != nil {
			return 0, err
		}

		if tok.Path.IsEmpty() {
			b.recordSpec(self, spec)
			nodes = append(nodes, b.arena.Capture(capture.Self, b.valueBody(path, f, spec)))
			continue
		}

		slot, err := sc.Request(tok.Path)
		if err != nil {
			return 0, err
		}

		full := path.Join(tok.Path)
		nodes = append(nodes, b.capture(slot, spec, b.hintOrAny(HintRequest{Path: full, Type: b.typeAt(full), Spec: spec})))
	}

	return b.arena.Concat(nodes...), nil
}

func (b *builder) capture(slot capture.Slot, spec fmtspec.Spec, body synth.NodeID) synth.NodeID {
	b.recordSpec(slot, spec)
	return b.arena.Capture(slot, body)
}

func (b *builder) recordSpec(slot capture.Slot, spec fmtspec.Spec) {
	if _, ok := b.specs[slot]; !ok {
		b.specs[slot] = spec
	}
}

// padded lets a fragment that cannot absorb padding itself accept the fill
// runes a width spec adds around it.
func (b *builder) padded(spec fmtspec.Spec, frag synth.NodeID) synth.NodeID {
	if !spec.Width.IsSet() {
		return frag
	}

	fill := b.arena.Hint(regexp.QuoteMeta(string(spec.FillRune())) + "*")

	return b.arena.Concat(fill, frag, fill)
}

// valueBody matches the text of a whole field value.
func (b *builder) valueBody(path schema.FieldPath, f *schema.Field, spec fmtspec.Spec) synth.NodeID {
	req := HintRequest{Path: path, Type: f.Type, Spec: spec, With: f.With}
	if f.Delimiter == "" {
		return b.hintOrAny(req)
	}

	req.Type, req.Element = schema.TypeRef{}, true
	if f.Type.Elem != nil {
		req.Type = *f.Type.Elem
	}

	return b.arena.Repeat(b.hintOrAny(req), b.arena.Literal(f.Delimiter))
}

func (b *builder) hintOrAny(req HintRequest) synth.NodeID {
	req.Variant = b.variant

	if b.opts.Hint != nil {
		if p, ok := b.opts.Hint(req); ok && p != "" {
			return b.arena.Hint(p)
		}
	}

	return b.arena.Any()
}

// nested returns the fields of the struct type typ refers to, when known.
func (b *builder) nested(typ schema.TypeRef) ([]schema.Field, bool) {
	for typ.Kind == schema.TypeRefPointer && typ.Elem != nil {
		typ = *typ.Elem
	}

	if typ.Kind != schema.TypeRefNamed || b.opts.Lookup == nil {
		return nil, false
	}

	def, ok := b.opts.Lookup(typ.Name)
	if !ok || def.IsEnum() {
		return nil, false
	}

	if len(def.TypeParams) == 0 || len(def.TypeParams) != len(typ.Args) {
		return def.Fields, true
	}

	subst := lo.SliceToMap(lo.Range(len(def.TypeParams)), func(i int) (string, schema.TypeRef) {
		return def.TypeParams[i], typ.Args[i]
	})

	return lo.Map(def.Fields, func(f schema.Field, _ int) schema.Field {
		f.Type = f.Type.Substitute(subst)
		return f
	}), true
}

// typeAt returns the type of the value at path, or the zero TypeRef when a
// segment crosses an unknown type.
func (b *builder) typeAt(path schema.FieldPath) schema.TypeRef {
	fields := b.fields

	for i, key := range path {
		f, ok := findField(fields, key)
		if !ok {
			return schema.TypeRef{}
		}

		if i == len(path)-1 {
			return f.Type
		}

		if fields, ok = b.nested(f.Type); !ok {
			return schema.TypeRef{}
		}
	}

	return schema.TypeRef{}
}

// checkPath validates deep segments against known nested types.
func (b *builder) checkPath(path schema.FieldPath) error {
	fields := b.fields

	for i, key := range path {
		f, ok := findField(fields, key)
		if !ok {
			names := lo.Map(fields, func(f schema.Field, _ int) string { return f.Name })

			return &capture.UnknownFieldError{
				Path:        path,
				Key:         key,
				Suggestions: match.Suggest(key.String(), names, 3),
			}
		}

		if i == len(path)-1 {
			return nil
		}

		if fields, ok = b.nested(f.Type); !ok {
			return nil
		}
	}

	return nil
}

func findField(fields []schema.Field, key schema.FieldKey) (schema.Field, bool) {
	for _, f := range fields {
		if k, err := f.Key(); err == nil && k == key {
			return f, true
		}
	}

	return schema.Field{}, false
}

// finish turns the pattern tree into a program with construction steps.
func (b *builder) finish(root synth.NodeID) (*Program, error) {
	prog := &Program{Pattern: b.arena.Pattern(root)}

	if lit, ok := b.arena.LiteralText(root); ok {
		prog.Literal, prog.IsLiteral = lit, true
	}

	present := map[capture.Slot]bool{}

	for _, s := range b.arena.Slots(root) {
		path, ok := b.alloc.PathOf(s)
		if !ok {
			continue
		}

		present[s] = true
		prog.Captures = append(prog.Captures, Capture{Group: s.Name(), Slot: s, Path: path})
	}

	for _, e := range b.alloc.Entries() {
		fp, err := b.fieldPlanFor(e, present)
		if err != nil {
			return nil, err
		}

		prog.Fields = append(prog.Fields, fp)
	}

	return prog, nil
}

func (b *builder) fieldPlanFor(e *capture.Entry, present map[capture.Slot]bool) (FieldPlan, error) {
	fp := FieldPlan{Key: e.Key, Field: e.Field}
	top := e.HasSlot && present[e.Slot]
	deep := lo.Filter(e.Deep, func(d capture.DeepCapture, _ int) bool { return present[d.Slot] })

	switch {
	case top:
		fp.Source = FromCapture
		fp.Group = e.Slot.Name()
		fp.Spec = b.specs[e.Slot]
	case e.UseDefault:
		fp.Source = FromDefault
	case len(deep) > 0:
		fp.Source = FromZero
	default:
		return FieldPlan{}, &UnreachableFieldError{Field: e.Key}
	}

	order, err := common.TopoSort(len(deep), func(i int) []int {
		var deps []int

		for j := range deep {
			if j != i && len(deep[j].Path) < len(deep[i].Path) && deep[i].Path.HasPrefix(deep[j].Path) {
				deps = append(deps, j)
			}
		}

		return deps
	})
	if err != nil {
		return FieldPlan{}, err
	}

	for _, i := range order {
		fp.Deep = append(fp.Deep, DeepAssign{Path: deep[i].Path, Group: deep[i].Slot.Name(), Spec: b.specs[deep[i].Slot]})
	}

	key := e.Key.String()

	if top && e.Field.Optional {
		if frag, ok := b.fragments[e.Key]; ok && b.arena.MatchesEmpty(frag) {
			b.diags.AddWarning(diagnostic.CodeOptionalEmptyMatch,
				"optional field can match the empty string: a missing occurrence yields nil, "+
					"an empty one is parsed as text; supply a regex or a narrowing capability",
				b.where(), key)
		}
	}

	if top && !e.Field.Optional && e.Field.DefaultValue != nil {
		b.diags.AddWarning(diagnostic.CodeUnusedDefault,
			"default_value is never used: the field is always captured", b.where(), key)
	}

	return fp, nil
}

// usage reports how the unit's templates exercise each field path.
func (b *builder) usage(prog *Program) []Usage {
	var out []Usage

	index := map[string]int{}

	add := func(path schema.FieldPath, render bool) {
		k := path.String()

		i, ok := index[k]
		if !ok {
			entry, err := b.alloc.Lookup(path)
			if err != nil {
				return
			}

			i = len(out)
			index[k] = i
			out = append(out, Usage{Variant: b.variant, Field: entry.Field, Path: path})
		}

		if render {
			out[i].Render = true
		} else {
			out[i].Parse = true
		}
	}

	for _, p := range b.rendered {
		add(p, true)
	}

	for _, fp := range prog.Fields {
		if fp.Source == FromCapture {
			add(schema.FieldPath{fp.Key}, false)
		}

		for _, d := range fp.Deep {
			add(schema.FieldPath{fp.Key}.Join(d.Path), false)
		}
	}

	return out
}
