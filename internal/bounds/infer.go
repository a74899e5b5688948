package bounds

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"display-generator/internal/compile"
	"display-generator/schema"
)

// Lookup resolves a type name to its compiled unit.
type Lookup func(name string) (*compile.Unit, bool)

// Requirement is the capability set required of one type parameter.
type Requirement struct {
	Param string
	Caps  Capability
}

func (r Requirement) String() string {
	return r.Param + ": " + r.Caps.String()
}

// Report is the outcome of bound inference for one type.
type Report struct {
	Type   string
	Params []string
	// Explicit is true when the type declares its own bound list.
	Explicit bool
	// Requirements has one entry per type parameter, in declaration order.
	Requirements []Requirement
	Predicates   []Predicate
	// Opaque holds explicit bounds that do not name a type parameter.
	Opaque []string
	// Inferred is everything the templates require, whether or not an
	// explicit list replaced it.
	Inferred *Set
}

// Requires returns the capabilities required of param.
func (r *Report) Requires(param string) Capability {
	for _, req := range r.Requirements {
		if req.Param == param {
			return req.Caps
		}
	}

	return None
}

// IsEmpty returns true if the type carries no bounds at all.
func (r *Report) IsEmpty() bool {
	for _, req := range r.Requirements {
		if req.Caps != None {
			return false
		}
	}

	return len(r.Predicates) == 0 && len(r.Opaque) == 0
}

// Lines renders the report one bound per line.
func (r *Report) Lines() []string {
	var out []string

	for _, req := range r.Requirements {
		if req.Caps != None {
			out = append(out, req.String())
		}
	}

	for _, p := range r.Predicates {
		out = append(out, p.String())
	}

	return append(out, r.Opaque...)
}

// ParseBound parses an explicit bound of the form "T: render + parse".
func ParseBound(item string) (string, Capability, bool) {
	subject, rest, ok := strings.Cut(item, ":")
	if !ok {
		return "", None, false
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", None, false
	}

	var caps Capability

	for _, word := range strings.Split(rest, "+") {
		switch strings.TrimSpace(word) {
		case "render":
			caps |= Render
		case "parse":
			caps |= Parse
		default:
			return "", None, false
		}
	}

	return subject, caps, true
}

// Infer computes the bounds of def from how its templates use its fields.
// Types reachable through lookup are visited with their type arguments
// substituted; unknown generic types become opaque predicates.
func Infer(def *schema.TypeDef, usage []compile.Usage, lookup Lookup) *Report {
	inf := &inferrer{lookup: lookup, reports: map[string]*Report{}, visiting: map[string]bool{}}

	return inf.infer(def, usage)
}

type inferrer struct {
	lookup   Lookup
	reports  map[string]*Report
	visiting map[string]bool
}

func (inf *inferrer) infer(def *schema.TypeDef, usage []compile.Usage) *Report {
	if r, ok := inf.reports[def.Name]; ok {
		return r
	}

	inf.visiting[def.Name] = true
	defer delete(inf.visiting, def.Name)

	params := def.TypeParams
	stack := NewStack(def.Bounds.IsZero())
	stack.Top().AddExplicit(def.Bounds.Items...)

	inferred := NewSet()
	byVariant := lo.GroupBy(usage, func(u compile.Usage) string { return u.Variant })

	scopes := []string{""}
	if def.IsEnum() {
		scopes = lo.Map(def.Variants, func(v schema.Variant, _ int) string { return v.Name })
	}

	for _, name := range scopes {
		extensible := true

		if v, ok := def.Variant(name); ok && !v.Bounds.IsZero() {
			extensible = false
		}

		stack.Push(extensible)

		if v, ok := def.Variant(name); ok {
			stack.Top().AddExplicit(v.Bounds.Items...)
		}

		for _, u := range byVariant[name] {
			stack.Push(true)
			inf.usage(stack.Top(), params, u)
			inferred.Merge(stack.Pop())
		}

		stack.Pop()
	}

	r := &Report{
		Type:     def.Name,
		Params:   params,
		Explicit: !def.Bounds.IsZero(),
		Inferred: inferred,
	}

	root := stack.Top()
	r.Predicates = root.Predicates()

	for _, item := range root.Explicit() {
		subject, caps, ok := ParseBound(item)
		if ok && lo.Contains(params, subject) {
			root.Add(subject, caps)
			continue
		}

		r.Opaque = append(r.Opaque, item)
	}

	r.Requirements = lo.Map(params, func(p string, _ int) Requirement {
		return Requirement{Param: p, Caps: root.Requires(p)}
	})

	inf.reports[def.Name] = r

	return r
}

func (inf *inferrer) usage(set *Set, params []string, u compile.Usage) {
	if u.Field == nil || u.Field.HasParseOverride() {
		return
	}

	var caps Capability
	if u.Render {
		caps |= Render
	}

	if u.Parse {
		caps |= Parse
	}

	if len(u.Path) <= 1 {
		inf.require(set, params, u.Field.Type, caps)
		return
	}

	inf.deep(set, params, u.Field.Type, u.Path[1:], caps)
}

// require adds what typ needs for caps to hold.
func (inf *inferrer) require(set *Set, params []string, typ schema.TypeRef, caps Capability) {
	if caps == None || !typ.Mentions(params) {
		return
	}

	switch typ.Kind {
	case schema.TypeRefNamed:
		if p, ok := typ.Param(params); ok {
			set.Add(p, caps)
			return
		}

		if inf.visiting[typ.Name] {
			return
		}

		sub, def, ok := inf.nested(typ)
		if !ok || len(sub.Opaque) > 0 {
			set.AddPredicate(Predicate{Type: typ, Caps: caps})
		}

		if !ok {
			return
		}

		args := bindArgs(def, typ)

		for i, p := range def.TypeParams {
			need := sub.Requires(p) & caps
			if need != None && i < len(typ.Args) {
				inf.require(set, params, typ.Args[i], need)
			}
		}

		for _, pred := range sub.Predicates {
			t := pred.Type.Substitute(args)
			if t.Mentions(params) {
				set.AddPredicate(Predicate{Type: t, Caps: pred.Caps & caps, Path: pred.Path})
			}
		}
	case schema.TypeRefPointer, schema.TypeRefSlice, schema.TypeRefArray:
		inf.require(set, params, *typ.Elem, caps)
	default:
		set.AddPredicate(Predicate{Type: typ, Caps: caps})
	}
}

// deep adds what a dereference of path through typ needs. Only the type at
// the end of the path must carry caps; the intermediate values are built
// from their zero values.
func (inf *inferrer) deep(set *Set, params []string, typ schema.TypeRef, path schema.FieldPath, caps Capability) {
	for typ.Kind == schema.TypeRefPointer {
		typ = *typ.Elem
	}

	if !typ.Mentions(params) {
		return
	}

	opaque := func() {
		set.AddPredicate(Predicate{Type: typ, Caps: caps, Path: path.String()})
	}

	if typ.Kind != schema.TypeRefNamed {
		opaque()
		return
	}

	if inf.visiting[typ.Name] {
		return
	}

	_, def, ok := inf.nested(typ)
	if !ok || def.IsEnum() {
		opaque()
		return
	}

	f, ok := def.Field(path[0])
	if !ok || f.Type.IsZero() {
		opaque()
		return
	}

	if f.HasParseOverride() {
		return
	}

	ft := f.Type.Substitute(bindArgs(def, typ))
	if len(path) == 1 {
		inf.require(set, params, ft, caps)
		return
	}

	inf.deep(set, params, ft, path[1:], caps)
}

// nested returns the report of a named type known to lookup.
func (inf *inferrer) nested(typ schema.TypeRef) (*Report, *schema.TypeDef, bool) {
	if inf.lookup == nil {
		return nil, nil, false
	}

	unit, ok := inf.lookup(typ.Name)
	if !ok || len(unit.Def.TypeParams) != len(typ.Args) {
		return nil, nil, false
	}

	return inf.infer(unit.Def, unit.Usage), unit.Def, true
}

func bindArgs(def *schema.TypeDef, typ schema.TypeRef) map[string]schema.TypeRef {
	args := make(map[string]schema.TypeRef, len(def.TypeParams))

	for i, p := range def.TypeParams {
		if i < len(typ.Args) {
			args[p] = typ.Args[i]
		}
	}

	return args
}

// Describe summarizes a report on one line.
func Describe(r *Report) string {
	lines := r.Lines()
	if len(lines) == 0 {
		return fmt.Sprintf("%s: no bounds", r.Type)
	}

	return fmt.Sprintf("%s: %s", r.Type, strings.Join(lines, ", "))
}
