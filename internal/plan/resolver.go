package plan

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"display-generator/internal/analyze"
	"display-generator/internal/bounds"
	"display-generator/internal/compile"
	"display-generator/internal/diagnostic"
	"display-generator/schema"
)

// Config holds configuration for the resolution process.
type Config struct {
	// PkgPath is the import path of the package the types live in. Shapes
	// are searched there first.
	PkgPath string
	// StrictMode fails on any warning.
	StrictMode bool
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() Config {
	return Config{}
}

// Resolver performs the resolution pipeline.
type Resolver struct {
	file   *schema.File
	graph  *analyze.Graph
	config Config
	units  map[string]*compile.Unit
}

// NewResolver creates a new Resolver. graph may be nil, in which case the
// definitions must be complete on their own.
func NewResolver(file *schema.File, graph *analyze.Graph, config Config) *Resolver {
	return &Resolver{
		file:   file,
		graph:  graph,
		config: config,
		units:  map[string]*compile.Unit{},
	}
}

// Resolve runs the full resolution pipeline and returns a Plan. It
// completes the file's definitions in place.
func (r *Resolver) Resolve() (*Plan, error) {
	if r.file == nil {
		return nil, errors.New("schema file is required")
	}

	plan := &Plan{
		Package:      r.file.Package,
		Capabilities: r.file.Capabilities,
		Graph:        r.graph,
	}

	shapes := make([]*analyze.Shape, len(r.file.Types))

	for i := range r.file.Types {
		shapes[i] = r.complete(&r.file.Types[i], &plan.Diagnostics)
	}

	if err := schema.Validate(r.file); err != nil {
		for _, e := range flatten(err) {
			plan.Diagnostics.AddError(diagnostic.CodeSchema, e.Error(), "", "")
		}

		return plan, fmt.Errorf("invalid schema: %w", err)
	}

	for i := range r.file.Types {
		def := &r.file.Types[i]

		unit, err := compile.Compile(def, compile.Options{Hint: compile.StaticHint, Lookup: r.lookupDef})
		if err != nil {
			plan.Diagnostics.AddError(codeOf(err), err.Error(), def.Name, "")
			continue
		}

		r.units[def.Name] = unit
		plan.Diagnostics.Merge(unit.Diagnostics)
	}

	for i := range r.file.Types {
		def := &r.file.Types[i]

		unit, ok := r.units[def.Name]
		if !ok {
			continue
		}

		rt := ResolvedType{
			Def:    def,
			Unit:   unit,
			Bounds: bounds.Infer(def, unit.Usage, r.lookupUnit),
			Shape:  shapes[i],
			GoType: lo.Ternary(def.GoType != "", def.GoType, def.Name),
		}

		if !def.Bounds.IsZero() {
			plan.Diagnostics.AddInfo(diagnostic.CodeBoundOverride,
				"explicit bounds replace inference: "+bounds.Describe(rt.Bounds), def.Name, "")
		}

		if def.IsEnum() {
			rt.Form, rt.Variants = r.variants(def, rt.GoType, rt.Shape, &plan.Diagnostics)
		}

		plan.Types = append(plan.Types, rt)
	}

	if r.config.StrictMode && len(plan.Diagnostics.Warnings) > 0 {
		for _, w := range plan.Diagnostics.Warnings {
			w.Severity = diagnostic.SeverityError
			plan.Diagnostics.Add(w)
		}
	}

	if err := plan.Diagnostics.Error(); err != nil {
		return plan, fmt.Errorf("resolution failed: %w", err)
	}

	return plan, nil
}

func (r *Resolver) lookupDef(name string) (*schema.TypeDef, bool) {
	return r.file.Type(name)
}

func (r *Resolver) lookupUnit(name string) (*compile.Unit, bool) {
	u, ok := r.units[name]
	return u, ok
}

// codeOf maps compile failures to diagnostic codes.
func codeOf(err error) string {
	switch {
	case errors.Is(err, compile.ErrTemplateSyntax):
		return diagnostic.CodeTemplateSyntax
	case errors.Is(err, compile.ErrFormatSpec):
		return diagnostic.CodeFormatSpec
	case errors.Is(err, compile.ErrUnknownField):
		return diagnostic.CodeUnknownField
	case errors.Is(err, compile.ErrUnreachableField):
		return diagnostic.CodeUnreachableField
	case errors.Is(err, compile.ErrRegexSyntax):
		return diagnostic.CodeRegexSyntax
	default:
		return diagnostic.CodeSchema
	}
}

// flatten lists the leaves of a joined error.
func flatten(err error) []error {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return []error{err}
	}

	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flatten(e)...)
	}

	return out
}
