package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"display-generator/internal/bounds"
	"display-generator/internal/compile"
	"display-generator/internal/plan"
)

// maxPathDepth bounds the nested field paths listed for a type.
const maxPathDepth = 2

var (
	headColor  = color.New(color.Bold)
	labelColor = color.New(color.FgHiBlack)
)

func (cfg *explainConfig) run(cc *cli.Context, args []string) error {
	_, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}

	log := newLogger(cfg.Verbose)
	defer func() { _ = log.Sync() }()

	colorize(cc.Out)

	l, err := load(log, source{schema: cfg.Schema, pkg: cfg.Pkg})
	if l != nil && l.plan != nil {
		printDiagnostics(cc.Out, &l.plan.Diagnostics, cfg.Verbose)
	}

	if err != nil {
		return err
	}

	return explain(cc.Out, l.plan, cfg.Type, cfg.Dump)
}

// explain writes what every type of p renders and accepts.
func explain(w io.Writer, p *plan.Plan, only string, dump bool) error {
	found := false

	for i := range p.Types {
		rt := &p.Types[i]
		if only != "" && rt.Def.Name != only {
			continue
		}

		found = true

		explainType(w, p, rt)

		if dump {
			cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
			cfg.Fdump(w, rt.Unit.Render, rt.Unit.Program, rt.Unit.Variants)
		}
	}

	if only != "" && !found {
		return fmt.Errorf("%w: no type %q in schema", cli.ErrUsage, only)
	}

	return nil
}

func explainType(w io.Writer, p *plan.Plan, rt *plan.ResolvedType) {
	form := "struct"
	if rt.Def.IsEnum() {
		form = rt.Form.String() + " enum"
	}

	_, _ = headColor.Fprintf(w, "%s", rt.Def.Name)
	_, _ = fmt.Fprintf(w, " (%s, Go type %s)\n", form, rt.GoType)

	line := func(label, format string, args ...any) {
		_, _ = labelColor.Fprintf(w, "  %-8s", label)
		_, _ = fmt.Fprintf(w, format+"\n", args...)
	}

	line("bounds", "%s", bounds.Describe(rt.Bounds))

	if rt.Shape != nil && p.Graph != nil {
		if paths := p.Graph.FieldPaths(rt.Shape, maxPathDepth); len(paths) > 0 {
			line("paths", "%s", strings.Join(paths, " "))
		}
	}

	if !rt.Def.IsEnum() {
		line("pattern", "%s", rt.Unit.Program.Pattern)
		return
	}

	for i, v := range rt.Unit.Variants {
		proto := ""
		if i < len(rt.Variants) {
			proto = rt.Variants[i].Proto
		}

		line("variant", "%s = %s", v.Name, proto)
		line("", "  accepts %s", accepts(rt.Unit, v))
	}
}

// accepts describes the input a variant parses.
func accepts(u *compile.Unit, v *compile.Variant) string {
	if !v.Program.IsLiteral {
		return v.Program.Pattern
	}

	if owner, ok := u.Dispatch.Literals[v.Program.Literal]; ok && owner != v.Index {
		return fmt.Sprintf("nothing (%q belongs to %s)", v.Program.Literal, u.Variants[owner].Name)
	}

	return fmt.Sprintf("exactly %q", v.Program.Literal)
}
