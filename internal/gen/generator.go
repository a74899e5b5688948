package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"display-generator/internal/bounds"
	"display-generator/internal/casing"
	"display-generator/internal/common"
	"display-generator/internal/plan"
	"display-generator/schema"
)

// schemaPkg is the import path of the package generated code parses its
// embedded definitions with.
const schemaPkg = "display-generator/schema"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package. The plan's package
	// takes precedence.
	PackageName string
	// OutputDir is where unformatted sources are dumped when formatting
	// fails.
	OutputDir string
	// PkgPath is the import path of the generated package; capabilities
	// living there are referenced without a qualifier.
	PkgPath string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName: "display",
		OutputDir:   ".",
	}
}

// Generator generates Go code from a resolved plan.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "point_display.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate generates one file per display type of the plan, in plan order.
func (g *Generator) Generate(p *plan.Plan) ([]GeneratedFile, error) {
	if p == nil {
		return nil, errors.New("plan is required")
	}

	files := make([]GeneratedFile, 0, len(p.Types))

	for i := range p.Types {
		file, err := g.generateType(p, &p.Types[i])
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", p.Types[i].Def.Name, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

func (g *Generator) generateType(p *plan.Plan, rt *plan.ResolvedType) (*GeneratedFile, error) {
	data, err := g.buildTemplateData(p, rt)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := typeTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if dump, dumpErr := dumpUnformatted(g.config.OutputDir, data.Filename, buf.Bytes()); dump != "" && dumpErr == nil {
			return nil, fmt.Errorf("formatting generated code (source saved to %s): %w", dump, err)
		}

		return nil, fmt.Errorf("formatting generated code: %w", err)
	}

	return &GeneratedFile{Filename: data.Filename, Content: formatted}, nil
}

// templateData holds all data needed for the type template.
type templateData struct {
	PackageName string
	Filename    string
	Imports     []importSpec
	Name        string
	GoType      string
	// Var is the variable holding the parsed definition.
	Var string
	// Schema is the definition as a Go string literal.
	Schema string
	Bounds string
	// TypeParams is the type parameter list of declarations, "[K any]".
	TypeParams string
	// TypeArgs is the type argument list of uses, "[K]".
	TypeArgs     string
	Register     bool
	Methods      bool
	Variants     []variantData
	Stringers    []string
	Capabilities []capabilityData
	Types        []string
}

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

type variantData struct {
	Name  string
	Proto string
}

type capabilityData struct {
	Name string
	Expr string
}

// buildTemplateData constructs the template data of one resolved type.
func (g *Generator) buildTemplateData(p *plan.Plan, rt *plan.ResolvedType) (*templateData, error) {
	def := rt.Def

	src, err := schema.MarshalType(def)
	if err != nil {
		return nil, fmt.Errorf("encoding definition: %w", err)
	}

	goType, _, _ := strings.Cut(rt.GoType, "[")
	if strings.Contains(goType, ".") {
		return nil, fmt.Errorf("go type %s is not declared in the generated package", goType)
	}

	data := &templateData{
		PackageName: lo.Ternary(p.Package != "", p.Package, g.config.PackageName),
		Filename:    casing.Snake.Apply(def.Name) + "_display.go",
		Name:        def.Name,
		GoType:      goType,
		Var:         varName(def.Name),
		Schema:      goString(string(src)),
		Bounds:      bounds.Describe(rt.Bounds),
		Register:    !rt.IsGeneric(),
		Methods:     rt.Form != plan.FormInterface,
	}

	if rt.IsGeneric() {
		data.TypeParams = "[" + strings.Join(lo.Map(def.TypeParams, func(tp string, _ int) string {
			return tp + " any"
		}), ", ") + "]"
		data.TypeArgs = "[" + strings.Join(def.TypeParams, ", ") + "]"
	}

	for _, v := range rt.Variants {
		data.Variants = append(data.Variants, variantData{Name: v.Name, Proto: v.Proto})

		if rt.Form != plan.FormInterface || rt.IsGeneric() || strings.Contains(v.GoType, ".") {
			continue
		}

		if _, own := p.Type(v.GoType); own {
			continue
		}

		data.Stringers = append(data.Stringers, lo.Ternary(v.Pointer, "*"+v.GoType, v.GoType))
	}

	runtime := lo.Ternary(def.Runtime != "", def.Runtime, schema.DefaultRuntime)
	imports := map[string]importSpec{
		runtime:   {Alias: "display", Path: runtime},
		schemaPkg: {Path: schemaPkg},
	}

	for _, name := range capabilityNames(def) {
		ref, ok := lo.Find(p.Capabilities, func(c schema.CapabilityRef) bool { return c.Name == name })
		if !ok {
			return nil, fmt.Errorf("capability %q is not declared", name)
		}

		if ref.Package != "" && ref.Package != g.config.PkgPath {
			imports[ref.Package] = importSpec{Path: ref.Package}
		}

		data.Capabilities = append(data.Capabilities, capabilityData{Name: ref.Name, Expr: ref.Go})
	}

	for _, name := range nestedTypes(def) {
		if name != def.Name && lo.ContainsBy(p.Types, func(t plan.ResolvedType) bool { return t.Def.Name == name }) {
			data.Types = append(data.Types, varName(name))
		}
	}

	for _, spec := range imports {
		if spec.Alias == common.PkgAlias(spec.Path) {
			spec.Alias = ""
		}

		data.Imports = append(data.Imports, spec)
	}

	slices.SortFunc(data.Imports, func(a, b importSpec) int { return strings.Compare(a.Path, b.Path) })

	return data, nil
}

// varName returns the unexported variable holding a definition.
func varName(name string) string {
	return casing.LowerCamel.Apply(name) + "Display"
}

// goString quotes s as a raw string literal when possible.
func goString(s string) string {
	if strings.Contains(s, "`") || strings.Contains(s, "\r") {
		return strconv.Quote(s)
	}

	return "`\n" + s + "`"
}

// capabilityNames lists the capabilities the fields of def name, sorted.
func capabilityNames(def *schema.TypeDef) []string {
	var names []string

	collect := func(fields []schema.Field) {
		for _, f := range fields {
			if f.With != "" {
				names = append(names, f.With)
			}
		}
	}

	collect(def.Fields)

	for _, v := range def.Variants {
		collect(v.Fields)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// nestedTypes lists the unqualified type names the fields of def mention,
// sorted.
func nestedTypes(def *schema.TypeDef) []string {
	var names []string

	var walk func(t schema.TypeRef)
	walk = func(t schema.TypeRef) {
		switch t.Kind {
		case schema.TypeRefNamed:
			if !strings.Contains(t.Name, ".") {
				names = append(names, t.Name)
			}

			for _, a := range t.Args {
				walk(a)
			}
		case schema.TypeRefMap:
			walk(*t.Key)
			walk(*t.Elem)
		case schema.TypeRefPointer, schema.TypeRefSlice, schema.TypeRefArray:
			walk(*t.Elem)
		}
	}

	for _, f := range def.Fields {
		walk(f.Type)
	}

	for _, v := range def.Variants {
		for _, f := range v.Fields {
			walk(f.Type)
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}
