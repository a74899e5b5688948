package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"
	"slices"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a shape graph.
type Analyzer struct {
	// Dir is the directory packages are resolved from; empty means the
	// current directory.
	Dir   string
	graph *Graph
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{graph: NewGraph()}
}

// LoadPackages loads the specified packages and builds the shape graph.
// Patterns are standard Go package patterns (e.g., "./shapes",
// "display-generator/examples/shapes").
func (a *Analyzer) LoadPackages(patterns ...string) (*Graph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		a.graph.Packages[pkg.PkgPath] = &PackageInfo{Path: pkg.PkgPath, Name: pkg.Name}
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg.Types)
	}

	a.linkImplementers()

	return a.graph, nil
}

// Graph returns the current shape graph.
func (a *Analyzer) Graph() *Graph {
	return a.graph
}

// processPackage extracts the exported named types of a package, then the
// constants of its scalar types.
func (a *Analyzer) processPackage(pkg *types.Package) {
	info := a.graph.Packages[pkg.Path()]
	scope := pkg.Scope()

	var consts []*types.Const

	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}

		switch obj := obj.(type) {
		case *types.TypeName:
			if obj.IsAlias() {
				continue
			}

			shape := a.analyzeNamed(obj, pkg)
			a.graph.Shapes[shape.ID] = shape
			info.Types = append(info.Types, shape.ID)
		case *types.Const:
			consts = append(consts, obj)
		}
	}

	slices.SortFunc(consts, func(x, y *types.Const) int {
		return int(x.Pos() - y.Pos())
	})

	for _, c := range consts {
		named, ok := c.Type().(*types.Named)
		if !ok || named.Obj().Pkg() != pkg {
			continue
		}

		if shape := a.graph.Shapes[TypeID{PkgPath: pkg.Path(), Name: named.Obj().Name()}]; shape != nil {
			shape.Consts = append(shape.Consts, c.Name())
		}
	}
}

// analyzeNamed describes one named type.
func (a *Analyzer) analyzeNamed(obj *types.TypeName, pkg *types.Package) *Shape {
	shape := &Shape{
		ID:     TypeID{PkgPath: pkg.Path(), Name: obj.Name()},
		GoType: obj.Type(),
	}

	named, ok := obj.Type().(*types.Named)
	if !ok {
		shape.Kind = ShapeExternal
		return shape
	}

	if tps := named.TypeParams(); tps != nil {
		for i := range tps.Len() {
			shape.TypeParams = append(shape.TypeParams, tps.At(i).Obj().Name())
		}
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		shape.Kind = ShapeStruct
		shape.Fields = structFields(ut, pkg)
	case *types.Interface:
		shape.Kind = ShapeInterface
	case *types.Basic:
		if ut.Info()&(types.IsInteger|types.IsFloat|types.IsBoolean|types.IsString) != 0 {
			shape.Kind = ShapeScalar
		} else {
			shape.Kind = ShapeExternal
		}
	default:
		shape.Kind = ShapeExternal
	}

	return shape
}

// structFields extracts the exported fields of a struct type.
func structFields(st *types.Struct, pkg *types.Package) []FieldInfo {
	var fields []FieldInfo

	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		fields = append(fields, FieldInfo{
			Name:     field.Name(),
			Type:     TypeRefOf(field.Type(), pkg),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
		})
	}

	return fields
}

// linkImplementers records, for every non-generic interface shape, the
// non-interface shapes of the same package implementing it.
func (a *Analyzer) linkImplementers() {
	for _, iface := range a.graph.Shapes {
		if iface.Kind != ShapeInterface || len(iface.TypeParams) > 0 {
			continue
		}

		it, ok := iface.GoType.Underlying().(*types.Interface)
		if !ok || it.NumMethods() == 0 {
			continue
		}

		for _, id := range a.graph.Packages[iface.ID.PkgPath].Types {
			cand := a.graph.Shapes[id]
			if cand.Kind == ShapeInterface || len(cand.TypeParams) > 0 {
				continue
			}

			switch {
			case types.Implements(cand.GoType, it):
				iface.Implementers = append(iface.Implementers, Implementer{ID: id})
			case types.Implements(types.NewPointer(cand.GoType), it):
				iface.Implementers = append(iface.Implementers, Implementer{ID: id, Pointer: true})
			}
		}
	}
}
