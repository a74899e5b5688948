package analyze

import (
	"go/types"
	"strconv"

	"display-generator/schema"
)

// TypeRefOf converts a Go type to a schema type expression as written in
// package local: types of other packages are qualified with their package
// name, type parameters keep their names.
func TypeRefOf(t types.Type, local *types.Package) schema.TypeRef {
	t = types.Unalias(t)

	switch tt := t.(type) {
	case *types.Basic:
		return schema.TypeRef{Kind: schema.TypeRefNamed, Name: tt.Name()}
	case *types.TypeParam:
		return schema.TypeRef{Kind: schema.TypeRefNamed, Name: tt.Obj().Name()}
	case *types.Named:
		obj := tt.Obj()

		name := obj.Name()
		if obj.Pkg() != nil && obj.Pkg() != local {
			name = obj.Pkg().Name() + "." + name
		}

		ref := schema.TypeRef{Kind: schema.TypeRefNamed, Name: name}

		if args := tt.TypeArgs(); args != nil {
			for i := range args.Len() {
				ref.Args = append(ref.Args, TypeRefOf(args.At(i), local))
			}
		}

		return ref
	case *types.Pointer:
		return elemRef(schema.TypeRefPointer, tt.Elem(), local)
	case *types.Slice:
		return elemRef(schema.TypeRefSlice, tt.Elem(), local)
	case *types.Array:
		ref := elemRef(schema.TypeRefArray, tt.Elem(), local)
		ref.Len = strconv.FormatInt(tt.Len(), 10)

		return ref
	case *types.Map:
		key := TypeRefOf(tt.Key(), local)
		ref := elemRef(schema.TypeRefMap, tt.Elem(), local)
		ref.Key = &key

		return ref
	default:
		return schema.TypeRef{Kind: schema.TypeRefNamed, Name: types.TypeString(t, types.RelativeTo(local))}
	}
}

func elemRef(kind schema.TypeRefKind, elem types.Type, local *types.Package) schema.TypeRef {
	e := TypeRefOf(elem, local)
	return schema.TypeRef{Kind: kind, Elem: &e}
}

// FieldPaths lists the display paths reachable in a struct shape, down to
// maxDepth nested structs of the same package. Keys are dotted display
// names such as "min.x".
func (g *Graph) FieldPaths(root *Shape, maxDepth int) []string {
	var out []string

	g.fieldPaths(root, "", 0, maxDepth, map[TypeID]bool{}, &out)

	return out
}

func (g *Graph) fieldPaths(s *Shape, prefix string, depth, maxDepth int, visiting map[TypeID]bool, out *[]string) {
	if s == nil || s.Kind != ShapeStruct || depth > maxDepth || visiting[s.ID] {
		return
	}

	visiting[s.ID] = true
	defer delete(visiting, s.ID)

	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Skipped() {
			continue
		}

		path := f.DisplayName()
		if prefix != "" {
			path = prefix + "." + path
		}

		*out = append(*out, path)

		ref := f.Type
		for ref.Kind == schema.TypeRefPointer {
			ref = *ref.Elem
		}

		if ref.Kind == schema.TypeRefNamed {
			g.fieldPaths(g.Shapes[TypeID{PkgPath: s.ID.PkgPath, Name: ref.Name}], path, depth+1, maxDepth, visiting, out)
		}
	}
}
