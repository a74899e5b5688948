package analyze

import (
	"go/types"
	"reflect"
	"sort"
	"strings"

	"display-generator/internal/common"
	"display-generator/schema"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "display-generator/examples/shapes"
	Name    string // e.g., "Point"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// ShapeKind represents the kind of a named type.
type ShapeKind int

const (
	ShapeUnknown   ShapeKind = iota
	ShapeStruct              // struct type
	ShapeInterface           // interface type, a candidate sum type
	ShapeScalar              // named integer, float, bool or string type
	ShapeExternal            // anything else (maps, funcs, named slices)
)

// String returns a human-readable representation of the ShapeKind.
func (k ShapeKind) String() string {
	switch k {
	case ShapeStruct:
		return "struct"
	case ShapeInterface:
		return "interface"
	case ShapeScalar:
		return "scalar"
	case ShapeExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// Shape describes an exported named type.
type Shape struct {
	ID         TypeID
	Kind       ShapeKind
	TypeParams []string
	// Fields lists the exported fields of a struct shape.
	Fields []FieldInfo
	// Implementers lists the named types of the loaded packages that
	// implement an interface shape.
	Implementers []Implementer
	// Consts lists the constants of a scalar shape in declaration order.
	Consts []string
	GoType types.Type
}

// Implementer is a named type implementing an interface shape.
type Implementer struct {
	ID TypeID
	// Pointer is set when only the pointer type implements the interface.
	Pointer bool
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Type     schema.TypeRef    // Field type as a schema type expression
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// DisplayName returns the field key used in templates: the name given by a
// `display` tag, else the JSON name, else the Go name.
func (f *FieldInfo) DisplayName() string {
	for _, key := range []string{"display", "json"} {
		if tag := f.Tag.Get(key); tag != "" && tag != "-" {
			if name, _, _ := strings.Cut(tag, ","); name != "" {
				return name
			}
		}
	}

	return f.Name
}

// Skipped returns true for fields tagged `display:"-"`.
func (f *FieldInfo) Skipped() bool {
	return f.Tag.Get("display") == "-"
}

// Field returns the field with the given Go name or display name.
func (s *Shape) Field(name string) (*FieldInfo, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name || s.Fields[i].DisplayName() == name {
			return &s.Fields[i], true
		}
	}

	return nil, false
}

// Implements returns the implementer with the given type name.
func (s *Shape) Implements(name string) (Implementer, bool) {
	for _, impl := range s.Implementers {
		if impl.ID.Name == name {
			return impl, true
		}
	}

	return Implementer{}, false
}

// Graph holds all analyzed shapes of the loaded packages.
type Graph struct {
	// Shapes maps TypeID to Shape for all exported named types.
	Shapes map[TypeID]*Shape
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		Shapes:   make(map[TypeID]*Shape),
		Packages: make(map[string]*PackageInfo),
	}
}

// Shape returns the shape for a given TypeID, or nil if not found.
func (g *Graph) Shape(id TypeID) *Shape {
	return g.Shapes[id]
}

// Find returns the shape named name. Packages are searched in import path
// order.
func (g *Graph) Find(name string) (*Shape, bool) {
	paths := make([]string, 0, len(g.Packages))
	for p := range g.Packages {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	for _, p := range paths {
		if s, ok := g.Shapes[TypeID{PkgPath: p, Name: name}]; ok {
			return s, true
		}
	}

	return nil, false
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Exported named types defined in this package
}
