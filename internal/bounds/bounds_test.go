package bounds

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"display-generator/internal/compile"
	"display-generator/schema"
)

func field(name, typ string) schema.Field {
	return schema.Field{Name: name, Type: schema.MustParseTypeRef(typ)}
}

type universe map[string]*compile.Unit

func (u universe) lookup(name string) (*compile.Unit, bool) {
	unit, ok := u[name]
	return unit, ok
}

func (u universe) add(t *testing.T, def *schema.TypeDef) *compile.Unit {
	t.Helper()

	unit, err := compile.Compile(def, compile.Options{
		Lookup: func(name string) (*schema.TypeDef, bool) {
			if unit, ok := u[name]; ok {
				return unit.Def, true
			}

			return nil, false
		},
	})
	require.NoError(t, err)

	u[def.Name] = unit

	return unit
}

func (u universe) infer(t *testing.T, def *schema.TypeDef) *Report {
	t.Helper()

	unit := u.add(t, def)

	return Infer(unit.Def, unit.Usage, u.lookup)
}

func TestInferDirectParam(t *testing.T) {
	unused := field("c", "U")
	unused.Default = true

	r := universe{}.infer(t, &schema.TypeDef{
		Name:       "Pair",
		Kind:       schema.KindStruct,
		TypeParams: []string{"T", "U"},
		Format:     "{a},{b}",
		Fields:     []schema.Field{field("a", "T"), field("b", "int"), unused},
	})

	assert.Equal(t, []Requirement{{Param: "T", Caps: Render | Parse}, {Param: "U", Caps: None}}, r.Requirements)
	assert.Equal(t, None, r.Requires("U"))
	assert.Equal(t, []string{"T: render + parse"}, r.Lines())
	assert.False(t, r.Explicit)
}

func TestInferWithOnlyFieldAddsNothing(t *testing.T) {
	f := field("a", "T")
	f.With = "hex"

	r := universe{}.infer(t, &schema.TypeDef{
		Name:       "Wrapped",
		Kind:       schema.KindStruct,
		TypeParams: []string{"T"},
		Format:     "<{a}>",
		Fields:     []schema.Field{f},
	})

	assert.Equal(t, None, r.Requires("T"))
	assert.True(t, r.IsEmpty())
}

func TestInferSliceAndPointer(t *testing.T) {
	list := field("items", "[]*T")
	list.Delimiter = ","

	r := universe{}.infer(t, &schema.TypeDef{
		Name:       "List",
		Kind:       schema.KindStruct,
		TypeParams: []string{"T"},
		Format:     "[{items}]",
		Fields:     []schema.Field{list},
	})

	assert.Equal(t, Render|Parse, r.Requires("T"))
}

func TestInferNestedKnownGeneric(t *testing.T) {
	skipped := field("y", "int")
	skipped.Default = true

	u := universe{}
	u.add(t, &schema.TypeDef{
		Name:       "Box",
		Kind:       schema.KindStruct,
		TypeParams: []string{"V"},
		Format:     "box({x})",
		Fields:     []schema.Field{field("x", "V"), skipped},
	})

	r := u.infer(t, &schema.TypeDef{
		Name:       "Outer",
		Kind:       schema.KindStruct,
		TypeParams: []string{"T"},
		Format:     "{b}",
		Fields:     []schema.Field{field("b", "Box[T]")},
	})

	assert.Equal(t, Render|Parse, r.Requires("T"))
	assert.Empty(t, r.Predicates)
}

func TestInferDeepPathConstrainsLeafOnly(t *testing.T) {
	u := universe{}
	u.add(t, &schema.TypeDef{
		Name:       "Box",
		Kind:       schema.KindStruct,
		TypeParams: []string{"V", "W"},
		Format:     "{x}/{y}",
		Fields:     []schema.Field{field("x", "V"), field("y", "W")},
	})

	r := u.infer(t, &schema.TypeDef{
		Name:       "Outer",
		Kind:       schema.KindStruct,
		TypeParams: []string{"T", "U"},
		Format:     "{b.x}",
		Fields:     []schema.Field{field("b", "Box[T, U]")},
	})

	assert.Equal(t, Render|Parse, r.Requires("T"))
	assert.Equal(t, None, r.Requires("U"))
}

func TestInferUnknownGenericIsOpaque(t *testing.T) {
	r := universe{}.infer(t, &schema.TypeDef{
		Name:       "Holder",
		Kind:       schema.KindStruct,
		TypeParams: []string{"T"},
		Format:     "{h}",
		Fields:     []schema.Field{field("h", "ext.List[T]")},
	})

	want := []Predicate{{Type: schema.MustParseTypeRef("ext.List[T]"), Caps: Render | Parse}}
	if diff := cmp.Diff(want, r.Predicates); diff != "" {
		t.Errorf("predicates mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, None, r.Requires("T"))
	assert.Equal(t, []string{"ext.List[T]: render + parse"}, r.Lines())
}

func TestInferExplicitBoundsReplaceInference(t *testing.T) {
	r := universe{}.infer(t, &schema.TypeDef{
		Name:       "Pair",
		Kind:       schema.KindStruct,
		TypeParams: []string{"T"},
		Format:     "{a}",
		Bounds:     schema.Bounds("T: render", "T: fmt.Stringer"),
		Fields:     []schema.Field{field("a", "T")},
	})

	assert.True(t, r.Explicit)
	assert.Equal(t, Render, r.Requires("T"))
	assert.Equal(t, []string{"T: fmt.Stringer"}, r.Opaque)
	assert.Equal(t, Render|Parse, r.Inferred.Requires("T"))
}

func TestInferExplicitEmptyBounds(t *testing.T) {
	r := universe{}.infer(t, &schema.TypeDef{
		Name:       "Pair",
		Kind:       schema.KindStruct,
		TypeParams: []string{"T"},
		Format:     "{a}",
		Bounds:     schema.Bounds(),
		Fields:     []schema.Field{field("a", "T")},
	})

	assert.True(t, r.IsEmpty())
}

func TestInferEnumVariantScopes(t *testing.T) {
	r := universe{}.infer(t, &schema.TypeDef{
		Name:       "Opt",
		Kind:       schema.KindEnum,
		TypeParams: []string{"T", "U"},
		Variants: []schema.Variant{
			{Name: "Some", Format: "some({0})", Fields: []schema.Field{field("0", "T")}},
			{Name: "Pinned", Format: "pin({0})", Bounds: schema.Bounds("U: render"), Fields: []schema.Field{field("0", "U")}},
			{Name: "None"},
		},
	})

	assert.Equal(t, Render|Parse, r.Requires("T"))
	assert.Equal(t, Render, r.Requires("U"))
	assert.Equal(t, Render|Parse, r.Inferred.Requires("U"))
}

func TestInferRecursiveType(t *testing.T) {
	u := universe{}
	def := &schema.TypeDef{
		Name:       "Node",
		Kind:       schema.KindStruct,
		TypeParams: []string{"T"},
		Format:     "{v};{next}",
		Fields:     []schema.Field{field("v", "T"), field("next", "*Node[T]")},
	}

	r := u.infer(t, def)

	assert.Equal(t, Render|Parse, r.Requires("T"))
	assert.Empty(t, r.Predicates)
}

func TestStackMergesOnlyIntoExtensibleParent(t *testing.T) {
	s := NewStack(true)

	s.Push(false)
	s.Top().Add("T", Render)
	s.Push(true)
	s.Top().Add("U", Parse)
	s.Pop()

	assert.Equal(t, None, s.Top().Requires("U"))
	assert.Equal(t, 2, s.Depth())

	popped := s.Pop()
	assert.Equal(t, Render, popped.Requires("T"))
	assert.Equal(t, Render, s.Top().Requires("T"))

	assert.Same(t, s.Top(), s.Pop(), "root is never popped")
}

func TestParseBound(t *testing.T) {
	tests := []struct {
		in      string
		subject string
		caps    Capability
		ok      bool
	}{
		{"T: render", "T", Render, true},
		{"T:render+parse", "T", Render | Parse, true},
		{" K : parse ", "K", Parse, true},
		{"T: fmt.Stringer", "", None, false},
		{"render", "", None, false},
		{": parse", "", None, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			subject, caps, ok := ParseBound(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.subject, subject)
			assert.Equal(t, tt.caps, caps)
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "X: no bounds", Describe(&Report{Type: "X"}))
	assert.Equal(t, "X: T: render", Describe(&Report{Type: "X", Requirements: []Requirement{{Param: "T", Caps: Render}}}))
}
