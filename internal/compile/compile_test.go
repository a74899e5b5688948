package compile

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"display-generator/internal/capture"
	"display-generator/internal/diagnostic"
	"display-generator/internal/fmtspec"
	"display-generator/schema"
)

func field(name, typ string) schema.Field {
	return schema.Field{Name: name, Type: schema.MustParseTypeRef(typ)}
}

func structDef(format string, fields ...schema.Field) *schema.TypeDef {
	return &schema.TypeDef{Name: "T", Kind: schema.KindStruct, Format: format, Fields: fields}
}

var inner = &schema.TypeDef{
	Name:   "Inner",
	Kind:   schema.KindStruct,
	Format: "{x}:{y}",
	Fields: []schema.Field{field("x", "int"), field("y", "int"), field("z", "string")},
}

func lookup(name string) (*schema.TypeDef, bool) {
	if name == inner.Name {
		return inner, true
	}

	return nil, false
}

func groups(t *testing.T, prog *Program, input string) map[string]string {
	t.Helper()

	re := regexp.MustCompile(prog.Pattern)
	m := re.FindStringSubmatch(input)
	require.NotNil(t, m, "%s does not match %q", prog.Pattern, input)

	out := map[string]string{}

	for i, n := range re.SubexpNames() {
		if n != "" {
			out[n] = m[i]
		}
	}

	return out
}

func TestCompileStruct(t *testing.T) {
	def := structDef("{a},{b.x:>4}", field("a", "int"), field("b", "Inner"))

	u, err := Compile(def, Options{Lookup: lookup})
	require.NoError(t, err)

	prog := u.Program
	assert.Equal(t, `^(?:(?P<v1>(?s:.*?)),(?P<v2>(?s:.*?)))$`, prog.Pattern)
	assert.False(t, prog.IsLiteral)

	want := []Capture{
		{Group: "v1", Slot: 1, Path: schema.MustParsePath("a")},
		{Group: "v2", Slot: 2, Path: schema.MustParsePath("b.x")},
	}
	if diff := cmp.Diff(want, prog.Captures); diff != "" {
		t.Errorf("captures mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, prog.Fields, 2)
	assert.Equal(t, FromCapture, prog.Fields[0].Source)
	assert.Equal(t, "v1", prog.Fields[0].Group)
	assert.Equal(t, FromZero, prog.Fields[1].Source)
	assert.Equal(t, []DeepAssign{{
		Path:  schema.MustParsePath("x"),
		Group: "v2",
		Spec:  fmtspec.Spec{Align: fmtspec.AlignRight, Width: fmtspec.Value(4)},
	}}, prog.Fields[1].Deep)

	require.Len(t, u.Render.Segments, 3)
	assert.Equal(t, SegField, u.Render.Segments[0].Kind)
	assert.Equal(t, ",", u.Render.Segments[1].Text)
	assert.Equal(t, fmtspec.AlignRight, u.Render.Segments[2].Spec.Align)
	assert.Equal(t, fmtspec.Value(4), u.Render.Segments[2].Spec.Width)

	assert.Equal(t, map[string]string{"v1": "1", "v2": "  10"}, groups(t, prog, "1,  10"))
}

func TestDeepPathOrdering(t *testing.T) {
	def := structDef("{a.x.y}|{a}|{a.x}", field("a", "Outer"))

	u, err := Compile(def, Options{})
	require.NoError(t, err)

	fp := u.Program.Fields[0]
	assert.Equal(t, FromCapture, fp.Source)
	require.Len(t, fp.Deep, 2)
	assert.Equal(t, "x", fp.Deep[0].Path.String())
	assert.Equal(t, "x.y", fp.Deep[1].Path.String())
}

func TestDeepPathReconstructionPlan(t *testing.T) {
	def := structDef("{a.x},{a.y}", field("a", "Inner"))

	u, err := Compile(def, Options{Lookup: lookup})
	require.NoError(t, err)

	fp := u.Program.Fields[0]
	assert.Equal(t, FromZero, fp.Source)
	assert.Equal(t, []DeepAssign{
		{Path: schema.MustParsePath("x"), Group: "v1"},
		{Path: schema.MustParsePath("y"), Group: "v2"},
	}, fp.Deep)
	assert.Equal(t, map[string]string{"v1": "10", "v2": "50"}, groups(t, u.Program, "10,50"))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		def    *schema.TypeDef
		target error
	}{
		{name: "unterminated", def: structDef("{a", field("a", "int")), target: ErrTemplateSyntax},
		{name: "self in struct", def: structDef("<{}>", field("a", "int")), target: ErrTemplateSyntax},
		{name: "no format", def: structDef("", field("a", "int")), target: ErrTemplateSyntax},
		{name: "bad spec", def: structDef("{a:q}", field("a", "int")), target: ErrFormatSpec},
		{name: "star precision", def: structDef("{a:.*}", field("a", "float64")), target: ErrFormatSpec},
		{name: "unknown width ref", def: structDef("{a:w$}", field("a", "int")), target: ErrUnknownField},
		{name: "unknown field", def: structDef("{widht}", field("width", "int")), target: ErrUnknownField},
		{name: "unknown deep field", def: structDef("{b.q}", field("b", "Inner")), target: ErrUnknownField},
		{name: "unreachable", def: structDef("{a}", field("a", "int"), field("b", "int")), target: ErrUnreachableField},
		{
			name:   "self in struct regex",
			def:    &schema.TypeDef{Name: "T", Kind: schema.KindStruct, Regex: `(?P<>\d+)`},
			target: ErrRegexSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.def, Options{Lookup: lookup})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), err.Error())

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "T", cerr.Type)
		})
	}
}

func TestUnknownFieldSuggestion(t *testing.T) {
	_, err := Compile(structDef("{widht}", field("width", "int"), field("height", "int")), Options{})

	var uerr *capture.UnknownFieldError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, []string{"width"}, uerr.Suggestions)
}

func TestDefaults(t *testing.T) {
	b := field("b", "int")
	b.Default = true

	u, err := Compile(structDef("{a}", field("a", "int"), b), Options{})
	require.NoError(t, err)
	assert.Equal(t, FromDefault, u.Program.Fields[1].Source)

	def := structDef("{a}", field("a", "int"), field("c", "int"))
	def.Default = true

	u, err = Compile(def, Options{})
	require.NoError(t, err)
	assert.Equal(t, FromCapture, u.Program.Fields[0].Source)
	assert.Equal(t, FromDefault, u.Program.Fields[1].Source)
}

func TestWidthReference(t *testing.T) {
	u, err := Compile(structDef("{a:>w$}{w}", field("a", "string"), field("w", "int")), Options{})
	require.NoError(t, err)
	assert.Equal(t, fmtspec.Name("w"), u.Render.Segments[0].Spec.Width)
}

func TestFieldRegex(t *testing.T) {
	a := field("a", "int")
	a.Regex = `(?P<>\d+)`

	u, err := Compile(structDef("<{a}>", a), Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"v1": "42"}, groups(t, u.Program, "<42>"))

	re := regexp.MustCompile(u.Program.Pattern)
	assert.False(t, re.MatchString("<x>"))
}

func TestFieldRegexDeepNames(t *testing.T) {
	p := field("p", "Inner")
	p.Regex = `(?P<x>\d+)/(?P<y>\d+)`

	u, err := Compile(structDef("{p}", p), Options{Lookup: lookup})
	require.NoError(t, err)

	fp := u.Program.Fields[0]
	assert.Equal(t, FromZero, fp.Source, "no self group: the field is rebuilt from deep captures")
	assert.Len(t, fp.Deep, 2)
	assert.Equal(t, map[string]string{"v2": "3", "v3": "4"}, groups(t, u.Program, "3/4"))
}

func TestFieldFormat(t *testing.T) {
	a := field("a", "int")
	a.Format = "[{}]"

	u, err := Compile(structDef("{a};", a), Options{})
	require.NoError(t, err)

	assert.Equal(t, `^(?:\[(?P<v1>(?s:.*?))\];)$`, u.Program.Pattern)

	seg := u.Render.Segments[0]
	require.NotNil(t, seg.Sub)
	assert.Equal(t, SegLiteral, seg.Sub.Segments[0].Kind)
	assert.Equal(t, SegSelf, seg.Sub.Segments[1].Kind)
}

func TestOptionalWarnings(t *testing.T) {
	a := field("a", "int")
	a.Optional = true

	u, err := Compile(structDef("x{a}", a), Options{})
	require.NoError(t, err)
	assert.Contains(t, u.Program.Pattern, `){0,1}?`)
	require.Len(t, u.Diagnostics.Warnings, 1)
	assert.Equal(t, diagnostic.CodeOptionalEmptyMatch, u.Diagnostics.Warnings[0].Code)

	hint := func(HintRequest) (string, bool) { return `\d+`, true }

	u, err = Compile(structDef("x{a}", a), Options{Hint: hint})
	require.NoError(t, err)
	assert.Empty(t, u.Diagnostics.Warnings)
}

func TestOptionalStringEmptyMatch(t *testing.T) {
	a := field("a", "*string")
	a.Optional = true

	u, err := Compile(structDef("[{a}]", a), Options{})
	require.NoError(t, err)
	assert.Equal(t, `^(?:\[(?:(?P<v1>(?s:.*?))){0,1}?\])$`, u.Program.Pattern)
	require.Len(t, u.Diagnostics.Warnings, 1)
	assert.Equal(t, diagnostic.CodeOptionalEmptyMatch, u.Diagnostics.Warnings[0].Code)
	assert.Equal(t, "a", u.Diagnostics.Warnings[0].FieldPath)

	a.Regex = `(?P<>[a-z]+)`

	u, err = Compile(structDef("[{a}]", a), Options{})
	require.NoError(t, err)
	assert.Empty(t, u.Diagnostics.Warnings)

	re := regexp.MustCompile(u.Program.Pattern)
	assert.True(t, re.MatchString("[]"))
	assert.True(t, re.MatchString("[abc]"))
}

func TestDelimitedSlice(t *testing.T) {
	xs := field("xs", "[]int")
	xs.Delimiter = ","

	var reqs []HintRequest

	hint := func(r HintRequest) (string, bool) {
		reqs = append(reqs, r)
		return `-?\d+`, true
	}

	u, err := Compile(structDef("[{xs}]", xs), Options{Hint: hint})
	require.NoError(t, err)

	assert.Equal(t, `^(?:\[(?P<v1>(?:(?:-?\d+)(?:,(?:-?\d+))*)?)\])$`, u.Program.Pattern)
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].Element)
	assert.Equal(t, "int", reqs[0].Type.String())

	assert.Equal(t, map[string]string{"v1": "1,-2,3"}, groups(t, u.Program, "[1,-2,3]"))
	assert.Equal(t, map[string]string{"v1": ""}, groups(t, u.Program, "[]"))
}

func TestUsage(t *testing.T) {
	w := field("w", "T")
	w.With = "custom"

	def := structDef("{a} {b.x} {w}", field("a", "T"), field("b", "Inner"), w)
	def.TypeParams = []string{"T"}

	u, err := Compile(def, Options{Lookup: lookup})
	require.NoError(t, err)

	require.Len(t, u.Usage, 3)
	assert.Equal(t, "a", u.Usage[0].Path.String())
	assert.True(t, u.Usage[0].Render)
	assert.True(t, u.Usage[0].Parse)
	assert.Equal(t, "b.x", u.Usage[1].Path.String())
	assert.Equal(t, "b", u.Usage[1].Field.Name)
	assert.Equal(t, "custom", u.Usage[2].Field.With)
}

func TestHintRequestCarriesSpec(t *testing.T) {
	w := field("w", "int")
	w.With = "hex"

	var reqs []HintRequest

	hint := func(r HintRequest) (string, bool) {
		reqs = append(reqs, r)
		return "", false
	}

	_, err := Compile(structDef("{a:#x}/{w}", field("a", "int"), w), Options{Hint: hint})
	require.NoError(t, err)

	require.Len(t, reqs, 2)
	assert.Equal(t, fmtspec.HexLower, reqs[0].Spec.Kind)
	assert.True(t, reqs[0].Spec.Alternate)
	assert.Equal(t, "hex", reqs[1].With)
	assert.True(t, reqs[1].Spec.IsZero())
}

func TestPaddedFormatFieldAbsorbsFill(t *testing.T) {
	a := field("a", "int")
	a.Format = "({})"

	u, err := Compile(structDef("[{a:*>6}]", a), Options{})
	require.NoError(t, err)

	assert.Equal(t, `^(?:\[(?:\**)\((?P<v1>(?s:.*?))\)(?:\**)\])$`, u.Program.Pattern)
	assert.Equal(t, map[string]string{"v1": "42"}, groups(t, u.Program, "[**(42)]"))
	assert.True(t, u.Program.Fields[0].Spec.IsZero())
}
