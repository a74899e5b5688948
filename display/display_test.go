package display

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"display-generator/internal/bounds"
	"display-generator/internal/fmtspec"
	"display-generator/schema"
)

func field(name, typ string) schema.Field {
	return schema.Field{Name: name, Type: schema.MustParseTypeRef(typ)}
}

type point struct {
	X, Y int
}

func pointDef() *schema.TypeDef {
	return &schema.TypeDef{
		Name:   "Point",
		Kind:   schema.KindStruct,
		Format: "({x}, {y})",
		Fields: []schema.Field{field("x", "int"), field("y", "int")},
	}
}

func TestStructRoundTrip(t *testing.T) {
	c, err := New[point](pointDef())
	require.NoError(t, err)

	s, err := c.Render(point{X: 1, Y: -2})
	require.NoError(t, err)
	assert.Equal(t, "(1, -2)", s)

	p, err := c.Parse("(3, 4)")
	require.NoError(t, err)
	assert.Equal(t, point{X: 3, Y: 4}, p)

	pattern, ok := c.Pattern("")
	require.True(t, ok)
	assert.Equal(t, `^(?:\((?P<v1>(?:[+-]?[0-9]+)), (?P<v2>(?:[+-]?[0-9]+))\))$`, pattern)

	_, err = c.Parse("(3,4)")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrecognized)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Point", pe.Type)
	assert.Equal(t, "(3,4)", pe.Input)
}

type token interface{ token() }

type tokA struct{}

func (tokA) token() {}

type tokB struct{ N int }

func (tokB) token() {}

func tokenDef() *schema.TypeDef {
	return &schema.TypeDef{
		Name: "Token",
		Kind: schema.KindEnum,
		Variants: []schema.Variant{
			{Name: "A", Format: "AAA"},
			{Name: "B", Format: "BBB-{0}", Fields: []schema.Field{field("0", "int")}},
		},
	}
}

func TestEnumDispatch(t *testing.T) {
	c, err := New[token](tokenDef(), WithVariant("A", tokA{}), WithVariant("B", tokB{}))
	require.NoError(t, err)

	v, err := c.Parse("AAA")
	require.NoError(t, err)
	assert.Equal(t, tokA{}, v)

	v, err = c.Parse("BBB-10")
	require.NoError(t, err)
	assert.Equal(t, tokB{N: 10}, v)

	_, err = c.Parse("ccc")
	assert.ErrorIs(t, err, ErrUnrecognized)

	s, err := c.Render(tokB{N: 7})
	require.NoError(t, err)
	assert.Equal(t, "BBB-7", s)

	s, err = c.Render(tokA{})
	require.NoError(t, err)
	assert.Equal(t, "AAA", s)

	_, ok := c.Pattern("A")
	assert.False(t, ok, "literal variant has no pattern")
}

func TestEnumBindingErrors(t *testing.T) {
	_, err := New[token](tokenDef(), WithVariant("A", tokA{}))
	assert.ErrorIs(t, err, ErrBinding)

	_, err = New[token](tokenDef(), WithVariant("A", tokA{}), WithVariant("B", 5))
	assert.ErrorIs(t, err, ErrBinding)
}

type color int

const (
	red color = iota
	darkGreen
)

func TestScalarEnum(t *testing.T) {
	def := &schema.TypeDef{
		Name:     "Color",
		Kind:     schema.KindEnum,
		Style:    "snake_case",
		Variants: []schema.Variant{{Name: "Red"}, {Name: "DarkGreen"}},
	}

	c, err := New[color](def, WithVariant("Red", red), WithVariant("DarkGreen", darkGreen))
	require.NoError(t, err)

	s, err := c.Render(darkGreen)
	require.NoError(t, err)
	assert.Equal(t, "dark_green", s)

	v, err := c.Parse("red")
	require.NoError(t, err)
	assert.Equal(t, red, v)

	_, err = c.Render(color(9))
	assert.ErrorIs(t, err, ErrNoCapability)
}

type inner struct {
	X, Y, Z int
}

type outer struct {
	A inner
	B string
}

func TestDeepPathReconstruction(t *testing.T) {
	innerDef := &schema.TypeDef{
		Name:   "Inner",
		Kind:   schema.KindStruct,
		Format: "{x}/{y}/{z}",
		Fields: []schema.Field{field("x", "int"), field("y", "int"), field("z", "int")},
	}

	b := field("b", "string")
	b.Default = true
	dflt := "fallback"
	b.DefaultValue = &dflt

	def := &schema.TypeDef{
		Name:   "Outer",
		Kind:   schema.KindStruct,
		Format: "{a.x},{a.y}",
		Fields: []schema.Field{field("a", "Inner"), b},
	}

	c, err := New[outer](def, WithTypes(innerDef))
	require.NoError(t, err)

	v, err := c.Parse("10,50")
	require.NoError(t, err)
	assert.Equal(t, outer{A: inner{X: 10, Y: 50}, B: "fallback"}, v)

	s, err := c.Render(outer{A: inner{X: 1, Y: 2, Z: 3}})
	require.NoError(t, err)
	assert.Equal(t, "1,2", s)
}

type person struct {
	Name string
	Age  *int
}

func TestOptionalField(t *testing.T) {
	age := field("age", "*int")
	age.Optional = true
	age.Format = " ({})"

	def := &schema.TypeDef{
		Name:   "Person",
		Kind:   schema.KindStruct,
		Format: "{name}{age}",
		Fields: []schema.Field{field("name", "string"), age},
	}

	c, err := New[person](def)
	require.NoError(t, err)
	assert.Empty(t, c.Program().Diagnostics.Warnings)

	n := 42

	s, err := c.Render(person{Name: "bob", Age: &n})
	require.NoError(t, err)
	assert.Equal(t, "bob (42)", s)

	s, err = c.Render(person{Name: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", s)

	v, err := c.Parse("bob (42)")
	require.NoError(t, err)
	assert.Equal(t, "bob", v.Name)
	require.NotNil(t, v.Age)
	assert.Equal(t, 42, *v.Age)

	v, err = c.Parse("ann")
	require.NoError(t, err)
	assert.Equal(t, person{Name: "ann"}, v)
}

type list struct {
	Xs []int
}

func TestDelimitedSlice(t *testing.T) {
	xs := field("xs", "[]int")
	xs.Delimiter = ","

	def := &schema.TypeDef{Name: "List", Kind: schema.KindStruct, Format: "[{xs}]", Fields: []schema.Field{xs}}

	c, err := New[list](def)
	require.NoError(t, err)

	s, err := c.Render(list{Xs: []int{1, -2, 3}})
	require.NoError(t, err)
	assert.Equal(t, "[1,-2,3]", s)

	v, err := c.Parse("[4,5]")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, v.Xs)

	v, err = c.Parse("[]")
	require.NoError(t, err)
	assert.Empty(t, v.Xs)
}

type register struct {
	Addr uint16
	Name string
}

func TestNumericBasesAndPadding(t *testing.T) {
	def := &schema.TypeDef{
		Name:   "Register",
		Kind:   schema.KindStruct,
		Format: "{addr:#06x} {name:>6}",
		Fields: []schema.Field{field("addr", "uint16"), field("name", "string")},
	}

	c, err := New[register](def)
	require.NoError(t, err)

	s, err := c.Render(register{Addr: 255, Name: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "0x00ff    abc", s)

	v, err := c.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, register{Addr: 255, Name: "abc"}, v)
}

type bits struct {
	Mask uint8
	Mode int
}

func TestBinaryOctalAndSign(t *testing.T) {
	def := &schema.TypeDef{
		Name:   "Bits",
		Kind:   schema.KindStruct,
		Format: "{mask:#b}/{mode:+o}",
		Fields: []schema.Field{field("mask", "uint8"), field("mode", "int")},
	}

	c, err := New[bits](def)
	require.NoError(t, err)

	s, err := c.Render(bits{Mask: 5, Mode: 8})
	require.NoError(t, err)
	assert.Equal(t, "0b101/+10", s)

	v, err := c.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, bits{Mask: 5, Mode: 8}, v)
}

type label struct {
	Text string
	W    int
}

func TestWidthArgumentAndDebug(t *testing.T) {
	def := &schema.TypeDef{
		Name:   "Label",
		Kind:   schema.KindStruct,
		Format: "{text:*^w$}|{w}",
		Fields: []schema.Field{field("text", "string"), field("w", "int")},
	}

	c, err := New[label](def)
	require.NoError(t, err)

	s, err := c.Render(label{Text: "ab", W: 7})
	require.NoError(t, err)
	assert.Equal(t, "**ab***|7", s)

	v, err := c.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, label{Text: "ab", W: 7}, v)

	debug := &schema.TypeDef{
		Name:   "Quoted",
		Kind:   schema.KindStruct,
		Format: "{text:?}={w}",
		Fields: []schema.Field{field("text", "string"), field("w", "int")},
	}

	q, err := New[label](debug)
	require.NoError(t, err)

	s, err = q.Render(label{Text: `a"b=c`, W: 1})
	require.NoError(t, err)
	assert.Equal(t, `"a\"b=c"=1`, s)

	v, err = q.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, label{Text: `a"b=c`, W: 1}, v)
}

func TestPadWidthModes(t *testing.T) {
	spec := fmtspec.MustParse

	runes := &codec{widthMode: schema.WidthRunes}
	cells := &codec{widthMode: schema.WidthCells}

	assert.Equal(t, "日本    ", runes.pad("日本", spec("<6"), fmtspec.ClassString, 6))
	assert.Equal(t, "日本  ", cells.pad("日本", spec("<6"), fmtspec.ClassString, 6))
	assert.Equal(t, "  42", runes.pad("42", spec(""), fmtspec.ClassInt, 4), "numbers align right")
	assert.Equal(t, "0042", runes.pad("0042", spec("04"), fmtspec.ClassInt, 4), "zero padding is left to fmt")
	assert.Equal(t, "toolong", runes.pad("toolong", spec("^3"), fmtspec.ClassString, 3))
}

type hexed struct {
	W int
}

func TestWithCapability(t *testing.T) {
	w := field("w", "int")
	w.With = "hex"

	def := &schema.TypeDef{Name: "Hexed", Kind: schema.KindStruct, Format: "<{w}>", Fields: []schema.Field{w}}

	hex := Capability{
		Render: func(v any) (string, error) { return fmt.Sprintf("%x", v), nil },
		Parse: func(text string) (any, error) {
			n, err := strconv.ParseInt(text, 16, 64)
			return int(n), err
		},
		Regex: `[0-9a-f]+`,
	}

	_, err := New[hexed](def)
	assert.ErrorIs(t, err, ErrNoCapability)

	c, err := New[hexed](def, WithCapability("hex", hex))
	require.NoError(t, err)

	s, err := c.Render(hexed{W: 255})
	require.NoError(t, err)
	assert.Equal(t, "<ff>", s)

	v, err := c.Parse("<1f>")
	require.NoError(t, err)
	assert.Equal(t, hexed{W: 31}, v)

	pattern, _ := c.Pattern("")
	assert.Contains(t, pattern, `(?:[0-9a-f]+)`)
}

func TestAssert(t *testing.T) {
	def := pointDef()
	def.Assert = "x < Y"

	c, err := New[point](def)
	require.NoError(t, err)

	_, err = c.Parse("(1, 2)")
	require.NoError(t, err)

	_, err = c.Parse("(3, 1)")
	assert.ErrorIs(t, err, ErrAssert)

	def = pointDef()
	def.Assert = "x <"

	_, err = New[point](def)
	assert.Error(t, err)
}

type small struct {
	X uint8
}

func TestFieldParseError(t *testing.T) {
	def := &schema.TypeDef{Name: "Small", Kind: schema.KindStruct, Format: "{x}", Fields: []schema.Field{field("x", "uint8")}}

	c, err := New[small](def)
	require.NoError(t, err)

	_, err = c.Parse("300")
	require.Error(t, err)
	assert.ErrorIs(t, err, strconv.ErrRange)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "x", pe.Path)
	assert.Equal(t, `parse Small field x from "300": parse KindUint8 "300": value out of range`, err.Error())
}

type box[T any] struct {
	V T
}

func TestGenericBounds(t *testing.T) {
	def := &schema.TypeDef{
		Name:       "Box",
		Kind:       schema.KindStruct,
		TypeParams: []string{"T"},
		Format:     "<{v}>",
		Fields:     []schema.Field{field("v", "T")},
	}

	c, err := New[box[int]](def)
	require.NoError(t, err)
	assert.Equal(t, bounds.Render|bounds.Parse, c.Bounds().Requires("T"))

	v, err := c.Parse("<12>")
	require.NoError(t, err)
	assert.Equal(t, box[int]{V: 12}, v)

	_, err = New[box[struct{}]](def)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCapability)
	assert.Contains(t, err.Error(), "type parameter T")
}

func TestGenericWithOnlyFieldHasNoBound(t *testing.T) {
	v := field("v", "T")
	v.With = "opaque"

	def := &schema.TypeDef{
		Name:       "Opaque",
		Kind:       schema.KindStruct,
		TypeParams: []string{"T"},
		Format:     "<{v}>",
		Fields:     []schema.Field{v},
	}

	opaque := Capability{
		Render: func(any) (string, error) { return "?", nil },
		Parse:  func(string) (any, error) { return struct{}{}, nil },
	}

	c, err := New[box[struct{}]](def, WithCapability("opaque", opaque))
	require.NoError(t, err)
	assert.True(t, c.Bounds().IsEmpty())

	s, err := c.Render(box[struct{}]{})
	require.NoError(t, err)
	assert.Equal(t, "<?>", s)
}

type coord struct {
	Lat, Lon float64
}

type place struct {
	Name string
	At   coord
}

func TestRegisteredNestedType(t *testing.T) {
	Register[coord](&schema.TypeDef{
		Name:   "Coord",
		Kind:   schema.KindStruct,
		Format: "{lat};{lon}",
		Fields: []schema.Field{field("lat", "float64"), field("lon", "float64")},
	})

	def := &schema.TypeDef{
		Name:   "Place",
		Kind:   schema.KindStruct,
		Format: "{name}@{at}",
		Fields: []schema.Field{field("name", "string"), field("at", "Coord")},
	}

	c, err := New[place](def)
	require.NoError(t, err)

	s, err := c.Render(place{Name: "home", At: coord{Lat: 1.5, Lon: -2}})
	require.NoError(t, err)
	assert.Equal(t, "home@1.5;-2", s)

	v, err := c.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, place{Name: "home", At: coord{Lat: 1.5, Lon: -2}}, v)
}

func TestCachedBuildsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	def := pointDef()

	a, err := Cached[point](def, WithLogger(zap.New(core)))
	require.NoError(t, err)

	b, err := Cached[point](def)
	require.NoError(t, err)
	assert.Same(t, a.c, b.c)

	for range 3 {
		_, err := b.Parse("(1, 2)")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, logs.FilterMessage("compiled display pattern").Len())

	assert.Equal(t, "(5, 6)", Format(def, point{X: 5, Y: 6}))

	p, err := ParseText[point](def, "(7, 8)")
	require.NoError(t, err)
	assert.Equal(t, point{X: 7, Y: 8}, p)
}

func TestBindingErrors(t *testing.T) {
	type noFields struct{ Q int }

	_, err := New[noFields](pointDef())
	assert.True(t, errors.Is(err, ErrBinding))

	_, err = New[int](pointDef())
	assert.ErrorIs(t, err, ErrBinding)

	_, err = New[point](nil)
	assert.Error(t, err)
}
