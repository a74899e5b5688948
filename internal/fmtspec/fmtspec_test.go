package fmtspec

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		src  string
		want Spec
	}{
		{src: "", want: Spec{}},
		{src: ">4", want: Spec{Align: AlignRight, Width: Value(4)}},
		{src: "*^10", want: Spec{Fill: '*', Align: AlignCenter, Width: Value(10)}},
		{src: "<<3", want: Spec{Fill: '<', Align: AlignLeft, Width: Value(3)}},
		{src: "+08.3e", want: Spec{Sign: SignPlus, Zero: true, Width: Value(8), Precision: Value(3), Kind: ExpLower}},
		{src: "#x", want: Spec{Alternate: true, Kind: HexLower}},
		{src: "#X?", want: Spec{Alternate: true, Kind: DebugHexUpper}},
		{src: "x?", want: Spec{Kind: DebugHexLower}},
		{src: "?", want: Spec{Kind: Debug}},
		{src: "0$", want: Spec{Width: Index(0)}},
		{src: "05", want: Spec{Zero: true, Width: Value(5)}},
		{src: "w$", want: Spec{Width: Name("w")}},
		{src: "x$x", want: Spec{Width: Name("x"), Kind: HexLower}},
		{src: ".*", want: Spec{Precision: Next()}},
		{src: ".2$", want: Spec{Precision: Index(2)}},
		{src: ".prec$", want: Spec{Precision: Name("prec")}},
		{src: "-b", want: Spec{Sign: SignMinus, Kind: Binary}},
		{src: "é>2", want: Spec{Fill: 'é', Align: AlignRight, Width: Value(2)}},
		{src: "p", want: Spec{Kind: Pointer}},
		{src: "o", want: Spec{Kind: Octal}},
		{src: "x<", want: Spec{Fill: 'x', Align: AlignLeft}},
		{src: ".field$", want: Spec{Precision: Name("field")}},
		{src: "_>+#05$.name$x?", want: Spec{
			Fill: '_', Align: AlignRight, Sign: SignPlus, Alternate: true, Zero: true,
			Width: Index(5), Precision: Name("name"), Kind: DebugHexLower,
		}},
		{src: "E", want: Spec{Kind: ExpUpper}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Parse(tt.src)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"z", ">4q", ".", ".x", "*", "4.", "xx", "?x"} {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))

			var ferr *Error
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, src, ferr.Spec)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, src := range []string{"", ">4", "*^10", "+08.3e", "#X?", "0$", "w$", ".*", "-b", "é>2", "_>+#05$.name$x?"} {
		s := MustParse(src)
		assert.Equal(t, src, s.String())

		again, err := Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, again)
	}
}

func TestKindBase(t *testing.T) {
	assert.Equal(t, 16, HexLower.Base())
	assert.Equal(t, 16, DebugHexUpper.Base())
	assert.Equal(t, 8, Octal.Base())
	assert.Equal(t, 2, Binary.Base())
	assert.Equal(t, 10, Plain.Base())
	assert.Equal(t, 10, ExpLower.Base())
}

func TestVerb(t *testing.T) {
	tests := []struct {
		spec  string
		class Class
		width int
		prec  int
		want  string
	}{
		{spec: "", class: ClassString, width: -1, prec: -1, want: "%v"},
		{spec: "?", class: ClassString, width: -1, prec: -1, want: "%q"},
		{spec: "#?", class: ClassOther, width: -1, prec: -1, want: "%#v"},
		{spec: "#x", class: ClassInt, width: -1, prec: -1, want: "%#x"},
		{spec: "#o", class: ClassInt, width: -1, prec: -1, want: "%O"},
		{spec: "+08.3e", class: ClassFloat, width: 8, prec: 3, want: "%+08.3e"},
		{spec: ".2", class: ClassFloat, width: -1, prec: 2, want: "%.2f"},
		{spec: "05", class: ClassInt, width: 5, prec: -1, want: "%05v"},
		{spec: "05", class: ClassString, width: 5, prec: -1, want: "%v"},
		{spec: "b", class: ClassInt, width: -1, prec: -1, want: "%b"},
		{spec: "#06x", class: ClassInt, width: 6, prec: -1, want: "%#04x"},
		{spec: "+#010b", class: ClassInt, width: 10, prec: -1, want: "%+#08b"},
		{spec: "#04o", class: ClassInt, width: 4, prec: -1, want: "%02O"},
		{spec: "#02X", class: ClassInt, width: 2, prec: -1, want: "%#X"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.spec).Verb(tt.class, tt.width, tt.prec))
		})
	}
}

func TestEffectiveAlign(t *testing.T) {
	assert.Equal(t, AlignRight, Spec{}.EffectiveAlign(ClassInt))
	assert.Equal(t, AlignLeft, Spec{}.EffectiveAlign(ClassString))
	assert.Equal(t, AlignCenter, Spec{Align: AlignCenter}.EffectiveAlign(ClassInt))
}
