package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "", b: "", want: 0},
		{a: "fill", b: "fill", want: 0},
		{a: "", b: "sign", want: 4},
		{a: "x", b: "xy", want: 1},
		{a: "width", b: "widht", want: 2},
		{a: "precision", b: "precison", want: 1},
		{a: "align", b: "Align", want: 1},
		{a: "kitten", b: "sitting", want: 3},
		{a: "naïve", b: "naive", want: 1},
		{a: "straße", b: "strasse", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("fill", "fill"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 1.0-1.0/6.0, Similarity("align", "aligns"), 1e-9)
	assert.InDelta(t, 0.8, Similarity("naïve", "naive"), 1e-9)
}

func TestNameSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, NameSimilarity("FillRune", "fill_rune"), 1e-9)
	assert.InDelta(t, 1.0, NameSimilarity("MinX", "min-x"), 1e-9)
	assert.Greater(t, NameSimilarity("Width", "Widths"), 0.5)
	assert.Less(t, NameSimilarity("Label", "Precision"), 0.3)
}
