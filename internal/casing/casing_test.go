package casing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		style Style
		in    string
		want  string
	}{
		{Snake, "AbcDef", "abc_def"},
		{LowerCamel, "XyzXyz", "xyzXyz"},
		{UpperKebab, "Abc1Abc2", "ABC1-ABC2"},
		{Snake, "_Xxx", "xxx"},
		{Lower, "AbcDef", "abcdef"},
		{Upper, "AbcDef", "ABCDEF"},
		{UpperSnake, "AbcDef", "ABC_DEF"},
		{UpperCamel, "abc_def", "AbcDef"},
		{Kebab, "AbcDef", "abc-def"},
		{TitleCase, "abcDef", "Abc Def"},
		{TitleCaseHead, "AbcDef", "Abc def"},
		{TitleCaseLower, "AbcDef", "abc def"},
		{TitleCaseUpper, "AbcDef", "ABC DEF"},
		{Snake, "abc__def", "abc_def"},
		{Snake, "HTTPServer", "httpserver"},
		{Kebab, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.style.String()+"/"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.style.Apply(tt.in))
		})
	}
}

func TestApplyNoneIsIdentity(t *testing.T) {
	for _, s := range []string{"", "AbcDef", "_Xxx", "a-b c", "ÄöÜ", "x1Y2"} {
		assert.Equal(t, s, None.Apply(s))
	}
}

func TestParse(t *testing.T) {
	for style, name := range names {
		got, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, style, got)
	}

	got, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, None, got)

	_, err = Parse("Snake_Case")
	require.ErrorIs(t, err, ErrUnknownStyle)
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"Abc1", "Abc2"}, Words("Abc1Abc2"))
	assert.Equal(t, []string{"abc", "Def"}, Words("abc-Def"))
	assert.Nil(t, Words("__"))
}
