package primitive

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level uint8

func parseAs[T any](t *testing.T, text string, base int, allowed CategoryEnum) (T, error) {
	t.Helper()

	var v T
	err := Parse(reflect.ValueOf(&v).Elem(), text, base, allowed)

	return v, err
}

func TestParseIntegers(t *testing.T) {
	tests := []struct {
		text string
		base int
		want int64
	}{
		{"42", 10, 42},
		{"-42", 0, -42},
		{"+7", 10, 7},
		{"ff", 16, 255},
		{"-0xff", 16, -255},
		{"0XFF", 16, 255},
		{"17", 8, 15},
		{"0o17", 8, 15},
		{"0b101", 2, 5},
		{"-101", 2, -5},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := parseAs[int64](t, tt.text, tt.base, CategoryNone)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntegerErrors(t *testing.T) {
	_, err := parseAs[int8](t, "300", 10, CategoryNone)
	require.Error(t, err)
	assert.ErrorIs(t, err, strconv.ErrRange)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindInt8, pe.Kind)
	assert.Equal(t, `parse KindInt8 "300": value out of range`, err.Error())

	_, err = parseAs[int](t, "0x10", 10, CategoryNone)
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	got, err := parseAs[int](t, "0x10", 10, CategoryPrefixedNumber)
	require.NoError(t, err)
	assert.Equal(t, 16, got)
}

func TestParseUnsignedAndNamed(t *testing.T) {
	got, err := parseAs[level](t, "+200", 10, CategoryNone)
	require.NoError(t, err)
	assert.Equal(t, level(200), got)

	_, err = parseAs[uint](t, "-1", 10, CategoryNone)
	assert.Error(t, err)
}

func TestParseFloatAndString(t *testing.T) {
	f, err := parseAs[float64](t, "1.5e+00", 10, CategoryNone)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, f, 1e-12)

	s, err := parseAs[string](t, " as is ", 10, CategoryNone)
	require.NoError(t, err)
	assert.Equal(t, " as is ", s)
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		text    string
		allowed CategoryEnum
		want    bool
		ok      bool
	}{
		{"true", CategoryNone, true, true},
		{"false", CategoryNone, false, true},
		{"1", CategoryNone, false, false},
		{"1", CategoryNumericBool, true, true},
		{"ON", CategoryTextualBool, true, true},
		{"no", CategoryAll, false, true},
		{"yes", CategoryNumericBool, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := parseAs[bool](t, tt.text, 10, tt.allowed)
			if !tt.ok {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeTypes(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)

	text, ok := Format(reflect.ValueOf(ts))
	require.True(t, ok)

	got, err := parseAs[time.Time](t, text, 10, CategoryNone)
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))

	_, err = parseAs[time.Time](t, "1700000000", 10, CategoryNone)
	assert.Error(t, err)

	got, err = parseAs[time.Time](t, "1700000000", 10, CategoryTimestamp)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), got.Unix())

	d, err := parseAs[time.Duration](t, (90 * time.Minute).String(), 10, CategoryNone)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	d, err = parseAs[time.Duration](t, "1.5", 10, CategorySeconds)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	_, ok = Format(reflect.ValueOf(42))
	assert.False(t, ok)
}

func TestParseUnsupported(t *testing.T) {
	_, err := parseAs[[]int](t, "1", 10, CategoryNone)
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.False(t, IsSupported(reflect.TypeOf(struct{}{})))
	assert.True(t, IsSupported(reflect.TypeOf(level(0))))
}

func TestPattern(t *testing.T) {
	tests := []struct {
		kind  KindEnum
		base  int
		match []string
		miss  []string
	}{
		{KindInt, 10, []string{"1", "-20", "+3"}, []string{"", "a", "1.5"}},
		{KindUint8, 10, []string{"1", "+3"}, []string{"-1"}},
		{KindInt, 16, []string{"ff", "-0xFF"}, []string{"g"}},
		{KindInt, 8, []string{"17", "0o17"}, []string{"8"}},
		{KindInt, 2, []string{"101", "0b1"}, []string{"2"}},
		{KindFloat64, 10, []string{"1", "1.", ".5", "-1.5e-3", "NaN", "inf"}, []string{"e", "."}},
		{KindBool, 10, []string{"true", "false"}, []string{"yes"}},
		{KindDuration, 10, []string{"0", "1h30m", "-1.5s", "10µs"}, []string{"1", "h"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			re := regexp.MustCompile(`^(?:` + Pattern(tt.kind, tt.base) + `)$`)

			for _, s := range tt.match {
				assert.True(t, re.MatchString(s), "%q should match", s)
			}

			for _, s := range tt.miss {
				assert.False(t, re.MatchString(s), "%q should not match", s)
			}
		})
	}

	assert.Empty(t, Pattern(KindString, 10))
	assert.Empty(t, Pattern(KindTime, 10))
}

func TestBits(t *testing.T) {
	assert.Equal(t, 8, KindInt8.Bits())
	assert.Equal(t, 32, KindFloat32.Bits())
	assert.Equal(t, strconv.IntSize, KindInt.Bits())
	assert.Panics(t, func() { KindString.Bits() })
}
