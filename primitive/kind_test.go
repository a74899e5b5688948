package primitive_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"display-generator/primitive"
)

type (
	level   int
	label   string
	celsius float64
	empty   struct{}
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		typ        reflect.Type
		kind       primitive.KindEnum
		resolved   primitive.KindEnum
		underlying primitive.KindEnum
	}{
		{"int", reflect.TypeFor[int](), primitive.KindInt, primitive.KindInt, primitive.KindInt},
		{"string", reflect.TypeFor[string](), primitive.KindString, primitive.KindString, primitive.KindString},
		{"named int", reflect.TypeFor[level](), primitive.KindPrimitiveEnum, primitive.KindInt, primitive.KindInt},
		{"named string", reflect.TypeFor[label](), primitive.KindPrimitiveEnum, primitive.KindString, primitive.KindString},
		{"named float", reflect.TypeFor[celsius](), 0, primitive.KindFloat64, primitive.KindFloat64},
		{"duration", reflect.TypeFor[time.Duration](), primitive.KindDuration, primitive.KindDuration, primitive.KindInt64},
		{"time", reflect.TypeFor[time.Time](), primitive.KindTime, primitive.KindTime, 0},
		{"struct", reflect.TypeFor[empty](), 0, 0, 0},
		{"pointer", reflect.TypeFor[*int](), 0, 0, 0},
		{"nil", nil, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, primitive.FromReflectType(tt.typ))
			assert.Equal(t, tt.resolved, primitive.Resolve(tt.typ))
			assert.Equal(t, tt.underlying, primitive.Underlying(tt.typ))
			assert.Equal(t, tt.resolved != 0, primitive.IsSupported(tt.typ))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "KindUint16", primitive.KindUint16.String())
	assert.Equal(t, "KindPrimitiveEnum", primitive.KindPrimitiveEnum.String())
	assert.Equal(t, "KindEnum(0)", primitive.KindEnum(0).String())
	assert.Equal(t, "KindEnum(99)", primitive.KindEnum(99).String())
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, primitive.KindInt8.IsSigned())
	assert.True(t, primitive.KindUint.IsUnsigned())
	assert.True(t, primitive.KindFloat32.IsNumber())
	assert.False(t, primitive.KindFloat32.IsInteger())
	assert.False(t, primitive.KindString.IsNumber())
}
