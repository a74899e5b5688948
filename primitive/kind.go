package primitive

import (
	"math"
	"reflect"
	"strconv"
	"time"
)

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named type over any integer number, boolean or string

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var kindNames = [...]string{
	KindInt:           "KindInt",
	KindInt8:          "KindInt8",
	KindInt16:         "KindInt16",
	KindInt32:         "KindInt32",
	KindInt64:         "KindInt64",
	KindUint:          "KindUint",
	KindUint8:         "KindUint8",
	KindUint16:        "KindUint16",
	KindUint32:        "KindUint32",
	KindUint64:        "KindUint64",
	KindFloat32:       "KindFloat32",
	KindFloat64:       "KindFloat64",
	KindBool:          "KindBool",
	KindString:        "KindString",
	KindTime:          "KindTime",
	KindDuration:      "KindDuration",
	KindPrimitiveEnum: "KindPrimitiveEnum",
}

func (k KindEnum) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "KindEnum(" + strconv.Itoa(int(k)) + ")"
}

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only number kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}

		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// FromReflectType classifies rtype. Named types over scalar kinds are
// reported as KindPrimitiveEnum; see Underlying for their base kind.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	// check if true primitive type
	switch rtype {
	case timeType:
		return KindTime
	case durationType:
		return KindDuration
	}

	if rtype.PkgPath() == "" {
		return Underlying(rtype)
	}

	// check if it's a primitive enum type
	switch rtype.Kind() {
	default:
		return 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Bool, reflect.String:
		return KindPrimitiveEnum
	}
}

// Underlying returns the kind of rtype's underlying scalar type, ignoring
// its name. Time types are not scalars and yield 0.
func Underlying(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	switch rtype.Kind() {
	default:
		return 0
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	}
}

// Resolve returns the kind Parse uses for rtype: the exact kind of time
// types, otherwise the underlying scalar kind.
func Resolve(rtype reflect.Type) KindEnum {
	switch k := FromReflectType(rtype); k {
	case KindTime, KindDuration:
		return k
	default:
		return Underlying(rtype)
	}
}

// IsSupported returns true if Parse can handle values of rtype.
func IsSupported(rtype reflect.Type) bool {
	return Resolve(rtype) != 0
}

var goNames = map[string]KindEnum{
	"int":           KindInt,
	"int8":          KindInt8,
	"int16":         KindInt16,
	"int32":         KindInt32,
	"rune":          KindInt32,
	"int64":         KindInt64,
	"uint":          KindUint,
	"uint8":         KindUint8,
	"byte":          KindUint8,
	"uint16":        KindUint16,
	"uint32":        KindUint32,
	"uint64":        KindUint64,
	"float32":       KindFloat32,
	"float64":       KindFloat64,
	"bool":          KindBool,
	"string":        KindString,
	"time.Time":     KindTime,
	"time.Duration": KindDuration,
}

// FromName classifies a Go type spelled as in source code, such as "uint8"
// or "time.Duration". Named types other than the time types are unknown.
func FromName(name string) (KindEnum, bool) {
	k, ok := goNames[name]
	return k, ok
}
