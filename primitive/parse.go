package primitive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ErrUnsupported is returned for types Parse cannot handle.
var ErrUnsupported = errors.New("unsupported primitive type")

// ParseError reports text that is not a valid value of a primitive kind.
type ParseError struct {
	Kind KindEnum
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Kind, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse parses text into dst, which must be settable. Base applies to
// integers; 0 and 10 both mean decimal. Integers in another base may carry
// the matching 0x, 0o or 0b prefix after the sign.
func Parse(dst reflect.Value, text string, base int, allowed CategoryEnum) error {
	kind := Resolve(dst.Type())
	if kind == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupported, dst.Type())
	}

	if err := parseInto(dst, kind, text, base, allowed); err != nil {
		return &ParseError{Kind: kind, Text: text, Err: err}
	}

	return nil
}

func parseInto(dst reflect.Value, kind KindEnum, text string, base int, allowed CategoryEnum) error {
	switch {
	case kind == KindTime:
		t, err := parseTime(text, allowed)
		if err != nil {
			return err
		}

		dst.Set(reflect.ValueOf(t))
	case kind == KindDuration:
		d, err := parseDuration(text, allowed)
		if err != nil {
			return err
		}

		dst.SetInt(int64(d))
	case kind.IsSigned():
		digits, b := integerText(text, base, allowed)

		n, err := strconv.ParseInt(digits, b, kind.Bits())
		if err != nil {
			return numError(err)
		}

		dst.SetInt(n)
	case kind.IsUnsigned():
		digits, b := integerText(strings.TrimPrefix(text, "+"), base, allowed)

		n, err := strconv.ParseUint(digits, b, kind.Bits())
		if err != nil {
			return numError(err)
		}

		dst.SetUint(n)
	case kind.IsFloat():
		f, err := strconv.ParseFloat(text, kind.Bits())
		if err != nil {
			return numError(err)
		}

		dst.SetFloat(f)
	case kind == KindBool:
		b, err := parseBool(text, allowed)
		if err != nil {
			return err
		}

		dst.SetBool(b)
	case kind == KindString:
		dst.SetString(text)
	default:
		return ErrUnsupported
	}

	return nil
}

var prefixes = map[int]string{16: "0x", 8: "0o", 2: "0b"}

// integerText strips a base prefix and returns the text and base for
// strconv. The sign stays in front of the digits.
func integerText(text string, base int, allowed CategoryEnum) (string, int) {
	if base == 0 {
		base = 10
	}

	sign := ""
	if text != "" && (text[0] == '-' || text[0] == '+') {
		sign, text = text[:1], text[1:]
	}

	if base == 10 {
		if allowed.Has(CategoryPrefixedNumber) && len(text) > 2 && text[0] == '0' && strings.ContainsRune("xXoObB", rune(text[1])) {
			return sign + text, 0
		}

		return sign + text, 10
	}

	if p := prefixes[base]; len(text) > len(p) && strings.EqualFold(text[:len(p)], p) {
		text = text[len(p):]
	}

	return sign + text, base
}

// numError drops strconv's repetition of the input.
func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}

	return err
}

func parseBool(text string, allowed CategoryEnum) (bool, error) {
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	if allowed.Has(CategoryNumericBool) {
		switch text {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
	}

	if allowed.Has(CategoryTextualBool) {
		switch strings.ToLower(text) {
		case "true", "yes", "on":
			return true, nil
		case "false", "no", "off":
			return false, nil
		}
	}

	return false, errors.New("invalid boolean")
}

func parseTime(text string, allowed CategoryEnum) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, text)
	if err == nil {
		return t, nil
	}

	if allowed.Has(CategoryTimestamp) {
		if sec, perr := strconv.ParseInt(text, 10, 64); perr == nil {
			return time.Unix(sec, 0).UTC(), nil
		}
	}

	return time.Time{}, err
}

func parseDuration(text string, allowed CategoryEnum) (time.Duration, error) {
	d, err := time.ParseDuration(text)
	if err == nil {
		return d, nil
	}

	if allowed.Has(CategorySeconds) {
		if sec, perr := strconv.ParseFloat(text, 64); perr == nil && !math.IsInf(sec, 0) && !math.IsNaN(sec) {
			return time.Duration(sec * float64(time.Second)), nil
		}
	}

	return 0, err
}

// Format returns the canonical text of values whose fmt rendering does not
// parse back. It reports false for every other value.
func Format(v reflect.Value) (string, bool) {
	if !v.IsValid() || v.Type() != timeType || !v.CanInterface() {
		return "", false
	}

	t, ok := v.Interface().(time.Time)
	if !ok {
		return "", false
	}

	return t.Format(time.RFC3339Nano), true
}
