package operators

import (
	"math"
	"strconv"

	"veld/semantics-go/pkg/runtime"
)

// number is a scalar operand after numeric coercion: either an int or a
// float, never both.
type number struct {
	isFloat bool
	i       int64
	f       float64
}

func intNumber(i int64) number { return number{i: i} }

func floatNumber(f float64) number { return number{isFloat: true, f: f} }

func (n number) Float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// Int truncates for the bitwise and shift families, legacy cast style:
// fractions are dropped, non-finite and out-of-range floats collapse to zero.
func (n number) Int() int64 {
	if !n.isFloat {
		return n.i
	}
	f := n.f
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

func (n number) Value() runtime.Value {
	if n.isFloat {
		return runtime.FloatValue{Val: n.f}
	}
	return runtime.IntValue{Val: n.i}
}

// text renders the number the way it would print, for the byte-wise leg of
// smart string comparison.
func (n number) text() string {
	if n.isFloat {
		return runtime.FloatText(n.f)
	}
	return strconv.FormatInt(n.i, 10)
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// scanNumber scans one decimal numeric literal at the start of s, after
// optional whitespace: sign, digits with an optional fraction, and an
// exponent that only counts when at least one digit follows it. end is the
// offset just past the literal; ok is false when no digits were consumed.
// Integer literals that overflow int64 come back as floats.
func scanNumber(s string) (n number, end int, ok bool) {
	i := 0
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	isFloat := false
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
			isFloat = true
		}
	}
	if digits == 0 {
		return number{}, 0, false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			exp++
		}
		if exp > 0 {
			i = j
			isFloat = true
		}
	}
	text := s[start:i]
	if isFloat {
		// Out-of-range literals like "1e999" saturate to infinity.
		f, err := strconv.ParseFloat(text, 64)
		if err != nil && !isRangeError(err) {
			return number{}, 0, false
		}
		return floatNumber(f), i, true
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil && !isRangeError(ferr) {
			return number{}, 0, false
		}
		return floatNumber(f), i, true
	}
	return intNumber(v), i, true
}

// fullNumeric reports whether s is one numeric literal with nothing but
// whitespace around it, and returns its value.
func fullNumeric(s string) (number, bool) {
	n, end, ok := scanNumber(s)
	if !ok {
		return number{}, false
	}
	for end < len(s) && isSpaceByte(s[end]) {
		end++
	}
	if end != len(s) {
		return number{}, false
	}
	return n, true
}

// prefixNumeric parses the longest numeric prefix of s. A string with no
// numeric prefix does not coerce at all; the caller rejects the operand.
func prefixNumeric(s string) (number, bool) {
	n, _, ok := scanNumber(s)
	return n, ok
}

// legacyNumber coerces one operand for legacy arithmetic. The bool is false
// for wholly non-numeric strings and for kinds legacy arithmetic never
// accepts.
func legacyNumber(v runtime.Value) (number, bool) {
	switch v := v.(type) {
	case runtime.NullValue:
		return intNumber(0), true
	case runtime.BoolValue:
		if v.Val {
			return intNumber(1), true
		}
		return intNumber(0), true
	case runtime.IntValue:
		return intNumber(v.Val), true
	case runtime.FloatValue:
		return floatNumber(v.Val), true
	case runtime.StringValue:
		return prefixNumeric(v.Val)
	}
	return number{}, false
}
