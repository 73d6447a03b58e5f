// SPDX-License-Identifier: MIT

// Package pyfmt renders numbers and offsets in the textual forms used by
// operator representations: floats always carry a fractional part ("1.0"),
// tuples keep a trailing comma in one dimension ("(0,)").
package pyfmt

import (
	"math"
	"strconv"
	"strings"
)

// Float renders v the way repr(float) does: shortest round-trip digits,
// positional for exponents in [-4, 16), scientific otherwise.
func Float(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if v == 0 {
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}
	exp := decimalExponent(v)
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}

// decimalExponent returns the exponent of v in shortest scientific notation.
func decimalExponent(v float64) int {
	s := strconv.FormatFloat(v, 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	e, _ := strconv.Atoi(s[i+1:])

	return e
}

// Number renders a scalar factor: integral reals print without a fractional
// part ("1", "-1"), other reals like Float, complex values as "(1+2j)".
func Number(z complex128) string {
	re, im := real(z), imag(z)
	if im == 0 {
		if re == math.Trunc(re) && math.Abs(re) < 1e16 {
			return strconv.FormatFloat(re, 'f', 0, 64)
		}
		return Float(re)
	}
	if re == 0 && !math.Signbit(re) {
		return imagPart(im) + "j"
	}
	sign := "+"
	if im < 0 || (im == 0 && math.Signbit(im)) {
		sign = "-"
		im = -im
	}

	return "(" + imagPart(re) + sign + imagPart(im) + "j)"
}

// Weight renders a stencil weight: the real part as Float when the imaginary
// part vanishes, otherwise the complex form.
func Weight(z complex128) string {
	if imag(z) == 0 {
		return Float(real(z))
	}

	return Number(z)
}

// imagPart renders a component of a complex number: integral values drop
// the fractional part.
func imagPart(v float64) string {
	s := Float(v)

	return strings.TrimSuffix(s, ".0")
}

// Tuple renders an integer offset as "(0,)" or "(1, -1)".
func Tuple(v []int) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, x := range v {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(x))
	}
	if len(v) == 1 {
		sb.WriteByte(',')
	}
	sb.WriteByte(')')

	return sb.String()
}
