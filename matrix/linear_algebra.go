// SPDX-License-Identifier: MIT
// Package matrix: element-wise and product kernels over Dense.
// All functions perform fail-fast shape validation and return wrapped
// sentinels on mismatches.

package matrix

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Operation name constants for unified error wrapping.
const (
	opAdd     = "Add"
	opSub     = "Sub"
	opMul     = "Mul"
	opAdjoint = "Adjoint"
)

// matrixErrorf wraps err with an operation tag, preserving the sentinel via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// sameShape returns ErrDimensionMismatch unless a and b have equal shape.
func sameShape(a, b *Dense) error {
	if a.r != b.r || a.c != b.c {
		return fmt.Errorf("%dx%d vs %dx%d: %w", a.r, a.c, b.r, b.c, ErrDimensionMismatch)
	}

	return nil
}

// Add returns a + b.
func Add(a, b *Dense) (*Dense, error) {
	if err := sameShape(a, b); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}
	out := a.Clone()
	for i, v := range b.data {
		out.data[i] += v
	}

	return out, nil
}

// Sub returns a - b.
func Sub(a, b *Dense) (*Dense, error) {
	if err := sameShape(a, b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	out := a.Clone()
	for i, v := range b.data {
		out.data[i] -= v
	}

	return out, nil
}

// Mul returns the product a·b.
// Complexity: O(a.r·a.c·b.c).
func Mul(a, b *Dense) (*Dense, error) {
	if a.c != b.r {
		return nil, matrixErrorf(opMul, fmt.Errorf("%dx%d · %dx%d: %w", a.r, a.c, b.r, b.c, ErrDimensionMismatch))
	}
	out, _ := NewDense(a.r, b.c)
	MulInto(out.data, a.data, b.data, a.r, a.c, b.c)

	return out, nil
}

// MulInto writes the product of the row-major n×k matrix a and k×m matrix b
// into dst (n×m). dst must not alias a or b.
func MulInto(dst, a, b []complex128, n, k, m int) {
	var (
		i, j, l int
		aik     complex128
	)
	for i = 0; i < n*m; i++ {
		dst[i] = 0
	}
	for i = 0; i < n; i++ {
		for l = 0; l < k; l++ {
			aik = a[i*k+l]
			if aik == 0 {
				continue
			}
			for j = 0; j < m; j++ {
				dst[i*m+j] += aik * b[l*m+j]
			}
		}
	}
}

// Scale returns s·a.
func Scale(s complex128, a *Dense) *Dense {
	out := a.Clone()
	for i := range out.data {
		out.data[i] *= s
	}

	return out
}

// Adjoint returns the conjugate transpose of a.
func Adjoint(a *Dense) *Dense {
	out := &Dense{r: a.c, c: a.r, data: make([]complex128, len(a.data))}
	for i := 0; i < a.r; i++ {
		for j := 0; j < a.c; j++ {
			out.data[j*a.r+i] = cmplx.Conj(a.data[i*a.c+j])
		}
	}

	return out
}

// FrobeniusNorm returns sqrt(Σ|a_ij|²).
func FrobeniusNorm(a *Dense) float64 {
	var sum float64
	for _, v := range a.data {
		re, im := real(v), imag(v)
		sum += re*re + im*im
	}

	return math.Sqrt(sum)
}

// Equal reports whether a and b have the same shape and all entries differ
// by at most tol in modulus.
func Equal(a, b *Dense, tol float64) bool {
	if sameShape(a, b) != nil {
		return false
	}
	for i := range a.data {
		if cmplx.Abs(a.data[i]-b.data[i]) > tol {
			return false
		}
	}

	return true
}
