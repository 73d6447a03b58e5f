// SPDX-License-Identifier: MIT

// Package ndarray provides n-dimensional index boxes and a small generic
// n-dimensional array used for periodic stencils, block operators and the
// harmonic cluster layout of symbols.
//
// Ordering convention:
//
//   - Flat indices are column-major: the first coordinate varies fastest.
//     IndexOf([]int{i0, i1}) == i0 + shape[0]*i1.
//   - Every traversal (Range.All, Array.Flat) uses that order, so two
//     arrays of the same shape line up element by element.
package ndarray

import (
	"fmt"
	"iter"
	"strings"
)

// Range is the box [0, shape[0]) × … × [0, shape[d-1]).
// A Range is an immutable value; it is safe to copy.
type Range struct {
	shape []int // extent per dimension, every entry > 0
}

// NewRange returns the index box of the given shape.
// It panics if shape is empty or any extent is non-positive (programmer error).
func NewRange(shape ...int) Range {
	if len(shape) == 0 {
		panic("ndarray: NewRange: empty shape")
	}
	for _, n := range shape {
		if n <= 0 {
			panic(fmt.Sprintf("ndarray: NewRange: non-positive extent in %v", shape))
		}
	}

	return Range{shape: Clone(shape)}
}

// Dim returns the number of dimensions.
func (r Range) Dim() int { return len(r.shape) }

// Shape returns a copy of the extents.
func (r Range) Shape() []int { return Clone(r.shape) }

// Len returns the number of indices in the box.
func (r Range) Len() int { return Prod(r.shape) }

// Contains reports whether c lies inside the box.
func (r Range) Contains(c []int) bool {
	if len(c) != len(r.shape) {
		return false
	}
	for d, v := range c {
		if v < 0 || v >= r.shape[d] {
			return false
		}
	}

	return true
}

// IndexOf returns the column-major flat index of c.
// The caller guarantees Contains(c).
func (r Range) IndexOf(c []int) int {
	d := len(r.shape)
	num := c[d-1]
	for k := d - 2; k >= 0; k-- {
		num = num*r.shape[k] + c[k]
	}

	return num
}

// Coord returns the coordinates of the flat index i.
func (r Range) Coord(i int) []int {
	c := make([]int, len(r.shape))
	for d, n := range r.shape {
		c[d] = i % n
		i /= n
	}

	return c
}

// All iterates over (flat index, coordinates) in column-major order.
// The coordinate slice is freshly allocated for every step.
func (r Range) All() iter.Seq2[int, []int] {
	return func(yield func(int, []int) bool) {
		n := r.Len()
		for i := 0; i < n; i++ {
			if !yield(i, r.Coord(i)) {
				return
			}
		}
	}
}

// String renders the range as "range(2, 2)".
func (r Range) String() string {
	parts := make([]string, len(r.shape))
	for i, n := range r.shape {
		parts[i] = fmt.Sprint(n)
	}

	return "range(" + strings.Join(parts, ", ") + ")"
}
