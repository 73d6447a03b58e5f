// SPDX-License-Identifier: MIT

package ndarray

import (
	"fmt"
	"strings"
)

// Array is a dense n-dimensional array stored in column-major order.
// The zero Array is empty and has dimension 0.
type Array[T any] struct {
	rng  Range // index box
	data []T   // len(data) == rng.Len()
}

// New allocates an Array of the given shape filled with zero values.
func New[T any](shape ...int) Array[T] {
	rng := NewRange(shape...)

	return Array[T]{rng: rng, data: make([]T, rng.Len())}
}

// Full allocates an Array of the given shape filled with v.
func Full[T any](v T, shape ...int) Array[T] {
	a := New[T](shape...)
	for i := range a.data {
		a.data[i] = v
	}

	return a
}

// FromRows builds a two-dimensional array where element (i, j) is rows[i][j].
// It returns an error if rows is empty or ragged.
func FromRows[T any](rows [][]T) (Array[T], error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Array[T]{}, fmt.Errorf("ndarray: FromRows: empty rows")
	}
	cols := len(rows[0])
	a := New[T](len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return Array[T]{}, fmt.Errorf("ndarray: FromRows: row %d has %d entries, want %d", i, len(row), cols)
		}
		for j, v := range row {
			a.Set([]int{i, j}, v)
		}
	}

	return a, nil
}

// Generate builds an array of the given shape with element c set to f(c).
func Generate[T any](shape []int, f func(c []int) T) Array[T] {
	a := New[T](shape...)
	for i, c := range a.rng.All() {
		a.data[i] = f(c)
	}

	return a
}

// Map returns a new array with f applied to every element.
func Map[T, U any](a Array[T], f func(T) U) Array[U] {
	out := Array[U]{rng: a.rng, data: make([]U, len(a.data))}
	for i, v := range a.data {
		out.data[i] = f(v)
	}

	return out
}

// Dim returns the number of dimensions.
func (a Array[T]) Dim() int { return a.rng.Dim() }

// Shape returns a copy of the extents.
func (a Array[T]) Shape() []int { return a.rng.Shape() }

// Len returns the number of elements.
func (a Array[T]) Len() int { return len(a.data) }

// Range returns the index box of the array.
func (a Array[T]) Range() Range { return a.rng }

// At returns the element at c. It panics if c is out of range.
func (a Array[T]) At(c []int) T {
	if !a.rng.Contains(c) {
		panic(fmt.Sprintf("ndarray: index %v out of %v", c, a.rng))
	}

	return a.data[a.rng.IndexOf(c)]
}

// AtPeriodic returns the element at c modulo the shape.
func (a Array[T]) AtPeriodic(c []int) T {
	return a.data[a.rng.IndexOf(Mod(c, a.rng.shape))]
}

// Set stores v at c. It panics if c is out of range.
func (a Array[T]) Set(c []int, v T) {
	if !a.rng.Contains(c) {
		panic(fmt.Sprintf("ndarray: index %v out of %v", c, a.rng))
	}
	a.data[a.rng.IndexOf(c)] = v
}

// Flat returns the elements in column-major order. The slice is shared.
func (a Array[T]) Flat() []T { return a.data }

// Format renders the array as nested lists with the first index outermost,
// e.g. [[a, b], [c, d]] for a 2×2 array with rows (a, b) and (c, d).
func (a Array[T]) Format(elem func(T) string) string {
	var sb strings.Builder
	c := make([]int, a.Dim())
	a.format(&sb, c, 0, elem)

	return sb.String()
}

// format writes the sub-array whose leading coordinates are fixed in c[:d].
func (a Array[T]) format(sb *strings.Builder, c []int, d int, elem func(T) string) {
	if d == a.Dim() {
		sb.WriteString(elem(a.At(c)))
		return
	}
	sb.WriteByte('[')
	for i := 0; i < a.rng.shape[d]; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		c[d] = i
		a.format(sb, c, d+1, elem)
	}
	sb.WriteByte(']')
}
