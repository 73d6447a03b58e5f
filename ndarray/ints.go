// SPDX-License-Identifier: MIT

package ndarray

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// Clone returns a copy of v (nil stays nil).
func Clone[T any](v []T) []T {
	if v == nil {
		return nil
	}

	return slices.Clone(v)
}

// Prod returns the product of all entries (1 for an empty slice).
func Prod[T constraints.Integer | constraints.Float](v []T) T {
	var p T = 1
	for _, x := range v {
		p *= x
	}

	return p
}

// Ones returns a slice of d ones.
func Ones(d int) []int { return Fill(d, 1) }

// Fill returns a slice of d copies of v.
func Fill[T any](d int, v T) []T {
	out := make([]T, d)
	for i := range out {
		out[i] = v
	}

	return out
}

// GCD returns the non-negative greatest common divisor of a and b.
func GCD[T constraints.Integer](a, b T) T {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}

	return a
}

// LCM returns the least common multiple of a and b (0 if either is 0).
func LCM[T constraints.Integer](a, b T) T {
	if a == 0 || b == 0 {
		return 0
	}
	l := a / GCD(a, b) * b
	if l < 0 {
		return -l
	}

	return l
}

// Zip applies f to matching entries of a and b.
// The caller guarantees len(a) == len(b).
func Zip[T, U, V any](a []T, b []U, f func(T, U) V) []V {
	out := make([]V, len(a))
	for i := range a {
		out[i] = f(a[i], b[i])
	}

	return out
}

// Mod returns the non-negative remainder of every a[i] modulo m[i].
func Mod(a, m []int) []int {
	return Zip(a, m, func(x, n int) int {
		r := x % n
		if r < 0 {
			r += n
		}
		return r
	})
}

// AllZero reports whether every entry of v is zero.
func AllZero[T comparable](v []T) bool {
	var zero T
	for _, x := range v {
		if x != zero {
			return false
		}
	}

	return true
}
