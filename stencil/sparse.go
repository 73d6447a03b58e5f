// SPDX-License-Identifier: MIT

// Package stencil implements the stencil algebra: finite offset→weight maps,
// their periodic families and the operations needed to build relaxation
// methods from them.
//
// What:
//
//   - Sparse: an ordered list of (offset, weight) entries without duplicate
//     offsets. Scale, Compose (convolution), Transpose, Conjugate, Adjoint,
//     Filter and the Diag/Lower/Upper split by lexicographic sign.
//   - Periodic: an n-dimensional array of Sparse stencils indexed modulo its
//     shape (the period).
//   - Dense: a stencil given as a dense array plus the offset of its first
//     entry.
//
// Every operation returns a new value; stencils are never mutated.
//
// Errors:
//
//   - ErrDimension       entries or operands of different dimension
//   - ErrDuplicateOffset an offset occurs twice
package stencil

import (
	"errors"
	"fmt"
	"math/cmplx"
	"slices"
	"strings"

	"github.com/katalvlaran/lfalab/internal/pyfmt"
)

var (
	// ErrDimension indicates entries or operands of different dimension.
	ErrDimension = errors.New("stencil: dimension mismatch")

	// ErrDuplicateOffset indicates that an offset occurs more than once.
	ErrDuplicateOffset = errors.New("stencil: duplicate offset")
)

// Entry is one stencil weight at an integer offset.
type Entry struct {
	Offset []int
	Weight complex128
}

// E is shorthand for Entry{Offset: offset, Weight: w}.
func E(w complex128, offset ...int) Entry {
	return Entry{Offset: offset, Weight: w}
}

// Sparse is a finite stencil. The zero value is the empty stencil.
type Sparse struct {
	dim     int     // 0 only for the empty stencil
	entries []Entry // insertion order, offsets unique
}

// NewSparse builds a stencil from entries, keeping their order.
// It fails with ErrDimension on mixed dimensions and ErrDuplicateOffset on a
// repeated offset.
func NewSparse(entries ...Entry) (Sparse, error) {
	s := Sparse{entries: make([]Entry, 0, len(entries))}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if s.dim == 0 {
			s.dim = len(e.Offset)
		}
		if len(e.Offset) != s.dim || s.dim == 0 {
			return Sparse{}, fmt.Errorf("offset %v in %d-dimensional stencil: %w", e.Offset, s.dim, ErrDimension)
		}
		k := key(e.Offset)
		if _, dup := seen[k]; dup {
			return Sparse{}, fmt.Errorf("offset %v: %w", e.Offset, ErrDuplicateOffset)
		}
		seen[k] = struct{}{}
		s.entries = append(s.entries, Entry{Offset: slices.Clone(e.Offset), Weight: e.Weight})
	}

	return s, nil
}

// MustSparse is NewSparse that panics on error. Intended for literals.
func MustSparse(entries ...Entry) Sparse {
	s, err := NewSparse(entries...)
	if err != nil {
		panic(err)
	}

	return s
}

// Dim returns the dimension (0 for the empty stencil).
func (s Sparse) Dim() int { return s.dim }

// Len returns the number of entries.
func (s Sparse) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in order.
func (s Sparse) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry{Offset: slices.Clone(e.Offset), Weight: e.Weight}
	}

	return out
}

// Weight returns the weight at offset and whether it is present.
func (s Sparse) Weight(offset []int) (complex128, bool) {
	for _, e := range s.entries {
		if slices.Equal(e.Offset, offset) {
			return e.Weight, true
		}
	}

	return 0, false
}

// Sum returns the sum of all weights.
func (s Sparse) Sum() complex128 {
	var sum complex128
	for _, e := range s.entries {
		sum += e.Weight
	}

	return sum
}

// Scale multiplies every weight by c.
func (s Sparse) Scale(c complex128) Sparse {
	return s.mapWeights(func(w complex128) complex128 { return c * w })
}

// Conjugate conjugates every weight.
func (s Sparse) Conjugate() Sparse {
	return s.mapWeights(cmplx.Conj)
}

// Transpose negates every offset.
func (s Sparse) Transpose() Sparse {
	out := Sparse{dim: s.dim, entries: make([]Entry, len(s.entries))}
	for i, e := range s.entries {
		o := make([]int, len(e.Offset))
		for d, v := range e.Offset {
			o[d] = -v
		}
		out.entries[i] = Entry{Offset: o, Weight: e.Weight}
	}

	return out
}

// Adjoint returns Conjugate(Transpose(s)).
func (s Sparse) Adjoint() Sparse { return s.Transpose().Conjugate() }

// Compose returns the convolution of s and o: every pair of entries
// contributes v1*v2 at o1+o2, collisions are summed. Offsets keep the order
// in which they first appear.
func (s Sparse) Compose(o Sparse) (Sparse, error) {
	if s.dim != 0 && o.dim != 0 && s.dim != o.dim {
		return Sparse{}, fmt.Errorf("compose %d-dimensional with %d-dimensional: %w", s.dim, o.dim, ErrDimension)
	}
	out := Sparse{dim: max(s.dim, o.dim)}
	index := make(map[string]int)
	for _, a := range s.entries {
		for _, b := range o.entries {
			sum := make([]int, len(a.Offset))
			for d := range sum {
				sum[d] = a.Offset[d] + b.Offset[d]
			}
			k := key(sum)
			if i, ok := index[k]; ok {
				out.entries[i].Weight += a.Weight * b.Weight
				continue
			}
			index[k] = len(out.entries)
			out.entries = append(out.entries, Entry{Offset: sum, Weight: a.Weight * b.Weight})
		}
	}
	if len(out.entries) == 0 {
		out.dim = 0
	}

	return out, nil
}

// Filter keeps the entries for which keep returns true.
func (s Sparse) Filter(keep func(Entry) bool) Sparse {
	out := Sparse{}
	for _, e := range s.entries {
		if keep(e) {
			out.entries = append(out.entries, Entry{Offset: slices.Clone(e.Offset), Weight: e.Weight})
		}
	}
	if len(out.entries) > 0 {
		out.dim = s.dim
	}

	return out
}

// Map applies f to every entry. It fails if the result has a duplicate offset.
func (s Sparse) Map(f func(Entry) Entry) (Sparse, error) {
	mapped := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		mapped[i] = f(Entry{Offset: slices.Clone(e.Offset), Weight: e.Weight})
	}

	return NewSparse(mapped...)
}

// Diag keeps the entry at the zero offset.
func (s Sparse) Diag() Sparse {
	return s.Filter(func(e Entry) bool { return Sign(e.Offset) == 0 })
}

// Lower keeps the entries whose offset is lexicographically negative.
func (s Sparse) Lower() Sparse {
	return s.Filter(func(e Entry) bool { return Sign(e.Offset) < 0 })
}

// Upper keeps the entries whose offset is lexicographically positive.
func (s Sparse) Upper() Sparse {
	return s.Filter(func(e Entry) bool { return Sign(e.Offset) > 0 })
}

// Equal reports whether s and o hold the same entries, in any order.
func (s Sparse) Equal(o Sparse) bool {
	if len(s.entries) != len(o.entries) {
		return false
	}
	for _, e := range s.entries {
		w, ok := o.Weight(e.Offset)
		if !ok || w != e.Weight {
			return false
		}
	}

	return true
}

// String renders the entries as a list of (offset, weight) tuples,
// e.g. "[((0,), 1.0), ((1,), -0.5)]".
func (s Sparse) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range s.entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		sb.WriteString(pyfmt.Tuple(e.Offset))
		sb.WriteString(", ")
		sb.WriteString(pyfmt.Weight(e.Weight))
		sb.WriteByte(')')
	}
	sb.WriteByte(']')

	return sb.String()
}

func (s Sparse) mapWeights(f func(complex128) complex128) Sparse {
	out := Sparse{dim: s.dim, entries: make([]Entry, len(s.entries))}
	for i, e := range s.entries {
		out.entries[i] = Entry{Offset: slices.Clone(e.Offset), Weight: f(e.Weight)}
	}

	return out
}

// LexLess reports whether a precedes b lexicographically.
func LexLess(a, b []int) bool { return slices.Compare(a, b) < 0 }

// Sign returns the sign of the first non-zero coordinate of offset.
func Sign(offset []int) int {
	for _, v := range offset {
		switch {
		case v < 0:
			return -1
		case v > 0:
			return 1
		}
	}

	return 0
}

func key(offset []int) string { return fmt.Sprint(offset) }
