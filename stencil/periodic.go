// SPDX-License-Identifier: MIT

package stencil

import (
	"fmt"

	"github.com/katalvlaran/lfalab/ndarray"
)

// Periodic is a family of stencils s_x with s_x = s_{x mod p}, stored for
// 0 <= x < p. The shape of the phase array is the period p.
type Periodic struct {
	phases ndarray.Array[Sparse]
}

// NewPeriodic wraps the phase array. Every non-empty phase must have the
// dimension of the array.
func NewPeriodic(phases ndarray.Array[Sparse]) (Periodic, error) {
	for i, s := range phases.Flat() {
		if s.Dim() != 0 && s.Dim() != phases.Dim() {
			return Periodic{}, fmt.Errorf("phase %v has dimension %d, period has %d: %w",
				phases.Range().Coord(i), s.Dim(), phases.Dim(), ErrDimension)
		}
	}

	return Periodic{phases: phases}, nil
}

// Constant returns the periodic stencil of period 1 (all ones) holding s.
func Constant(s Sparse) Periodic {
	return Periodic{phases: ndarray.Full(s, ndarray.Ones(s.Dim())...)}
}

// Dim returns the dimension.
func (p Periodic) Dim() int { return p.phases.Dim() }

// Period returns the shape of the phase array.
func (p Periodic) Period() []int { return p.phases.Shape() }

// Phases returns the phase array. It must not be modified.
func (p Periodic) Phases() ndarray.Array[Sparse] { return p.phases }

// At returns the stencil at grid point x.
func (p Periodic) At(x []int) Sparse { return p.phases.AtPeriodic(x) }

// Map applies f to every phase.
func (p Periodic) Map(f func(Sparse) Sparse) Periodic {
	return Periodic{phases: ndarray.Map(p.phases, f)}
}

// Diag applies Sparse.Diag to every phase.
func (p Periodic) Diag() Periodic { return p.Map(Sparse.Diag) }

// Lower applies Sparse.Lower to every phase.
func (p Periodic) Lower() Periodic { return p.Map(Sparse.Lower) }

// Upper applies Sparse.Upper to every phase.
func (p Periodic) Upper() Periodic { return p.Map(Sparse.Upper) }

// String renders the phases as nested lists.
func (p Periodic) String() string {
	return p.phases.Format(func(s Sparse) string { return "(stencil " + s.String() + ")" })
}

// Dense is a stencil stored as a dense array whose first entry sits at Origin.
type Dense struct {
	Origin []int
	Values ndarray.Array[complex128]
}

// Sparse converts d, keeping every entry including zeros.
func (d Dense) Sparse() (Sparse, error) {
	if len(d.Origin) != d.Values.Dim() {
		return Sparse{}, fmt.Errorf("origin %v for %d-dimensional values: %w", d.Origin, d.Values.Dim(), ErrDimension)
	}
	entries := make([]Entry, 0, d.Values.Len())
	for i, c := range d.Values.Range().All() {
		off := make([]int, len(c))
		for k := range c {
			off[k] = c[k] + d.Origin[k]
		}
		entries = append(entries, Entry{Offset: off, Weight: d.Values.Flat()[i]})
	}

	return NewSparse(entries...)
}
