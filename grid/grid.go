// SPDX-License-Identifier: MIT

// Package grid describes the infinite, uniform grids that LFA operators act on
// and the frequency-domain bookkeeping derived from them.
//
// What:
//
//   - Grid: integer spacing relative to the finest grid plus the finest
//     step size. Coarse grids share the finest step size of their parent.
//   - Domain: a grid together with the shape of the harmonic cluster an
//     operator couples (all ones for plain stencils).
//   - Clusters: the split of a sampled frequency box into base indices and
//     cluster indices (global = base + baseShape*cluster).
//   - Sampling: the resolution and base frequency of one evaluation.
//
// All values are immutable; methods return fresh copies.
package grid

import (
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/lfalab/ndarray"
)

// DefaultFinestStepSize is the step size of the finest grid per dimension
// when none is given.
const DefaultFinestStepSize = 1.0 / 64

// Grid is an infinite uniform grid.
type Grid struct {
	spacing []int     // spacing in units of the finest step size
	finest  []float64 // finest step size per dimension
}

// New returns the finest grid of dimension d with DefaultFinestStepSize.
// It panics if d <= 0.
func New(d int) Grid {
	if d <= 0 {
		panic("grid: New: dimension must be > 0")
	}

	return Grid{spacing: ndarray.Ones(d), finest: ndarray.Fill(d, DefaultFinestStepSize)}
}

// NewWithStepSize returns the finest grid with the given step sizes.
// It panics on an empty or non-positive step size.
func NewWithStepSize(h ...float64) Grid {
	if len(h) == 0 {
		panic("grid: NewWithStepSize: empty step size")
	}
	for _, v := range h {
		if !(v > 0) {
			panic(fmt.Sprintf("grid: NewWithStepSize: non-positive step size %v", h))
		}
	}

	return Grid{spacing: ndarray.Ones(len(h)), finest: slices.Clone(h)}
}

// Dim returns the dimension of the grid.
func (g Grid) Dim() int { return len(g.spacing) }

// Spacing returns the spacing relative to the finest grid.
func (g Grid) Spacing() []int { return slices.Clone(g.spacing) }

// FinestStepSize returns the step size of the finest grid.
func (g Grid) FinestStepSize() []float64 { return slices.Clone(g.finest) }

// StepSize returns the step size of this grid.
func (g Grid) StepSize() []float64 {
	return ndarray.Zip(g.finest, g.spacing, func(h float64, s int) float64 { return h * float64(s) })
}

// Coarse returns the grid whose spacing is multiplied by factors.
// A single factor is applied to every dimension.
// It panics on a non-positive factor or a dimension mismatch.
func (g Grid) Coarse(factors ...int) Grid {
	f := broadcast(factors, g.Dim())
	for _, v := range f {
		if v <= 0 {
			panic(fmt.Sprintf("grid: Coarse: non-positive factor in %v", factors))
		}
	}

	return Grid{
		spacing: ndarray.Zip(g.spacing, f, func(a, b int) int { return a * b }),
		finest:  slices.Clone(g.finest),
	}
}

// CoarseningFactor returns coarse.spacing / g.spacing, or ErrNotCoarsening if
// coarse is not an integer coarsening of g.
func (g Grid) CoarseningFactor(coarse Grid) ([]int, error) {
	if coarse.Dim() != g.Dim() {
		return nil, fmt.Errorf("%v vs %v: %w", g, coarse, ErrDimension)
	}
	f := make([]int, g.Dim())
	for d := range f {
		if coarse.spacing[d]%g.spacing[d] != 0 {
			return nil, fmt.Errorf("%v vs %v: %w", g, coarse, ErrNotCoarsening)
		}
		f[d] = coarse.spacing[d] / g.spacing[d]
	}

	return f, nil
}

// Equal reports whether both grids have the same spacing and finest step size.
func (g Grid) Equal(o Grid) bool {
	return slices.Equal(g.spacing, o.spacing) && slices.Equal(g.finest, o.finest)
}

// String renders the grid by its spacing, e.g. "(grid 2 2)".
func (g Grid) String() string {
	var sb strings.Builder
	sb.WriteString("(grid")
	for _, s := range g.spacing {
		fmt.Fprintf(&sb, " %d", s)
	}
	sb.WriteByte(')')

	return sb.String()
}

// broadcast expands a single value to d entries; otherwise len(v) must be d.
func broadcast(v []int, d int) []int {
	if len(v) == 1 && d > 1 {
		return ndarray.Fill(d, v[0])
	}
	if len(v) != d {
		panic(fmt.Sprintf("grid: expected %d entries, got %v", d, v))
	}

	return slices.Clone(v)
}
