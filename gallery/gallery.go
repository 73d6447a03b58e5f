// SPDX-License-Identifier: MIT
// Package: lfalab/gallery
//
// gallery.go — operators that recur in multigrid analyses.
//
// Contents:
//   • Poisson1D/2D/3D: the finite-difference Laplacian, scaled by 1/h².
//   • Biharmonic2D: the biharmonic operator split into a 2×2 Poisson system.
//   • MLInterpolation[Stencil]: multilinear interpolation (hat functions).
//   • FWRestriction[Stencil]: full weighting, the normalised adjoint of it.
//   • InjectionStencil: the unit stencil that goes with plain injection.
//
// Contract:
//   • Grid dimensions are checked; mismatches wrap grid.ErrDimension.
//   • Stencil entry order is fixed and documented per constructor, so the
//     textual form of every operator is stable.

package gallery

import (
	"math"

	"github.com/pkg/errors"

	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/ndarray"
	"github.com/katalvlaran/lfalab/stencil"
)

// Poisson1D returns -d²/dx² on a one-dimensional grid.
func Poisson1D(g grid.Grid) (*dag.Node, error) {
	if err := wantDim(g, 1); err != nil {
		return nil, err
	}

	return dag.FromStencil(PoissonStencil(g, 1), g)
}

// Poisson2D returns -(eps·∂²/∂x² + ∂²/∂y²) on a two-dimensional grid.
func Poisson2D(g grid.Grid, eps float64) (*dag.Node, error) {
	if err := wantDim(g, 2); err != nil {
		return nil, err
	}

	return dag.FromStencil(PoissonStencil(g, eps, 1), g)
}

// Poisson3D returns -Σ eps_k·∂²/∂x_k² on a three-dimensional grid. A single
// eps applies to every direction; none means the isotropic operator.
func Poisson3D(g grid.Grid, eps ...float64) (*dag.Node, error) {
	if err := wantDim(g, 3); err != nil {
		return nil, err
	}
	switch len(eps) {
	case 0:
		eps = []float64{1, 1, 1}
	case 1:
		eps = ndarray.Fill(3, eps[0])
	case 3:
	default:
		return nil, errors.Wrapf(grid.ErrDimension, "%d coefficients for a 3D operator", len(eps))
	}

	return dag.FromStencil(PoissonStencil(g, eps...), g)
}

// PoissonStencil returns the (2d+1)-point stencil of -Σ eps_k·∂²/∂x_k² with
// the step sizes of g. Missing coefficients default to 1. Entries are
// ordered -e_{d-1}, …, -e_0, 0, e_0, …, e_{d-1}.
func PoissonStencil(g grid.Grid, eps ...float64) stencil.Sparse {
	d := g.Dim()
	h := g.StepSize()
	coef := make([]float64, d)
	center := 0.0
	for k := range coef {
		e := 1.0
		if k < len(eps) {
			e = eps[k]
		}
		coef[k] = e / (h[k] * h[k])
		center += 2 * coef[k]
	}

	entries := make([]stencil.Entry, 0, 2*d+1)
	for k := d - 1; k >= 0; k-- {
		entries = append(entries, stencil.E(complex(-coef[k], 0), unit(d, k, -1)...))
	}
	entries = append(entries, stencil.E(complex(center, 0), make([]int, d)...))
	for k := 0; k < d; k++ {
		entries = append(entries, stencil.E(complex(-coef[k], 0), unit(d, k, 1)...))
	}

	return stencil.MustSparse(entries...)
}

// Biharmonic2D returns Δ² written as the first-order system
//
//	[ Δ  I ]
//	[ 0  Δ ]
//
// with Δ the isotropic Poisson2D operator.
func Biharmonic2D(g grid.Grid) (*dag.Node, error) {
	L, err := Poisson2D(g, 1)
	if err != nil {
		return nil, err
	}

	return dag.System([][]*dag.Node{
		{L, dag.Identity(g)},
		{dag.Zero(g), L},
	})
}

// MLInterpolationStencil returns the stencil of multilinear interpolation
// from coarse to fine: the tensor product of 1D hat functions of width
// equal to the coarsening factor. Offsets run over the box
// [1-f, f-1] with the first coordinate varying fastest.
func MLInterpolationStencil(fine, coarse grid.Grid) (stencil.Sparse, error) {
	f, err := fine.CoarseningFactor(coarse)
	if err != nil {
		return stencil.Sparse{}, err
	}

	width := make([]int, len(f))
	for k := range f {
		width[k] = 2*f[k] - 1
	}
	entries := make([]stencil.Entry, 0, ndarray.Prod(width))
	for _, c := range ndarray.NewRange(width...).All() {
		offset := make([]int, len(c))
		w := 1.0
		for k := range c {
			offset[k] = c[k] - (f[k] - 1)
			w *= 1 - math.Abs(float64(offset[k]))/float64(f[k])
		}
		entries = append(entries, stencil.E(complex(w, 0), offset...))
	}

	return stencil.NewSparse(entries...)
}

// MLInterpolation returns multilinear interpolation as the hat-function
// stencil applied after injection interpolation.
func MLInterpolation(fine, coarse grid.Grid) (*dag.Node, error) {
	st, err := MLInterpolationStencil(fine, coarse)
	if err != nil {
		return nil, err
	}

	return dag.Of(dag.FromStencil(st, fine)).
		Mul(dag.Of(dag.InjectionInterpolation(fine, coarse))).
		Node()
}

// FWRestrictionStencil returns the full weighting stencil: the adjoint of
// the multilinear interpolation stencil divided by the sum of its weights.
func FWRestrictionStencil(fine, coarse grid.Grid) (stencil.Sparse, error) {
	st, err := MLInterpolationStencil(fine, coarse)
	if err != nil {
		return stencil.Sparse{}, err
	}

	return st.Adjoint().Scale(1 / st.Sum()), nil
}

// FWRestriction returns full weighting restriction: injection restriction
// applied after the full weighting stencil.
func FWRestriction(fine, coarse grid.Grid) (*dag.Node, error) {
	st, err := FWRestrictionStencil(fine, coarse)
	if err != nil {
		return nil, err
	}

	return dag.Of(dag.InjectionRestriction(fine, coarse)).
		Mul(dag.Of(dag.FromStencil(st, fine))).
		Node()
}

// InjectionStencil returns the stencil of injection transfers between fine
// and coarse: the identity at the zero offset.
func InjectionStencil(fine, coarse grid.Grid) (stencil.Sparse, error) {
	if _, err := fine.CoarseningFactor(coarse); err != nil {
		return stencil.Sparse{}, err
	}

	return stencil.NewSparse(stencil.E(1, make([]int, fine.Dim())...))
}

func wantDim(g grid.Grid, d int) error {
	if g.Dim() != d {
		return errors.Wrapf(grid.ErrDimension, "%dD operator on %v", d, g)
	}

	return nil
}

func unit(d, k, sign int) []int {
	o := make([]int, d)
	o[k] = sign

	return o
}
