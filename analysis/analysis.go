// Package analysis computes the classical LFA measures of an operator: the
// smoothing factor of a smoother and the h-ellipticity of a discretization.
// Both compare the operator with its restriction to the high frequencies,
// those a grid coarsened by the configured factor cannot represent.
package analysis

import (
	"math/cmplx"
	"slices"

	"github.com/pkg/errors"

	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/ndarray"
)

// SmoothingFactor returns the spectral radius of HP·S, where HP keeps the
// high frequencies. S is usually the error propagator of a smoother.
func SmoothingFactor(S *dag.Node, opts ...Option) (float64, error) {
	if S == nil {
		return 0, dag.ErrNilNode
	}
	o := newOptions(opts)
	F, err := filtered(S, o)
	if err != nil {
		return 0, err
	}
	sym, err := F.Symbol(o.evalOptions(nil)...)
	if err != nil {
		return 0, err
	}

	return sym.SpectralRadius()
}

// HEllipticity returns min|λ(HP·L)| / ρ(L), the minimum taken over the
// eigenvalues that the filter does not project to zero. Unless configured
// otherwise, frequencies are sampled from zero so that the boundary of the
// high frequency range is included.
func HEllipticity(L *dag.Node, opts ...Option) (float64, error) {
	if L == nil {
		return 0, dag.ErrNilNode
	}
	o := newOptions(opts)
	F, err := filtered(L, o)
	if err != nil {
		return 0, err
	}
	eval := o.evalOptions(make([]float64, L.Dim()))

	sym, err := F.Symbol(eval...)
	if err != nil {
		return 0, err
	}
	ews, err := sym.Eigenvalues()
	if err != nil {
		return 0, err
	}
	lowModes := ndarray.Prod(o.factor(L.Dim()))
	if len(ews)%lowModes != 0 {
		return 0, errors.Wrapf(grid.ErrResolution, "%d eigenvalues for %d low modes per cluster", len(ews), lowModes)
	}
	abs := make([]float64, len(ews))
	for i, v := range ews {
		abs[i] = cmplx.Abs(v)
	}
	slices.Sort(abs)
	minHigh := abs[len(abs)/lowModes]

	full, err := L.Symbol(eval...)
	if err != nil {
		return 0, err
	}
	r, err := full.SpectralRadius()
	if err != nil {
		return 0, err
	}

	return minHigh / r, nil
}

// filtered returns HP·op. For a system the filter acts on every component.
func filtered(op *dag.Node, o options) (*dag.Node, error) {
	fine := op.OutputGrid()
	f := o.factor(fine.Dim())
	if len(f) != fine.Dim() {
		return nil, errors.Wrapf(grid.ErrDimension, "coarsening %v on %v", f, fine)
	}
	if slices.Min(f) < 1 {
		return nil, errors.Wrapf(grid.ErrNotCoarsening, "coarsening %v", f)
	}
	HP, err := dag.HighPassFilter(fine, fine.Coarse(f...))
	if err != nil {
		return nil, err
	}
	if p := op.Properties(); p.IsSystem() {
		rows := make([][]*dag.Node, p.Rows)
		for i := range rows {
			rows[i] = make([]*dag.Node, p.Rows)
			for j := range rows[i] {
				if i == j {
					rows[i][j] = HP
				} else {
					rows[i][j] = dag.Zero(fine)
				}
			}
		}
		if HP, err = dag.System(rows); err != nil {
			return nil, err
		}
	}

	return dag.Mul(HP, op)
}
