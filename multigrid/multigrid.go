// SPDX-License-Identifier: MIT
// Package: lfalab/multigrid
//
// multigrid.go — error propagators of coarse grid corrections, two-grid and
// multigrid cycles.
//
// Contract:
//   • Every builder returns a new expression; operands are never modified.
//   • Shape errors surface at construction (dag.ErrShapeMismatch); a singular
//     coarse operator surfaces only when the result is evaluated.
//   • Multigrid recurses through the grid hierarchy and stops at the coarsest
//     level with the zero error propagator (exact coarse solve).
//   • Galerkin coarse operators below the second level are stencil leaves
//     built by GalerkinStencil, so smoothers can split them.

package multigrid

import (
	"errors"
	"slices"

	pkgerrors "github.com/pkg/errors"

	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/ndarray"
	"github.com/katalvlaran/lfalab/stencil"
)

var (
	// ErrLevels indicates a multigrid hierarchy with fewer than one level.
	ErrLevels = errors.New("multigrid: at least one level is required")

	// ErrIncompleteCycle indicates a Cycle without operator, smoother or
	// transfer operators.
	ErrIncompleteCycle = errors.New("multigrid: incomplete cycle description")
)

// CoarseGridCorrection returns the error propagator of a coarse grid
// correction,
//
//	I - P·(Ic - Ec)·Lc⁻¹·R·L,
//
// where Ec is the error propagator of the coarse solve. A nil Ec stands for
// an exact coarse solve and is replaced by the zero matching Lc's identity.
func CoarseGridCorrection(L, Lc, P, R, Ec *dag.Node) (*dag.Node, error) {
	if L == nil || Lc == nil || P == nil || R == nil {
		return nil, dag.ErrNilNode
	}
	I, err := L.MatchingIdentity()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "coarse grid correction")
	}
	Ic, err := Lc.MatchingIdentity()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "coarse grid correction")
	}
	if Ec == nil {
		if Ec, err = Ic.MatchingZero(); err != nil {
			return nil, err
		}
	}

	correction := dag.E(P).
		Mul(dag.E(Ic).Sub(dag.E(Ec))).
		Mul(dag.E(Lc).Inverse()).
		Mul(dag.E(R)).
		Mul(dag.E(L))

	return dag.E(I).Sub(correction).Node()
}

// GalerkinCoarsening returns the Galerkin coarse operator R·L·P.
func GalerkinCoarsening(L, P, R *dag.Node) (*dag.Node, error) {
	return dag.E(R).Mul(dag.E(L)).Mul(dag.E(P)).Node()
}

// GalerkinStencil returns the coarse stencil of R·L·P for a stencil
// operator l and transfers P = p·injection and R = injection·r: the entries
// of r∘l∘p whose offsets are multiples of factor, with the offsets divided
// by it. Its symbol equals the one of GalerkinCoarsening for the same
// operators.
func GalerkinStencil(l, p, r stencil.Sparse, factor []int) (stencil.Sparse, error) {
	if l.Dim() != 0 && len(factor) != l.Dim() {
		return stencil.Sparse{}, pkgerrors.Wrapf(grid.ErrDimension, "coarsening %v of a %d-dimensional stencil", factor, l.Dim())
	}
	rl, err := r.Compose(l)
	if err != nil {
		return stencil.Sparse{}, pkgerrors.Wrap(err, "galerkin stencil")
	}
	rlp, err := rl.Compose(p)
	if err != nil {
		return stencil.Sparse{}, pkgerrors.Wrap(err, "galerkin stencil")
	}
	onCoarse := rlp.Filter(func(e stencil.Entry) bool {
		for k, o := range e.Offset {
			if o%factor[k] != 0 {
				return false
			}
		}
		return true
	})

	return onCoarse.Map(func(e stencil.Entry) stencil.Entry {
		for k := range e.Offset {
			e.Offset[k] /= factor[k]
		}
		return e
	})
}

// TwoGrid returns the error propagator S2·CGC·S1 of a two-grid method with
// pre-smoother S1 and post-smoother S2.
func TwoGrid(S1, S2, CGC *dag.Node) (*dag.Node, error) {
	return dag.E(S2).Mul(dag.E(CGC)).Mul(dag.E(S1)).Node()
}

// Cycle describes a multigrid method level by level.
type Cycle struct {
	// Operator returns the discrete operator on g. It is called for the
	// finest grid and, unless Galerkin is set, for every coarser grid.
	Operator func(g grid.Grid) (*dag.Node, error)

	// Smoother returns the smoother for the level operator L.
	Smoother func(L *dag.Node) (*dag.Node, error)

	// Interpolation and Restriction return the transfer operators between
	// a grid and its coarsening.
	Interpolation func(fine, coarse grid.Grid) (*dag.Node, error)
	Restriction   func(fine, coarse grid.Grid) (*dag.Node, error)

	// InterpolationStencil and RestrictionStencil return the fine grid
	// stencils p and r of the transfers, Interpolation = p·injection and
	// Restriction = injection·r. Galerkin cycles with more than two levels
	// need them to build coarse operators as stencils.
	InterpolationStencil func(fine, coarse grid.Grid) (stencil.Sparse, error)
	RestrictionStencil   func(fine, coarse grid.Grid) (stencil.Sparse, error)

	Coarsening []int // per dimension; nil means 2 everywhere
	Galerkin   bool  // coarse operators are R·L·P instead of Operator(coarse)
	PreSteps   int
	PostSteps  int
	Gamma      int // coarse cycles per level: 1 (or 0) is a V-cycle, 2 a W-cycle
}

// Multigrid returns the error propagator E and the fine grid operator L of
// the multigrid method described by c on a hierarchy of the given number of
// levels. On a single level the coarse system is solved exactly, so E is
// the zero operator on L's domain.
func Multigrid(levels int, fine grid.Grid, c Cycle) (E, L *dag.Node, err error) {
	if levels < 1 {
		return nil, nil, pkgerrors.Wrapf(ErrLevels, "levels = %d", levels)
	}
	if c.Operator == nil || c.Smoother == nil || c.Interpolation == nil || c.Restriction == nil {
		return nil, nil, ErrIncompleteCycle
	}
	if c.Galerkin && levels > 2 && !c.hasStencils() {
		return nil, nil, pkgerrors.Wrapf(ErrIncompleteCycle, "galerkin cycle on %d levels without transfer stencils", levels)
	}
	if f := c.Coarsening; f != nil {
		if len(f) != 1 && len(f) != fine.Dim() {
			return nil, nil, pkgerrors.Wrapf(grid.ErrDimension, "coarsening %v on %v", f, fine)
		}
		if slices.Min(f) < 1 {
			return nil, nil, pkgerrors.Wrapf(grid.ErrNotCoarsening, "coarsening %v", f)
		}
	}
	if L, err = c.Operator(fine); err != nil {
		return nil, nil, err
	}
	if E, err = c.build(levels, fine, L); err != nil {
		return nil, nil, err
	}

	return E, L, nil
}

func (c Cycle) build(levels int, g grid.Grid, L *dag.Node) (*dag.Node, error) {
	if levels == 1 {
		I, err := L.MatchingIdentity()
		if err != nil {
			return nil, err
		}
		return I.MatchingZero()
	}

	factor := c.Coarsening
	if factor == nil {
		factor = ndarray.Fill(g.Dim(), 2)
	}
	coarse := g.Coarse(factor...)
	P, err := c.Interpolation(g, coarse)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "interpolation to %v", g)
	}
	R, err := c.Restriction(g, coarse)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "restriction from %v", g)
	}

	Lc, err := c.coarseOperator(levels, g, coarse, L, P, R)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "operator on %v", coarse)
	}

	Ec, err := c.build(levels-1, coarse, Lc)
	if err != nil {
		return nil, err
	}
	if c.Gamma > 1 {
		if Ec, err = dag.Pow(Ec, c.Gamma); err != nil {
			return nil, err
		}
	}
	cgc, err := CoarseGridCorrection(L, Lc, P, R, Ec)
	if err != nil {
		return nil, err
	}

	S, err := c.Smoother(L)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "smoother on %v", g)
	}

	return smooth(S, c.PreSteps, cgc, c.PostSteps)
}

func (c Cycle) hasStencils() bool {
	return c.InterpolationStencil != nil && c.RestrictionStencil != nil
}

// coarseOperator returns the operator on coarse. A Galerkin operator is a
// stencil leaf when the transfer stencils are known and the product R·L·P
// otherwise; the product is only accepted on the coarsest level, where no
// smoother has to split it.
func (c Cycle) coarseOperator(levels int, fine, coarse grid.Grid, L, P, R *dag.Node) (*dag.Node, error) {
	if !c.Galerkin {
		return c.Operator(coarse)
	}
	if !c.hasStencils() {
		return GalerkinCoarsening(L, P, R)
	}
	l, _, err := L.Stencil()
	if err != nil {
		if levels == 2 {
			return GalerkinCoarsening(L, P, R)
		}
		return nil, pkgerrors.Wrap(err, "galerkin coarsening")
	}
	p, err := c.InterpolationStencil(fine, coarse)
	if err != nil {
		return nil, err
	}
	r, err := c.RestrictionStencil(fine, coarse)
	if err != nil {
		return nil, err
	}
	factor, err := fine.CoarseningFactor(coarse)
	if err != nil {
		return nil, err
	}
	st, err := GalerkinStencil(l, p, r, factor)
	if err != nil {
		return nil, err
	}

	return dag.FromStencil(st, coarse)
}

// smooth wraps cgc into pre and post smoothing steps. Zero steps on both
// sides leave the correction alone.
func smooth(S *dag.Node, pre int, cgc *dag.Node, post int) (*dag.Node, error) {
	switch {
	case pre > 0 && post > 0:
		S1, err := dag.Pow(S, pre)
		if err != nil {
			return nil, err
		}
		S2, err := dag.Pow(S, post)
		if err != nil {
			return nil, err
		}
		return TwoGrid(S1, S2, cgc)
	case pre > 0:
		return dag.E(cgc).Mul(dag.E(S).Pow(pre)).Node()
	case post > 0:
		return dag.E(S).Pow(post).Mul(dag.E(cgc)).Node()
	}

	return cgc, nil
}
