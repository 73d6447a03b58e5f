package smoother

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/ndarray"
)

// Jacobi returns the damped Jacobi smoother I - ω·D⁻¹·L, where D is the
// diagonal part of L.
func Jacobi(L *dag.Node, weight float64) (*dag.Node, error) {
	sp, err := L.Splitter()
	if err != nil {
		return nil, errors.Wrap(err, "jacobi")
	}
	D, err := sp.Diag()
	if err != nil {
		return nil, errors.Wrap(err, "jacobi")
	}

	return relax(L, D, weight)
}

// CollectiveJacobi is Jacobi for systems with the point-block diagonal: D
// keeps the diagonal part of every block, so all unknowns of one grid point
// are relaxed together. Scalar operators get plain Jacobi.
func CollectiveJacobi(L *dag.Node, weight float64) (*dag.Node, error) {
	if L.Kind() != dag.KindSystem {
		return Jacobi(L, weight)
	}
	rows, err := L.Elements()
	if err != nil {
		return nil, err
	}
	diag := make([][]*dag.Node, len(rows))
	for i, row := range rows {
		diag[i] = make([]*dag.Node, len(row))
		for j, e := range row {
			sp, err := e.Splitter()
			if err != nil {
				return nil, errors.Wrapf(err, "collective jacobi: block (%d, %d)", i, j)
			}
			if diag[i][j], err = sp.Diag(); err != nil {
				return nil, err
			}
		}
	}
	D, err := dag.System(diag)
	if err != nil {
		return nil, err
	}

	return relax(L, D, weight)
}

// GSLex returns lexicographic Gauss-Seidel, I - (D + L_lower)⁻¹·L.
func GSLex(L *dag.Node) (*dag.Node, error) {
	sp, err := L.Splitter()
	if err != nil {
		return nil, errors.Wrap(err, "gauss-seidel")
	}
	D, err := sp.Diag()
	if err != nil {
		return nil, err
	}
	lower, err := sp.Lower()
	if err != nil {
		return nil, err
	}
	I, err := sp.MatchingIdentity()
	if err != nil {
		return nil, err
	}

	return dag.E(I).Sub(dag.E(D).Add(dag.E(lower)).Inverse().Mul(dag.E(L))).Node()
}

// RBJacobi returns red-black Jacobi: a Jacobi sweep over the red points
// (even coordinate sum) followed by one over the black points. With weight
// 1 this is red-black Gauss-Seidel.
func RBJacobi(L *dag.Node, weight float64) (*dag.Node, error) {
	J, err := Jacobi(L, weight)
	if err != nil {
		return nil, err
	}
	red, black, err := checkerboard(L.OutputGrid(), ndarray.Ones(L.Dim()))
	if err != nil {
		return nil, err
	}

	return redBlack(red, black, J)
}

// relax returns I - ω·D⁻¹·L with I the matching identity of L.
func relax(L, D *dag.Node, weight float64) (*dag.Node, error) {
	I, err := L.MatchingIdentity()
	if err != nil {
		return nil, err
	}

	return dag.E(I).Sub(dag.E(D).Inverse().Scale(complex(weight, 0)).Mul(dag.E(L))).Node()
}

// redBlack composes (red + black·J)·(black + red·J): J is applied to the
// red points first, then to the black ones.
func redBlack(red, black, J *dag.Node) (*dag.Node, error) {
	r, b, j := dag.E(red), dag.E(black), dag.E(J)

	return r.Add(b.Mul(j)).Mul(b.Add(r.Mul(j))).Node()
}

// checkerboard returns the red and black point selections for blocks of the
// given shape: a point belongs to block p = x / block and is red when the
// coordinate sum of p is even. Both are Block nodes of identity and zero
// phases with period 2·block.
func checkerboard(g grid.Grid, block []int) (red, black *dag.Node, err error) {
	if len(block) != g.Dim() {
		return nil, nil, errors.Wrapf(grid.ErrDimension, "block %v on %v", block, g)
	}
	period := make([]int, len(block))
	for k, b := range block {
		if b < 1 {
			return nil, nil, errors.Wrapf(grid.ErrResolution, "block %v", block)
		}
		period[k] = 2 * b
	}

	I, Z := dag.Identity(g), dag.Zero(g)
	isRed := func(x []int) bool {
		sum := 0
		for k := range x {
			sum += x[k] / block[k]
		}
		return sum%2 == 0
	}
	redPhases := ndarray.Generate(period, func(x []int) *dag.Node {
		if isRed(x) {
			return I
		}
		return Z
	})
	blackPhases := ndarray.Generate(period, func(x []int) *dag.Node {
		if isRed(x) {
			return Z
		}
		return I
	})
	if red, err = dag.Block(redPhases); err != nil {
		return nil, nil, err
	}
	if black, err = dag.Block(blackPhases); err != nil {
		return nil, nil, err
	}

	return red, black, nil
}
