package smoother

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/ndarray"
	"github.com/katalvlaran/lfalab/stencil"
)

// BlockDiagStencil returns the block diagonal part of st for blocks of the
// given shape. Phase x of the result keeps the entries of st whose offset o
// stays inside the block, i.e. 0 <= x+o < block in every dimension.
func BlockDiagStencil(st stencil.Sparse, block []int) (stencil.Periodic, error) {
	if st.Dim() != 0 && st.Dim() != len(block) {
		return stencil.Periodic{}, errors.Wrapf(grid.ErrDimension, "block %v for a %d-dimensional stencil", block, st.Dim())
	}
	for _, b := range block {
		if b < 1 {
			return stencil.Periodic{}, errors.Wrapf(grid.ErrResolution, "block %v", block)
		}
	}

	inside := ndarray.NewRange(block...)
	phases := ndarray.Generate(block, func(x []int) stencil.Sparse {
		return st.Filter(func(e stencil.Entry) bool {
			return inside.Contains(ndarray.Zip(x, e.Offset, func(a, b int) int { return a + b }))
		})
	})

	return stencil.NewPeriodic(phases)
}

// BlockJacobi returns I - ω·D⁻¹·L, where D is the block diagonal of the
// stencil operator L for blocks of the given shape.
func BlockJacobi(L *dag.Node, block []int, weight float64) (*dag.Node, error) {
	st, g, err := L.Stencil()
	if err != nil {
		return nil, errors.Wrap(err, "block jacobi")
	}
	if len(block) != g.Dim() {
		return nil, errors.Wrapf(grid.ErrDimension, "block %v on %v", block, g)
	}
	p, err := BlockDiagStencil(st, block)
	if err != nil {
		return nil, err
	}
	D, err := dag.FromPeriodicStencil(p, g)
	if err != nil {
		return nil, err
	}

	return relax(L, D, weight)
}

// RBBlockJacobi returns BlockJacobi with red-black ordering of the blocks.
func RBBlockJacobi(L *dag.Node, block []int, weight float64) (*dag.Node, error) {
	J, err := BlockJacobi(L, block, weight)
	if err != nil {
		return nil, err
	}
	red, black, err := checkerboard(L.OutputGrid(), block)
	if err != nil {
		return nil, err
	}

	return redBlack(red, black, J)
}
