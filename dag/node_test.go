package dag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/ndarray"
	"github.com/katalvlaran/lfalab/stencil"
)

var (
	fine   = grid.New(2)
	coarse = fine.Coarse(2)
)

// laplace returns the 2D five-point stencil operator on g.
func laplace(g grid.Grid) *dag.Node {
	return dag.Must(dag.FromEntries(g,
		stencil.E(-1, 0, -1), stencil.E(-1, -1, 0), stencil.E(4, 0, 0),
		stencil.E(-1, 1, 0), stencil.E(-1, 0, 1)))
}

// TestString_Canonical checks the textual form of every node kind.
func TestString_Canonical(t *testing.T) {
	I := dag.Identity(fine)
	Z := dag.Zero(fine)
	P := dag.Must(dag.InjectionInterpolation(fine, coarse))
	R := dag.Must(dag.InjectionRestriction(fine, coarse))
	flt := ndarray.Full(stencil.MustSparse(stencil.E(0, 0, 0)), 1, 1)
	periodic, err := stencil.NewPeriodic(flt)
	require.NoError(t, err)

	tests := []struct {
		name string
		node *dag.Node
		want string
	}{
		{"identity", I, "id"},
		{"zero", Z, "0"},
		{"sum", dag.Must(dag.Add(I, I)), "(+\n  id\n  id)"},
		{"product", dag.Must(dag.Mul(I, I)), "(*\n  id\n  id)"},
		{"scalar", dag.Must(dag.Scale(1, I)), "(*\n  1\n  id)"},
		{"fractional scalar", dag.Must(dag.Scale(0.5, I)), "(*\n  0.5\n  id)"},
		{"difference", dag.Must(dag.Sub(I, Z)), "(+\n  id\n  (*\n    -1\n    0))"},
		{"stencil", dag.Must(dag.FromEntries(grid.New(1), stencil.E(1, 0))), "(stencil [((0,), 1.0)])"},
		{"hp filter", dag.Must(dag.HighPassFilter(fine, coarse)), "(hp_filter\n  (grid 1 1)\n  (grid 2 2))"},
		{"interpolation", P, "(interpolate\n  (grid 1 1)\n  (grid 2 2))"},
		{"restriction", R, "(restrict\n  (grid 1 1)\n  (grid 2 2))"},
		{"periodic stencil", dag.Must(dag.FromPeriodicStencil(periodic, fine)), "(block\n  [[(stencil [((0, 0), 0.0)])]])"},
		{"system", dag.Must(dag.System([][]*dag.Node{{I, Z}, {Z, I}})), "(system\n  [[id, 0], [0, id]])"},
		{"inverse", dag.Must(dag.Inverse(I)), "(inverse\n  id)"},
		{"adjoint", dag.Must(dag.Adjoint(P)), "(adjoint\n  (interpolate\n    (grid 1 1)\n    (grid 2 2)))"},
		{"subscript", dag.Must(dag.At(dag.Must(dag.System([][]*dag.Node{{I, Z}, {Z, I}})), 1, 0)), "(at 1 0\n  (system\n    [[id, 0], [0, id]]))"},
		{"nested", dag.Must(dag.Add(dag.Must(dag.Mul(I, Z)), I)), "(+\n  (*\n    id\n    0)\n  id)"},
		{"power", dag.Must(dag.Pow(I, 3)), "(*\n  (*\n    id\n    id)\n  id)"},
		{"matching zero of interpolation", dag.Must(P.MatchingZero()), "0"},
		{"matching zero of restriction", dag.Must(R.MatchingZero()), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.String())
		})
	}
}

// TestLowPassFilter is I - HP.
func TestLowPassFilter(t *testing.T) {
	lp, err := dag.LowPassFilter(fine, coarse)
	require.NoError(t, err)
	assert.Equal(t, "(+\n  id\n  (*\n    -1\n    (hp_filter\n      (grid 1 1)\n      (grid 2 2))))", lp.String())
}

// TestConstruction_Errors rejects malformed expressions while they are built.
func TestConstruction_Errors(t *testing.T) {
	I := dag.Identity(fine)

	_, err := dag.Mul(I, dag.Identity(coarse))
	assert.ErrorIs(t, err, dag.ErrShapeMismatch)
	_, err = dag.Add(I, dag.Identity(grid.New(1)))
	assert.ErrorIs(t, err, dag.ErrShapeMismatch)
	_, err = dag.At(I, 0, 0)
	assert.ErrorIs(t, err, dag.ErrShapeMismatch)
	assert.ErrorIs(t, err, dag.ErrInvalidOperation)
	_, err = dag.E(I).At(0, 0).Node()
	assert.ErrorIs(t, err, dag.ErrInvalidOperation)
	_, err = dag.Inverse(dag.Must(dag.InjectionInterpolation(fine, coarse)))
	assert.ErrorIs(t, err, dag.ErrShapeMismatch)
	_, err = dag.FromEntries(fine, stencil.E(1, 0))
	assert.ErrorIs(t, err, dag.ErrShapeMismatch)
	_, err = dag.FromEntries(fine, stencil.E(1, 0, 0), stencil.E(2, 0, 0))
	assert.ErrorIs(t, err, stencil.ErrDuplicateOffset)
	_, err = dag.HighPassFilter(coarse, fine)
	assert.ErrorIs(t, err, grid.ErrNotCoarsening)
	_, err = dag.InjectionRestriction(fine, grid.New(1))
	assert.ErrorIs(t, err, grid.ErrDimension)

	_, err = dag.Pow(I, 0)
	assert.ErrorIs(t, err, dag.ErrInvalidPower)
	_, err = dag.Add(I, nil)
	assert.ErrorIs(t, err, dag.ErrNilNode)
	_, err = dag.System([][]*dag.Node{{I, dag.Identity(coarse)}})
	assert.ErrorIs(t, err, dag.ErrShapeMismatch)
	_, err = dag.Block(ndarray.Full(dag.Must(dag.InjectionInterpolation(fine, coarse)), 2, 2))
	assert.ErrorIs(t, err, dag.ErrShapeMismatch)

	assert.Panics(t, func() { dag.Must(dag.Pow(I, -1)) })
}

// TestExpr_FirstError keeps the first failure of a chain.
func TestExpr_FirstError(t *testing.T) {
	I := dag.E(dag.Identity(fine))
	n, err := I.Add(I).Scale(2).Mul(I).Node()
	require.NoError(t, err)
	assert.Equal(t, "(*\n  (*\n    2\n    (+\n      id\n      id))\n  id)", n.String())

	_, err = I.Mul(dag.E(dag.Identity(coarse))).Inverse().Pow(2).Node()
	assert.ErrorIs(t, err, dag.ErrShapeMismatch)
	_, err = I.Pow(0).Add(I).Node()
	assert.ErrorIs(t, err, dag.ErrInvalidPower)
	_, err = I.Add(dag.Err(dag.ErrNilNode)).Node()
	assert.ErrorIs(t, err, dag.ErrNilNode)
}

// TestNode_Accessors covers kinds, grids and stencils.
func TestNode_Accessors(t *testing.T) {
	L := laplace(fine)
	assert.Equal(t, dag.KindStencil, L.Kind())
	assert.True(t, L.Kind().IsGenerator())
	st, g, err := L.Stencil()
	require.NoError(t, err)
	assert.Equal(t, 5, st.Len())
	assert.True(t, g.Equal(fine))

	R := dag.Must(dag.InjectionRestriction(fine, coarse))
	assert.Equal(t, dag.KindRestrict, R.Kind())
	assert.True(t, R.OutputGrid().Equal(coarse))
	assert.True(t, R.InputGrid().Equal(fine))
	assert.Equal(t, "restrict", R.Kind().String())

	_, _, err = R.Stencil()
	assert.ErrorIs(t, err, dag.ErrInvalidOperation)

	sum := dag.Must(dag.Add(L, L))
	assert.Len(t, sum.Dependencies(), 2)
	assert.Equal(t, 2, sum.Dim())
}

// TestNode_Elements reads the blocks of a system back.
func TestNode_Elements(t *testing.T) {
	I, Z := dag.Identity(fine), dag.Zero(fine)
	sys := dag.Must(dag.System([][]*dag.Node{{I, Z, I}, {Z, Z, I}}))
	rows, err := sys.Elements()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []*dag.Node{I, Z, I}, rows[0])
	assert.Equal(t, []*dag.Node{Z, Z, I}, rows[1])

	_, err = I.Elements()
	assert.ErrorIs(t, err, dag.ErrInvalidOperation)
}
