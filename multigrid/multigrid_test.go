package multigrid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/gallery"
	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/multigrid"
	"github.com/katalvlaran/lfalab/smoother"
	"github.com/katalvlaran/lfalab/stencil"
)

var (
	fine   = grid.NewWithStepSize(1.0/32, 1.0/32)
	coarse = fine.Coarse(2)
)

func poisson(g grid.Grid) (*dag.Node, error) { return gallery.Poisson2D(g, 1) }

func jacobi(L *dag.Node) (*dag.Node, error) { return smoother.Jacobi(L, 0.8) }

func cycle(galerkin bool) multigrid.Cycle {
	return multigrid.Cycle{
		Operator:      poisson,
		Smoother:      jacobi,
		Interpolation: gallery.MLInterpolation,
		Restriction:   gallery.FWRestriction,
		Galerkin:      galerkin,
		PreSteps:      1,
		PostSteps:     1,
	}
}

// withStencils adds the transfer stencils a Galerkin hierarchy needs.
func withStencils(c multigrid.Cycle) multigrid.Cycle {
	c.InterpolationStencil = gallery.MLInterpolationStencil
	c.RestrictionStencil = gallery.FWRestrictionStencil
	return c
}

func radius(t *testing.T, E *dag.Node, opts ...dag.EvalOption) float64 {
	t.Helper()
	sym, err := E.Symbol(opts...)
	require.NoError(t, err)
	r, err := sym.SpectralRadius()
	require.NoError(t, err)
	return r
}

type transfer struct {
	L, Lc, P, R *dag.Node
}

func setup(t *testing.T) transfer {
	t.Helper()
	L, err := poisson(fine)
	require.NoError(t, err)
	P, err := gallery.MLInterpolation(fine, coarse)
	require.NoError(t, err)
	R, err := gallery.FWRestriction(fine, coarse)
	require.NoError(t, err)
	Lc, err := multigrid.GalerkinCoarsening(L, P, R)
	require.NoError(t, err)
	return transfer{L: L, Lc: Lc, P: P, R: R}
}

func TestGalerkinCoarsening(t *testing.T) {
	tr := setup(t)
	assert.Equal(t, dag.KindMul, tr.Lc.Kind())
	deps := tr.Lc.Dependencies()
	assert.Same(t, tr.P, deps[1])
	inner := deps[0].Dependencies()
	assert.Same(t, tr.R, inner[0])
	assert.Same(t, tr.L, inner[1])
	assert.True(t, tr.Lc.OutputGrid().Equal(coarse))
	assert.True(t, tr.Lc.InputGrid().Equal(coarse))
}

// TestGalerkinStencil_1D checks the classic result for -u'' with linear
// interpolation and full weighting: R·L·P = ¼·[-1 2 -1] on the coarse grid.
func TestGalerkinStencil_1D(t *testing.T) {
	l := stencil.MustSparse(stencil.E(-1, -1), stencil.E(2, 0), stencil.E(-1, 1))
	p := stencil.MustSparse(stencil.E(0.5, -1), stencil.E(1, 0), stencil.E(0.5, 1))
	st, err := multigrid.GalerkinStencil(l, p, p.Scale(0.5), []int{2})
	require.NoError(t, err)

	want := stencil.MustSparse(stencil.E(-0.25, -1), stencil.E(0.5, 0), stencil.E(-0.25, 1))
	for _, e := range want.Entries() {
		w, ok := st.Weight(e.Offset)
		require.True(t, ok, "offset %v", e.Offset)
		assert.InDelta(t, real(e.Weight), real(w), 1e-15, "offset %v", e.Offset)
		assert.InDelta(t, 0, imag(w), 1e-15, "offset %v", e.Offset)
	}
	for _, e := range st.Entries() {
		if _, ok := want.Weight(e.Offset); !ok {
			assert.InDelta(t, 0, real(e.Weight), 1e-15, "offset %v", e.Offset)
		}
	}

	_, err = multigrid.GalerkinStencil(l, p, p, []int{2, 2})
	assert.ErrorIs(t, err, grid.ErrDimension)
}

// TestGalerkinStencil_MatchesProduct compares the stencil leaf with the
// product R·L·P through P·(R·L·P - Lc)·R, which vanishes iff they agree.
func TestGalerkinStencil_MatchesProduct(t *testing.T) {
	tr := setup(t)
	l, _, err := tr.L.Stencil()
	require.NoError(t, err)

	for name, pair := range map[string][2]func(f, c grid.Grid) (stencil.Sparse, error){
		"multilinear": {gallery.MLInterpolationStencil, gallery.FWRestrictionStencil},
		"injection":   {gallery.InjectionStencil, gallery.InjectionStencil},
	} {
		t.Run(name, func(t *testing.T) {
			p, err := pair[0](fine, coarse)
			require.NoError(t, err)
			r, err := pair[1](fine, coarse)
			require.NoError(t, err)
			st, err := multigrid.GalerkinStencil(l, p, r, []int{2, 2})
			require.NoError(t, err)
			Lc, err := dag.FromStencil(st, coarse)
			require.NoError(t, err)

			P, R := tr.P, tr.R
			if name == "injection" {
				P = dag.Must(dag.InjectionInterpolation(fine, coarse))
				R = dag.Must(dag.InjectionRestriction(fine, coarse))
			}
			product, err := multigrid.GalerkinCoarsening(tr.L, P, R)
			require.NoError(t, err)

			diff, err := dag.E(P).Mul(dag.E(product).Sub(dag.E(Lc))).Mul(dag.E(R)).Node()
			require.NoError(t, err)
			sym, err := diff.Symbol(dag.WithResolution(16))
			require.NoError(t, err)
			assert.InDelta(t, 0, sym.Norm(), 1e-8)

			whole, err := dag.E(P).Mul(dag.E(Lc)).Mul(dag.E(R)).Node()
			require.NoError(t, err)
			sym, err = whole.Symbol(dag.WithResolution(16))
			require.NoError(t, err)
			assert.Greater(t, sym.Norm(), 1.0)
		})
	}
}

// TestCoarseGridCorrection_ExactSolve defaults the coarse error to zero.
func TestCoarseGridCorrection_ExactSolve(t *testing.T) {
	tr := setup(t)
	implicit, err := multigrid.CoarseGridCorrection(tr.L, tr.Lc, tr.P, tr.R, nil)
	require.NoError(t, err)
	explicit, err := multigrid.CoarseGridCorrection(tr.L, tr.Lc, tr.P, tr.R, dag.Zero(coarse))
	require.NoError(t, err)
	assert.Equal(t, explicit.String(), implicit.String())

	// the correction annihilates the range of the interpolation:
	// CGC·P = P - P·Lc⁻¹·(R·L·P) = 0 for the Galerkin operator
	d, err := dag.E(implicit).Mul(dag.E(tr.P)).Node()
	require.NoError(t, err)
	sym, err := d.Symbol(dag.WithResolution(16))
	require.NoError(t, err)
	assert.InDelta(t, 0, sym.Norm(), 1e-8)

	_, err = multigrid.CoarseGridCorrection(tr.L, tr.Lc, tr.R, tr.P, nil)
	assert.ErrorIs(t, err, dag.ErrShapeMismatch)
	_, err = multigrid.CoarseGridCorrection(tr.L, nil, tr.P, tr.R, nil)
	assert.ErrorIs(t, err, dag.ErrNilNode)
}

// TestTwoGrid_Converges checks the canonical Poisson two-grid cycle with
// Galerkin and with direct coarse operators.
func TestTwoGrid_Converges(t *testing.T) {
	tr := setup(t)
	S, err := jacobi(tr.L)
	require.NoError(t, err)
	direct, err := poisson(coarse)
	require.NoError(t, err)

	for name, Lc := range map[string]*dag.Node{"galerkin": tr.Lc, "direct": direct} {
		t.Run(name, func(t *testing.T) {
			cgc, err := multigrid.CoarseGridCorrection(tr.L, Lc, tr.P, tr.R, nil)
			require.NoError(t, err)
			E, err := multigrid.TwoGrid(S, S, cgc)
			require.NoError(t, err)
			r := radius(t, E)
			assert.Greater(t, r, 0.0)
			assert.Less(t, r, 1.0)
		})
	}
}

func TestMultigrid_SingleLevel(t *testing.T) {
	E, L, err := multigrid.Multigrid(1, fine, cycle(false))
	require.NoError(t, err)
	assert.Equal(t, "0", E.String())
	assert.Equal(t, dag.KindStencil, L.Kind())
	assert.True(t, E.OutputGrid().Equal(fine))
}

// TestMultigrid_GalerkinLevels checks that Galerkin coarse operators below
// the finest level are stencil leaves on the right grids.
func TestMultigrid_GalerkinLevels(t *testing.T) {
	E, _, err := multigrid.Multigrid(4, fine, withStencils(cycle(true)))
	require.NoError(t, err)

	leaves := map[string]bool{}
	seen := map[*dag.Node]bool{}
	var walk func(n *dag.Node)
	walk = func(n *dag.Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		if n.Kind() == dag.KindStencil {
			leaves[n.OutputGrid().String()] = true
		}
		for _, d := range n.Dependencies() {
			walk(d)
		}
	}
	walk(E)
	for _, f := range []int{1, 2, 4, 8} {
		assert.True(t, leaves[fine.Coarse(f).String()], "no stencil leaf on %v", fine.Coarse(f))
	}

	r := radius(t, E, dag.WithResolution(16))
	assert.Greater(t, r, 0.0)
	assert.Less(t, r, 1.0)
}

// TestMultigrid_TwoLevels matches a hand-built two-grid cycle.
func TestMultigrid_TwoLevels(t *testing.T) {
	E, L, err := multigrid.Multigrid(2, fine, cycle(true))
	require.NoError(t, err)

	tr := setup(t)
	S, err := jacobi(tr.L)
	require.NoError(t, err)
	cgc, err := multigrid.CoarseGridCorrection(tr.L, tr.Lc, tr.P, tr.R, nil)
	require.NoError(t, err)
	want, err := multigrid.TwoGrid(S, S, cgc)
	require.NoError(t, err)
	assert.Equal(t, want.String(), E.String())
	assert.Equal(t, tr.L.String(), L.String())
}

func TestMultigrid_Cycles(t *testing.T) {
	for name, c := range map[string]multigrid.Cycle{
		"direct V": cycle(false),
		"galerkin V": func() multigrid.Cycle {
			c := withStencils(cycle(true))
			c.PreSteps = 2
			c.PostSteps = 0
			return c
		}(),
		"direct W": func() multigrid.Cycle {
			c := cycle(false)
			c.Gamma = 2
			return c
		}(),
		"galerkin W": func() multigrid.Cycle {
			c := withStencils(cycle(true))
			c.Gamma = 2
			return c
		}(),
	} {
		t.Run(name, func(t *testing.T) {
			E, _, err := multigrid.Multigrid(3, fine, c)
			require.NoError(t, err)
			r := radius(t, E, dag.WithResolution(16))
			assert.Greater(t, r, 0.0)
			assert.Less(t, r, 1.0)
		})
	}
}

func TestMultigrid_Errors(t *testing.T) {
	_, _, err := multigrid.Multigrid(0, fine, cycle(false))
	assert.ErrorIs(t, err, multigrid.ErrLevels)

	c := cycle(false)
	c.Smoother = nil
	_, _, err = multigrid.Multigrid(2, fine, c)
	assert.ErrorIs(t, err, multigrid.ErrIncompleteCycle)

	// a Galerkin product on a middle level could not be split by the smoother
	_, _, err = multigrid.Multigrid(3, fine, cycle(true))
	assert.ErrorIs(t, err, multigrid.ErrIncompleteCycle)
	_, _, err = multigrid.Multigrid(2, fine, cycle(true))
	assert.NoError(t, err)

	c = cycle(false)
	c.Coarsening = []int{2, 2, 2}
	_, _, err = multigrid.Multigrid(2, fine, c)
	assert.ErrorIs(t, err, grid.ErrDimension)
	c.Coarsening = []int{0}
	_, _, err = multigrid.Multigrid(2, fine, c)
	assert.ErrorIs(t, err, grid.ErrNotCoarsening)
}
