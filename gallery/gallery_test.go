package gallery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/gallery"
	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/stencil"
)

// weights compares the stencil weights, in entry order, with want.
func weights(t *testing.T, st stencil.Sparse, want []float64) {
	t.Helper()
	entries := st.Entries()
	require.Len(t, entries, len(want))
	for i, e := range entries {
		assert.InDelta(t, want[i], real(e.Weight), 1e-12, "entry %v", e.Offset)
		assert.Zero(t, imag(e.Weight), "entry %v", e.Offset)
	}
}

func TestPoisson2D_Stencil(t *testing.T) {
	g := grid.NewWithStepSize(1, 1)
	L, err := gallery.Poisson2D(g, 1)
	require.NoError(t, err)
	assert.Equal(t, "(stencil [((0, -1), -1.0), ((-1, 0), -1.0), ((0, 0), 4.0), ((1, 0), -1.0), ((0, 1), -1.0)])", L.String())

	aniso, err := gallery.Poisson2D(g, 2)
	require.NoError(t, err)
	assert.Equal(t, "(stencil [((0, -1), -1.0), ((-1, 0), -2.0), ((0, 0), 6.0), ((1, 0), -2.0), ((0, 1), -1.0)])", aniso.String())

	_, err = gallery.Poisson2D(grid.New(1), 1)
	assert.ErrorIs(t, err, grid.ErrDimension)
}

func TestPoisson_OtherDimensions(t *testing.T) {
	L1, err := gallery.Poisson1D(grid.NewWithStepSize(0.5))
	require.NoError(t, err)
	assert.Equal(t, "(stencil [((-1,), -4.0), ((0,), 8.0), ((1,), -4.0)])", L1.String())

	g3 := grid.NewWithStepSize(1, 1, 1)
	L3, err := gallery.Poisson3D(g3)
	require.NoError(t, err)
	st, _, err := L3.Stencil()
	require.NoError(t, err)
	assert.Equal(t, 7, st.Len())
	w, ok := st.Weight([]int{0, 0, 0})
	require.True(t, ok)
	assert.Equal(t, complex(6, 0), w)

	L3, err = gallery.Poisson3D(g3, 1, 2, 3)
	require.NoError(t, err)
	st, _, err = L3.Stencil()
	require.NoError(t, err)
	w, _ = st.Weight([]int{0, 0, 1})
	assert.Equal(t, complex(-3, 0), w)

	_, err = gallery.Poisson3D(g3, 1, 2)
	assert.ErrorIs(t, err, grid.ErrDimension)
	_, err = gallery.Poisson1D(g3)
	assert.ErrorIs(t, err, grid.ErrDimension)
}

func TestMLInterpolationStencil(t *testing.T) {
	fine := grid.New(2)
	st, err := gallery.MLInterpolationStencil(fine, fine.Coarse(2))
	require.NoError(t, err)
	weights(t, st, []float64{
		0.25, 0.5, 0.25,
		0.5, 1, 0.5,
		0.25, 0.5, 0.25,
	})

	fine3 := grid.New(3)
	st, err = gallery.MLInterpolationStencil(fine3, fine3.Coarse(2))
	require.NoError(t, err)
	assert.Equal(t, 27, st.Len())
	w, _ := st.Weight([]int{1, -1, 0})
	assert.InDelta(t, 0.25, real(w), 1e-12)
	w, _ = st.Weight([]int{1, 1, 1})
	assert.InDelta(t, 0.125, real(w), 1e-12)
	assert.InDelta(t, 8, real(st.Sum()), 1e-12)

	_, err = gallery.MLInterpolationStencil(fine.Coarse(2), fine)
	assert.ErrorIs(t, err, grid.ErrNotCoarsening)
}

func TestFWRestrictionStencil(t *testing.T) {
	fine := grid.New(2)
	st, err := gallery.FWRestrictionStencil(fine, fine.Coarse(2))
	require.NoError(t, err)
	weights(t, st, []float64{
		0.0625, 0.125, 0.0625,
		0.125, 0.25, 0.125,
		0.0625, 0.125, 0.0625,
	})

	fine3 := grid.New(3)
	st, err = gallery.FWRestrictionStencil(fine3, fine3.Coarse(2))
	require.NoError(t, err)
	w, _ := st.Weight([]int{0, 0, 0})
	assert.InDelta(t, 8.0/64, real(w), 1e-12)
	assert.InDelta(t, 1, real(st.Sum()), 1e-12)
}

// TestTransfer_Adjoint relates full weighting to multilinear interpolation:
// R = Pᴴ/2^d.
func TestInjectionStencil(t *testing.T) {
	f := grid.NewWithStepSize(0.25, 0.25)
	st, err := gallery.InjectionStencil(f, f.Coarse(2))
	require.NoError(t, err)
	assert.Equal(t, 2, st.Dim())
	w, ok := st.Weight([]int{0, 0})
	require.True(t, ok)
	assert.Equal(t, complex128(1), w)
	assert.Equal(t, 1, st.Len())

	_, err = gallery.InjectionStencil(f, grid.NewWithStepSize(0.5))
	assert.Error(t, err)
}

func TestTransfer_Adjoint(t *testing.T) {
	fine := grid.New(2)
	coarse := fine.Coarse(2)
	P, err := gallery.MLInterpolation(fine, coarse)
	require.NoError(t, err)
	R, err := gallery.FWRestriction(fine, coarse)
	require.NoError(t, err)
	assert.True(t, P.OutputGrid().Equal(fine))
	assert.True(t, P.InputGrid().Equal(coarse))
	assert.True(t, R.OutputGrid().Equal(coarse))

	d, err := dag.E(R).Sub(dag.E(P).Adjoint().Scale(0.25)).Node()
	require.NoError(t, err)
	sym, err := d.Symbol(dag.WithResolution(8))
	require.NoError(t, err)
	assert.InDelta(t, 0, sym.Norm(), 1e-10)
}

func TestBiharmonic2D(t *testing.T) {
	g := grid.NewWithStepSize(1, 1)
	B, err := gallery.Biharmonic2D(g)
	require.NoError(t, err)
	L, err := gallery.Poisson2D(g, 1)
	require.NoError(t, err)
	assert.Equal(t, "(system\n  [["+L.String()+", id], [0, "+L.String()+"]])", B.String())
	assert.Equal(t, 2, B.Properties().Rows)

	_, err = gallery.Biharmonic2D(grid.New(3))
	assert.ErrorIs(t, err, grid.ErrDimension)
}
