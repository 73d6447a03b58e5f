package config_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/katalvlaran/lfalab/config"
	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/multigrid"
)

func ptr[T any](v T) *T { return &v }

func TestParse_Defaults(t *testing.T) {
	a, err := config.Parse([]byte("grid:\n  dim: 1\n"))
	require.NoError(t, err)

	want := &config.Analysis{
		Grid:     config.Grid{Dim: 1},
		Operator: config.Operator{Name: config.OperatorPoisson},
		Smoother: config.Smoother{Name: config.SmootherJacobi, Weight: ptr(1.0)},
		Cycle: config.Cycle{
			Levels:        2,
			PreSteps:      ptr(1),
			PostSteps:     ptr(1),
			Interpolation: config.TransferMultilinear,
			Restriction:   config.TransferFullWeighting,
		},
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, a.FineGrid().Equal(grid.New(1)))
}

func TestLoad(t *testing.T) {
	a, err := config.Load(filepath.Join("testdata", "block.yaml"))
	require.NoError(t, err)

	want := config.Cycle{
		Levels:        3,
		PreSteps:      ptr(2),
		PostSteps:     ptr(0),
		Gamma:         2,
		Interpolation: config.TransferInjection,
		Restriction:   config.TransferInjection,
	}
	if diff := cmp.Diff(want, a.Cycle); diff != "" {
		t.Errorf("cycle mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{2, 2}, a.Smoother.Block)
	assert.Equal(t, 2, a.Dim())

	_, err = config.Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

// TestMultigridCycle evaluates the cycles of the example descriptions. The
// radius never exceeds the spectral norm; the block smoother with injection
// transfers is not expected to converge.
func TestMultigridCycle(t *testing.T) {
	for name, converges := range map[string]bool{
		"two_grid.yaml":   true,
		"galerkin_v.yaml": true,
		"block.yaml":      false,
	} {
		t.Run(name, func(t *testing.T) {
			a, err := config.Load(filepath.Join("testdata", name))
			require.NoError(t, err)

			E, L, err := multigrid.Multigrid(a.Cycle.Levels, a.FineGrid(), a.MultigridCycle())
			require.NoError(t, err)
			assert.True(t, L.OutputGrid().Equal(a.FineGrid()))

			sym, err := E.Symbol(a.EvalOptions()...)
			require.NoError(t, err)
			r, err := sym.SpectralRadius()
			require.NoError(t, err)
			nrm, err := sym.SpectralNorm()
			require.NoError(t, err)
			assert.Greater(t, r, 0.0)
			assert.LessOrEqual(t, r, nrm+1e-6)
			if converges {
				assert.Less(t, r, 1.0)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	_, err := config.Parse([]byte(`
grid: {dim: 2}
operator: {name: heat}
smoother: {name: block-jacobi, weight: -1}
cycle: {levels: -1, interpolation: cubic}
coarsening: [2, 2, 2]
`))
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 6)
	for _, e := range errs {
		assert.True(t, errors.Is(e, config.ErrInvalidConfig), e.Error())
	}
	assert.Contains(t, err.Error(), "operator.name")
	assert.Contains(t, err.Error(), "smoother.block")

	tests := map[string]string{
		"no grid":         "operator: {name: poisson}\n",
		"unknown field":   "grid: {dim: 2}\nsolver: multigrid\n",
		"4d":              "grid: {dim: 4}\n",
		"biharmonic 1d":   "grid: {dim: 1}\noperator: {name: biharmonic}\n",
		"eps count":       "grid: {dim: 2}\noperator: {epsilon: [1, 2]}\n",
		"negative step":   "grid: {stepSize: [0.1, -0.1]}\n",
		"stray block":     "grid: {dim: 2}\nsmoother: {block: [2, 2]}\n",
		"zero resolution": "grid: {dim: 2}\nresolution: [0]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc))
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}
