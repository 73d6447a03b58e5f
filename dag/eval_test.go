package dag_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/matrix"
	"github.com/katalvlaran/lfalab/ndarray"
	"github.com/katalvlaran/lfalab/stencil"
	"github.com/katalvlaran/lfalab/symbol"
)

const tol = 1e-9

func shift(g grid.Grid) *dag.Node {
	return dag.Must(dag.FromEntries(g, stencil.E(1, 1, 0), stencil.E(0.5i, 0, -1)))
}

func mustSymbol(t *testing.T, n *dag.Node, opts ...dag.EvalOption) *symbol.Symbol {
	t.Helper()
	s, err := n.Symbol(opts...)
	require.NoError(t, err)
	return s
}

// TestSymbol_Additive checks symbol(A+B) = symbol(A) + symbol(B).
func TestSymbol_Additive(t *testing.T) {
	A, B := laplace(fine), shift(fine)
	sum := dag.Must(dag.Add(A, B))
	for _, res := range []int{8, 16, 12} {
		want, err := mustSymbol(t, A, dag.WithResolution(res)).Add(mustSymbol(t, B, dag.WithResolution(res)))
		require.NoError(t, err)
		got := mustSymbol(t, sum, dag.WithResolution(res))
		assert.True(t, got.ApproxEqual(want, tol), "resolution %d", res)
	}
}

// TestSymbol_AdjointRoundTrip checks that the adjoint of the adjoint is the
// operator itself.
func TestSymbol_AdjointRoundTrip(t *testing.T) {
	B := shift(fine)
	twice := dag.Must(dag.Adjoint(dag.Must(dag.Adjoint(B))))
	assert.True(t, mustSymbol(t, twice).ApproxEqual(mustSymbol(t, B), 0))

	P := dag.Must(dag.InjectionInterpolation(fine, coarse))
	R := dag.Must(dag.InjectionRestriction(fine, coarse))
	assert.True(t, mustSymbol(t, dag.Must(dag.Adjoint(P))).ApproxEqual(mustSymbol(t, R), tol))
}

// TestSymbol_DiamondSharing computes a shared sub-expression once and leaves
// no transient state behind.
func TestSymbol_DiamondSharing(t *testing.T) {
	A, B := laplace(fine), shift(fine)
	S := dag.Must(dag.Add(A, B))
	X := dag.Must(dag.Mul(S, S))

	var stats dag.Stats
	sym := mustSymbol(t, X, dag.WithStats(&stats), dag.WithResolution(8))
	assert.Equal(t, 1, stats.ComputedFor(S))
	assert.Equal(t, 1, stats.ComputedFor(A))
	assert.Equal(t, 4, stats.Nodes)
	assert.Equal(t, 4, stats.Computed)
	assert.Equal(t, 4, stats.Released)
	assert.Equal(t, 3, stats.PeakLive)
	assert.Equal(t, 0, stats.Live)
	for _, n := range []*dag.Node{A, B, S, X} {
		assert.True(t, stats.Visited(n))
		assert.Zero(t, stats.PendingFor(n))
	}

	s := mustSymbol(t, S, dag.WithResolution(8))
	want, err := s.Mul(s)
	require.NoError(t, err)
	assert.True(t, sym.ApproxEqual(want, tol))
}

// TestSymbol_RepeatedOperand handles a node that appears twice in one
// dependency list.
func TestSymbol_RepeatedOperand(t *testing.T) {
	A := laplace(fine)
	X := dag.Must(dag.Add(A, A))
	var stats dag.Stats
	sym := mustSymbol(t, X, dag.WithStats(&stats), dag.WithResolution(8))
	assert.Equal(t, 1, stats.ComputedFor(A))
	assert.Zero(t, stats.PendingFor(A))
	assert.True(t, sym.ApproxEqual(mustSymbol(t, A, dag.WithResolution(8)).Scale(2), tol))

	// evaluating again starts from a clean slate
	again := mustSymbol(t, X, dag.WithStats(&stats), dag.WithResolution(8))
	assert.True(t, again.ApproxEqual(sym, 0))
	assert.Equal(t, 1, stats.ComputedFor(A))
}

// TestSymbol_FailureCleanup releases everything when the symbol engine fails.
func TestSymbol_FailureCleanup(t *testing.T) {
	I, Z := dag.Identity(fine), dag.Zero(fine)
	inv := dag.Must(dag.Inverse(Z))
	Y := dag.Must(dag.Add(dag.Must(dag.Mul(I, I)), inv))

	var stats dag.Stats
	_, err := Y.Symbol(dag.WithStats(&stats), dag.WithLogger(testr.New(t)))
	require.Error(t, err)
	assert.ErrorIs(t, err, matrix.ErrSingular)
	assert.Equal(t, 0, stats.Live)
	assert.Equal(t, stats.Computed, stats.Released)
	for _, n := range []*dag.Node{I, Z, inv, Y} {
		assert.Zero(t, stats.PendingFor(n))
	}
	assert.Zero(t, stats.ComputedFor(Y))
}

// TestEvaluate_Cancelled stops before computing anything.
func TestEvaluate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stats dag.Stats
	_, err := dag.Evaluate(ctx, laplace(fine), dag.WithStats(&stats))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stats.Computed)
	assert.Equal(t, 0, stats.Live)

	_, err = dag.Evaluate(context.Background(), nil)
	assert.ErrorIs(t, err, dag.ErrNilNode)
}

// TestSymbol_Resolution rounds the resolution up for every node.
func TestSymbol_Resolution(t *testing.T) {
	L := laplace(fine)
	P := dag.Must(dag.InjectionInterpolation(fine, coarse))
	R := dag.Must(dag.InjectionRestriction(fine, coarse))
	Lc := dag.Must(dag.E(R).Mul(dag.E(L)).Mul(dag.E(P)).Node())

	sym := mustSymbol(t, Lc, dag.WithResolution(33, 32))
	assert.Equal(t, []int{17, 16}, sym.OutputShape())

	sym = mustSymbol(t, L)
	assert.Equal(t, []int{dag.DefaultResolution, dag.DefaultResolution}, sym.OutputShape())
	sym = mustSymbol(t, L, dag.WithDefaultResolution(4))
	assert.Equal(t, []int{4, 4}, sym.OutputShape())

	_, err := L.Symbol(dag.WithResolution(8, 8, 8))
	assert.ErrorIs(t, err, grid.ErrDimension)
	_, err = L.Symbol(dag.WithResolution(0))
	assert.ErrorIs(t, err, grid.ErrResolution)
	_, err = L.Symbol(dag.WithBaseFrequency(0, 0, 0))
	assert.ErrorIs(t, err, grid.ErrDimension)

	// at base frequency zero the constant mode is sampled
	sym = mustSymbol(t, L, dag.WithResolution(4), dag.WithBaseFrequency(0))
	assert.InDelta(t, 0, real(sym.At([]int{0, 0}, 0, 0, []int{0, 0}, []int{0, 0})), tol)
}

// TestSymbol_Transfer checks flat restriction after flat interpolation.
func TestSymbol_Transfer(t *testing.T) {
	P := dag.Must(dag.InjectionInterpolation(fine, coarse))
	R := dag.Must(dag.InjectionRestriction(fine, coarse))
	RP := dag.Must(dag.Mul(R, P))
	d := dag.Must(dag.Sub(RP, dag.Identity(coarse)))
	assert.InDelta(t, 0, mustSymbol(t, d, dag.WithResolution(8)).Norm(), tol)

	hp := dag.Must(dag.HighPassFilter(fine, coarse))
	lp := dag.Must(dag.LowPassFilter(fine, coarse))
	sum := mustSymbol(t, dag.Must(dag.Add(hp, lp)), dag.WithResolution(8))
	assert.True(t, sum.ApproxEqual(mustSymbol(t, dag.Identity(fine), dag.WithResolution(8)), 0))
}

// TestSymbol_BlockAndSystem evaluates periodic and block operators.
func TestSymbol_BlockAndSystem(t *testing.T) {
	L := laplace(fine)
	st, _, err := L.Stencil()
	require.NoError(t, err)
	periodic, err := stencil.NewPeriodic(ndarray.Full(st, 2, 2))
	require.NoError(t, err)
	B := dag.Must(dag.FromPeriodicStencil(periodic, fine))
	diff := dag.Must(dag.Sub(B, L))
	assert.InDelta(t, 0, mustSymbol(t, diff, dag.WithResolution(8)).Norm(), 1e-8)
	assert.Equal(t, []int{2, 2}, mustSymbol(t, B, dag.WithResolution(8)).OutputCouplingShape())

	I, Z := dag.Identity(fine), dag.Zero(fine)
	sys := dag.Must(dag.System([][]*dag.Node{{L, I}, {Z, L}}))
	sym := mustSymbol(t, sys, dag.WithResolution(8))
	assert.Equal(t, 2, sym.Rows())
	assert.Equal(t, 2, sym.Cols())

	el := mustSymbol(t, dag.Must(dag.At(sys, 0, 0)), dag.WithResolution(8))
	assert.True(t, el.ApproxEqual(mustSymbol(t, L, dag.WithResolution(8)), 0))

	inv := dag.Must(dag.Mul(sys, dag.Must(dag.Inverse(sys))))
	id := dag.Must(dag.IdentitySystemLike(sys))
	assert.True(t, mustSymbol(t, inv, dag.WithResolution(8)).ApproxEqual(mustSymbol(t, id, dag.WithResolution(8)), 1e-8))
}

// TestSymbol_Concurrent evaluates one graph from several goroutines.
func TestSymbol_Concurrent(t *testing.T) {
	A, B := laplace(fine), shift(fine)
	S := dag.Must(dag.Add(A, B))
	X := dag.Must(dag.Mul(S, dag.Must(dag.Inverse(S))))
	want := mustSymbol(t, X, dag.WithResolution(8))

	var wg sync.WaitGroup
	results := make([]*symbol.Symbol, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = X.Symbol(dag.WithResolution(8))
		}(i)
	}
	wg.Wait()
	for i := range results {
		require.NoError(t, errs[i])
		assert.True(t, results[i].ApproxEqual(want, 0))
	}
}

// TestSymbol_Metrics records computed symbols in a private registry.
func TestSymbol_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := dag.NewMetrics(reg)
	A, B := laplace(fine), shift(fine)
	X := dag.Must(dag.Mul(dag.Must(dag.Add(A, B)), B))
	_, err := X.Symbol(dag.WithMetrics(m), dag.WithResolution(8))
	require.NoError(t, err)

	const want = `
# HELP lfalab_symbols_computed_total Total number of node symbols computed
# TYPE lfalab_symbols_computed_total counter
lfalab_symbols_computed_total 4
# HELP lfalab_evaluations_total Total number of evaluation calls by result
# TYPE lfalab_evaluations_total counter
lfalab_evaluations_total{result="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want),
		"lfalab_symbols_computed_total", "lfalab_evaluations_total"))
}
