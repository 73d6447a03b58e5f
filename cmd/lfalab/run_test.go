package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lfalab/config"
	"github.com/katalvlaran/lfalab/dag"
)

const poissonJacobi = `
grid: {stepSize: [0.03125, 0.03125]}
smoother: {name: jacobi, weight: 0.8}
cycle: {levels: 2, galerkin: true}
`

func newRunner() (*runner, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return &runner{log: logr.Discard(), metrics: dag.NewMetrics(reg)}, reg
}

func TestRun(t *testing.T) {
	a, err := config.Parse([]byte(poissonJacobi))
	require.NoError(t, err)
	r, reg := newRunner()

	report, E, err := r.run(context.Background(), a)
	require.NoError(t, err)
	require.NotNil(t, E)

	assert.Equal(t, "poisson", report.Operator)
	assert.InDelta(t, 0.6, report.SmoothingFactor, 1e-2)
	assert.InDelta(t, 0.25, report.HEllipticity, 1e-12)
	assert.Greater(t, report.ConvergenceRate, 0.0)
	assert.Less(t, report.ConvergenceRate, 1.0)
	assert.GreaterOrEqual(t, report.ErrorNorm, report.ConvergenceRate-1e-12)
	assert.Positive(t, report.Computed)
	assert.LessOrEqual(t, report.PeakLive, report.Computed)

	var buf bytes.Buffer
	require.NoError(t, writeMetrics(&buf, reg))
	assert.Contains(t, buf.String(), "lfalab_symbols_computed_total")
	assert.Contains(t, buf.String(), `lfalab_evaluations_total{result="ok"}`)
}

func TestRun_Canceled(t *testing.T) {
	a, err := config.Parse([]byte(poissonJacobi))
	require.NoError(t, err)
	r, _ := newRunner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = r.run(ctx, a)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteDOT(t *testing.T) {
	a, err := config.Parse([]byte(poissonJacobi))
	require.NoError(t, err)
	r, _ := newRunner()
	_, E, err := r.run(context.Background(), a)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cycle.dot")
	require.NoError(t, writeDOT(path, E))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "digraph"))
	assert.Contains(t, string(data), "inverse")

	assert.Error(t, writeDOT(filepath.Join(t.TempDir(), "missing", "cycle.dot"), E))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteReport(t *testing.T) {
	report := &Report{Operator: "poisson", Levels: 2, ConvergenceRate: 0.25}

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report))
	assert.Contains(t, buf.String(), "operator: poisson")
	assert.Contains(t, buf.String(), "convergenceRate: 0.25")

	assert.Error(t, writeReport(failingWriter{}, report))
}
