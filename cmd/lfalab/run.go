package main

import (
	"context"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"sigs.k8s.io/yaml"

	"github.com/katalvlaran/lfalab/analysis"
	"github.com/katalvlaran/lfalab/config"
	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/multigrid"
)

// Report is the result of one analysis run.
type Report struct {
	Grid            string  `json:"grid"`
	Operator        string  `json:"operator"`
	Smoother        string  `json:"smoother"`
	Levels          int     `json:"levels"`
	SmoothingFactor float64 `json:"smoothingFactor"`
	HEllipticity    float64 `json:"hEllipticity"`
	ConvergenceRate float64 `json:"convergenceRate"` // spectral radius of the cycle
	ErrorNorm       float64 `json:"errorNorm"`       // spectral norm of the cycle
	Computed        int     `json:"computedSymbols"` // by the cycle evaluation
	PeakLive        int     `json:"peakLiveSymbols"`
}

type runner struct {
	log     logr.Logger
	metrics *dag.Metrics
}

// run builds the operators of a and evaluates the three measures. It
// returns the multigrid error propagator next to the report.
func (r *runner) run(ctx context.Context, a *config.Analysis) (*Report, *dag.Node, error) {
	fine := a.FineGrid()
	E, L, err := multigrid.Multigrid(a.Cycle.Levels, fine, a.MultigridCycle())
	if err != nil {
		return nil, nil, errors.Wrap(err, "build multigrid cycle")
	}
	S, err := a.MultigridCycle().Smoother(L)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build smoother")
	}

	var stats dag.Stats
	eval := []dag.EvalOption{
		dag.WithLogger(r.log.V(1)),
		dag.WithMetrics(r.metrics),
		dag.WithStats(&stats),
	}
	report := &Report{
		Grid:     fine.String(),
		Operator: a.Operator.Name,
		Smoother: a.Smoother.Name,
		Levels:   a.Cycle.Levels,
	}

	r.log.Info("smoothing factor")
	opts := a.AnalysisOptions(analysis.WithEvalOptions(eval...))
	if report.SmoothingFactor, err = analysis.SmoothingFactor(S, opts...); err != nil {
		return nil, nil, errors.Wrap(err, "smoothing factor")
	}

	r.log.Info("h-ellipticity")
	if report.HEllipticity, err = analysis.HEllipticity(L, opts...); err != nil {
		return nil, nil, errors.Wrap(err, "h-ellipticity")
	}

	r.log.Info("multigrid cycle", "levels", a.Cycle.Levels)
	sym, err := dag.Evaluate(ctx, E, a.EvalOptions(eval...)...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "evaluate cycle")
	}
	report.Computed = stats.Computed
	report.PeakLive = stats.PeakLive
	if report.ConvergenceRate, err = sym.SpectralRadius(); err != nil {
		return nil, nil, err
	}
	if report.ErrorNorm, err = sym.SpectralNorm(); err != nil {
		return nil, nil, err
	}
	r.log.V(1).Info("done", "rate", report.ConvergenceRate, "computed", report.Computed)

	return report, E, nil
}

// writeReport renders report as YAML to w.
func writeReport(w io.Writer, report *Report) error {
	out, err := yaml.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "render report")
	}
	_, err = w.Write(out)
	return err
}

func writeDOT(path string, E *dag.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dag.WriteDOT(f, E); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
