package analysis

import (
	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/ndarray"
)

// Option configures an analysis.
type Option func(*options)

type options struct {
	coarsening []int     // nil: 2 in every dimension
	resolution []int     // nil: dag.DefaultResolution
	base       []float64 // nil: the measure's default
	eval       []dag.EvalOption
}

// WithCoarsening sets the coarsening factor that separates low from high
// frequencies. A single value applies to every dimension.
func WithCoarsening(f ...int) Option {
	return func(o *options) { o.coarsening = f }
}

// WithResolution sets the sampling resolution on the finest grid.
func WithResolution(res ...int) Option {
	return func(o *options) { o.resolution = res }
}

// WithBaseFrequency sets the lowest sampled frequency.
func WithBaseFrequency(theta ...float64) Option {
	return func(o *options) { o.base = theta }
}

// WithEvalOptions forwards options (logger, tracer, metrics) to every
// evaluation the analysis performs.
func WithEvalOptions(opts ...dag.EvalOption) Option {
	return func(o *options) { o.eval = append(o.eval, opts...) }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) factor(d int) []int {
	switch len(o.coarsening) {
	case 0:
		return ndarray.Fill(d, 2)
	case 1:
		return ndarray.Fill(d, o.coarsening[0])
	}
	return o.coarsening
}

// evalOptions returns the sampling options followed by the forwarded ones.
// base is used when no base frequency was configured.
func (o options) evalOptions(base []float64) []dag.EvalOption {
	out := make([]dag.EvalOption, 0, len(o.eval)+2)
	if o.resolution != nil {
		out = append(out, dag.WithResolution(o.resolution...))
	}
	if o.base != nil {
		base = o.base
	}
	if base != nil {
		out = append(out, dag.WithBaseFrequency(base...))
	}
	return append(out, o.eval...)
}
