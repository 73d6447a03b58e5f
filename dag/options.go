package dag

import (
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultResolution is the number of sampled frequencies per dimension used
// when no resolution is requested.
const DefaultResolution = 32

// EvalOption configures one evaluation call.
type EvalOption func(*evalOptions)

// evalOptions holds the settings of one call. Zero values mean "default".
type evalOptions struct {
	resolution        []int     // desired finest-grid resolution, broadcast if of length 1
	defaultResolution int       // used when resolution is nil
	baseFrequency     []float64 // nil selects half a frequency step
	log               logr.Logger
	tracer            trace.Tracer
	metrics           *Metrics
	stats             *Stats
}

func defaultEvalOptions() evalOptions {
	return evalOptions{
		defaultResolution: DefaultResolution,
		log:               logr.Discard(),
		tracer:            otel.Tracer("github.com/katalvlaran/lfalab/dag"),
		metrics:           defaultMetrics,
	}
}

// WithResolution requests a finest-grid resolution. A single value applies to
// every dimension. The resolution is rounded up to the next value every node
// of the expression can be sampled at.
func WithResolution(res ...int) EvalOption {
	return func(o *evalOptions) {
		if len(res) > 0 {
			o.resolution = append([]int(nil), res...)
		}
	}
}

// WithDefaultResolution changes the per-dimension resolution used when
// WithResolution is not given. Non-positive values are ignored.
func WithDefaultResolution(n int) EvalOption {
	return func(o *evalOptions) {
		if n > 0 {
			o.defaultResolution = n
		}
	}
}

// WithBaseFrequency shifts the sampled frequencies. A single value applies
// to every dimension. By default the shift is half a frequency step, which
// keeps the zero frequency out of the sample set.
func WithBaseFrequency(theta ...float64) EvalOption {
	return func(o *evalOptions) {
		if len(theta) > 0 {
			o.baseFrequency = append([]float64(nil), theta...)
		}
	}
}

// WithLogger sets the logger. Computed nodes are logged at V(1), releases at
// V(2).
func WithLogger(log logr.Logger) EvalOption {
	return func(o *evalOptions) { o.log = log }
}

// WithTracer sets the tracer that records one span per call.
func WithTracer(t trace.Tracer) EvalOption {
	return func(o *evalOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithMetrics records the call in m instead of the package collectors.
func WithMetrics(m *Metrics) EvalOption {
	return func(o *evalOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithStats fills s with the bookkeeping of the call once it returns.
func WithStats(s *Stats) EvalOption {
	return func(o *evalOptions) { o.stats = s }
}
