package dag

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors updated by evaluation calls.
type Metrics struct {
	computed    prometheus.Counter
	released    prometheus.Counter
	evaluations *prometheus.CounterVec
	duration    prometheus.Histogram
	peakLive    prometheus.Gauge
}

// defaultMetrics is registered with the default registry.
var defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates the evaluation collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		computed: f.NewCounter(prometheus.CounterOpts{
			Name: "lfalab_symbols_computed_total",
			Help: "Total number of node symbols computed",
		}),
		released: f.NewCounter(prometheus.CounterOpts{
			Name: "lfalab_symbols_released_total",
			Help: "Total number of cached node symbols released",
		}),
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lfalab_evaluations_total",
			Help: "Total number of evaluation calls by result",
		}, []string{"result"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lfalab_evaluation_duration_seconds",
			Help:    "Duration of evaluation calls",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		peakLive: f.NewGauge(prometheus.GaugeOpts{
			Name: "lfalab_peak_live_symbols",
			Help: "Largest number of simultaneously cached symbols in the last evaluation",
		}),
	}
}
