// Command lfalab runs the local Fourier analysis described by a YAML file:
// it reports the smoothing factor of the smoother, the h-ellipticity of the
// discretization and the convergence rate of the configured multigrid cycle.
//
// Usage:
//
//	lfalab -config analysis.yaml [-v 1] [-dot cycle.dot] [-metrics]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/lfalab/config"
	"github.com/katalvlaran/lfalab/dag"
)

var version = "dev"

func main() {
	var configFile, dotFile string
	var verbosity int
	var dumpMetrics bool

	flag.StringVar(&configFile, "config", "", "Path of the YAML analysis description.")
	flag.StringVar(&dotFile, "dot", "", "Write the multigrid error propagator as a Graphviz graph to this file.")
	flag.IntVar(&verbosity, "v", 0, "Log verbosity; 1 logs every analysis step, 2 every computed symbol.")
	flag.BoolVar(&dumpMetrics, "metrics", false, "Print the evaluation metrics in Prometheus text format after the report.")
	flag.Parse()

	logger, err := newLogger(verbosity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to set up logging: %v\n", err)
		os.Exit(1)
	}
	setupLog := logger.WithName("setup")
	setupLog.Info("starting lfalab", "version", version)

	if configFile == "" {
		setupLog.Error(nil, "missing -config")
		flag.Usage()
		os.Exit(2)
	}
	a, err := config.Load(configFile)
	if err != nil {
		setupLog.Error(err, "unable to load analysis description")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	r := &runner{log: logger.WithName("analysis"), metrics: dag.NewMetrics(reg)}
	report, E, err := r.run(ctx, a)
	if err != nil {
		setupLog.Error(err, "analysis failed")
		os.Exit(1)
	}

	if err := writeReport(os.Stdout, report); err != nil {
		setupLog.Error(err, "unable to write report")
		os.Exit(1)
	}

	if dotFile != "" {
		if err := writeDOT(dotFile, E); err != nil {
			setupLog.Error(err, "unable to write graph", "file", dotFile)
			os.Exit(1)
		}
	}
	if dumpMetrics {
		if err := writeMetrics(os.Stdout, reg); err != nil {
			setupLog.Error(err, "unable to write metrics")
			os.Exit(1)
		}
	}
}

// newLogger returns a development zap logger behind logr. Verbosity n
// enables logr's V(n) messages.
func newLogger(verbosity int) (logr.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	zc.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	zc.DisableStacktrace = true
	zl, err := zc.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zl).WithName("lfalab"), nil
}
