package config

import (
	"github.com/katalvlaran/lfalab/analysis"
	"github.com/katalvlaran/lfalab/dag"
	"github.com/katalvlaran/lfalab/gallery"
	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/multigrid"
	"github.com/katalvlaran/lfalab/smoother"
)

// Dim returns the dimension of the finest grid.
func (a *Analysis) Dim() int {
	if len(a.Grid.StepSize) > 0 {
		return len(a.Grid.StepSize)
	}
	return a.Grid.Dim
}

// FineGrid returns the finest grid of the analysis.
func (a *Analysis) FineGrid() grid.Grid {
	if len(a.Grid.StepSize) > 0 {
		return grid.NewWithStepSize(a.Grid.StepSize...)
	}
	return grid.New(a.Grid.Dim)
}

// MultigridCycle translates the description into a multigrid.Cycle. a must
// have been validated.
func (a *Analysis) MultigridCycle() multigrid.Cycle {
	c := multigrid.Cycle{
		Operator:      a.operator,
		Smoother:      a.smoother,
		Interpolation: gallery.MLInterpolation,
		Restriction:   gallery.FWRestriction,
		Coarsening:    a.Coarsening,
		Galerkin:      a.Cycle.Galerkin,
		Gamma:         a.Cycle.Gamma,

		InterpolationStencil: gallery.MLInterpolationStencil,
		RestrictionStencil:   gallery.FWRestrictionStencil,
	}
	if a.Cycle.Interpolation == TransferInjection {
		c.Interpolation = dag.InjectionInterpolation
		c.InterpolationStencil = gallery.InjectionStencil
	}
	if a.Cycle.Restriction == TransferInjection {
		c.Restriction = dag.InjectionRestriction
		c.RestrictionStencil = gallery.InjectionStencil
	}
	if a.Cycle.PreSteps != nil {
		c.PreSteps = *a.Cycle.PreSteps
	}
	if a.Cycle.PostSteps != nil {
		c.PostSteps = *a.Cycle.PostSteps
	}

	return c
}

// AnalysisOptions returns the options of the smoothing and h-ellipticity
// measures, followed by extra.
func (a *Analysis) AnalysisOptions(extra ...analysis.Option) []analysis.Option {
	var opts []analysis.Option
	if a.Coarsening != nil {
		opts = append(opts, analysis.WithCoarsening(a.Coarsening...))
	}
	if a.Resolution != nil {
		opts = append(opts, analysis.WithResolution(a.Resolution...))
	}
	return append(opts, extra...)
}

// EvalOptions returns the sampling options of a plain symbol evaluation,
// followed by extra.
func (a *Analysis) EvalOptions(extra ...dag.EvalOption) []dag.EvalOption {
	var opts []dag.EvalOption
	if a.Resolution != nil {
		opts = append(opts, dag.WithResolution(a.Resolution...))
	}
	return append(opts, extra...)
}

func (a *Analysis) operator(g grid.Grid) (*dag.Node, error) {
	eps := a.Operator.Epsilon
	switch a.Operator.Name {
	case OperatorBiharmonic:
		return gallery.Biharmonic2D(g)
	case OperatorPoisson:
		switch g.Dim() {
		case 1:
			return gallery.Poisson1D(g)
		case 2:
			e := 1.0
			if len(eps) > 0 {
				e = eps[0]
			}
			return gallery.Poisson2D(g, e)
		default:
			return gallery.Poisson3D(g, eps...)
		}
	}
	return nil, ErrInvalidConfig
}

func (a *Analysis) smoother(L *dag.Node) (*dag.Node, error) {
	w := defaultWeight
	if a.Smoother.Weight != nil {
		w = *a.Smoother.Weight
	}
	switch a.Smoother.Name {
	case SmootherJacobi:
		return smoother.Jacobi(L, w)
	case SmootherCollectiveJacobi:
		return smoother.CollectiveJacobi(L, w)
	case SmootherGSLex:
		return smoother.GSLex(L)
	case SmootherRBJacobi:
		return smoother.RBJacobi(L, w)
	case SmootherBlockJacobi:
		return smoother.BlockJacobi(L, a.Smoother.Block, w)
	case SmootherRBBlockJacobi:
		return smoother.RBBlockJacobi(L, a.Smoother.Block, w)
	}
	return nil, ErrInvalidConfig
}
