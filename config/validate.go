package config

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	operators = []string{OperatorPoisson, OperatorBiharmonic}
	smoothers = []string{
		SmootherJacobi, SmootherCollectiveJacobi, SmootherGSLex,
		SmootherRBJacobi, SmootherBlockJacobi, SmootherRBBlockJacobi,
	}
	interpolations = []string{TransferMultilinear, TransferInjection}
	restrictions   = []string{TransferFullWeighting, TransferInjection}
)

// Validate checks every field and returns all violations combined with
// multierr. Each of them wraps ErrInvalidConfig.
func (a *Analysis) Validate() error {
	var err error
	d := a.Dim()
	add := func(field, format string, args ...any) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "%s: %s", field, fmt.Sprintf(format, args...)))
	}

	switch {
	case len(a.Grid.StepSize) > 0:
		for _, h := range a.Grid.StepSize {
			if h <= 0 {
				add("grid.stepSize", "step sizes must be positive, got %v", a.Grid.StepSize)
				break
			}
		}
	case a.Grid.Dim < 1:
		add("grid", "either dim or stepSize is required")
	}
	if d > 3 {
		add("grid", "dimension must be at most 3, got %d", d)
	}

	if !slices.Contains(operators, a.Operator.Name) {
		add("operator.name", "unknown operator %q", a.Operator.Name)
	}
	switch a.Operator.Name {
	case OperatorPoisson:
		n := len(a.Operator.Epsilon)
		if !(n == 0 || (d == 2 && n == 1) || (d == 3 && (n == 1 || n == 3))) {
			add("operator.epsilon", "%d coefficients for a %d-dimensional poisson operator", n, d)
		}
	case OperatorBiharmonic:
		if d != 2 {
			add("operator", "biharmonic operator is two-dimensional, got dimension %d", d)
		}
		if len(a.Operator.Epsilon) > 0 {
			add("operator.epsilon", "biharmonic operator takes no coefficients")
		}
	}

	if !slices.Contains(smoothers, a.Smoother.Name) {
		add("smoother.name", "unknown smoother %q", a.Smoother.Name)
	}
	if w := a.Smoother.Weight; w != nil && *w <= 0 {
		add("smoother.weight", "must be positive, got %v", *w)
	}
	switch a.Smoother.Name {
	case SmootherBlockJacobi, SmootherRBBlockJacobi:
		if len(a.Smoother.Block) != d || slices.Min(append([]int{1}, a.Smoother.Block...)) < 1 {
			add("smoother.block", "need %d positive block sizes, got %v", d, a.Smoother.Block)
		}
	default:
		if len(a.Smoother.Block) > 0 {
			add("smoother.block", "only block smoothers take a block shape")
		}
	}

	if a.Cycle.Levels < 1 {
		add("cycle.levels", "must be at least 1, got %d", a.Cycle.Levels)
	}
	if p := a.Cycle.PreSteps; p != nil && *p < 0 {
		add("cycle.preSteps", "must not be negative, got %d", *p)
	}
	if p := a.Cycle.PostSteps; p != nil && *p < 0 {
		add("cycle.postSteps", "must not be negative, got %d", *p)
	}
	if a.Cycle.Gamma < 0 {
		add("cycle.gamma", "must not be negative, got %d", a.Cycle.Gamma)
	}
	if !slices.Contains(interpolations, a.Cycle.Interpolation) {
		add("cycle.interpolation", "unknown interpolation %q", a.Cycle.Interpolation)
	}
	if !slices.Contains(restrictions, a.Cycle.Restriction) {
		add("cycle.restriction", "unknown restriction %q", a.Cycle.Restriction)
	}

	if !broadcastable(a.Coarsening, d) {
		add("coarsening", "need 1 or %d positive factors, got %v", d, a.Coarsening)
	}
	if !broadcastable(a.Resolution, d) {
		add("resolution", "need 1 or %d positive values, got %v", d, a.Resolution)
	}

	return err
}

// broadcastable reports whether v is empty or holds one or d positive values.
func broadcastable(v []int, d int) bool {
	if len(v) == 0 {
		return true
	}
	if len(v) != 1 && len(v) != d {
		return false
	}
	return slices.Min(v) >= 1
}
