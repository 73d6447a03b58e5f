// SPDX-License-Identifier: MIT
// Package: lfalab/config
//
// config.go — the YAML description of an analysis run.
//
// Design:
//   • Analysis is plain data; Parse fills documented defaults and validates.
//   • Field names follow the camelCase YAML keys of the example files in
//     testdata/.
//
// Defaults:
//   • operator.name         = "poisson"
//   • smoother.name         = "jacobi", smoother.weight = 1.0
//   • cycle.levels          = 2, cycle.preSteps = cycle.postSteps = 1
//   • cycle.interpolation   = "multilinear", cycle.restriction = "full-weighting"
//   • coarsening            = 2 in every dimension (left nil)

package config

import (
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Operator names.
const (
	OperatorPoisson    = "poisson"
	OperatorBiharmonic = "biharmonic"
)

// Smoother names.
const (
	SmootherJacobi           = "jacobi"
	SmootherCollectiveJacobi = "collective-jacobi"
	SmootherGSLex            = "gs-lex"
	SmootherRBJacobi         = "rb-jacobi"
	SmootherBlockJacobi      = "block-jacobi"
	SmootherRBBlockJacobi    = "rb-block-jacobi"
)

// Transfer operator names.
const (
	TransferInjection     = "injection"
	TransferMultilinear   = "multilinear"
	TransferFullWeighting = "full-weighting"
)

const (
	defaultWeight    = 1.0
	defaultLevels    = 2
	defaultSmoothing = 1
)

// Analysis describes one analysis run: a discretization on a grid, a
// smoother and the multigrid cycle built around them.
type Analysis struct {
	Grid     Grid     `json:"grid"`
	Operator Operator `json:"operator"`
	Smoother Smoother `json:"smoother"`
	Cycle    Cycle    `json:"cycle"`

	// Coarsening separates low from high frequencies and builds the grid
	// hierarchy. A single value applies to every dimension.
	Coarsening []int `json:"coarsening,omitempty"`

	// Resolution is the number of sampled frequencies per dimension on the
	// finest grid; nil keeps the engine default.
	Resolution []int `json:"resolution,omitempty"`
}

// Grid is the finest grid. StepSize wins over Dim when both are set.
type Grid struct {
	Dim      int       `json:"dim,omitempty"`
	StepSize []float64 `json:"stepSize,omitempty"`
}

// Operator names a gallery discretization. Epsilon holds the anisotropy
// coefficients of the Poisson operator.
type Operator struct {
	Name    string    `json:"name"`
	Epsilon []float64 `json:"epsilon,omitempty"`
}

// Smoother names a smoother and its parameters. Block is the block shape of
// the block smoothers.
type Smoother struct {
	Name   string   `json:"name"`
	Weight *float64 `json:"weight,omitempty"`
	Block  []int    `json:"block,omitempty"`
}

// Cycle describes the multigrid cycle.
type Cycle struct {
	Levels        int    `json:"levels"`
	PreSteps      *int   `json:"preSteps,omitempty"`
	PostSteps     *int   `json:"postSteps,omitempty"`
	Gamma         int    `json:"gamma,omitempty"`
	Galerkin      bool   `json:"galerkin,omitempty"`
	Interpolation string `json:"interpolation,omitempty"`
	Restriction   string `json:"restriction,omitempty"`
}

// Load reads and parses the analysis description at path.
func Load(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read analysis description")
	}
	a, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	return a, nil
}

// Parse decodes a YAML (or JSON) analysis description, fills the defaults
// and validates the result. Unknown fields are rejected.
func Parse(data []byte) (*Analysis, error) {
	var a Analysis
	if err := yaml.UnmarshalStrict(data, &a); err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "decode: %v", err)
	}
	a.SetDefaults()
	if err := a.Validate(); err != nil {
		return nil, err
	}

	return &a, nil
}

// SetDefaults fills every unset field with its documented default.
func (a *Analysis) SetDefaults() {
	if a.Operator.Name == "" {
		a.Operator.Name = OperatorPoisson
	}
	if a.Smoother.Name == "" {
		a.Smoother.Name = SmootherJacobi
	}
	if a.Smoother.Weight == nil {
		a.Smoother.Weight = ptr(defaultWeight)
	}
	if a.Cycle.Levels == 0 {
		a.Cycle.Levels = defaultLevels
	}
	if a.Cycle.PreSteps == nil {
		a.Cycle.PreSteps = ptr(defaultSmoothing)
	}
	if a.Cycle.PostSteps == nil {
		a.Cycle.PostSteps = ptr(defaultSmoothing)
	}
	if a.Cycle.Interpolation == "" {
		a.Cycle.Interpolation = TransferMultilinear
	}
	if a.Cycle.Restriction == "" {
		a.Cycle.Restriction = TransferFullWeighting
	}
}

// Marshal renders a as YAML.
func (a *Analysis) Marshal() ([]byte, error) {
	return yaml.Marshal(a)
}

func ptr[T any](v T) *T { return &v }
