// SPDX-License-Identifier: MIT

package grid

import (
	"math"
	"slices"

	"github.com/katalvlaran/lfalab/ndarray"
)

// Sampling describes how frequencies are sampled during one evaluation:
// Resolution points per dimension on the finest grid, shifted by
// BaseFrequency.
type Sampling struct {
	Resolution    []int
	BaseFrequency []float64
}

// NewSampling returns the sampling of the given finest resolution with the
// default base frequency pi/(h*N), half a frequency step, which keeps the
// zero frequency out of the sample set.
func NewSampling(resolution []int, g Grid) Sampling {
	base := make([]float64, len(resolution))
	for d, n := range resolution {
		base[d] = math.Pi / (g.finest[d] * float64(n))
	}

	return Sampling{Resolution: slices.Clone(resolution), BaseFrequency: base}
}

// NewSamplingAt returns a sampling with an explicit base frequency.
func NewSamplingAt(resolution []int, base []float64) Sampling {
	return Sampling{Resolution: slices.Clone(resolution), BaseFrequency: slices.Clone(base)}
}

// Discrete binds a Domain to a Sampling.
type Discrete struct {
	Domain   Domain
	Sampling Sampling
}

// Resolution returns the resolution on the domain's grid.
func (d Discrete) Resolution() ([]int, error) {
	return d.Domain.Resolution(d.Sampling.Resolution)
}

// Harmonics returns the cluster split of the sampled frequencies.
func (d Discrete) Harmonics() (Clusters, error) {
	res, err := d.Resolution()
	if err != nil {
		return Clusters{}, err
	}

	return d.Domain.Harmonics(res)
}

// Frequency returns the wave number of the global index g:
// base + g*2π/(h*n), with h the step size and n the resolution of the grid.
func (d Discrete) Frequency(g []int) ([]float64, error) {
	res, err := d.Resolution()
	if err != nil {
		return nil, err
	}
	h := d.Domain.Grid.StepSize()
	out := make([]float64, len(g))
	for k := range g {
		out[k] = d.Sampling.BaseFrequency[k] + float64(g[k])*2*math.Pi/(h[k]*float64(res[k]))
	}

	return out, nil
}

// AdjustResolution rounds every entry of desired up to a multiple of step.
func AdjustResolution(desired, step []int) []int {
	return ndarray.Zip(desired, step, func(n, s int) int {
		if r := n % s; r != 0 {
			return n + s - r
		}
		return n
	})
}
