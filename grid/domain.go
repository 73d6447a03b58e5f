// SPDX-License-Identifier: MIT

package grid

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/lfalab/ndarray"
)

// Domain is a split frequency domain: the grid an operator side lives on and
// the shape of the harmonic cluster that side couples.
type Domain struct {
	Grid    Grid
	Cluster []int
}

// NewDomain returns the domain on g with the given cluster shape.
// An empty cluster shape means all ones.
func NewDomain(g Grid, cluster ...int) Domain {
	if len(cluster) == 0 {
		cluster = ndarray.Ones(g.Dim())
	}

	return Domain{Grid: g, Cluster: slices.Clone(cluster)}
}

// Dim returns the dimension.
func (d Domain) Dim() int { return d.Grid.Dim() }

// Equal reports whether grid and cluster shape agree.
func (d Domain) Equal(o Domain) bool {
	return d.Grid.Equal(o.Grid) && slices.Equal(d.Cluster, o.Cluster)
}

// Expand multiplies the cluster shape by factor.
func (d Domain) Expand(factor []int) Domain {
	return Domain{Grid: d.Grid, Cluster: ndarray.Zip(d.Cluster, factor, func(a, b int) int { return a * b })}
}

// LCC returns the least common cluster shape of d and o.
func (d Domain) LCC(o Domain) []int {
	return ndarray.Zip(d.Cluster, o.Cluster, ndarray.LCM[int])
}

// Granularity returns spacing*cluster, the value every finest resolution
// must be a multiple of for this domain to be sampled.
func (d Domain) Granularity() []int {
	return ndarray.Zip(d.Grid.spacing, d.Cluster, func(a, b int) int { return a * b })
}

// Resolution returns the resolution on this domain's grid for a finest-grid
// resolution.
func (d Domain) Resolution(finest []int) ([]int, error) {
	if len(finest) != d.Dim() {
		return nil, fmt.Errorf("resolution %v on %v: %w", finest, d.Grid, ErrDimension)
	}
	out := make([]int, len(finest))
	for k, n := range finest {
		if n%d.Grid.spacing[k] != 0 {
			return nil, fmt.Errorf("resolution %v on %v: %w", finest, d.Grid, ErrResolution)
		}
		out[k] = n / d.Grid.spacing[k]
	}

	return out, nil
}

// Harmonics splits a resolution on this domain's grid into clusters.
func (d Domain) Harmonics(res []int) (Clusters, error) {
	base := make([]int, len(res))
	for k, n := range res {
		if n%d.Cluster[k] != 0 {
			return Clusters{}, fmt.Errorf("resolution %v has to be a multiple of %v: %w", res, d.Cluster, ErrResolution)
		}
		base[k] = n / d.Cluster[k]
	}

	return Clusters{Base: base, Cluster: slices.Clone(d.Cluster)}, nil
}

func (d Domain) String() string {
	return fmt.Sprintf("Domain(grid=%v, cluster=%v)", d.Grid, d.Cluster)
}
