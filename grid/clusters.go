// SPDX-License-Identifier: MIT

package grid

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/lfalab/ndarray"
)

// Clusters splits a sampled frequency box of shape Base*Cluster into
// harmonic clusters. The frequency with global index g belongs to base index
// g mod Base and cluster index g / Base.
type Clusters struct {
	Base    []int
	Cluster []int
}

// Dim returns the dimension.
func (c Clusters) Dim() int { return len(c.Base) }

// Shape returns the shape of the whole frequency box.
func (c Clusters) Shape() []int {
	return ndarray.Zip(c.Base, c.Cluster, func(a, b int) int { return a * b })
}

// BaseRange returns the index box of the base indices.
func (c Clusters) BaseRange() ndarray.Range { return ndarray.NewRange(c.Base...) }

// ClusterRange returns the index box of one cluster.
func (c Clusters) ClusterRange() ndarray.Range { return ndarray.NewRange(c.Cluster...) }

// GlobalRange returns the index box of the whole frequency box.
func (c Clusters) GlobalRange() ndarray.Range { return ndarray.NewRange(c.Shape()...) }

// BaseSize returns the number of base indices.
func (c Clusters) BaseSize() int { return ndarray.Prod(c.Base) }

// ClusterSize returns the number of harmonics per cluster.
func (c Clusters) ClusterSize() int { return ndarray.Prod(c.Cluster) }

// Equal reports structural equality.
func (c Clusters) Equal(o Clusters) bool {
	return slices.Equal(c.Base, o.Base) && slices.Equal(c.Cluster, o.Cluster)
}

// Compatible reports whether both share the same base indices.
func (c Clusters) Compatible(o Clusters) bool { return slices.Equal(c.Base, o.Base) }

// Global returns base + Base*cluster.
func (c Clusters) Global(base, cluster []int) []int {
	g := make([]int, len(base))
	for d := range g {
		g[d] = base[d] + c.Base[d]*cluster[d]
	}

	return g
}

// Split returns the base and cluster index of a global index.
func (c Clusters) Split(global []int) (base, cluster []int) {
	base = make([]int, len(global))
	cluster = make([]int, len(global))
	for d, g := range global {
		base[d] = g % c.Base[d]
		cluster[d] = g / c.Base[d]
	}

	return base, cluster
}

// Convert maps (base, cluster) in c to the same frequency in target.
func (c Clusters) Convert(target Clusters, base, cluster []int) (tb, tc []int) {
	return target.Split(c.Global(base, cluster))
}

// Merge joins factor neighbouring clusters into one: Base/factor, Cluster*factor.
func (c Clusters) Merge(factor []int) (Clusters, error) {
	out := Clusters{Base: make([]int, c.Dim()), Cluster: make([]int, c.Dim())}
	for d := range out.Base {
		if c.Base[d]%factor[d] != 0 {
			return Clusters{}, fmt.Errorf("merge %v by %v: base shape not sufficient: %w", c.Base, factor, ErrResolution)
		}
		out.Base[d] = c.Base[d] / factor[d]
		out.Cluster[d] = c.Cluster[d] * factor[d]
	}

	return out, nil
}

// MinContainer returns the smallest clustering of the same frequency box that
// both c and o can be merged into.
func (c Clusters) MinContainer(o Clusters) (Clusters, error) {
	if c.Dim() != o.Dim() {
		return Clusters{}, ErrDimension
	}
	l := ndarray.Zip(c.Cluster, o.Cluster, ndarray.LCM[int])
	shape := c.Shape()
	base := make([]int, len(shape))
	for d := range shape {
		if shape[d]%l[d] != 0 {
			return Clusters{}, fmt.Errorf("container %v for cluster %v: %w", shape, l, ErrResolution)
		}
		base[d] = shape[d] / l[d]
	}

	return Clusters{Base: base, Cluster: l}, nil
}

// ExpansionFactor returns expanded.Cluster / c.Cluster.
func (c Clusters) ExpansionFactor(expanded Clusters) ([]int, error) {
	f := make([]int, c.Dim())
	for d := range f {
		if expanded.Cluster[d]%c.Cluster[d] != 0 {
			return nil, fmt.Errorf("cannot expand %v to %v: %w", c.Cluster, expanded.Cluster, ErrResolution)
		}
		f[d] = expanded.Cluster[d] / c.Cluster[d]
	}

	return f, nil
}

func (c Clusters) String() string {
	return fmt.Sprintf("Clusters(base=%v, cluster=%v)", c.Base, c.Cluster)
}
