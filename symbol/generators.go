// SPDX-License-Identifier: MIT

package symbol

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"

	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/ndarray"
	"github.com/katalvlaran/lfalab/props"
	"github.com/katalvlaran/lfalab/stencil"
)

// Harmonics returns the cluster split of domain d under sampling s.
func Harmonics(d grid.Domain, s grid.Sampling) (grid.Clusters, error) {
	return grid.Discrete{Domain: d, Sampling: s}.Harmonics()
}

// clustersOf returns the output and input clusters of an operator.
func clustersOf(p props.Properties, s grid.Sampling) (out, in grid.Clusters, err error) {
	if out, err = Harmonics(p.Output, s); err != nil {
		return out, in, errors.Wrap(err, "output domain")
	}
	if in, err = Harmonics(p.Input, s); err != nil {
		return out, in, errors.Wrap(err, "input domain")
	}

	return out, in, nil
}

// Identity returns the identity symbol of an operator with properties p.
func Identity(p props.Properties, s grid.Sampling) (*Symbol, error) {
	out, in, err := clustersOf(p, s)
	if err != nil {
		return nil, err
	}

	return NewIdentity(out, in, p.Rows, p.Cols)
}

// Zero returns the zero symbol of an operator with properties p.
func Zero(p props.Properties, s grid.Sampling) (*Symbol, error) {
	out, in, err := clustersOf(p, s)
	if err != nil {
		return nil, err
	}

	return New(out, in, p.Rows, p.Cols)
}

// FromStencil samples Σ w·exp(i·θ·(offset·h)) for a stencil on grid g.
func FromStencil(st stencil.Sparse, g grid.Grid, s grid.Sampling) (*Symbol, error) {
	if st.Dim() != 0 && st.Dim() != g.Dim() {
		return nil, errors.Wrapf(stencil.ErrDimension, "stencil of dimension %d on %v", st.Dim(), g)
	}
	dd := grid.Discrete{Domain: grid.NewDomain(g), Sampling: s}
	clusters, err := dd.Harmonics()
	if err != nil {
		return nil, err
	}
	r, _ := New(clusters, clusters, 0, 0)
	h := g.StepSize()
	entries := st.Entries()
	for b, base := range clusters.BaseRange().All() {
		theta, err := dd.Frequency(base)
		if err != nil {
			return nil, err
		}
		var m complex128
		for _, e := range entries {
			var arg float64
			for k, o := range e.Offset {
				arg += theta[k] * float64(o) * h[k]
			}
			m += e.Weight * cmplx.Exp(complex(0, arg))
		}
		r.data[b] = m
	}

	return r, nil
}

// Constant returns the symbol whose every base block equals blk, a row-major
// matrix of size |out.Cluster|×|in.Cluster|.
func Constant(out, in grid.Domain, blk []complex128, s grid.Sampling) (*Symbol, error) {
	oc, ic, err := clustersOf(props.New(out, in), s)
	if err != nil {
		return nil, err
	}
	r, err := New(oc, ic, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(blk) != r.blockRows()*r.blockCols() {
		return nil, errors.Wrapf(ErrIncompatible, "constant block of %d entries for %dx%d clusters", len(blk), r.blockRows(), r.blockCols())
	}
	for b := 0; b < r.bases(); b++ {
		copy(r.block(b), blk)
	}

	return r, nil
}

// FlatInterpolationBlock returns the cluster block of flat interpolation from
// coarse to fine: a column of sqrt(1/n) over the n fine harmonics.
func FlatInterpolationBlock(factor []int) []complex128 {
	n := ndarray.Prod(factor)
	return ndarray.Fill(n, complex(math.Sqrt(1/float64(n)), 0))
}

// FlatRestrictionBlock returns the cluster block of flat restriction, the
// transpose of FlatInterpolationBlock.
func FlatRestrictionBlock(factor []int) []complex128 {
	return FlatInterpolationBlock(factor)
}

// HighPass returns the indicator symbol of the frequencies that are not
// representable on the coarse grid: a sampled frequency θ is high if any
// component lies in [π/H, (2f-1)·π/H), with H the coarse step size. The low
// frequencies are therefore [-π/H, π/H) modulo 2π/h.
func HighPass(fine, coarse grid.Grid, s grid.Sampling) (*Symbol, error) {
	f, err := fine.CoarseningFactor(coarse)
	if err != nil {
		return nil, err
	}
	dd := grid.Discrete{Domain: grid.NewDomain(fine), Sampling: s}
	clusters, err := dd.Harmonics()
	if err != nil {
		return nil, err
	}
	h := fine.StepSize()
	lower, upper := make([]float64, len(f)), make([]float64, len(f))
	for k := range f {
		block := math.Pi / (h[k] * float64(f[k]))
		lower[k] = block
		upper[k] = float64(2*f[k]-1) * block
	}
	r, _ := New(clusters, clusters, 0, 0)
	for b, base := range clusters.BaseRange().All() {
		theta, err := dd.Frequency(base)
		if err != nil {
			return nil, err
		}
		for k := range theta {
			if theta[k] >= lower[k] && theta[k] < upper[k] {
				r.data[b] = 1
				break
			}
		}
	}

	return r, nil
}

// Block assembles a periodic operator on g from the symbols of its phases.
// scalars holds, for every phase x in the period, the symbol of the operator
// that acts like the phase-x row everywhere; all must be scalar with unit
// clusters on g. The result couples clusters of the period's shape:
//
//	result = (1/n)·Fᴴ·G,  F(b,i,j) = exp(2πi·Σ i_k j_k/p_k),
//	G(b,i,j) = scalars[i](global(b,j))·F(b,i,j).
func Block(scalars ndarray.Array[*Symbol], g grid.Grid, s grid.Sampling) (*Symbol, error) {
	unit, err := Harmonics(grid.NewDomain(g), s)
	if err != nil {
		return nil, err
	}
	for i, sym := range scalars.Flat() {
		if sym.IsSystem() || !sym.out.Equal(unit) || !sym.in.Equal(unit) {
			return nil, errors.Wrapf(ErrIncompatible, "block phase %v has clusters %v/%v, want %v",
				scalars.Range().Coord(i), sym.out, sym.in, unit)
		}
	}
	period := scalars.Shape()
	clusters, err := Harmonics(grid.NewDomain(g, period...), s)
	if err != nil {
		return nil, err
	}
	F, _ := New(clusters, clusters, 0, 0)
	G, _ := New(clusters, clusters, 0, 0)
	cr := clusters.ClusterRange()
	unitBase := unit.BaseRange()
	for b, base := range clusters.BaseRange().All() {
		fb, gb := F.block(b), G.block(b)
		for i, ic := range cr.All() {
			phase := scalars.Flat()[i]
			for j, jc := range cr.All() {
				var arg float64
				for k := range period {
					arg += float64(ic[k]*jc[k]) / float64(period[k])
				}
				f := cmplx.Exp(complex(0, 2*math.Pi*arg))
				gj := clusters.Global(base, jc)
				fb[i*cr.Len()+j] = f
				gb[i*cr.Len()+j] = phase.data[unitBase.IndexOf(gj)] * f
			}
		}
	}
	r, err := F.Adjoint().Mul(G)
	if err != nil {
		return nil, err
	}

	return r.Scale(complex(1/float64(cr.Len()), 0)), nil
}
