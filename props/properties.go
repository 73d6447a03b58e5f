// Package props derives the shape metadata of operator expressions.
//
// Every operator maps functions on its input domain to functions on its
// output domain. A Properties value records both domains and, for
// block-structured (system) operators, the number of block rows and columns.
// The derivation rules in this package are pure and total: they either return
// the properties of the combined operator or an error wrapping
// ErrShapeMismatch. Expressions are validated when they are built, so a
// malformed expression never reaches evaluation.
package props

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"

	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/ndarray"
)

// ErrShapeMismatch is returned when operands cannot be combined.
var ErrShapeMismatch = errors.New("props: shape mismatch")

// Properties describes an operator's domains and system shape.
type Properties struct {
	Output grid.Domain
	Input  grid.Domain

	// Rows and Cols are the block counts of a system operator; both are zero
	// for scalar operators.
	Rows, Cols int

	// granularity is the lcm of spacing*cluster over every operator the
	// properties were derived from.
	granularity []int
}

// New returns the properties of a scalar operator from in to out.
func New(out, in grid.Domain) Properties {
	return Properties{
		Output:      out,
		Input:       in,
		granularity: lcmAll(out.Granularity(), in.Granularity()),
	}
}

// Square returns the properties of a scalar operator on g with unit clusters.
func Square(g grid.Grid) Properties {
	d := grid.NewDomain(g)
	return New(d, d)
}

// Dim returns the spatial dimension.
func (p Properties) Dim() int { return p.Output.Dim() }

// IsSystem reports whether p describes a block-structured operator.
func (p Properties) IsSystem() bool { return p.Rows > 0 }

// Element returns the properties of a single system element (p itself for a
// scalar operator).
func (p Properties) Element() Properties {
	e := p
	e.Rows, e.Cols = 0, 0
	return e
}

// Granularity returns the value every finest-grid resolution must be a
// multiple of for the operator and all its operands to be sampled.
func (p Properties) Granularity() []int { return slices.Clone(p.granularity) }

// AdjustResolution rounds desired up to the next valid resolution.
func (p Properties) AdjustResolution(desired []int) []int {
	return grid.AdjustResolution(desired, p.granularity)
}

// Equal compares domains and system shape.
func (p Properties) Equal(o Properties) bool {
	return p.Output.Equal(o.Output) && p.Input.Equal(o.Input) && p.Rows == o.Rows && p.Cols == o.Cols
}

func (p Properties) String() string {
	if p.IsSystem() {
		return fmt.Sprintf("%dx%d system %v <- %v", p.Rows, p.Cols, p.Output, p.Input)
	}

	return fmt.Sprintf("%v <- %v", p.Output, p.Input)
}

// expand multiplies both cluster shapes by factor.
func (p Properties) expand(factor []int) Properties {
	e := p
	e.Output = p.Output.Expand(factor)
	e.Input = p.Input.Expand(factor)
	e.granularity = lcmAll(p.granularity, e.Output.Granularity(), e.Input.Granularity())

	return e
}

// expandInputTo expands p so its input cluster becomes cluster.
func (p Properties) expandInputTo(cluster []int) Properties {
	return p.expand(ndarray.Zip(cluster, p.Input.Cluster, func(a, b int) int { return a / b }))
}

// expandOutputTo expands p so its output cluster becomes cluster.
func (p Properties) expandOutputTo(cluster []int) Properties {
	return p.expand(ndarray.Zip(cluster, p.Output.Cluster, func(a, b int) int { return a / b }))
}

// lcmAll combines granularities entrywise. Nil entries are skipped.
func lcmAll(gs ...[]int) []int {
	var out []int
	for _, g := range gs {
		if g == nil {
			continue
		}
		if out == nil {
			out = slices.Clone(g)
			continue
		}
		out = ndarray.Zip(out, g, ndarray.LCM[int])
	}

	return out
}
