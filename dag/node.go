// SPDX-License-Identifier: MIT

package dag

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/ndarray"
	"github.com/katalvlaran/lfalab/props"
	"github.com/katalvlaran/lfalab/stencil"
)

// Kind identifies the operation a node performs.
type Kind int

// Node kinds.
const (
	KindIdentity Kind = iota
	KindZero
	KindStencil
	KindHighPass
	KindInterpolate
	KindRestrict
	KindAdd
	KindMul
	KindScalarMul
	KindInverse
	KindAdjoint
	KindSubscript
	KindBlock
	KindSystem
)

var kindNames = [...]string{
	KindIdentity:    "identity",
	KindZero:        "zero",
	KindStencil:     "stencil",
	KindHighPass:    "hp_filter",
	KindInterpolate: "interpolate",
	KindRestrict:    "restrict",
	KindAdd:         "add",
	KindMul:         "mul",
	KindScalarMul:   "scalar_mul",
	KindInverse:     "inverse",
	KindAdjoint:     "adjoint",
	KindSubscript:   "subscript",
	KindBlock:       "block",
	KindSystem:      "system",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsGenerator reports whether nodes of kind k are leaves sampled directly by
// the symbol engine.
func (k Kind) IsGenerator() bool {
	return k == KindStencil || k == KindHighPass || k == KindInterpolate || k == KindRestrict
}

// op is the closed set of node operations. Evaluation and formatting switch
// over the concrete types.
type op interface{ kind() Kind }

type (
	identityOp struct{}
	zeroOp     struct{}
	stencilOp  struct {
		st stencil.Sparse
		g  grid.Grid
	}
	highPassOp struct{ fine, coarse grid.Grid }
	transferOp struct {
		fine, coarse grid.Grid
		factor       []int
		restrict     bool
	}
	addOp       struct{}
	mulOp       struct{}
	scalarOp    struct{ s complex128 }
	inverseOp   struct{}
	adjointOp   struct{}
	subscriptOp struct{ i, j int }
	blockOp     struct {
		g     grid.Grid
		elems ndarray.Array[*Node]
	}
	systemOp struct{ rows, cols int }
)

func (identityOp) kind() Kind { return KindIdentity }
func (zeroOp) kind() Kind     { return KindZero }
func (stencilOp) kind() Kind  { return KindStencil }
func (highPassOp) kind() Kind { return KindHighPass }
func (o transferOp) kind() Kind {
	if o.restrict {
		return KindRestrict
	}
	return KindInterpolate
}
func (addOp) kind() Kind       { return KindAdd }
func (mulOp) kind() Kind       { return KindMul }
func (scalarOp) kind() Kind    { return KindScalarMul }
func (inverseOp) kind() Kind   { return KindInverse }
func (adjointOp) kind() Kind   { return KindAdjoint }
func (subscriptOp) kind() Kind { return KindSubscript }
func (blockOp) kind() Kind     { return KindBlock }
func (systemOp) kind() Kind    { return KindSystem }

// Node is an immutable operator expression. Nodes are shared freely between
// expressions; a node never changes after construction.
type Node struct {
	op    op
	deps  []*Node
	props props.Properties
}

func newNode(o op, p props.Properties, deps ...*Node) *Node {
	return &Node{op: o, deps: deps, props: p}
}

// Kind returns the node's operation.
func (n *Node) Kind() Kind { return n.op.kind() }

// Properties returns the operator's domains and system shape.
func (n *Node) Properties() props.Properties { return n.props }

// Dependencies returns the operand nodes in operand order.
func (n *Node) Dependencies() []*Node { return ndarray.Clone(n.deps) }

// OutputGrid returns the grid of the operator's range.
func (n *Node) OutputGrid() grid.Grid { return n.props.Output.Grid }

// InputGrid returns the grid of the operator's domain.
func (n *Node) InputGrid() grid.Grid { return n.props.Input.Grid }

// Dim returns the spatial dimension.
func (n *Node) Dim() int { return n.props.Dim() }

// Stencil returns the stencil and grid of a stencil leaf.
func (n *Node) Stencil() (stencil.Sparse, grid.Grid, error) {
	o, ok := n.op.(stencilOp)
	if !ok {
		return stencil.Sparse{}, grid.Grid{}, errors.Wrapf(ErrInvalidOperation, "%s node has no stencil", n.Kind())
	}
	return o.st, o.g, nil
}

// Elements returns the blocks of a system node, row by row.
func (n *Node) Elements() ([][]*Node, error) {
	o, ok := n.op.(systemOp)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidOperation, "%s node has no elements", n.Kind())
	}
	rows := make([][]*Node, o.rows)
	for i := range rows {
		rows[i] = ndarray.Clone(n.deps[i*o.cols : (i+1)*o.cols])
	}
	return rows, nil
}

// Must panics if err is not nil and returns n otherwise. It is meant for
// expressions whose validity is known in advance.
func Must(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}

// Identity returns the identity operator on g.
func Identity(g grid.Grid) *Node {
	return newNode(identityOp{}, props.Square(g))
}

// Zero returns the zero operator on g.
func Zero(g grid.Grid) *Node {
	return newNode(zeroOp{}, props.Square(g))
}

// FromStencil returns the operator applying st at every point of g.
func FromStencil(st stencil.Sparse, g grid.Grid) (*Node, error) {
	if st.Dim() != 0 && st.Dim() != g.Dim() {
		return nil, errors.Wrapf(ErrShapeMismatch, "stencil of dimension %d on %v", st.Dim(), g)
	}
	return newNode(stencilOp{st: st, g: g}, props.Square(g)), nil
}

// FromEntries is FromStencil for a stencil given by its entries.
func FromEntries(g grid.Grid, entries ...stencil.Entry) (*Node, error) {
	st, err := stencil.NewSparse(entries...)
	if err != nil {
		return nil, err
	}
	return FromStencil(st, g)
}

// FromPeriodicStencil returns the operator that applies the phase p.At(x) at
// every point x of g, assembled as a Block of stencil leaves.
func FromPeriodicStencil(p stencil.Periodic, g grid.Grid) (*Node, error) {
	elems := ndarray.New[*Node](p.Period()...)
	for i, st := range p.Phases().Flat() {
		n, err := FromStencil(st, g)
		if err != nil {
			return nil, errors.Wrapf(err, "phase %v", elems.Range().Coord(i))
		}
		elems.Flat()[i] = n
	}
	return Block(elems)
}

// HighPassFilter returns the projection onto the frequencies of fine that
// alias on coarse.
func HighPassFilter(fine, coarse grid.Grid) (*Node, error) {
	if _, err := fine.CoarseningFactor(coarse); err != nil {
		return nil, errors.Wrap(err, "high-pass filter")
	}
	return newNode(highPassOp{fine: fine, coarse: coarse}, props.Square(fine)), nil
}

// LowPassFilter returns I - HighPassFilter(fine, coarse).
func LowPassFilter(fine, coarse grid.Grid) (*Node, error) {
	hp, err := HighPassFilter(fine, coarse)
	if err != nil {
		return nil, err
	}
	return Sub(Identity(fine), hp)
}

// InjectionInterpolation returns the flat interpolation from coarse to fine.
func InjectionInterpolation(fine, coarse grid.Grid) (*Node, error) {
	f, err := fine.CoarseningFactor(coarse)
	if err != nil {
		return nil, errors.Wrap(err, "interpolation")
	}
	p := props.New(grid.NewDomain(fine, f...), grid.NewDomain(coarse))
	return newNode(transferOp{fine: fine, coarse: coarse, factor: f}, p), nil
}

// InjectionRestriction returns the flat restriction from fine to coarse.
func InjectionRestriction(fine, coarse grid.Grid) (*Node, error) {
	f, err := fine.CoarseningFactor(coarse)
	if err != nil {
		return nil, errors.Wrap(err, "restriction")
	}
	p := props.New(grid.NewDomain(coarse), grid.NewDomain(fine, f...))
	return newNode(transferOp{fine: fine, coarse: coarse, factor: f, restrict: true}, p), nil
}
