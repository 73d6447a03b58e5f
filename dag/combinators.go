package dag

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/katalvlaran/lfalab/ndarray"
	"github.com/katalvlaran/lfalab/props"
)

func checkNil(nodes ...*Node) error {
	for i, n := range nodes {
		if n == nil {
			return errors.Wrapf(ErrNilNode, "operand %d", i)
		}
	}
	return nil
}

// Add returns a + b.
func Add(a, b *Node) (*Node, error) {
	if err := checkNil(a, b); err != nil {
		return nil, err
	}
	p, err := props.Add(a.props, b.props)
	if err != nil {
		return nil, err
	}
	return newNode(addOp{}, p, a, b), nil
}

// Sub returns a + (-1)·b.
func Sub(a, b *Node) (*Node, error) {
	if err := checkNil(a, b); err != nil {
		return nil, err
	}
	nb, err := Scale(-1, b)
	if err != nil {
		return nil, err
	}
	return Add(a, nb)
}

// Mul returns the composition a·b, which applies b first.
func Mul(a, b *Node) (*Node, error) {
	if err := checkNil(a, b); err != nil {
		return nil, err
	}
	p, err := props.Mul(a.props, b.props)
	if err != nil {
		return nil, err
	}
	return newNode(mulOp{}, p, a, b), nil
}

// Scale returns s·a.
func Scale(s complex128, a *Node) (*Node, error) {
	if err := checkNil(a); err != nil {
		return nil, err
	}
	return newNode(scalarOp{s: s}, props.Scale(a.props), a), nil
}

// Inverse returns a⁻¹.
func Inverse(a *Node) (*Node, error) {
	if err := checkNil(a); err != nil {
		return nil, err
	}
	p, err := props.Inverse(a.props)
	if err != nil {
		return nil, err
	}
	return newNode(inverseOp{}, p, a), nil
}

// Adjoint returns aᴴ.
func Adjoint(a *Node) (*Node, error) {
	if err := checkNil(a); err != nil {
		return nil, err
	}
	return newNode(adjointOp{}, props.Adjoint(a.props), a), nil
}

// Pow returns a composed with itself p-1 times.
func Pow(a *Node, p int) (*Node, error) {
	if err := checkNil(a); err != nil {
		return nil, err
	}
	if p < 1 {
		return nil, errors.Wrapf(ErrInvalidPower, "got %d", p)
	}
	aux := a
	for i := 1; i < p; i++ {
		var err error
		if aux, err = Mul(aux, a); err != nil {
			return nil, err
		}
	}
	return aux, nil
}

// At returns element (i, j) of a system. Subscripting a scalar operator is
// both an invalid operation and a shape mismatch; the error matches
// ErrInvalidOperation and ErrShapeMismatch.
func At(a *Node, i, j int) (*Node, error) {
	if err := checkNil(a); err != nil {
		return nil, err
	}
	if !a.props.IsSystem() {
		return nil, multierr.Combine(
			errors.Wrapf(ErrInvalidOperation, "subscript of %s node", a.Kind()),
			errors.Wrap(ErrShapeMismatch, "subscript: operator is not a system"),
		)
	}
	p, err := props.Subscript(a.props, i, j)
	if err != nil {
		return nil, err
	}
	return newNode(subscriptOp{i: i, j: j}, p, a), nil
}

// Block assembles a periodic operator: element x of elems acts at the points
// congruent to x modulo the array's shape. All elements must be scalar
// operators with unit clusters on the same grid.
func Block(elems ndarray.Array[*Node]) (*Node, error) {
	if elems.Len() == 0 {
		return nil, errors.Wrap(ErrShapeMismatch, "block: no elements")
	}
	if err := checkNil(elems.Flat()...); err != nil {
		return nil, errors.Wrap(err, "block")
	}
	p, err := props.Block(ndarray.Map(elems, (*Node).Properties))
	if err != nil {
		return nil, err
	}
	first := elems.Flat()[0]
	cp := ndarray.Map(elems, func(n *Node) *Node { return n })
	return newNode(blockOp{g: first.OutputGrid(), elems: cp}, p, cp.Flat()...), nil
}

// System assembles a block operator from a rows×cols matrix of operators.
func System(rows [][]*Node) (*Node, error) {
	ps := make([][]props.Properties, len(rows))
	var deps []*Node
	for i, row := range rows {
		if err := checkNil(row...); err != nil {
			return nil, errors.Wrapf(err, "system row %d", i)
		}
		ps[i] = make([]props.Properties, len(row))
		for j, n := range row {
			ps[i][j] = n.props
		}
		deps = append(deps, row...)
	}
	p, err := props.System(ps)
	if err != nil {
		return nil, err
	}
	return newNode(systemOp{rows: p.Rows, cols: p.Cols}, p, deps...), nil
}

// IdentitySystemLike returns the identity system with the shape of sys: the
// matching identity of sys's elements on the diagonal, their matching zero
// elsewhere.
func IdentitySystemLike(sys *Node) (*Node, error) {
	if err := checkNil(sys); err != nil {
		return nil, err
	}
	if !sys.props.IsSystem() || sys.props.Rows != sys.props.Cols {
		return nil, errors.Wrapf(ErrInvalidOperation, "identity like %v", sys.props)
	}
	return identityLike(sys.props)
}

// ZeroSystemLike returns the zero system with the shape of sys.
func ZeroSystemLike(sys *Node) (*Node, error) {
	if err := checkNil(sys); err != nil {
		return nil, err
	}
	if !sys.props.IsSystem() {
		return nil, errors.Wrapf(ErrInvalidOperation, "zero system like %v", sys.props)
	}
	return zeroLike(sys.props), nil
}

// Expr chains combinators and keeps the first construction error, so that
// longer formulas read like the mathematics they implement:
//
//	S, err := dag.E(I).Sub(dag.E(D).Inverse().Mul(dag.E(L)).Scale(w)).Node()
type Expr struct {
	n   *Node
	err error
}

// E starts an expression at n.
func E(n *Node) Expr { return Expr{n: n} }

// Of starts an expression from a constructor result, so that
// dag.Of(dag.FromStencil(st, g)) carries the constructor's error along.
func Of(n *Node, err error) Expr { return Expr{n: n, err: err} }

// Err starts an expression that has already failed.
func Err(err error) Expr { return Expr{err: err} }

// Node returns the expression's node or its first error.
func (e Expr) Node() (*Node, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.n, nil
}

func (e Expr) then(f func(*Node) (*Node, error)) Expr {
	if e.err != nil {
		return e
	}
	n, err := f(e.n)
	return Expr{n: n, err: err}
}

func (e Expr) binary(o Expr, f func(a, b *Node) (*Node, error)) Expr {
	if e.err != nil {
		return e
	}
	if o.err != nil {
		return o
	}
	n, err := f(e.n, o.n)
	return Expr{n: n, err: err}
}

// Add returns e + o.
func (e Expr) Add(o Expr) Expr { return e.binary(o, Add) }

// Sub returns e - o.
func (e Expr) Sub(o Expr) Expr { return e.binary(o, Sub) }

// Mul returns e·o.
func (e Expr) Mul(o Expr) Expr { return e.binary(o, Mul) }

// Scale returns s·e.
func (e Expr) Scale(s complex128) Expr {
	return e.then(func(n *Node) (*Node, error) { return Scale(s, n) })
}

// Inverse returns e⁻¹.
func (e Expr) Inverse() Expr { return e.then(Inverse) }

// Adjoint returns eᴴ.
func (e Expr) Adjoint() Expr { return e.then(Adjoint) }

// Pow returns e composed with itself p-1 times.
func (e Expr) Pow(p int) Expr {
	return e.then(func(n *Node) (*Node, error) { return Pow(n, p) })
}

// At returns element (i, j) of the system e.
func (e Expr) At(i, j int) Expr {
	return e.then(func(n *Node) (*Node, error) { return At(n, i, j) })
}
