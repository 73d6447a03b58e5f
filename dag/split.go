package dag

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/lfalab/ndarray"
	"github.com/katalvlaran/lfalab/props"
)

// Splitter is implemented by operators with a natural decomposition
// A = Diag + Lower + Upper, where the parts are defined by the sign of the
// stencil offsets in lexicographic order.
type Splitter interface {
	Diag() (*Node, error)
	Lower() (*Node, error)
	Upper() (*Node, error)
	MatchingIdentity() (*Node, error)
	MatchingZero() (*Node, error)
}

// Splitter returns the splitting capability of n. Identity, zero, stencil,
// block and system nodes provide one; all other kinds fail with
// ErrInvalidOperation.
func (n *Node) Splitter() (Splitter, error) {
	switch n.op.(type) {
	case identityOp:
		return identitySplit{n}, nil
	case zeroOp:
		return zeroSplit{n}, nil
	case stencilOp:
		return stencilSplit{n}, nil
	case blockOp:
		return blockSplit{n}, nil
	case systemOp:
		return systemSplit{n}, nil
	}
	return nil, errors.Wrapf(ErrInvalidOperation, "%s node cannot be split", n.Kind())
}

// MatchingIdentity returns the identity on the domain of n. Splittable kinds
// delegate to their Splitter; compositions and scalar multiples derive it
// from their operands. Operators between different domains fail with
// ErrInvalidOperation.
func (n *Node) MatchingIdentity() (*Node, error) {
	if s, err := n.Splitter(); err == nil {
		return s.MatchingIdentity()
	}
	switch n.op.(type) {
	case scalarOp, addOp:
		return n.deps[0].MatchingIdentity()
	case mulOp:
		a := n.deps[0]
		if a.props.Output.Equal(a.props.Input) && a.props.Rows == a.props.Cols {
			return a.MatchingIdentity()
		}
	case transferOp:
		return nil, errors.Wrapf(ErrInvalidOperation, "%s operator has no matching identity", n.Kind())
	}
	return identityLike(n.props)
}

// MatchingZero returns the zero operator with the domains of n.
func (n *Node) MatchingZero() (*Node, error) {
	if s, err := n.Splitter(); err == nil {
		return s.MatchingZero()
	}
	switch n.op.(type) {
	case scalarOp:
		return n.deps[0].MatchingZero()
	case mulOp:
		za, err := n.deps[0].MatchingZero()
		if err != nil {
			return nil, err
		}
		zb, err := n.deps[1].MatchingZero()
		if err != nil {
			return nil, err
		}
		return Mul(za, zb)
	}
	return zeroLike(n.props), nil
}

// identityLike returns an identity operator with properties p.
func identityLike(p props.Properties) (*Node, error) {
	if !p.Output.Equal(p.Input) || p.Rows != p.Cols {
		return nil, errors.Wrapf(ErrInvalidOperation, "no identity from %v", p)
	}
	if !p.IsSystem() {
		return newNode(identityOp{}, p), nil
	}
	el := p.Element()
	id, _ := identityLike(el)
	rows := make([][]*Node, p.Rows)
	for i := range rows {
		rows[i] = make([]*Node, p.Cols)
		for j := range rows[i] {
			if i == j {
				rows[i][j] = id
			} else {
				rows[i][j] = zeroLike(el)
			}
		}
	}
	return System(rows)
}

// zeroLike returns a zero operator with properties p.
func zeroLike(p props.Properties) *Node {
	if !p.IsSystem() {
		return newNode(zeroOp{}, p)
	}
	el := p.Element()
	z := zeroLike(el)
	rows := make([][]*Node, p.Rows)
	for i := range rows {
		rows[i] = make([]*Node, p.Cols)
		for j := range rows[i] {
			rows[i][j] = z
		}
	}
	return Must(System(rows))
}

type identitySplit struct{ n *Node }

func (s identitySplit) Diag() (*Node, error)             { return s.n, nil }
func (s identitySplit) Lower() (*Node, error)            { return zeroLike(s.n.props), nil }
func (s identitySplit) Upper() (*Node, error)            { return zeroLike(s.n.props), nil }
func (s identitySplit) MatchingIdentity() (*Node, error) { return s.n, nil }
func (s identitySplit) MatchingZero() (*Node, error)     { return zeroLike(s.n.props), nil }

type zeroSplit struct{ n *Node }

func (s zeroSplit) Diag() (*Node, error)             { return s.n, nil }
func (s zeroSplit) Lower() (*Node, error)            { return s.n, nil }
func (s zeroSplit) Upper() (*Node, error)            { return s.n, nil }
func (s zeroSplit) MatchingIdentity() (*Node, error) { return identityLike(s.n.props) }
func (s zeroSplit) MatchingZero() (*Node, error)     { return s.n, nil }

type stencilSplit struct{ n *Node }

func (s stencilSplit) op() stencilOp { return s.n.op.(stencilOp) }

func (s stencilSplit) Diag() (*Node, error) {
	o := s.op()
	return FromStencil(o.st.Diag(), o.g)
}

func (s stencilSplit) Lower() (*Node, error) {
	o := s.op()
	return FromStencil(o.st.Lower(), o.g)
}

func (s stencilSplit) Upper() (*Node, error) {
	o := s.op()
	return FromStencil(o.st.Upper(), o.g)
}

func (s stencilSplit) MatchingIdentity() (*Node, error) { return Identity(s.op().g), nil }
func (s stencilSplit) MatchingZero() (*Node, error)     { return Zero(s.op().g), nil }

// blockSplit splits every phase of a periodic operator.
type blockSplit struct{ n *Node }

func (s blockSplit) part(f func(Splitter) (*Node, error)) (*Node, error) {
	o := s.n.op.(blockOp)
	parts := ndarray.New[*Node](o.elems.Shape()...)
	for i, e := range o.elems.Flat() {
		sp, err := e.Splitter()
		if err != nil {
			return nil, errors.Wrapf(err, "block phase %v", o.elems.Range().Coord(i))
		}
		if parts.Flat()[i], err = f(sp); err != nil {
			return nil, err
		}
	}
	return Block(parts)
}

func (s blockSplit) Diag() (*Node, error)  { return s.part(Splitter.Diag) }
func (s blockSplit) Lower() (*Node, error) { return s.part(Splitter.Lower) }
func (s blockSplit) Upper() (*Node, error) { return s.part(Splitter.Upper) }

func (s blockSplit) MatchingIdentity() (*Node, error) {
	return Identity(s.n.op.(blockOp).g), nil
}

func (s blockSplit) MatchingZero() (*Node, error) {
	return Zero(s.n.op.(blockOp).g), nil
}

// systemSplit splits a system blockwise: Diag keeps the diagonal parts of the
// diagonal blocks, Lower keeps the blocks below the diagonal plus the lower
// parts of the diagonal blocks, Upper likewise above.
type systemSplit struct{ n *Node }

func (s systemSplit) part(onDiag func(Splitter) (*Node, error), keep func(i, j int) bool) (*Node, error) {
	o := s.n.op.(systemOp)
	rows := make([][]*Node, o.rows)
	for i := range rows {
		rows[i] = make([]*Node, o.cols)
		for j := range rows[i] {
			e := s.n.deps[i*o.cols+j]
			switch {
			case i == j:
				sp, err := e.Splitter()
				if err != nil {
					return nil, errors.Wrapf(err, "system block (%d, %d)", i, j)
				}
				if rows[i][j], err = onDiag(sp); err != nil {
					return nil, err
				}
			case keep(i, j):
				rows[i][j] = e
			default:
				rows[i][j] = zeroLike(e.props)
			}
		}
	}
	return System(rows)
}

func (s systemSplit) Diag() (*Node, error) {
	return s.part(Splitter.Diag, func(int, int) bool { return false })
}

func (s systemSplit) Lower() (*Node, error) {
	return s.part(Splitter.Lower, func(i, j int) bool { return i > j })
}

func (s systemSplit) Upper() (*Node, error) {
	return s.part(Splitter.Upper, func(i, j int) bool { return i < j })
}

func (s systemSplit) MatchingIdentity() (*Node, error) { return IdentitySystemLike(s.n) }
func (s systemSplit) MatchingZero() (*Node, error)     { return ZeroSystemLike(s.n) }
