// Package dag builds and evaluates expressions of periodic linear operators.
//
// An expression is a directed acyclic graph of immutable *Node values. Leaves
// are primitive operators (identity, zero, stencils, transfer operators,
// frequency filters); inner nodes combine their dependencies (sum,
// composition, scalar multiple, inverse, adjoint, subscript, block and system
// assembly). Every constructor derives the shape of the new operator from its
// operands and fails with ErrShapeMismatch right away, so an expression that
// exists can always be evaluated structurally.
//
// Nothing is computed while an expression is built. Symbol (or Evaluate)
// samples the operator: it walks the graph dependency-first, computes every
// distinct node exactly once and frees a node's symbol as soon as its last
// consumer has been computed. All bookkeeping of a call lives in a side table
// owned by that call, so the same graph may be evaluated concurrently.
//
//	fine := grid.New(2)
//	L := dag.Must(dag.FromEntries(fine,
//		stencil.E(-1, 0, -1), stencil.E(-1, -1, 0), stencil.E(4, 0, 0),
//		stencil.E(-1, 1, 0), stencil.E(-1, 0, 1)))
//	S, err := smoother.Jacobi(L, 0.8)
//	...
//	sym, err := S.Symbol(dag.WithResolution(64))
//	rho, err := sym.SpectralRadius()
//
// Node kinds form a closed set (see Kind). Kinds with a natural splitting
// into diagonal, strictly lower and strictly upper parts expose it through
// the Splitter interface.
package dag
