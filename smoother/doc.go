// Package smoother builds the error propagation operators of relaxation
// methods as expression graphs.
//
// Every constructor takes the operator L of the linear system and returns
// the node S with e_new = S·e_old:
//
//	Jacobi(L, ω)           I - ω·D⁻¹·L
//	CollectiveJacobi(L, ω) I - ω·D⁻¹·L, D the point-block diagonal of a system
//	GSLex(L)               I - (D + L_lower)⁻¹·L
//	RBJacobi(L, ω)         (red + black·J)·(black + red·J), J = Jacobi(L, ω)
//	BlockJacobi(L, b, ω)   I - ω·D_b⁻¹·L, D_b the block diagonal for blocks b
//	RBBlockJacobi(L, b, ω) red-black ordering of BlockJacobi
//
// The diagonal and lower parts come from the operator's dag.Splitter, so L
// must be a stencil, block or system node; the block variants need a
// stencil leaf. Nothing is evaluated here.
package smoother
