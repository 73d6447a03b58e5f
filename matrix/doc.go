// SPDX-License-Identifier: MIT

// Package matrix provides the small dense complex kernels behind operator
// symbols: every symbol is block diagonal over its base frequencies and each
// block is a Dense matrix.
//
// The package provides:
//
//   - Dense: row-major complex128 storage with checked At/Set.
//   - Add, Sub, Mul, Scale, Adjoint and FrobeniusNorm over Dense.
//
// The decompositions (LU with partial pivoting, inverse, Hessenberg + shifted
// QR eigenvalues, spectral radius and norm) live in matrix/ops.
//
// Blocks are tiny (1×1 for plain stencils, the cluster size times the system
// size otherwise), so the kernels favour clarity over blocking.
package matrix
