// Package lfalab is a toolkit for local Fourier analysis (LFA) of multigrid
// methods on infinite structured grids.
//
// 🚀 What is lfalab?
//
//	Operators are written down as expressions and sampled in Fourier space:
//		• Stencil algebra: sparse and periodic stencils, composition, adjoints
//		• Expression graphs: sums, products, inverses, powers, systems, blocks
//		• Lazy evaluation: symbols are computed once per call and freed as soon
//		  as their last consumer is done
//		• Splitting: diagonal / lower / upper parts for relaxation schemes
//		• Multigrid library: smoothers, coarse grid correction, two-grid and
//		  recursive multigrid error propagators
//		• Measures: smoothing factor, h-ellipticity, convergence rates
//
// ✨ Why LFA?
//
//   - Predicts asymptotic convergence without solving a single system
//   - Works on the operator level, so a cycle is a few lines of code
//   - Systems of PDEs and block smoothers use the same machinery
//
// Layout:
//
//	ndarray/      n-D index ranges and arrays
//	grid/         grids, frequency domains, harmonic clusters, sampling
//	stencil/      sparse and periodic stencils
//	props/        shape propagation through operations
//	matrix/       small complex dense kernels (LU, inverse, eigenvalues, norms)
//	symbol/       block-diagonal operator symbols and their generators
//	dag/          expression graph, evaluation engine, splitting, DOT export
//	gallery/      model operators and transfer stencils
//	smoother/     Jacobi, Gauss-Seidel, red-black and block smoothers
//	multigrid/    coarse grid correction, two-grid and multigrid cycles
//	analysis/     smoothing factor and h-ellipticity
//	config/       YAML analysis descriptions
//	cmd/lfalab/   command line front end
//
// Quick example (see multigrid.ExampleTwoGrid):
//
//	L   := Poisson2D(fine)         S := Jacobi(L, 0.8)
//	CGC := I - P·Lc⁻¹·R·L          E := S·CGC·S
//	ρ(E) is the asymptotic convergence rate of the two-grid cycle.
//
//	go install github.com/katalvlaran/lfalab/cmd/lfalab@latest
package lfalab
