// Package ops provides the decompositions used on symbol blocks: LU with
// partial pivoting, inversion, Hessenberg reduction and shifted QR
// eigenvalues, spectral radius and spectral norm.
package ops

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/lfalab/matrix"
)

// machEps is the unit roundoff of float64.
const machEps = 2.220446049250313e-16

// LUResult holds a packed LU factorization P·A = L·U: the strictly lower part
// of LU is L (unit diagonal implied), the upper part is U, and Perm[i] is the
// row of A that ended up in row i.
type LUResult struct {
	LU   *matrix.Dense
	Perm []int
}

// LU factorizes a square matrix with partial (row) pivoting.
// A pivot whose modulus does not exceed n·eps·max|a_ij| is treated as zero and
// yields matrix.ErrSingular.
// Complexity: O(n³) time, O(n²) memory.
func LU(m *matrix.Dense) (*LUResult, error) {
	// Stage 1: Validate input is square
	n := m.Rows()
	if n != m.Cols() {
		return nil, fmt.Errorf("LU: %dx%d: %w", n, m.Cols(), matrix.ErrNonSquare)
	}

	// Stage 2: Prepare work copy, permutation and singularity threshold
	a := m.Clone()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	tol := float64(n) * machEps * m.MaxAbs()

	// Stage 3: Eliminate column by column
	var (
		i, j, k int
		best    float64
		p       int
		piv     complex128
		rowK    []complex128
		rowI    []complex128
		factor  complex128
	)
	for k = 0; k < n; k++ {
		// pick the largest pivot in column k
		p, best = k, -1
		for i = k; i < n; i++ {
			if v := cmplx.Abs(a.Row(i)[k]); v > best {
				p, best = i, v
			}
		}
		if best <= tol || best == 0 {
			return nil, fmt.Errorf("LU: pivot %d of %d (|pivot| = %g): %w", k, n, math.Max(best, 0), matrix.ErrSingular)
		}
		if p != k {
			rowK, rowI = a.Row(k), a.Row(p)
			for j = 0; j < n; j++ {
				rowK[j], rowI[j] = rowI[j], rowK[j]
			}
			perm[k], perm[p] = perm[p], perm[k]
		}
		rowK = a.Row(k)
		piv = rowK[k]
		for i = k + 1; i < n; i++ {
			rowI = a.Row(i)
			factor = rowI[k] / piv
			rowI[k] = factor
			if factor == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				rowI[j] -= factor * rowK[j]
			}
		}
	}

	// Stage 4: Finalize
	return &LUResult{LU: a, Perm: perm}, nil
}

// Solve solves A·x = b in place of a fresh slice using the factorization.
func (f *LUResult) Solve(b []complex128) []complex128 {
	n := f.LU.Rows()
	x := make([]complex128, n)
	// forward substitution on the permuted right-hand side: L·y = P·b
	for i := 0; i < n; i++ {
		sum := b[f.Perm[i]]
		row := f.LU.Row(i)
		for k := 0; k < i; k++ {
			sum -= row[k] * x[k]
		}
		x[i] = sum
	}
	// backward substitution: U·x = y
	for i := n - 1; i >= 0; i-- {
		row := f.LU.Row(i)
		sum := x[i]
		for k := i + 1; k < n; k++ {
			sum -= row[k] * x[k]
		}
		x[i] = sum / row[i]
	}

	return x
}
