// Package ops provides advanced matrix operations for the lfalab/matrix package.
// Inverse computes the inverse of a square matrix from its pivoted LU
// factorization, solving one unit column at a time.
package ops

import (
	"fmt"

	"github.com/katalvlaran/lfalab/matrix"
)

// Inverse returns the inverse of the square matrix m.
// Blueprint:
//
//	Stage 1 (Validate): ensure m is square.
//	Stage 2 (Decompose): P·A = L·U with partial pivoting.
//	Stage 3 (Execute): for each unit column eᵢ solve A·x = eᵢ.
//	Stage 4 (Finalize): assemble the columns into the inverse.
//
// Errors: matrix.ErrNonSquare, matrix.ErrSingular.
// Complexity: O(n³) time, O(n²) memory, where n = m.Rows().
func Inverse(m *matrix.Dense) (*matrix.Dense, error) {
	// Stage 1: Validate input shape
	n := m.Rows()
	if n != m.Cols() {
		return nil, fmt.Errorf("Inverse: non-square %dx%d: %w", n, m.Cols(), matrix.ErrNonSquare)
	}

	// Stage 2: LU decomposition
	f, err := LU(m)
	if err != nil {
		return nil, fmt.Errorf("Inverse: %w", err)
	}

	// Stage 3: Solve for each column of the inverse
	inv, _ := matrix.NewDense(n, n)
	e := make([]complex128, n)
	var col, i int
	for col = 0; col < n; col++ {
		for i = range e {
			e[i] = 0
		}
		e[col] = 1
		x := f.Solve(e)
		for i = 0; i < n; i++ {
			inv.Row(i)[col] = x[i]
		}
	}

	// Stage 4: Return computed inverse
	return inv, nil
}
