// SPDX-License-Identifier: MIT

// Package symbol computes sampled Fourier symbols of periodic operators.
//
// A Symbol is block diagonal: the sampled frequencies are split into harmonic
// clusters (grid.Clusters) and the operator only couples frequencies with the
// same base index. For every base index the Symbol stores one dense block of
// size (R·co)×(C·ci), where co and ci are the output and input cluster sizes
// and R×C is the system shape (1×1 for scalar operators). Inside a block,
// row si·co+k addresses system row si and output harmonic k (column-major
// cluster order), and columns are laid out the same way.
//
// Symbols are values: every operation returns a new Symbol.
package symbol

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/pkg/errors"

	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/matrix"
	"github.com/katalvlaran/lfalab/matrix/ops"
	"github.com/katalvlaran/lfalab/ndarray"
)

// ErrIncompatible is returned when two symbols cannot be combined.
var ErrIncompatible = errors.New("symbol: incompatible symbols")

// Symbol is the sampled symbol of a (possibly block-structured) operator.
type Symbol struct {
	out, in    grid.Clusters
	rows, cols int // 0 for scalar symbols
	data       []complex128
}

// New returns the zero symbol with the given clusters and system shape
// (rows = cols = 0 for a scalar symbol).
func New(out, in grid.Clusters, rows, cols int) (*Symbol, error) {
	if !out.Compatible(in) {
		return nil, errors.Wrapf(ErrIncompatible, "output %v and input %v have different base indices", out, in)
	}
	if (rows == 0) != (cols == 0) || rows < 0 || cols < 0 {
		return nil, errors.Wrapf(ErrIncompatible, "invalid system shape %dx%d", rows, cols)
	}
	s := &Symbol{out: out, in: in, rows: rows, cols: cols}
	s.data = make([]complex128, out.BaseSize()*s.blockRows()*s.blockCols())

	return s, nil
}

// NewIdentity returns the identity symbol: one on matching harmonics and
// matching system indices.
func NewIdentity(out, in grid.Clusters, rows, cols int) (*Symbol, error) {
	s, err := New(out, in, rows, cols)
	if err != nil {
		return nil, err
	}
	if !out.Equal(in) {
		return nil, errors.Wrapf(ErrIncompatible, "identity from %v to %v", in, out)
	}
	n := min(s.blockRows(), s.blockCols())
	for b := 0; b < s.bases(); b++ {
		blk := s.block(b)
		for i := 0; i < n; i++ {
			blk[i*s.blockCols()+i] = 1
		}
	}

	return s, nil
}

// Output returns the output clusters.
func (s *Symbol) Output() grid.Clusters { return s.out }

// Input returns the input clusters.
func (s *Symbol) Input() grid.Clusters { return s.in }

// Rows returns the number of system rows (0 for scalar symbols).
func (s *Symbol) Rows() int { return s.rows }

// Cols returns the number of system columns (0 for scalar symbols).
func (s *Symbol) Cols() int { return s.cols }

// IsSystem reports whether s is block structured.
func (s *Symbol) IsSystem() bool { return s.rows > 0 }

// OutputShape returns the shape of the sampled output frequencies.
func (s *Symbol) OutputShape() []int { return s.out.Shape() }

// InputShape returns the shape of the sampled input frequencies.
func (s *Symbol) InputShape() []int { return s.in.Shape() }

// OutputCouplingShape returns the output harmonic cluster shape.
func (s *Symbol) OutputCouplingShape() []int { return ndarray.Clone(s.out.Cluster) }

// InputCouplingShape returns the input harmonic cluster shape.
func (s *Symbol) InputCouplingShape() []int { return ndarray.Clone(s.in.Cluster) }

func (s *Symbol) sysRows() int { return max(s.rows, 1) }
func (s *Symbol) sysCols() int { return max(s.cols, 1) }

func (s *Symbol) blockRows() int { return s.sysRows() * s.out.ClusterSize() }
func (s *Symbol) blockCols() int { return s.sysCols() * s.in.ClusterSize() }
func (s *Symbol) bases() int     { return s.out.BaseSize() }

// block returns the storage of base index b.
func (s *Symbol) block(b int) []complex128 {
	n := s.blockRows() * s.blockCols()
	return s.data[b*n : (b+1)*n]
}

// blockDense returns a matrix view of the block of base index b.
func (s *Symbol) blockDense(b int) *matrix.Dense {
	m, _ := matrix.Wrap(s.blockRows(), s.blockCols(), s.block(b))
	return m
}

// offset returns the flat position of an entry.
func (s *Symbol) offset(base []int, si, sj int, row, col []int) int {
	b := s.out.BaseRange().IndexOf(base)
	r := si*s.out.ClusterSize() + s.out.ClusterRange().IndexOf(row)
	c := sj*s.in.ClusterSize() + s.in.ClusterRange().IndexOf(col)

	return b*s.blockRows()*s.blockCols() + r*s.blockCols() + c
}

// At returns the entry coupling output harmonic row to input harmonic col
// at base index base in system block (si, sj). Scalar symbols use si = sj = 0.
func (s *Symbol) At(base []int, si, sj int, row, col []int) complex128 {
	return s.data[s.offset(base, si, sj, row, col)]
}

// Set stores an entry; see At for the addressing.
func (s *Symbol) Set(base []int, si, sj int, row, col []int, v complex128) {
	s.data[s.offset(base, si, sj, row, col)] = v
}

// Clone returns a deep copy.
func (s *Symbol) Clone() *Symbol {
	c := *s
	c.data = make([]complex128, len(s.data))
	copy(c.data, s.data)

	return &c
}

// Expand re-clusters s so that factor neighbouring clusters merge into one.
// Entries keep their global frequency; the block size grows by factor².
func (s *Symbol) Expand(factor []int) (*Symbol, error) {
	if ndarray.AllZero(minusOne(factor)) {
		return s, nil
	}
	out, err := s.out.Merge(factor)
	if err != nil {
		return nil, errors.Wrap(err, "expand output")
	}
	in, err := s.in.Merge(factor)
	if err != nil {
		return nil, errors.Wrap(err, "expand input")
	}
	r, _ := New(out, in, s.rows, s.cols)

	baseRange := s.out.BaseRange()
	rowRange, colRange := s.out.ClusterRange(), s.in.ClusterRange()
	for bi, b := range baseRange.All() {
		blk := s.block(bi)
		for ri, rc := range rowRange.All() {
			tb, trc := s.out.Convert(out, b, rc)
			for ci, cc := range colRange.All() {
				_, tcc := s.in.Convert(in, b, cc)
				for si := 0; si < s.sysRows(); si++ {
					for sj := 0; sj < s.sysCols(); sj++ {
						v := blk[(si*s.out.ClusterSize()+ri)*s.blockCols()+sj*s.in.ClusterSize()+ci]
						if v != 0 {
							r.Set(tb, si, sj, trc, tcc, v)
						}
					}
				}
			}
		}
	}

	return r, nil
}

// Add returns s + o. Both are first expanded to the smallest common input
// clustering.
func (s *Symbol) Add(o *Symbol) (*Symbol, error) {
	if s.rows != o.rows || s.cols != o.cols {
		return nil, errors.Wrapf(ErrIncompatible, "add %dx%d and %dx%d systems", s.rows, s.cols, o.rows, o.cols)
	}
	common, err := s.in.MinContainer(o.in)
	if err != nil {
		return nil, errors.Wrap(err, "add")
	}
	a, b, err := expandBoth(s, s.in, o, o.in, common)
	if err != nil {
		return nil, errors.Wrap(err, "add")
	}
	if !a.out.Equal(b.out) || !a.in.Equal(b.in) {
		return nil, errors.Wrapf(ErrIncompatible, "add: clusters %v/%v vs %v/%v", a.out, a.in, b.out, b.in)
	}
	r := a.Clone()
	for i, v := range b.data {
		r.data[i] += v
	}

	return r, nil
}

// Sub returns s - o.
func (s *Symbol) Sub(o *Symbol) (*Symbol, error) { return s.Add(o.Scale(-1)) }

// Mul returns the composition s·o.
func (s *Symbol) Mul(o *Symbol) (*Symbol, error) {
	if s.cols != o.rows {
		return nil, errors.Wrapf(ErrIncompatible, "mul %dx%d by %dx%d system", s.rows, s.cols, o.rows, o.cols)
	}
	common, err := s.in.MinContainer(o.out)
	if err != nil {
		return nil, errors.Wrap(err, "mul")
	}
	a, b, err := expandBoth(s, s.in, o, o.out, common)
	if err != nil {
		return nil, errors.Wrap(err, "mul")
	}
	if !a.in.Equal(b.out) {
		return nil, errors.Wrapf(ErrIncompatible, "mul: contraction clusters %v vs %v", a.in, b.out)
	}
	r, err := New(a.out, b.in, a.rows, b.cols)
	if err != nil {
		return nil, err
	}
	n, k, m := a.blockRows(), a.blockCols(), b.blockCols()
	for bi := 0; bi < r.bases(); bi++ {
		matrix.MulInto(r.block(bi), a.block(bi), b.block(bi), n, k, m)
	}

	return r, nil
}

// expandBoth expands a and b so that the clusters ca (of a) and cb (of b)
// become common.
func expandBoth(a *Symbol, ca grid.Clusters, b *Symbol, cb grid.Clusters, common grid.Clusters) (*Symbol, *Symbol, error) {
	fa, err := ca.ExpansionFactor(common)
	if err != nil {
		return nil, nil, err
	}
	fb, err := cb.ExpansionFactor(common)
	if err != nil {
		return nil, nil, err
	}
	ea, err := a.Expand(fa)
	if err != nil {
		return nil, nil, err
	}
	eb, err := b.Expand(fb)
	if err != nil {
		return nil, nil, err
	}

	return ea, eb, nil
}

// Scale returns c·s.
func (s *Symbol) Scale(c complex128) *Symbol {
	r := s.Clone()
	for i := range r.data {
		r.data[i] *= c
	}

	return r
}

// Inverse inverts every block. It fails with matrix.ErrSingular if a block
// is singular up to machine precision.
func (s *Symbol) Inverse() (*Symbol, error) {
	if s.rows != s.cols || !s.out.Equal(s.in) {
		return nil, errors.Wrapf(ErrIncompatible, "inverse of %v <- %v (%dx%d)", s.out, s.in, s.rows, s.cols)
	}
	r, _ := New(s.in, s.out, s.cols, s.rows)
	for b := 0; b < s.bases(); b++ {
		inv, err := ops.Inverse(s.blockDense(b))
		if err != nil {
			return nil, errors.Wrapf(err, "inverse of block %v", s.out.BaseRange().Coord(b))
		}
		copy(r.block(b), inv.Data())
	}

	return r, nil
}

// Adjoint returns the conjugate transpose.
func (s *Symbol) Adjoint() *Symbol {
	r, _ := New(s.in, s.out, s.cols, s.rows)
	for b := 0; b < s.bases(); b++ {
		copy(r.block(b), matrix.Adjoint(s.blockDense(b)).Data())
	}

	return r
}

// Element returns the scalar symbol of system block (i, j).
func (s *Symbol) Element(i, j int) (*Symbol, error) {
	if !s.IsSystem() || i < 0 || i >= s.rows || j < 0 || j >= s.cols {
		return nil, errors.Wrapf(ErrIncompatible, "element (%d, %d) of %dx%d symbol", i, j, s.rows, s.cols)
	}
	r, _ := New(s.out, s.in, 0, 0)
	co, ci := s.out.ClusterSize(), s.in.ClusterSize()
	for b := 0; b < s.bases(); b++ {
		src, dst := s.block(b), r.block(b)
		for k := 0; k < co; k++ {
			copy(dst[k*ci:(k+1)*ci], src[(i*co+k)*s.blockCols()+j*ci:][:ci])
		}
	}

	return r, nil
}

// AssembleSystem builds a system symbol from scalar element symbols. The
// elements are expanded to a common clustering first.
func AssembleSystem(elems [][]*Symbol) (*Symbol, error) {
	if len(elems) == 0 || len(elems[0]) == 0 {
		return nil, errors.Wrap(ErrIncompatible, "empty system")
	}
	rows, cols := len(elems), len(elems[0])
	common := elems[0][0].in
	for _, row := range elems {
		if len(row) != cols {
			return nil, errors.Wrap(ErrIncompatible, "ragged system")
		}
		for _, e := range row {
			if e.IsSystem() {
				return nil, errors.Wrap(ErrIncompatible, "nested system")
			}
			c, err := common.MinContainer(e.in)
			if err != nil {
				return nil, errors.Wrap(err, "system")
			}
			common = c
		}
	}
	expanded := make([][]*Symbol, rows)
	for i, row := range elems {
		expanded[i] = make([]*Symbol, cols)
		for j, e := range row {
			f, err := e.in.ExpansionFactor(common)
			if err != nil {
				return nil, errors.Wrap(err, "system")
			}
			if expanded[i][j], err = e.Expand(f); err != nil {
				return nil, errors.Wrap(err, "system")
			}
		}
	}
	first := expanded[0][0]
	r, err := New(first.out, first.in, rows, cols)
	if err != nil {
		return nil, err
	}
	co, ci := r.out.ClusterSize(), r.in.ClusterSize()
	for i, row := range expanded {
		for j, e := range row {
			if !e.out.Equal(r.out) || !e.in.Equal(r.in) {
				return nil, errors.Wrapf(ErrIncompatible, "system element (%d, %d) has clusters %v/%v", i, j, e.out, e.in)
			}
			for b := 0; b < r.bases(); b++ {
				src, dst := e.block(b), r.block(b)
				for k := 0; k < co; k++ {
					copy(dst[(i*co+k)*r.blockCols()+j*ci:][:ci], src[k*ci:(k+1)*ci])
				}
			}
		}
	}

	return r, nil
}

// Norm returns the Frobenius norm over all blocks.
func (s *Symbol) Norm() float64 {
	var sum float64
	for _, v := range s.data {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}

	return math.Sqrt(sum)
}

// SpectralRadius returns the largest eigenvalue modulus over all blocks.
func (s *Symbol) SpectralRadius() (float64, error) {
	if s.blockRows() != s.blockCols() {
		return 0, errors.Wrapf(ErrIncompatible, "spectral radius of rectangular %dx%d blocks", s.blockRows(), s.blockCols())
	}
	var r float64
	for b := 0; b < s.bases(); b++ {
		v, err := ops.SpectralRadius(s.blockDense(b))
		if err != nil {
			return 0, errors.Wrapf(err, "block %d", b)
		}
		r = math.Max(r, v)
	}

	return r, nil
}

// SpectralNorm returns the largest singular value over all blocks.
func (s *Symbol) SpectralNorm() (float64, error) {
	var r float64
	for b := 0; b < s.bases(); b++ {
		v, err := ops.SpectralNorm(s.blockDense(b))
		if err != nil {
			return 0, errors.Wrapf(err, "block %d", b)
		}
		r = math.Max(r, v)
	}

	return r, nil
}

// Eigenvalues returns the eigenvalues of all blocks, block by block.
func (s *Symbol) Eigenvalues() ([]complex128, error) {
	if s.blockRows() != s.blockCols() {
		return nil, errors.Wrapf(ErrIncompatible, "eigenvalues of rectangular %dx%d blocks", s.blockRows(), s.blockCols())
	}
	out := make([]complex128, 0, len(s.data)/max(s.blockCols(), 1))
	for b := 0; b < s.bases(); b++ {
		ev, err := ops.Eigenvalues(s.blockDense(b))
		if err != nil {
			return nil, errors.Wrapf(err, "block %d", b)
		}
		out = append(out, ev...)
	}

	return out, nil
}

// RowNorms returns, for every sampled output frequency, the Euclidean norm of
// the symbol row belonging to it. System rows of the same frequency are
// accumulated together.
func (s *Symbol) RowNorms() ndarray.Array[float64] {
	return s.lineNorms(true)
}

// ColNorms returns the column counterpart of RowNorms.
func (s *Symbol) ColNorms() ndarray.Array[float64] {
	return s.lineNorms(false)
}

func (s *Symbol) lineNorms(rows bool) ndarray.Array[float64] {
	clusters := s.in
	if rows {
		clusters = s.out
	}
	acc := ndarray.New[float64](clusters.Shape()...)
	co, ci := s.out.ClusterSize(), s.in.ClusterSize()
	baseRange := s.out.BaseRange()
	for b, base := range baseRange.All() {
		blk := s.block(b)
		for r := 0; r < s.blockRows(); r++ {
			for c := 0; c < s.blockCols(); c++ {
				v := blk[r*s.blockCols()+c]
				var g []int
				if rows {
					g = s.out.Global(base, s.out.ClusterRange().Coord(r%co))
				} else {
					g = s.in.Global(base, s.in.ClusterRange().Coord(c%ci))
				}
				acc.Set(g, acc.At(g)+real(v)*real(v)+imag(v)*imag(v))
			}
		}
	}
	for i, v := range acc.Flat() {
		acc.Flat()[i] = math.Sqrt(v)
	}

	return acc
}

// ApproxEqual reports whether both symbols have the same layout and every
// entry differs by at most tol.
func (s *Symbol) ApproxEqual(o *Symbol, tol float64) bool {
	if !s.out.Equal(o.out) || !s.in.Equal(o.in) || s.rows != o.rows || s.cols != o.cols {
		return false
	}
	for i := range s.data {
		if cmplx.Abs(s.data[i]-o.data[i]) > tol {
			return false
		}
	}

	return true
}

func (s *Symbol) String() string {
	return fmt.Sprintf("Symbol(%v <- %v, %dx%d)", s.out, s.in, s.rows, s.cols)
}

func minusOne(v []int) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = x - 1
	}

	return out
}
