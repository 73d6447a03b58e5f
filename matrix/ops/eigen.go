// Package ops provides advanced matrix operations for the lfalab/matrix package.
// Eigenvalues computes all eigenvalues of a general complex matrix by
// Householder reduction to upper Hessenberg form followed by single-shift
// QR iterations with Givens rotations and Wilkinson shifts, after diagonal
// balancing.
package ops

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/lfalab/matrix"
)

// Iteration limits follow LAPACK's xLAHQR: every eigenvalue may take up to
// sweepsPerOrder·max(10, n) QR sweeps, and every tenth sweep uses an
// exceptional shift.
const (
	sweepsPerOrder         = 30
	exceptionalShiftPeriod = 10
)

// safeMin is the smallest normal float64.
const safeMin = 0x1p-1022

// Eigenvalues returns the n eigenvalues of the square matrix m, in the order
// they deflate (bottom-up), which is not sorted.
// Errors: matrix.ErrNonSquare, matrix.ErrEigenFailed.
// Complexity: O(n³) for the reduction, O(n²) per QR sweep.
func Eigenvalues(m *matrix.Dense) ([]complex128, error) {
	// Stage 1: Validate input
	n := m.Rows()
	if n != m.Cols() {
		return nil, fmt.Errorf("Eigenvalues: %dx%d: %w", n, m.Cols(), matrix.ErrNonSquare)
	}
	if n == 1 {
		v, _ := m.At(0, 0)
		return []complex128{v}, nil
	}

	// Stage 2: Balance and reduce a working copy to Hessenberg form
	h := m.Clone()
	balance(h)
	hessenberg(h)

	// Stage 3: Shifted QR on the active window [lo, hi]
	eig := make([]complex128, n)
	small := safeMin * (float64(n) / machEps)
	maxSweeps := sweepsPerOrder * max(10, n)
	hi, its := n-1, 0
	for hi >= 0 {
		if hi == 0 {
			eig[0] = h.Row(0)[0]
			break
		}
		lo := deflationPoint(h, hi, small)
		if lo == hi {
			eig[hi] = h.Row(hi)[hi]
			hi--
			its = 0
			continue
		}
		its++
		if its > maxSweeps {
			return nil, fmt.Errorf("Eigenvalues: eigenvalue %d after %d sweeps: %w", hi, maxSweeps, matrix.ErrEigenFailed)
		}
		qrSweep(h, lo, hi, shift(h, lo, hi, its))
	}

	// Stage 4: Finalize
	return eig, nil
}

// SpectralRadius returns max |λ| over the eigenvalues of m.
func SpectralRadius(m *matrix.Dense) (float64, error) {
	eig, err := Eigenvalues(m)
	if err != nil {
		return 0, err
	}
	var r float64
	for _, v := range eig {
		r = math.Max(r, cmplx.Abs(v))
	}

	return r, nil
}

// SpectralNorm returns the largest singular value of m, computed from the
// smaller of the Gram matrices mᴴm and mmᴴ.
func SpectralNorm(m *matrix.Dense) (float64, error) {
	adj := matrix.Adjoint(m)
	var (
		gram *matrix.Dense
		err  error
	)
	if m.Rows() >= m.Cols() {
		gram, err = matrix.Mul(adj, m)
	} else {
		gram, err = matrix.Mul(m, adj)
	}
	if err != nil {
		return 0, err
	}
	r, err := SpectralRadius(gram)
	if err != nil {
		return 0, fmt.Errorf("SpectralNorm: %w", err)
	}

	return math.Sqrt(r), nil
}

// hessenberg reduces h in place to upper Hessenberg form by Householder
// similarity transforms.
func hessenberg(h *matrix.Dense) {
	n := h.Rows()
	v := make([]complex128, n)
	var (
		i, j, k  int
		xnorm    float64
		vnorm2   float64
		s, phase complex128
	)
	for k = 0; k < n-2; k++ {
		// Householder vector for column k below the subdiagonal
		xnorm = 0
		for i = k + 1; i < n; i++ {
			xnorm += sq(h.Row(i)[k])
		}
		xnorm = math.Sqrt(xnorm)
		if xnorm == 0 {
			continue
		}
		x0 := h.Row(k + 1)[k]
		phase = 1
		if x0 != 0 {
			phase = x0 / complex(cmplx.Abs(x0), 0)
		}
		for i = range v {
			v[i] = 0
		}
		for i = k + 1; i < n; i++ {
			v[i] = h.Row(i)[k]
		}
		v[k+1] += phase * complex(xnorm, 0)
		vnorm2 = 0
		for i = k + 1; i < n; i++ {
			vnorm2 += sq(v[i])
		}
		if vnorm2 == 0 {
			continue
		}
		// H ← (I - 2vvᴴ/|v|²)·H
		for j = k; j < n; j++ {
			s = 0
			for i = k + 1; i < n; i++ {
				s += cmplx.Conj(v[i]) * h.Row(i)[j]
			}
			s *= complex(2/vnorm2, 0)
			for i = k + 1; i < n; i++ {
				h.Row(i)[j] -= v[i] * s
			}
		}
		// H ← H·(I - 2vvᴴ/|v|²)
		for i = 0; i < n; i++ {
			row := h.Row(i)
			s = 0
			for j = k + 1; j < n; j++ {
				s += row[j] * v[j]
			}
			s *= complex(2/vnorm2, 0)
			for j = k + 1; j < n; j++ {
				row[j] -= s * cmplx.Conj(v[j])
			}
		}
		// the reflection annihilates everything below the subdiagonal
		for i = k + 2; i < n; i++ {
			h.Row(i)[k] = 0
		}
	}
}

// balance scales rows and columns of h by powers of two, D⁻¹·h·D, until
// every off-diagonal row and column norm pair is within a factor of two.
// The eigenvalues are unchanged and rounding is not increased.
func balance(h *matrix.Dense) {
	const (
		radix    = 2.0
		maxPass  = 64
		converge = 0.95
	)
	n := h.Rows()
	for pass, done := 0, false; !done && pass < maxPass; pass++ {
		done = true
		for i := 0; i < n; i++ {
			var c, r float64
			for j := 0; j < n; j++ {
				if j != i {
					c += cabs1(h.Row(j)[i])
					r += cabs1(h.Row(i)[j])
				}
			}
			if c == 0 || r == 0 || math.IsInf(c+r, 0) || math.IsNaN(c+r) {
				continue
			}
			f, s := 1.0, c+r
			for g := r / radix; c < g; {
				f *= radix
				c *= radix * radix
			}
			for g := r * radix; c > g; {
				f /= radix
				c /= radix * radix
			}
			if (c+r)/f >= converge*s {
				continue
			}
			done = false
			row := h.Row(i)
			for j := range row {
				row[j] /= complex(f, 0)
			}
			for j := 0; j < n; j++ {
				h.Row(j)[i] *= complex(f, 0)
			}
		}
	}
}

// deflationPoint returns the start of the unreduced window ending at hi,
// zeroing the negligible subdiagonal entry that bounds it. An entry is
// negligible below the underflow floor small, or when it passes the
// relative test of Ahues and Tisseur used by LAPACK:
//
//	|h[l][l-1]| ≤ ulp·(|h[l-1][l-1]| + |h[l][l]|)
//
// refined by the size of the neighbouring superdiagonal and diagonal gap.
func deflationPoint(h *matrix.Dense, hi int, small float64) int {
	for l := hi; l > 0; l-- {
		sub := cabs1(h.Row(l)[l-1])
		if sub <= small {
			h.Row(l)[l-1] = 0
			return l
		}
		dl1, dl := h.Row(l - 1)[l-1], h.Row(l)[l]
		tst := cabs1(dl1) + cabs1(dl)
		if tst == 0 {
			if l >= 2 {
				tst += math.Abs(real(h.Row(l - 1)[l-2]))
			}
			if l+1 <= hi {
				tst += math.Abs(real(h.Row(l + 1)[l]))
			}
		}
		if sub > machEps*tst {
			continue
		}
		sup := cabs1(h.Row(l - 1)[l])
		ab, ba := math.Max(sub, sup), math.Min(sub, sup)
		gap := cabs1(dl1 - dl)
		aa, bb := math.Max(cabs1(dl), gap), math.Min(cabs1(dl), gap)
		s := aa + ab
		if ba*(ab/s) <= math.Max(small, machEps*(bb*(aa/s))) {
			h.Row(l)[l-1] = 0
			return l
		}
	}

	return 0
}

// shift returns the Wilkinson shift of the trailing 2×2 block. Every
// exceptionalShiftPeriod sweeps it returns an ad hoc shift instead,
// alternating between the top and the bottom of the window, to break
// cycles.
func shift(h *matrix.Dense, lo, hi, its int) complex128 {
	const exceptional = 0.75
	if its%exceptionalShiftPeriod == 0 {
		if its%(2*exceptionalShiftPeriod) == 0 {
			return h.Row(hi)[hi] + complex(exceptional*cabs1(h.Row(hi)[hi-1]), 0)
		}
		return h.Row(lo)[lo] + complex(exceptional*cabs1(h.Row(lo + 1)[lo]), 0)
	}
	a, b := h.Row(hi - 1)[hi-1], h.Row(hi - 1)[hi]
	c, d := h.Row(hi)[hi-1], h.Row(hi)[hi]
	half := (a + d) / 2
	disc := cmplx.Sqrt(half*half - (a*d - b*c))
	mu1, mu2 := half+disc, half-disc
	if cmplx.Abs(mu1-d) <= cmplx.Abs(mu2-d) {
		return mu1
	}

	return mu2
}

// qrSweep performs one shifted QR step H - μI = QR, H ← RQ + μI restricted to
// rows and columns lo..hi.
func qrSweep(h *matrix.Dense, lo, hi int, mu complex128) {
	var (
		i, k int
		t1   complex128
		t2   complex128
	)
	for k = lo; k <= hi; k++ {
		h.Row(k)[k] -= mu
	}
	cs := make([]float64, hi-lo)
	sn := make([]complex128, hi-lo)
	for k = lo; k < hi; k++ {
		c, s := givens(h.Row(k)[k], h.Row(k + 1)[k])
		cs[k-lo], sn[k-lo] = c, s
		rk, rk1 := h.Row(k), h.Row(k+1)
		for i = k; i <= hi; i++ {
			t1, t2 = rk[i], rk1[i]
			rk[i] = complex(c, 0)*t1 + s*t2
			rk1[i] = -cmplx.Conj(s)*t1 + complex(c, 0)*t2
		}
	}
	for k = lo; k < hi; k++ {
		c, s := cs[k-lo], sn[k-lo]
		last := min(k+2, hi)
		for i = lo; i <= last; i++ {
			row := h.Row(i)
			t1, t2 = row[k], row[k+1]
			row[k] = t1*complex(c, 0) + t2*cmplx.Conj(s)
			row[k+1] = -t1*s + t2*complex(c, 0)
		}
	}
	for k = lo; k <= hi; k++ {
		h.Row(k)[k] += mu
	}
}

// givens returns (c, s) with c real such that
// [c s; -conj(s) c]·[x; y] = [r; 0].
func givens(x, y complex128) (float64, complex128) {
	if y == 0 {
		return 1, 0
	}
	ay := cmplx.Abs(y)
	if x == 0 {
		return 0, cmplx.Conj(y) / complex(ay, 0)
	}
	ax := cmplx.Abs(x)
	norm := math.Hypot(ax, ay)
	alpha := x / complex(ax, 0)

	return ax / norm, alpha * cmplx.Conj(y) / complex(norm, 0)
}

func sq(v complex128) float64 { return real(v)*real(v) + imag(v)*imag(v) }

// cabs1 is the cheap modulus |re| + |im|.
func cabs1(v complex128) float64 { return math.Abs(real(v)) + math.Abs(imag(v)) }
