// Package randunitary generates Haar-random unitary matrices for
// property-based testing of the permanent and SLOS packages, and for
// synthesizing a benchmark interferometer when none is supplied on disk.
package randunitary

import (
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidArgument covers a non-positive matrix dimension.
var ErrInvalidArgument = errors.New("invalid argument")

// Haar returns an n x n unitary matrix drawn from the Haar measure,
// following Mezzadri's recipe: QR-decompose a complex Ginibre matrix (iid
// standard complex normal entries) and rotate Q by the phase of R's
// diagonal, which removes the bias QR introduces towards the identity.
func Haar(n int, rng *rand.Rand) (*mat.CDense, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "n must be positive, got %d", n)
	}

	z := make([][]complex128, n)
	for i := range z {
		z[i] = make([]complex128, n)
		for j := range z[i] {
			z[i][j] = complex(rng.NormFloat64(), rng.NormFloat64())
		}
	}

	q, r := complexQR(z, n)
	for j := 0; j < n; j++ {
		d := r[j][j]
		abs := cmplx.Abs(d)
		phase := complex(1, 0)
		if abs != 0 {
			phase = d / complex(abs, 0)
		}
		for i := 0; i < n; i++ {
			q[i][j] *= phase
		}
	}

	u := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			u.Set(i, j, q[i][j])
		}
	}
	return u, nil
}

// complexQR performs modified Gram-Schmidt QR decomposition of the n x n
// matrix a: gonum's mat package has no complex QR factorization, so this
// is a direct, unoptimized port of the classical algorithm over raw
// complex128 slices.
func complexQR(a [][]complex128, n int) (q, r [][]complex128) {
	q = make([][]complex128, n)
	for i := range q {
		q[i] = make([]complex128, n)
		copy(q[i], a[i])
	}
	r = make([][]complex128, n)
	for i := range r {
		r[i] = make([]complex128, n)
	}

	for j := 0; j < n; j++ {
		var sumSq float64
		for i := 0; i < n; i++ {
			sumSq += real(q[i][j])*real(q[i][j]) + imag(q[i][j])*imag(q[i][j])
		}
		norm := math.Sqrt(sumSq)
		r[j][j] = complex(norm, 0)
		for i := 0; i < n; i++ {
			q[i][j] /= complex(norm, 0)
		}
		for k := j + 1; k < n; k++ {
			var dot complex128
			for i := 0; i < n; i++ {
				dot += cmplx.Conj(q[i][j]) * q[i][k]
			}
			r[j][k] = dot
			for i := 0; i < n; i++ {
				q[i][k] -= dot * q[i][j]
			}
		}
	}
	return q, r
}

// ToRowMajor flattens u into a row-major []complex128 buffer, the layout
// expected by the permanent and SLOS kernels.
func ToRowMajor(u *mat.CDense) []complex128 {
	r, c := u.Dims()
	out := make([]complex128, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[i*c+j] = u.At(i, j)
		}
	}
	return out
}
