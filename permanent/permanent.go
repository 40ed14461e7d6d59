package permanent

import (
	"runtime"

	"github.com/pkg/errors"
)

// Permanent computes the permanent of the n x n, row-major matrix a,
// dispatching between Glynn and Ryser the way the original library does:
//
//   - ptype == "glynn", or ptype == "" with nthreads in {1, 2}: Glynn
//     (naturally single-threaded; rejected for int64).
//   - otherwise: thread-parallel Ryser, with nthreads == 0 resolved to
//     the Go runtime's GOMAXPROCS.
func Permanent[T Scalar](a []T, n int, nthreads int, ptype string) (T, error) {
	var zero T
	if n <= 0 || len(a) != n*n {
		return zero, errors.Wrapf(ErrInvalidArgument, "matrix must be %d x %d, got %d entries", n, n, len(a))
	}
	if n == 1 {
		return a[0], nil
	}

	if ptype == "glynn" || (ptype == "" && (nthreads == 1 || nthreads == 2)) {
		return Glynn(a, n)
	}

	if nthreads == 0 {
		nthreads = runtime.GOMAXPROCS(0)
	}
	return Ryser(a, n, nthreads)
}
