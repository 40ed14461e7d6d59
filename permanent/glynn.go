package permanent

import "github.com/pkg/errors"

// Glynn computes the permanent of the n x n, row-major matrix a with the
// single-threaded Glynn formula (loopless Gray-code walk, Knuth
// Algorithm L). Rejected for int64 scalars: the formula divides the
// initial row sums by 2.
func Glynn[T Scalar](a []T, n int) (T, error) {
	var zero T
	if n <= 0 || len(a) != n*n {
		return zero, errors.Wrapf(ErrInvalidArgument, "matrix must be %d x %d, got %d entries", n, n, len(a))
	}
	if _, isInt := any(zero).(int64); isInt {
		return zero, errors.Wrap(ErrInvalidArgument, "cannot use glynn for int")
	}
	if n == 1 {
		return a[0], nil
	}

	rowsum := make([]T, n)
	for i, base := 0, 0; i < n; i, base = i+1, base+n {
		rowsum[i] = a[base]
		for k := 1; k < n; k++ {
			rowsum[i] += a[base+k]
		}
		rowsum[i] /= 2
	}
	sum := multiplyRow(rowsum)

	chi := make([]bool, n)
	for i := range chi {
		chi[i] = true
	}
	f := make([]int, n)
	for i := range f {
		f[i] = i
	}

	j := 0
	for j < n-1 {
		if chi[j] {
			for i, base := 0, j; i < n; i, base = i+1, base+n {
				rowsum[i] -= a[base]
			}
			chi[j] = false
		} else {
			for i, base := 0, j; i < n; i, base = i+1, base+n {
				rowsum[i] += a[base]
			}
			chi[j] = true
		}
		if j > 0 {
			sum += multiplyRow(rowsum)
			k := j + 1
			f[j] = f[k]
			f[k] = k
			j = 0
		} else {
			sum -= multiplyRow(rowsum)
			j = f[1]
			f[1] = 1
		}
	}
	return 2 * sum, nil
}
