package permanent

import "github.com/pkg/errors"

// SubPermanents computes, for the (n+1) x n row-major matrix a, the n+1
// permanents obtained by deleting each row in turn (the Clifford-Clifford
// sub-permanent formula). It shares the Glynn row-sum walk but maintains
// a running prefix/suffix product so every deleted-row permanent falls
// out of one O(n+1) sweep per Gray-code step instead of a fresh O(n^2)
// recomputation.
func SubPermanents[T Scalar](a []T, n int) ([]T, error) {
	m := n + 1
	if n <= 0 || len(a) != m*n {
		return nil, errors.Wrapf(ErrInvalidArgument, "matrix must be %d x %d, got %d entries", m, n, len(a))
	}
	var zero T
	if _, isInt := any(zero).(int64); isInt {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot use sub-permanents for int")
	}

	p := make([]T, m)
	if n == 1 {
		p[0] = a[1]
		p[1] = a[0]
		return p, nil
	}

	rowsum := make([]T, m)
	for i, base := 0, 0; i < m; i, base = i+1, base+n {
		rowsum[i] = a[base]
		for k := 1; k < n; k++ {
			rowsum[i] += a[base+k]
		}
		rowsum[i] /= 2
	}

	q := make([]T, m)
	prefixProduct(rowsum, q)

	p[m-1] = q[m-2]
	t := rowsum[m-1]
	for i := m - 2; i > 0; i-- {
		p[i] = t * q[i-1]
		t *= rowsum[i]
	}
	p[0] = t

	chi := make([]bool, n)
	for i := range chi {
		chi[i] = true
	}
	f := make([]int, n)
	for i := range f {
		f[i] = i
	}

	sign := true
	j := 0
	for j < n-1 {
		for i, base := 0, j; i < m; i, base = i+1, base+n {
			if chi[j] {
				rowsum[i] -= a[base]
			} else {
				rowsum[i] += a[base]
			}
		}
		chi[j] = !chi[j]

		prefixProduct(rowsum, q)
		if sign {
			t = -rowsum[m-1]
			p[m-1] -= q[m-2]
		} else {
			t = rowsum[m-1]
			p[m-1] += q[m-2]
		}
		for i := m - 2; i > 0; i-- {
			p[i] += t * q[i-1]
			t *= rowsum[i]
		}
		p[0] += t
		sign = !sign

		if j > 0 {
			f[j] = f[j+1]
			f[j+1] = j + 1
			j = 0
		} else {
			j = f[1]
			f[1] = 1
		}
	}

	for i := range p {
		p[i] *= 2
	}
	return p, nil
}

func prefixProduct[T Scalar](rowsum, q []T) {
	var prev T = 1
	for i := range rowsum {
		prev *= rowsum[i]
		q[i] = prev
	}
}
