package permanent

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// decToIdxArr advances chi (the index set of the current Gray-code
// subset) from the previous subset of size prevSizeSet to the subset
// encoded by the Gray code k, returning the new subset size and the
// signed +/- (position+1) of the single column that changed. When
// prevSizeSet is 0 (the first subset of a block), the full index set is
// built from scratch and diff is left 0.
func decToIdxArr(chi []int, k uint64, prevSizeSet int) (size, diff int) {
	pos := 0
	idx := 0
	if prevSizeSet != 0 {
		for k > 0 {
			if k%2 == 1 {
				if idx == prevSizeSet || chi[idx] != pos {
					diff = pos + 1
					for i := prevSizeSet; i > idx; i-- {
						chi[i] = chi[i-1]
					}
					chi[idx] = pos
					return prevSizeSet + 1, diff
				}
				idx++
			} else if idx < prevSizeSet && chi[idx] == pos {
				diff = -(pos + 1)
				for ; idx < prevSizeSet-1; idx++ {
					chi[idx] = chi[idx+1]
				}
				return prevSizeSet - 1, diff
			}
			k >>= 1
			pos++
		}
	} else {
		for k > 0 {
			if k%2 == 1 {
				chi[idx] = pos
				idx++
			}
			k >>= 1
			pos++
		}
	}
	return idx, diff
}

// ryserBlock sums the contribution of Gray-code subsets [from, to) of an
// n x n matrix to the Ryser permanent formula. It owns its chi/rowsum
// scratch for the lifetime of the block, so concurrent blocks never
// share mutable state.
func ryserBlock[T Scalar](a []T, from, to uint64, n int) T {
	var sum T
	chi := make([]int, n)
	rowsum := make([]T, n)
	prevSizeSet := 0
	for k := from; k < to; k++ {
		grayCode := k ^ (k >> 1)
		sizeSet, diff := decToIdxArr(chi, grayCode, prevSizeSet)
		prevSizeSet = sizeSet

		switch {
		case diff > 0:
			for m, base := 0, diff-1; m < n; m, base = m+1, base+n {
				rowsum[m] += a[base]
			}
		case diff < 0:
			for m, base := 0, -diff-1; m < n; m, base = m+1, base+n {
				rowsum[m] -= a[base]
			}
		default:
			for m := 0; m < n; m++ {
				var s T
				for _, c := range chi[:sizeSet] {
					s += a[m*n+c]
				}
				rowsum[m] = s
			}
		}

		rowsumprod := multiplyRow(rowsum)
		if (n-sizeSet)%2 != 0 {
			sum -= rowsumprod
		} else {
			sum += rowsumprod
		}
	}
	return sum
}

// Ryser computes the permanent of the n x n, row-major matrix a using
// the thread-parallel Gray-code Ryser formula, partitioning [1, 2ⁿ)
// into nthreads contiguous blocks (nthreads <= 0 uses GOMAXPROCS).
func Ryser[T Scalar](a []T, n int, nthreads int) (T, error) {
	var zero T
	if n <= 0 || len(a) != n*n {
		return zero, errors.Wrapf(ErrInvalidArgument, "matrix must be %d x %d, got %d entries", n, n, len(a))
	}
	if n == 1 {
		return a[0], nil
	}
	if nthreads <= 0 {
		nthreads = runtime.GOMAXPROCS(0)
	}
	if nthreads > (1 << n) {
		nthreads = 1 << n
	}

	count := uint64(1) << uint(n)
	blockSize := count / uint64(nthreads)
	partials := make([]T, nthreads)

	var wg sync.WaitGroup
	start := uint64(1)
	for i := 0; i < nthreads; i++ {
		end := blockSize * uint64(i+1)
		if i == nthreads-1 {
			end = count
		}
		wg.Add(1)
		go func(i int, from, to uint64) {
			defer wg.Done()
			partials[i] = ryserBlock(a, from, to, n)
		}(i, start, end)
		start = end
	}
	wg.Wait()

	var sum T
	for _, p := range partials {
		sum += p
	}
	return sum, nil
}
