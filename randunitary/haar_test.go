package randunitary

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaarIsUnitary(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 3, 5, 8} {
		u, err := Haar(n, rng)
		require.NoError(t, err)
		rows := ToRowMajor(u)

		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				var dot complex128
				for k := 0; k < n; k++ {
					dot += cmplx.Conj(rows[i*n+k]) * rows[j*n+k]
				}
				want := complex128(0)
				if i == j {
					want = 1
				}
				assert.InDelta(t, 0, cmplx.Abs(dot-want), 1e-9, "n=%d i=%d j=%d", n, i, j)
			}
		}
	}
}

func TestHaarRejectsNonPositive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := Haar(0, rng)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
