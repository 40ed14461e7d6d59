package permanent

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermanentDoubleN2(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	got, err := Permanent(a, 2, 0, "")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestRyserMatchesGlynnOnSmallMatrices(t *testing.T) {
	matrices := [][]float64{
		{1, 2, 3, 4},
		{2, 0, 1, 1, 3, 2, 0, 1, 1},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	}
	ns := []int{2, 3, 4}
	for i, a := range matrices {
		n := ns[i]
		ryser, err := Ryser(a, n, 4)
		require.NoError(t, err)
		glynn, err := Glynn(a, n)
		require.NoError(t, err)
		assert.InDelta(t, glynn, ryser, 1e-9, "matrix %d", i)
	}
}

func TestRyserMatchesGlynnComplex(t *testing.T) {
	a := []complex128{
		complex(1, 0.5), complex(0, 1), complex(2, -1),
		complex(1, 0), complex(1, 1), complex(0, -1),
		complex(0, 2), complex(1, 0), complex(1, -1),
	}
	ryser, err := Ryser(a, 3, 2)
	require.NoError(t, err)
	glynn, err := Glynn(a, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(ryser-glynn), 1e-9)
}

func TestGlynnRejectsInt(t *testing.T) {
	a := []int64{1, 2, 3, 4}
	_, err := Glynn(a, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRyserAcceptsInt(t *testing.T) {
	a := []int64{1, 2, 3, 4}
	got, err := Ryser(a, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 10, got)
}

func TestSubPermanentCoherence(t *testing.T) {
	a := []float64{
		1, 2,
		3, 4,
		5, 6,
	}
	subs, err := SubPermanents(a, 2)
	require.NoError(t, err)
	require.Len(t, subs, 3)

	for row := 0; row < 3; row++ {
		var minor []float64
		for i := 0; i < 3; i++ {
			if i == row {
				continue
			}
			minor = append(minor, a[i*2], a[i*2+1])
		}
		want, err := Glynn(minor, 2)
		require.NoError(t, err)
		assert.InDelta(t, want, subs[row], 1e-9, "row %d", row)
	}
}

func TestSubPermanentsN1(t *testing.T) {
	a := []float64{3, 7}
	subs, err := SubPermanents(a, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 3}, subs)
}

func TestPermanentDispatchesByThreadCount(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	single, err := Permanent(a, 2, 1, "")
	require.NoError(t, err)
	explicit, err := Permanent(a, 2, 0, "glynn")
	require.NoError(t, err)
	assert.Equal(t, explicit, single)
}
