package fock

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayLexEnumeration(t *testing.T) {
	a := NewArray(3, 2)
	require.EqualValues(t, 6, a.Count())

	want := []string{
		"|2,0,0>", "|1,1,0>", "|1,0,1>", "|0,2,0>", "|0,1,1>", "|0,0,2>",
	}
	var got []string
	a.All(func(idx uint64, fs State) bool {
		got = append(got, fs.String())
		return true
	})
	assert.Equal(t, want, got)
}

func TestArrayFindIndexRoundTrip(t *testing.T) {
	a := NewArray(4, 3)
	a.Generate()
	for i := uint64(0); i < a.Count(); i++ {
		fs, err := a.At(i)
		require.NoError(t, err)
		idx, err := a.FindIndex(fs)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	missing, err := ParseState("|5,0,0,0>")
	require.NoError(t, err)
	idx, err := a.FindIndex(missing)
	require.NoError(t, err)
	assert.Equal(t, Npos, idx)
}

func TestArrayCountFSArray2010(t *testing.T) {
	a := NewArray(20, 10)
	assert.EqualValues(t, 20030010, a.Count())
}

func TestArrayNormCoefs(t *testing.T) {
	a := NewArray(3, 3)
	a.Generate()
	coefs := make([]complex128, a.Count())
	for i := range coefs {
		coefs[i] = 1
	}
	a.NormCoefs(coefs)

	want := []float64{
		math.Sqrt(6), math.Sqrt(2), math.Sqrt(2),
		math.Sqrt(2), 1, math.Sqrt(2),
		math.Sqrt(6), math.Sqrt(2), math.Sqrt(2), math.Sqrt(6),
	}
	require.Len(t, coefs, len(want))
	for i, w := range want {
		assert.InDelta(t, w, real(coefs[i]), 1e-9, "index %d", i)
	}
}

func TestMaskSoundness(t *testing.T) {
	mask := NewMaskFromStrings(3, 2, []string{"1  "})
	a := NewArrayMasked(3, 2, mask)
	a.Generate()

	rejected, err := ParseState("|0,2,0>")
	require.NoError(t, err)
	idx, err := a.FindIndex(rejected)
	require.NoError(t, err)
	assert.Equal(t, Npos, idx)

	accepted, err := ParseState("|1,1,0>")
	require.NoError(t, err)
	idx, err = a.FindIndex(accepted)
	require.NoError(t, err)
	assert.NotEqual(t, Npos, idx)
}
