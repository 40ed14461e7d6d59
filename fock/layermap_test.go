package fock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerMapCell(t *testing.T) {
	parent := NewArray(5, 2)
	child := NewArray(5, 3)
	lm, err := NewLayerMap(child, parent)
	require.NoError(t, err)

	p, err := ParseState("|0,1,1,0,0>")
	require.NoError(t, err)
	pIdx, err := parent.FindIndex(p)
	require.NoError(t, err)
	require.NotEqual(t, Npos, pIdx)

	want := []string{
		"|1,1,1,0,0>", "|0,2,1,0,0>", "|0,1,2,0,0>", "|0,1,1,1,0>", "|0,1,1,0,1>",
	}
	for j := 0; j < 5; j++ {
		cIdx, err := lm.Get(pIdx, j)
		require.NoError(t, err)
		require.NotEqual(t, Npos, cIdx)
		cs, err := child.At(cIdx)
		require.NoError(t, err)
		assert.Equal(t, want[j], cs.String(), "mode %d", j)
	}
}

func TestLayerMapCoverage(t *testing.T) {
	parent := NewArray(4, 2)
	child := NewArray(4, 3)
	lm, err := NewLayerMap(child, parent)
	require.NoError(t, err)

	parent.All(func(i uint64, pfs State) bool {
		seen := map[uint64]bool{}
		for j := 0; j < 4; j++ {
			c, err := lm.Get(i, j)
			require.NoError(t, err)
			require.NotEqual(t, Npos, c, "parent %s mode %d should have a child", pfs.String(), j)
			seen[c] = true
		}
		assert.Len(t, seen, 4, "adding a photon to distinct modes must reach distinct children")
		return true
	})
}

func TestLayerMapMaskedChild(t *testing.T) {
	parent := NewArray(3, 1)
	mask := NewMaskFromStrings(3, 2, []string{"2  "})
	child := NewArrayMasked(3, 2, mask)
	lm, err := NewLayerMap(child, parent)
	require.NoError(t, err)

	p, err := ParseState("|0,1,0>")
	require.NoError(t, err)
	pIdx, err := parent.FindIndex(p)
	require.NoError(t, err)

	c, err := lm.Get(pIdx, 1)
	require.NoError(t, err)
	assert.Equal(t, Npos, c, "|0,2,0> is filtered out of the masked child array")

	c2, err := lm.Get(pIdx, 0)
	require.NoError(t, err)
	assert.Equal(t, Npos, c2, "|1,1,0> does not satisfy the mask either")
}
