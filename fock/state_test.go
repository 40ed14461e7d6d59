package fock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatePolarizationMerge(t *testing.T) {
	s, err := ParseState("|{P:(0,0)}{P:H},0>")
	require.NoError(t, err)
	assert.Equal(t, "|2{P:H},0>", s.String())
}

func TestParseStateRoundTrip(t *testing.T) {
	cases := []string{
		"|2,0,0>",
		"|1,1,0>",
		"|0,0,2>",
		"[3,1]",
		"(2,0)",
	}
	for _, in := range cases {
		s, err := ParseState(in)
		require.NoError(t, err, in)
		again, err := ParseState(s.String())
		require.NoError(t, err)
		assert.True(t, s.Equal(again), "round trip mismatch for %q -> %q", in, s.String())
	}
}

func TestStateSeparation(t *testing.T) {
	s1, err := ParseState("|{_:1},{_:2}>")
	require.NoError(t, err)
	groups, err := s1.Separate()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	want := map[string]bool{"|1,0>": true, "|0,1>": true}
	for _, g := range groups {
		assert.True(t, want[g.String()], "unexpected group %q", g.String())
	}

	s2, err := ParseState("|{_:1},{_:1}>")
	require.NoError(t, err)
	groups2, err := s2.Separate()
	require.NoError(t, err)
	require.Len(t, groups2, 1)
	assert.Equal(t, "|1,1>", groups2[0].String())
}

func TestStateIncExhausted(t *testing.T) {
	s := New(2, 2) // |2,0>
	next, err := s.Inc()
	require.NoError(t, err)
	require.True(t, next.Defined())
	assert.Equal(t, "|1,1>", next.String())

	last := FromOccupations([]int{0, 2})
	exhausted, err := last.Inc()
	require.NoError(t, err)
	assert.False(t, exhausted.Defined())
	assert.Equal(t, 2, exhausted.M())
	assert.Equal(t, 2, exhausted.N())
}

func TestStateTensorAssociativityAndUnit(t *testing.T) {
	a := FromOccupations([]int{1, 0})
	b := FromOccupations([]int{0, 2})
	c := FromOccupations([]int{1, 1})
	empty := Vacuum(0)

	ab, err := a.Tensor(b)
	require.NoError(t, err)
	abc, err := ab.Tensor(c)
	require.NoError(t, err)

	bc, err := b.Tensor(c)
	require.NoError(t, err)
	a_bc, err := a.Tensor(bc)
	require.NoError(t, err)

	assert.True(t, abc.Equal(a_bc))

	aUnit, err := a.Tensor(empty)
	require.NoError(t, err)
	assert.True(t, aUnit.Equal(a))
}

func TestProdNFact(t *testing.T) {
	s := FromOccupations([]int{3, 0, 0})
	assert.Equal(t, uint64(6), s.ProdNFact())

	s2 := FromOccupations([]int{1, 1, 1})
	assert.Equal(t, uint64(1), s2.ProdNFact())
}

func TestSetSliceCarriesAnnotations(t *testing.T) {
	base, err := ParseState("|1,1,1>")
	require.NoError(t, err)
	sub, err := ParseState("|{P:H}1,1>")
	require.NoError(t, err)

	merged, err := base.SetSlice(sub, 1, 3)
	require.NoError(t, err)
	assert.True(t, merged.HasAnnotations())
	assert.Equal(t, "|1,{P:H}1,1>", merged.String())
}
