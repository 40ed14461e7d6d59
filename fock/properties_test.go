package fock

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"pgregory.net/rapid"

	"github.com/lumenphoton/slos/randunitary"
)

func TestPropertyCanonicalCodeOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := rapid.IntRange(1, 6).Draw(t, "m")
		n := rapid.IntRange(0, 6).Draw(t, "n")
		occ := make([]int, m)
		remaining := n
		for i := 0; i < m && remaining > 0; i++ {
			c := rapid.IntRange(0, remaining).Draw(t, "occ")
			occ[i] = c
			remaining -= c
		}
		occ[m-1] += remaining

		fs := FromOccupations(occ)
		code := fs.Code()
		for i := 1; i < len(code); i++ {
			if code[i] < code[i-1] {
				t.Fatalf("code not nondecreasing at %d: %v", i, code)
			}
		}
		sum := 0
		for _, c := range fs.ToOccupations() {
			sum += c
		}
		if sum != fs.N() {
			t.Fatalf("occupation sum %d != n %d", sum, fs.N())
		}
	})
}

func TestPropertyParsePrintRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := rapid.IntRange(1, 5).Draw(t, "m")
		n := rapid.IntRange(0, 5).Draw(t, "n")
		occ := make([]int, m)
		remaining := n
		for i := 0; i < m; i++ {
			c := rapid.IntRange(0, remaining).Draw(t, "occ")
			occ[i] = c
			remaining -= c
		}
		fs := FromOccupations(occ)
		text := fs.String()

		parsed, err := ParseState(text)
		if err != nil {
			t.Fatalf("reparse of %q failed: %v", text, err)
		}
		if parsed.String() != text {
			t.Fatalf("round trip mismatch: %q -> %q", text, parsed.String())
		}
	})
}

func TestPropertyLexEnumerationAndFindIndex(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := rapid.IntRange(1, 4).Draw(t, "m")
		n := rapid.IntRange(0, 4).Draw(t, "n")
		a := NewArray(m, n)
		a.Generate()

		if a.Count() != binomial(m, n) {
			t.Fatalf("count mismatch: got %d want %d", a.Count(), binomial(m, n))
		}
		var prev []byte
		for i := uint64(0); i < a.Count(); i++ {
			fs, err := a.At(i)
			if err != nil {
				t.Fatal(err)
			}
			if prev != nil && string(prev) >= string(fs.Code()) {
				t.Fatalf("not strictly increasing at %d", i)
			}
			prev = append([]byte(nil), fs.Code()...)

			idx, err := a.FindIndex(fs)
			if err != nil {
				t.Fatal(err)
			}
			if idx != i {
				t.Fatalf("find_idx(state_at(%d)) = %d", i, idx)
			}
		}
	})
}

func TestPropertyMaskSoundness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := rapid.IntRange(1, 4).Draw(t, "m")
		n := rapid.IntRange(0, 4).Draw(t, "n")
		cond := make([]int, m)
		for i := range cond {
			if rapid.Bool().Draw(t, "constrained") {
				cond[i] = rapid.IntRange(0, n).Draw(t, "count")
			} else {
				cond[i] = AnyCount
			}
		}
		mask := NewMaskFromConditions(m, n, [][]int{cond})
		a := NewArrayMasked(m, n, mask)
		a.Generate()

		full := NewArray(m, n)
		full.All(func(_ uint64, fs State) bool {
			accepted := mask.Match(fs, true)
			idx, _ := a.FindIndex(fs)
			if accepted && idx == Npos {
				t.Fatalf("state %s accepted by mask but absent from array", fs.String())
			}
			if !accepted && idx != Npos {
				t.Fatalf("state %s rejected by mask but present in array", fs.String())
			}
			return true
		})
	})
}

func TestPropertyLayerMapCoverage(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := rapid.IntRange(1, 4).Draw(t, "m")
		n := rapid.IntRange(0, 3).Draw(t, "n")
		parent := NewArray(m, n)
		child := NewArray(m, n+1)
		lm, err := NewLayerMap(child, parent)
		if err != nil {
			t.Fatal(err)
		}

		parent.All(func(i uint64, pfs State) bool {
			var reached []uint64
			for j := 0; j < m; j++ {
				c, err := lm.Get(i, j)
				if err != nil {
					t.Fatal(err)
				}
				if c != Npos {
					reached = append(reached, c)
				}
			}
			sort.Slice(reached, func(a, b int) bool { return reached[a] < reached[b] })

			var want []uint64
			for j := 0; j < m; j++ {
				occ := pfs.ToOccupations()
				occ[j]++
				child.All(func(ci uint64, cfs State) bool {
					if slicesEqual(cfs.ToOccupations(), occ) {
						want = append(want, ci)
						return false
					}
					return true
				})
			}
			sort.Slice(want, func(a, b int) bool { return want[a] < want[b] })

			if len(reached) != len(dedupe(want)) {
				t.Fatalf("parent %s: reached %v, want %v", pfs.String(), reached, want)
			}
			return true
		})
	})
}

// TestPropertySLOSNormalization checks that propagating an n-photon
// input through a Haar-random unitary, one ComputeSLOSLayer call per
// photon (each entering a randomly drawn mode), leaves an output vector
// of squared norm 1 once the raw SLOS coefficients are scaled by
// √(∏out_k!) with NormCoefs and divided by √(∏in_k!) of the input state.
func TestPropertySLOSNormalization(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := rapid.IntRange(1, 5).Draw(t, "m")
		n := rapid.IntRange(0, m).Draw(t, "n")
		seed := int64(rapid.IntRange(1, 1<<30).Draw(t, "seed"))
		rng := rand.New(rand.NewSource(seed))

		mat, err := randunitary.Haar(m, rng)
		if err != nil {
			t.Fatal(err)
		}
		u := randunitary.ToRowMajor(mat)

		parent := NewArray(m, 0)
		parent.Generate()
		coefs := []complex128{1}
		inOcc := make([]int, m)

		for k := 1; k <= n; k++ {
			child := NewArray(m, k)
			child.Generate()
			lm, err := NewLayerMap(child, parent)
			if err != nil {
				t.Fatal(err)
			}
			mk := rapid.IntRange(0, m-1).Draw(t, "mode")
			inOcc[mk]++
			next := make([]complex128, child.Count())
			lm.ComputeSLOSLayer(u, mk, next, coefs)
			parent, coefs = child, next
		}

		parent.NormCoefs(coefs)
		inNorm := math.Sqrt(float64(FromOccupations(inOcc).ProdNFact()))
		var norm float64
		for _, c := range coefs {
			c /= complex(inNorm, 0)
			norm += real(c)*real(c) + imag(c)*imag(c)
		}
		if math.Abs(norm-1) > 1e-6 {
			t.Fatalf("squared norm %v != 1 (m=%d n=%d)", norm, m, n)
		}
	})
}

func slicesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dedupe(in []uint64) []uint64 {
	seen := map[uint64]bool{}
	var out []uint64
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
