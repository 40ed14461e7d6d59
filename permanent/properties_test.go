package permanent

import (
	"math/cmplx"
	"testing"

	"pgregory.net/rapid"
)

func TestPropertyRyserMatchesGlynn(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "n")
		a := make([]complex128, n*n)
		for i := range a {
			re := rapid.Float64Range(-2, 2).Draw(t, "re")
			im := rapid.Float64Range(-2, 2).Draw(t, "im")
			a[i] = complex(re, im)
		}
		ryser, err := Ryser(a, n, rapid.IntRange(1, 4).Draw(t, "nthreads"))
		if err != nil {
			t.Fatal(err)
		}
		glynn, err := Glynn(a, n)
		if err != nil {
			t.Fatal(err)
		}
		tol := 5e-9 * (1 + cmplx.Abs(glynn))
		if cmplx.Abs(ryser-glynn) > tol {
			t.Fatalf("ryser %v != glynn %v (n=%d)", ryser, glynn, n)
		}
	})
}

func TestPropertySubPermanentCoherence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 5).Draw(t, "n")
		m := n + 1
		a := make([]float64, m*n)
		for i := range a {
			a[i] = rapid.Float64Range(-3, 3).Draw(t, "v")
		}
		subs, err := SubPermanents(a, n)
		if err != nil {
			t.Fatal(err)
		}
		for row := 0; row < m; row++ {
			var minor []float64
			for i := 0; i < m; i++ {
				if i == row {
					continue
				}
				minor = append(minor, a[i*n:i*n+n]...)
			}
			want, err := Permanent(minor, n, 4, "ryser")
			if err != nil {
				t.Fatal(err)
			}
			tol := 1e-7 * (1 + abs(want))
			if abs(subs[row]-want) > tol {
				t.Fatalf("sub-permanent row %d: got %v want %v", row, subs[row], want)
			}
		}
	})
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
