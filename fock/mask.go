package fock

// Mask is an inclusive-disjunction constraint on n-photon, m-mode
// occupations: a list of per-mode conditions, each a length-m sequence
// where an unconstrained mode is represented by count -1 and a
// constrained mode by the exact photon count required (0..31 when built
// with NewMaskFromStrings). A state
// matches the mask if it satisfies any one condition.
type Mask struct {
	m, n       int
	conditions [][]int
}

// AnyCount marks a mode as unconstrained within a Mask condition.
const AnyCount = -1

// NewMask builds an empty mask (matches every state) for m modes and n
// photons.
func NewMask(m, n int) *Mask {
	return &Mask{m: m, n: n}
}

// NewMaskFromConditions builds a mask from explicit per-mode conditions;
// each condition must have length m, with AnyCount for unconstrained
// modes.
func NewMaskFromConditions(m, n int, conditions [][]int) *Mask {
	cp := make([][]int, len(conditions))
	for i, c := range conditions {
		cp[i] = append([]int(nil), c...)
	}
	return &Mask{m: m, n: n, conditions: cp}
}

// NewMaskFromStrings builds a mask the way the textual fs_mask
// constructor does: condition strings of length m, ' ' for unconstrained
// modes and a digit-offset byte (0x30 + count) for an exact-count mode.
func NewMaskFromStrings(m, n int, conditions []string) *Mask {
	converted := make([][]int, len(conditions))
	for i, c := range conditions {
		cond := make([]int, m)
		for j := 0; j < m; j++ {
			if j < len(c) && c[j] >= 0x30 && c[j] < 0x50 {
				cond[j] = int(c[j]) - 0x30
			} else {
				cond[j] = AnyCount
			}
		}
		converted[i] = cond
	}
	return &Mask{m: m, n: n, conditions: converted}
}

// Match reports whether fs satisfies the mask: trivially true if the
// mask carries no conditions, else true if any condition is satisfied.
// A condition never tolerates surplus photons in a mode; when
// allowMissing is true, the sum of per-mode deficits may not exceed
// n-fs.N(), otherwise no deficit is tolerated either.
func (mk *Mask) Match(fs State, allowMissing bool) bool {
	if len(mk.conditions) == 0 {
		return true
	}
	for _, cond := range mk.conditions {
		allowedErrors := 0
		if allowMissing {
			allowedErrors = mk.n - fs.n
		}
		for i := 0; i < mk.m && allowedErrors >= 0; i++ {
			if cond[i] == AnyCount {
				continue
			}
			occ, _ := fs.Occupation(i)
			if occ > cond[i] {
				allowedErrors = -1
				break
			}
			allowedErrors -= cond[i] - occ
		}
		if allowedErrors >= 0 {
			return true
		}
	}
	return false
}
