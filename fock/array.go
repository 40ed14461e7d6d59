package fock

import (
	"bytes"
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Npos is the "no such index" sentinel returned by FindIndex and by
// LayerMap.Get. Only the low 32 bits are ever meaningful; the type is
// uint64 so it composes with Count()/Size() without casts.
const Npos uint64 = 0xFFFFFFFF

// Array is a lazily generated, lexicographically ordered array of every
// n-photon, m-mode state, optionally filtered by a Mask.
type Array struct {
	m, n   int
	mask   *Mask
	count  uint64
	buffer []byte
}

// NewArray builds the (unmasked) array of every n-photon, m-mode state.
func NewArray(m, n int) *Array {
	a := &Array{m: m, n: n}
	a.count = binomial(m, n)
	return a
}

// NewArrayMasked builds the array of every n-photon, m-mode state that
// matches mask.
func NewArrayMasked(m, n int, mask *Mask) *Array {
	a := &Array{m: m, n: n, mask: mask}
	a.count = a.countMatches()
	return a
}

func binomial(m, n int) uint64 {
	count := uint64(1)
	for nk := 1; nk <= n; nk++ {
		count = (count * uint64(nk+m-1)) / uint64(nk)
	}
	return count
}

func (a *Array) countMatches() uint64 {
	var count uint64
	fs := New(a.m, a.n)
	for {
		if a.mask.Match(fs, true) {
			count++
		}
		next, _ := fs.Inc()
		if !next.defined {
			break
		}
		fs = next
	}
	return count
}

// M returns the mode count.
func (a *Array) M() int { return a.m }

// N returns the photon count.
func (a *Array) N() int { return a.n }

// Count returns the number of states in the array.
func (a *Array) Count() uint64 { return a.count }

// Size returns the byte length of the generated buffer (Count() * N()).
func (a *Array) Size() uint64 { return a.count * uint64(a.n) }

// Generate materializes the packed-code buffer backing random access and
// binary search. It is idempotent; once generated, the buffer lives for
// the lifetime of the Array. Generate is not itself goroutine-safe:
// callers sharing an Array across goroutines must pre-generate before
// fanning out.
func (a *Array) Generate() {
	if a.buffer != nil {
		return
	}
	size := a.Size()
	if size == 0 {
		size = 1
	}
	buf := make([]byte, 0, size)
	fs := New(a.m, a.n)
	for {
		if a.mask == nil || a.mask.Match(fs, true) {
			buf = append(buf, fs.code...)
		}
		next, _ := fs.Inc()
		if !next.defined {
			break
		}
		fs = next
	}
	a.buffer = buf
}

// At returns the state at row idx of the array.
func (a *Array) At(idx uint64) (State, error) {
	if idx >= a.count {
		return State{}, errors.Wrapf(ErrOutOfRange, "array index %d >= count %d", idx, a.count)
	}
	a.Generate()
	code := a.buffer[idx*uint64(a.n) : (idx+1)*uint64(a.n)]
	return State{m: a.m, n: a.n, code: code, defined: true}, nil
}

// FindIndex returns the index of fs within the array via binary search
// over the sorted packed-code buffer, or Npos if fs is not present.
func (a *Array) FindIndex(fs State) (uint64, error) {
	if fs.m != a.m {
		return Npos, errors.Wrapf(ErrInvalidOperation, "find_idx: state has %d modes, array has %d", fs.m, a.m)
	}
	a.Generate()
	if a.n == 0 {
		if fs.n == 0 {
			return 0, nil
		}
		return Npos, nil
	}
	if fs.n != a.n {
		return Npos, nil
	}
	idx := sort.Search(int(a.count), func(i int) bool {
		row := a.buffer[i*a.n : (i+1)*a.n]
		return bytes.Compare(row, fs.code) >= 0
	})
	if uint64(idx) == a.count {
		return Npos, nil
	}
	row := a.buffer[idx*a.n : (idx+1)*a.n]
	if !bytes.Equal(row, fs.code) {
		return Npos, nil
	}
	return uint64(idx), nil
}

// All iterates the array in lexicographic order. If the buffer has
// already been generated, it walks rows directly; otherwise it advances
// a local state with Inc, skipping states that don't match the mask,
// without ever allocating the full buffer.
func (a *Array) All(yield func(idx uint64, fs State) bool) {
	if a.buffer != nil {
		for i := uint64(0); i < a.count; i++ {
			code := a.buffer[i*uint64(a.n) : (i+1)*uint64(a.n)]
			if !yield(i, State{m: a.m, n: a.n, code: code, defined: true}) {
				return
			}
		}
		return
	}
	fs := New(a.m, a.n)
	var idx uint64
	for {
		if a.mask == nil || a.mask.Match(fs, true) {
			if !yield(idx, fs) {
				return
			}
			idx++
		}
		next, _ := fs.Inc()
		if !next.defined {
			break
		}
		fs = next
	}
}

// NormCoefs scales coefs[i] by √(fs_i.ProdNFact()) in place, one entry
// per array row, caching √p per distinct p encountered.
func (a *Array) NormCoefs(coefs []complex128) {
	a.Generate()
	sqrtCache := map[uint64]float64{}
	a.All(func(i uint64, fs State) bool {
		p := fs.ProdNFact()
		coef, ok := sqrtCache[p]
		if !ok {
			coef = math.Sqrt(float64(p))
			sqrtCache[p] = coef
		}
		coefs[i] *= complex(coef, 0)
		return true
	})
}
