package fock

import "github.com/pkg/errors"

// LayerMap is the transition table between an (n-1)-photon and an
// n-photon Array sharing the same mode count: given a parent index and a
// mode, it yields the child index obtained by adding one photon to that
// mode, or Npos if that child was filtered out of the child array.
type LayerMap struct {
	m, n   int
	step   int
	count  uint64
	buffer []byte

	child  *Array
	parent *Array
}

// NewLayerMap builds the map from parent (n-1 photons) to child (n
// photons) over the same m modes. It does not materialize the transition
// table; call Generate or Get to force that.
func NewLayerMap(child, parent *Array) (*LayerMap, error) {
	if child.m != parent.m {
		return nil, errors.Wrapf(ErrInvalidOperation, "layer map: mode mismatch %d != %d", child.m, parent.m)
	}
	if child.n != parent.n+1 {
		return nil, errors.Wrapf(ErrInvalidOperation, "layer map: child photon count %d must be parent+1 (%d)", child.n, parent.n+1)
	}
	lm := &LayerMap{
		m:      child.m,
		n:      parent.n,
		child:  child,
		parent: parent,
		count:  parent.count,
	}
	// step = byte length of child.count+1, which leaves the all-ones
	// pattern free for Npos. When child.count is 256^k-1 this is one
	// byte wider than the minimum.
	for c := child.count + 1; c > 0; c >>= 8 {
		lm.step++
	}
	if lm.step == 0 {
		lm.step = 1
	}
	return lm, nil
}

// M returns the mode count.
func (lm *LayerMap) M() int { return lm.m }

// N returns the parent-layer photon count.
func (lm *LayerMap) N() int { return lm.n }

// Count returns the number of parent states, equal to the Count() of the
// parent Array actually passed to NewLayerMap (masked or not).
func (lm *LayerMap) Count() uint64 { return lm.count }

// Size returns the byte length of the generated buffer.
func (lm *LayerMap) Size() uint64 { return lm.count * uint64(lm.m) * uint64(lm.step) }

// Generate materializes the transition table. It is idempotent.
func (lm *LayerMap) Generate() {
	if lm.buffer != nil {
		return
	}
	lm.parent.Generate()
	lm.child.Generate()

	buf := make([]byte, lm.Size())
	for i := range buf {
		buf[i] = 0xFF
	}

	parentIndex := make(map[string]uint64, lm.parent.count)
	lm.parent.All(func(idx uint64, fs State) bool {
		parentIndex[string(fs.code)] = idx
		return true
	})

	nk := lm.n + 1
	fsTemp := make([]byte, lm.n)
	lm.child.All(func(k uint64, fs State) bool {
		code := fs.code
		for i := 0; i < nk; i++ {
			if i < lm.n && code[i+1] == code[i] {
				continue
			}
			copy(fsTemp[:i], code[:i])
			copy(fsTemp[i:], code[i+1:])

			var parentIdx uint64
			if nk > 1 {
				pidx, ok := parentIndex[string(fsTemp)]
				if !ok {
					continue
				}
				parentIdx = pidx
			}
			mode := int(code[i] - 'A')
			lm.setCell(parentIdx, mode, k)
		}
		return true
	})

	lm.buffer = buf
}

func (lm *LayerMap) setCell(parentIdx uint64, mode int, childIdx uint64) {
	base := (parentIdx*uint64(lm.m) + uint64(mode)) * uint64(lm.step)
	v := childIdx
	for i := 0; i < lm.step; i++ {
		lm.buffer[base+uint64(i)] = byte(v & 0xFF)
		v >>= 8
	}
}

// Get returns the child index reached from parentIdx by adding a photon
// to mode, or Npos if that transition was filtered out (e.g. by a mask
// on the child array).
func (lm *LayerMap) Get(parentIdx uint64, mode int) (uint64, error) {
	if mode < 0 || mode >= lm.m {
		return Npos, errors.Wrapf(ErrOutOfRange, "mode %d out of range [0,%d)", mode, lm.m)
	}
	if parentIdx >= lm.count {
		return Npos, errors.Wrapf(ErrOutOfRange, "parent index %d >= count %d", parentIdx, lm.count)
	}
	lm.Generate()
	return lm.getNoCheck(parentIdx, mode), nil
}

func (lm *LayerMap) getNoCheck(parentIdx uint64, mode int) uint64 {
	base := (parentIdx*uint64(lm.m) + uint64(mode)) * uint64(lm.step)
	var v uint64
	allOnes := true
	for i := lm.step - 1; i >= 0; i-- {
		b := lm.buffer[base+uint64(i)]
		if b != 0xFF {
			allOnes = false
		}
		v = (v << 8) | uint64(b)
	}
	if allOnes {
		return Npos
	}
	return v
}

// ComputeSLOSLayer advances the amplitude vector one photon layer: for
// every parent index i and mode j, it adds parentCoefs[i] * u[j*m+mk]
// into childCoefs[c], where c = lm.Get(i, j) and u is the m x m unitary
// in row-major order. childCoefs must be pre-sized to lm.child.Count()
// and is zeroed before accumulation.
func (lm *LayerMap) ComputeSLOSLayer(u []complex128, mk int, childCoefs, parentCoefs []complex128) {
	lm.Generate()
	for i := range childCoefs {
		childCoefs[i] = 0
	}
	for i := 0; i < len(parentCoefs); i++ {
		pc := parentCoefs[i]
		if pc == 0 {
			continue
		}
		for j := 0; j < lm.m; j++ {
			c := lm.getNoCheck(uint64(i), j)
			if c != Npos {
				childCoefs[c] += pc * u[j*lm.m+mk]
			}
		}
	}
}
