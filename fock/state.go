package fock

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// modeAnnotation is one (count, Annotation) pair attached to a mode: count
// photons in that mode carry annotation.
type modeAnnotation struct {
	count      int
	annotation Annotation
}

// State is a Fock state: m optical modes, n photons, encoded as a
// nondecreasing byte sequence over 'A'..'A'+m-1 giving the mode of each
// photon in sorted order, plus a sparse per-mode annotation list for
// photons that are not mutually indistinguishable bare bosons.
//
// The zero value is the *undefined* state (no next state past the last
// state of a layer); it carries no code and cannot be operated on except
// by comparison. Vacuum (m modes, zero photons) is State{m: m, n: 0,
// code: []byte{}, defined: true}.
type State struct {
	m, n    int
	code    []byte
	defined bool
	annots  map[int][]modeAnnotation
}

// Vacuum returns the n=0 state of m modes.
func Vacuum(m int) State {
	return State{m: m, n: 0, code: []byte{}, defined: true}
}

// New returns the m-mode, n-photon state with every photon in mode 0.
func New(m, n int) State {
	code := make([]byte, n)
	for i := range code {
		code[i] = 'A'
	}
	return State{m: m, n: n, code: code, defined: true}
}

// FromOccupations builds a state directly from a per-mode occupation
// vector.
func FromOccupations(occ []int) State {
	n := 0
	for _, c := range occ {
		n += c
	}
	code := make([]byte, 0, n)
	for mode, c := range occ {
		for j := 0; j < c; j++ {
			code = append(code, byte('A'+mode))
		}
	}
	return State{m: len(occ), n: n, code: code, defined: true}
}

// Defined reports whether the state is a real state (as opposed to the
// sentinel returned after incrementing past the last state of a layer).
func (s State) Defined() bool { return s.defined }

// M returns the number of modes.
func (s State) M() int { return s.m }

// N returns the number of photons.
func (s State) N() int { return s.n }

// Code returns the canonical packed code: a nondecreasing byte sequence
// of length N() over 'A'..'A'+M()-1. The caller must not mutate it.
func (s State) Code() []byte { return s.code }

func (s State) requireDefined(op string) error {
	if !s.defined {
		return errors.Wrapf(ErrInvalidOperation, "%s: state is undefined", op)
	}
	return nil
}

// Occupation returns the number of photons in mode idx.
func (s State) Occupation(idx int) (int, error) {
	if idx < 0 || idx >= s.m {
		return 0, errors.Wrapf(ErrOutOfRange, "mode %d out of range [0,%d)", idx, s.m)
	}
	count := 0
	target := byte('A' + idx)
	for _, c := range s.code {
		if c == target {
			count++
		}
	}
	return count, nil
}

// Photon2Mode returns the mode of the photon-th photon (photons are
// numbered in code order).
func (s State) Photon2Mode(photon int) (int, error) {
	if photon < 0 || photon >= s.n {
		return 0, errors.Wrapf(ErrOutOfRange, "photon %d out of range [0,%d)", photon, s.n)
	}
	return int(s.code[photon] - 'A'), nil
}

// Mode2Photon returns the index of the first photon in mode idx, or -1
// if that mode is unoccupied.
func (s State) Mode2Photon(idx int) (int, error) {
	if idx < 0 || idx >= s.m {
		return 0, errors.Wrapf(ErrOutOfRange, "mode %d out of range [0,%d)", idx, s.m)
	}
	target := byte('A' + idx)
	for i, c := range s.code {
		if c >= target {
			if c == target {
				return i, nil
			}
			return -1, nil
		}
	}
	return -1, nil
}

// ToOccupations returns the per-mode occupation vector.
func (s State) ToOccupations() []int {
	occ := make([]int, s.m)
	for _, c := range s.code {
		occ[c-'A']++
	}
	return occ
}

// Inc returns the lexicographic successor of s among n-photon, m-mode
// states. The rightmost letter not already at the maximum ('A'+m-1) is
// incremented, and every letter to its right is set equal to it. If s is
// already the maximum state, Inc returns the undefined state.
func (s State) Inc() (State, error) {
	if err := s.requireDefined("increment"); err != nil {
		return State{}, err
	}
	i := s.n - 1
	maxLetter := byte('A' + s.m - 1)
	for i >= 0 && s.code[i] == maxLetter {
		i--
	}
	if i < 0 {
		return State{m: s.m, n: s.n, defined: false}, nil
	}
	code := append([]byte(nil), s.code...)
	code[i]++
	for j := i + 1; j < s.n; j++ {
		code[j] = code[i]
	}
	return State{m: s.m, n: s.n, code: code, defined: true, annots: nil}, nil
}

// Add returns the lexicographic successor of s, advanced k times.
func (s State) Add(k int) (State, error) {
	cur := s
	var err error
	for ; k > 0; k-- {
		cur, err = cur.Inc()
		if err != nil {
			return State{}, err
		}
		if !cur.defined {
			return cur, nil
		}
	}
	return cur, nil
}

// Sum merges two same-m states: the result is the photon-count-wise sum
// of occupations. Annotations are combined per mode: entries with the
// same canonical form have their counts summed, and entries with
// different forms are kept as separate entries; no tag-compatibility
// check or tag-wise merge is made between different forms.
func (s State) Sum(o State) (State, error) {
	if err := s.requireDefined("sum"); err != nil {
		return State{}, err
	}
	if err := o.requireDefined("sum"); err != nil {
		return State{}, err
	}
	if s.m != o.m {
		return State{}, errors.Wrapf(ErrInvalidOperation, "sum: mismatched mode counts %d != %d", s.m, o.m)
	}
	code := make([]byte, 0, s.n+o.n)
	i, j := 0, 0
	for i < len(s.code) || j < len(o.code) {
		switch {
		case i >= len(s.code):
			code = append(code, o.code[j])
			j++
		case j >= len(o.code):
			code = append(code, s.code[i])
			i++
		case s.code[i] <= o.code[j]:
			code = append(code, s.code[i])
			i++
		default:
			code = append(code, o.code[j])
			j++
		}
	}
	result := State{m: s.m, n: len(code), code: code, defined: true}
	for mode := 0; mode < s.m; mode++ {
		merged, err := mergeModeAnnotations(s.annots[mode], o.annots[mode])
		if err != nil {
			return State{}, err
		}
		if len(merged) > 0 {
			result.setModeAnnots(mode, merged)
		}
	}
	return result, nil
}

func mergeModeAnnotations(a, b []modeAnnotation) ([]modeAnnotation, error) {
	byForm := map[string]modeAnnotation{}
	var order []string
	for _, e := range a {
		byForm[e.annotation.String()] = e
		order = append(order, e.annotation.String())
	}
	for _, e := range b {
		form := e.annotation.String()
		if cur, ok := byForm[form]; ok {
			cur.count += e.count
			byForm[form] = cur
		} else {
			byForm[form] = e
			order = append(order, form)
		}
	}
	sort.Strings(order)
	seen := map[string]bool{}
	out := make([]modeAnnotation, 0, len(byForm))
	for _, form := range order {
		if seen[form] || form == "" {
			continue
		}
		seen[form] = true
		out = append(out, byForm[form])
	}
	return out, nil
}

// Tensor forms the tensor product s*o: modes and codes are concatenated
// (o's codes shifted by s.M(), o's annotation keys shifted by s.M()).
func (s State) Tensor(o State) (State, error) {
	if err := s.requireDefined("tensor"); err != nil {
		return State{}, err
	}
	if err := o.requireDefined("tensor"); err != nil {
		return State{}, err
	}
	code := make([]byte, 0, s.n+o.n)
	code = append(code, s.code...)
	for _, c := range o.code {
		code = append(code, c+byte(s.m))
	}
	result := State{m: s.m + o.m, n: s.n + o.n, code: code, defined: true}
	for mode, list := range s.annots {
		result.setModeAnnots(mode, list)
	}
	for mode, list := range o.annots {
		result.setModeAnnots(mode+s.m, list)
	}
	return result, nil
}

func (s *State) setModeAnnots(mode int, list []modeAnnotation) {
	if len(list) == 0 {
		return
	}
	if s.annots == nil {
		s.annots = map[int][]modeAnnotation{}
	}
	cp := append([]modeAnnotation(nil), list...)
	s.annots[mode] = cp
}

// Slice extracts the modes in [start, end) with stride step, re-keying
// annotations on retained modes to their new index.
func (s State) Slice(start, end, step int) (State, error) {
	if err := s.requireDefined("slice"); err != nil {
		return State{}, err
	}
	if step < 1 {
		return State{}, errors.Wrapf(ErrInvalidOperation, "slice: step %d must be >= 1", step)
	}
	start, end = clampRange(start, end, s.m)

	sliceM := 0
	for i := start; i < end; i += step {
		sliceM++
	}

	code := []byte{}
	for _, c := range s.code {
		mode := int(c - 'A')
		if mode >= start && mode < end && (mode-start)%step == 0 {
			code = append(code, byte((mode-start)/step)+'A')
		}
	}
	result := State{m: sliceM, n: len(code), code: code, defined: true}
	j := 0
	for i := start; i < end; i += step {
		if list, ok := s.annots[i]; ok {
			result.setModeAnnots(j, list)
		}
		j++
	}
	return result, nil
}

func clampRange(start, end, m int) (int, int) {
	if start < 0 {
		start += m
	}
	if end < 0 {
		end += m
	}
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}
	if end > m {
		end = m
	}
	return start, end
}

// SetSlice splices sub into the window [start, end): modes outside the
// window are kept, modes inside are replaced (annotations included) by
// sub, which must carry exactly end-start modes.
func (s State) SetSlice(sub State, start, end int) (State, error) {
	if err := s.requireDefined("set_slice"); err != nil {
		return State{}, err
	}
	if err := sub.requireDefined("set_slice"); err != nil {
		return State{}, err
	}
	start, end = clampRange(start, end, s.m)
	windowM := end - start
	if sub.m != windowM {
		return State{}, errors.Wrapf(ErrInvalidOperation,
			"set_slice: substate has %d modes, window has %d", sub.m, windowM)
	}

	code := make([]byte, 0, s.n-countInWindow(s.code, start, end)+sub.n)
	for _, c := range s.code {
		if int(c-'A') < start {
			code = append(code, c)
		}
	}
	for _, c := range sub.code {
		code = append(code, c+byte(start))
	}
	for _, c := range s.code {
		if int(c-'A') >= end {
			code = append(code, c)
		}
	}

	result := State{m: s.m, n: len(code), code: code, defined: true}
	for mode, list := range s.annots {
		if mode < start || mode >= end {
			result.setModeAnnots(mode, list)
		}
	}
	for mode, list := range sub.annots {
		result.setModeAnnots(mode+start, list)
	}
	return result, nil
}

func countInWindow(code []byte, start, end int) int {
	n := 0
	for _, c := range code {
		mode := int(c - 'A')
		if mode >= start && mode < end {
			n++
		}
	}
	return n
}

// GetModeAnnotations returns one Annotation per photon in mode idx (in
// photon order); bare photons contribute the empty Annotation.
func (s State) GetModeAnnotations(idx int) ([]Annotation, error) {
	occ, err := s.Occupation(idx)
	if err != nil {
		return nil, err
	}
	out := make([]Annotation, 0, occ)
	for _, ma := range s.annots[idx] {
		for k := 0; k < ma.count; k++ {
			out = append(out, ma.annotation)
		}
	}
	for len(out) < occ {
		out = append(out, Annotation{})
	}
	return out, nil
}

// GetPhotonAnnotation returns the annotation of the idx-th photon (bare
// photons yield the empty Annotation).
func (s State) GetPhotonAnnotation(idx int) (Annotation, error) {
	mode, err := s.Photon2Mode(idx)
	if err != nil {
		return Annotation{}, err
	}
	first, _ := s.Mode2Photon(mode)
	list := s.annots[mode]
	li := 0
	nk := 0
	for p := first; p < idx; p++ {
		nk++
		if li < len(list) && nk == list[li].count {
			li++
			nk = 0
		}
	}
	if li < len(list) {
		return list[li].annotation, nil
	}
	return Annotation{}, nil
}

// HasAnnotations reports whether the state carries any non-empty
// annotation.
func (s State) HasAnnotations() bool {
	return len(s.annots) > 0
}

// HasPolarization reports whether any photon in the state carries a "P"
// annotation.
func (s State) HasPolarization() bool {
	for _, list := range s.annots {
		for _, ma := range list {
			if ma.annotation.HasPolarization() {
				return true
			}
		}
	}
	return false
}

// ClearAnnotations returns a copy of s with all annotations removed.
func (s State) ClearAnnotations() State {
	return State{m: s.m, n: s.n, code: s.code, defined: s.defined}
}

// Separate partitions the photons of s into distinguishability groups:
// photons are scanned in order, and each is added to the first existing
// group whose annotation is compatible (merging on success), else it
// starts a new group. Returns one non-annotated State per group; if only
// one group results, returns s with its annotations cleared.
func (s State) Separate() ([]State, error) {
	if err := s.requireDefined("separate"); err != nil {
		return nil, err
	}
	if s.n == 0 || !s.HasAnnotations() {
		return []State{s}, nil
	}

	type group struct {
		annot Annotation
		idx   []int
	}
	var groups []group

	lastMode := -1
	var list []modeAnnotation
	li, dup := 0, 0

	for k := 0; k < s.n; k++ {
		mode, _ := s.Photon2Mode(k)
		if mode != lastMode {
			list = s.annots[mode]
			li, dup = 0, 0
			lastMode = mode
		}
		var annot Annotation
		if li < len(list) {
			annot = list[li].annotation
			dup++
			if dup == list[li].count {
				li++
				dup = 0
			}
		}
		merged := false
		for gi := range groups {
			if m, ok := groups[gi].annot.CompatibleAnnotation(annot); ok {
				groups[gi].annot = m
				groups[gi].idx = append(groups[gi].idx, k)
				merged = true
				break
			}
		}
		if !merged {
			groups = append(groups, group{annot: annot, idx: []int{k}})
		}
	}

	if len(groups) == 1 {
		return []State{s.ClearAnnotations()}, nil
	}

	states := make([]State, 0, len(groups))
	for _, g := range groups {
		occ := make([]int, s.m)
		for _, photon := range g.idx {
			mode, _ := s.Photon2Mode(photon)
			occ[mode]++
		}
		states = append(states, FromOccupations(occ))
	}
	return states, nil
}

// ProdNFact returns the product, over maximal runs of identical code
// letters, of (run length)!. This is the normalization factor √(∏n_k!)
// squared used to renormalize SLOS amplitudes.
func (s State) ProdNFact() uint64 {
	var p uint64 = 1
	for i := 0; i < s.n; {
		k := 1
		for i+k < s.n && s.code[i+k] == s.code[i] {
			k++
		}
		p *= factorial(uint64(k))
		i += k
	}
	return p
}

func factorial(n uint64) uint64 {
	f := uint64(1)
	for i := uint64(2); i <= n; i++ {
		f *= i
	}
	return f
}

// djb2 is the DJB2 string hash (seed 5381, h = h*33 + c) used by Hash.
func djb2(s []byte) uint64 {
	h := uint64(5381)
	for _, c := range s {
		h = ((h << 5) + h) + uint64(c)
	}
	return h
}

// Hash returns the DJB2 hash of the canonical textual form, so that
// annotation-equivalent states share a hash.
func (s State) Hash() uint64 {
	return djb2([]byte(s.Text(true)))
}

// Equal reports whether s and o have the same mode count, photon count,
// byte-equal codes, and per-mode annotation lists equal as multisets of
// (count, canonical form).
func (s State) Equal(o State) bool {
	if s.m != o.m || s.n != o.n {
		return false
	}
	if s.defined != o.defined {
		return false
	}
	if !s.defined {
		return true
	}
	if string(s.code) != string(o.code) {
		return false
	}
	if len(s.annots) != len(o.annots) {
		return false
	}
	for mode, list := range s.annots {
		olist, ok := o.annots[mode]
		if !ok || len(olist) != len(list) {
			return false
		}
		for _, e := range list {
			found := false
			for _, oe := range olist {
				if e.count == oe.count && e.annotation.String() == oe.annotation.String() {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// Text renders the state as "|entries>", with showAnnotations controlling
// whether annotation blocks are emitted (vs. a plain occupation dump).
func (s State) Text(showAnnotations bool) string {
	var b strings.Builder
	b.WriteByte('|')
	if !s.defined {
		for i := 0; i < s.m; i++ {
			if i > 0 {
				b.WriteByte(',')
			}
		}
		b.WriteByte('>')
		return b.String()
	}

	occ := s.ToOccupations()
	annotsVect := make([]string, s.m)
	if showAnnotations {
		for mode := 0; mode < s.m; mode++ {
			list := s.annots[mode]
			for _, ma := range list {
				var sb strings.Builder
				if ma.count > 1 {
					sb.WriteString(strconv.Itoa(ma.count))
				}
				sb.WriteByte('{')
				sb.WriteString(ma.annotation.String())
				sb.WriteByte('}')
				annotsVect[mode] += sb.String()
				occ[mode] -= ma.count
			}
		}
	}
	for i := 0; i < s.m; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(annotsVect[i])
		if annotsVect[i] == "" || occ[i] != 0 {
			b.WriteString(strconv.Itoa(occ[i]))
		}
	}
	b.WriteByte('>')
	return b.String()
}

// String renders the state in canonical form, with annotations.
func (s State) String() string {
	return s.Text(true)
}
