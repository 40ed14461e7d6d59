// Package fock implements the Fock-state representation and algebra used
// to enumerate photon occupations over a bank of optical modes: states,
// annotations, masked layers (Array), and the parent/child transition
// table between layers (LayerMap) that drives SLOS amplitude propagation.
package fock

import "github.com/pkg/errors"

// Sentinel error kinds. Call sites wrap these with errors.Wrapf/Wrap from
// github.com/pkg/errors to attach context; check against a kind with
// errors.Is.
var (
	// ErrInvalidAnnotation reports malformed annotation text: empty tag,
	// missing separator, unparseable value, duplicate tag, or an unknown
	// polarization letter.
	ErrInvalidAnnotation = errors.New("invalid annotation")

	// ErrInvalidFockState reports malformed Fock-state text: mismatched
	// brackets, trailing characters, or an annotation on zero photons.
	ErrInvalidFockState = errors.New("invalid fock state")

	// ErrInvalidOperation reports an operation that cannot apply to its
	// operands: arithmetic on an undefined state, a sum of states with
	// different mode counts, a slice step below 1, or a set-slice
	// window whose width doesn't match the replacement substate.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrOutOfRange reports a mode or photon index outside its valid
	// interval.
	ErrOutOfRange = errors.New("index out of range")

	// ErrIO reports a failure reading or writing a persisted layer file.
	ErrIO = errors.New("fock i/o error")
)
