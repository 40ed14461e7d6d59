package fock

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

const (
	fsaMagic   = "FSA"
	fsaVersion = 2
	fsmMagic   = "FSM"
	fsmVersion = 1
)

// LayerFileName returns the conventional filename for the (m, n) layer,
// for callers that want to lay out a directory of FSA/FSM files
// themselves rather than pass WriteTo a bare *os.File.
func LayerFileName(m, n int) string {
	return fmt.Sprintf("layer-m%d-n%d.fsa", m, n)
}

// WriteTo writes the array in the FSA format: magic "FSA", version byte,
// decimal ASCII count + NUL, one byte m, one byte n, then count*n bytes
// of codes.
func (a *Array) WriteTo(w io.Writer) (int64, error) {
	a.Generate()
	var written int64
	write := func(p []byte) error {
		n, err := w.Write(p)
		written += int64(n)
		return err
	}
	if err := write([]byte(fsaMagic)); err != nil {
		return written, errors.Wrap(ErrIO, err.Error())
	}
	if err := write([]byte{fsaVersion}); err != nil {
		return written, errors.Wrap(ErrIO, err.Error())
	}
	if err := write(append([]byte(fmt.Sprintf("%d", a.count)), 0)); err != nil {
		return written, errors.Wrap(ErrIO, err.Error())
	}
	if err := write([]byte{byte(a.m), byte(a.n)}); err != nil {
		return written, errors.Wrap(ErrIO, err.Error())
	}
	if err := write(a.buffer); err != nil {
		return written, errors.Wrap(ErrIO, err.Error())
	}
	return written, nil
}

// ReadArray reads the FSA format written by Array.WriteTo. The result is
// unmasked and fully generated.
func ReadArray(r io.Reader) (*Array, error) {
	magic := make([]byte, 3)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	if string(magic) != fsaMagic {
		return nil, errors.Wrapf(ErrIO, "bad fsa magic %q", magic)
	}
	version := make([]byte, 1)
	if _, err := io.ReadFull(r, version); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	if version[0] < fsaVersion {
		return nil, errors.Wrapf(ErrIO, "unsupported fsa version %d", version[0])
	}
	count, err := readDecimalNulString(r)
	if err != nil {
		return nil, err
	}
	mn := make([]byte, 2)
	if _, err := io.ReadFull(r, mn); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	m, n := int(mn[0]), int(mn[1])
	buf := make([]byte, count*uint64(n))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	return &Array{m: m, n: n, count: count, buffer: buf}, nil
}

func readDecimalNulString(r io.Reader) (uint64, error) {
	var digits []byte
	one := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, one); err != nil {
			return 0, errors.Wrap(ErrIO, err.Error())
		}
		if one[0] == 0 {
			break
		}
		digits = append(digits, one[0])
	}
	var v uint64
	for _, d := range digits {
		if d < '0' || d > '9' {
			return 0, errors.Wrapf(ErrIO, "malformed decimal count byte %q", d)
		}
		v = v*10 + uint64(d-'0')
	}
	return v, nil
}

// WriteTo writes the map in the FSM format: magic "FSM", version byte,
// one byte m, one byte n, then parent_count*m*step bytes.
func (lm *LayerMap) WriteTo(w io.Writer) (int64, error) {
	lm.Generate()
	var written int64
	write := func(p []byte) error {
		n, err := w.Write(p)
		written += int64(n)
		return err
	}
	if err := write([]byte(fsmMagic)); err != nil {
		return written, errors.Wrap(ErrIO, err.Error())
	}
	if err := write([]byte{fsmVersion, byte(lm.m), byte(lm.n)}); err != nil {
		return written, errors.Wrap(ErrIO, err.Error())
	}
	if err := write(lm.buffer); err != nil {
		return written, errors.Wrap(ErrIO, err.Error())
	}
	return written, nil
}

// ReadLayerMap reads the FSM format written by LayerMap.WriteTo. step is
// recomputed from childCount (the caller already knows the child array,
// since a LayerMap is meaningless without one).
func ReadLayerMap(r io.Reader, childCount uint64) (*LayerMap, error) {
	magic := make([]byte, 3)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	if string(magic) != fsmMagic {
		return nil, errors.Wrapf(ErrIO, "bad fsm magic %q", magic)
	}
	hdr := make([]byte, 3)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	if hdr[0] < fsmVersion {
		return nil, errors.Wrapf(ErrIO, "unsupported fsm version %d", hdr[0])
	}
	m, n := int(hdr[1]), int(hdr[2])

	lm := &LayerMap{m: m, n: n}
	for c := childCount + 1; c > 0; c >>= 8 {
		lm.step++
	}
	if lm.step == 0 {
		lm.step = 1
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	if len(rest)%(m*lm.step) != 0 {
		return nil, errors.Wrapf(ErrIO, "fsm buffer length %d not a multiple of m*step=%d", len(rest), m*lm.step)
	}
	lm.count = uint64(len(rest) / (m * lm.step))
	lm.buffer = rest
	return lm, nil
}
