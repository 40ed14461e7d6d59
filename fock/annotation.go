package fock

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const pi = math.Pi

// polarization shorthand letters, mapped to their canonical (real, imag) pair.
var polarLetterToValue = map[byte]complex64{
	'H': complex(0, 0),
	'V': complex(float32(pi), 0),
	'D': complex(float32(pi/2), 0),
	'A': complex(float32(pi/2), float32(pi)),
	'L': complex(float32(pi/2), float32(pi/2)),
	'R': complex(float32(pi/2), float32(3*pi/2)),
}

var polarOrder = []byte{'H', 'V', 'D', 'A', 'L', 'R'}

func polarLetterFor(v complex64) (byte, bool) {
	for _, letter := range polarOrder {
		if polarLetterToValue[letter] == v {
			return letter, true
		}
	}
	return 0, false
}

type annotationEntry struct {
	tag   string
	value complex64
}

// Annotation is an ordered tag->complex-value mapping attached to a group
// of photons. Tags are unique within one Annotation; the zero value is
// the empty annotation. Annotation is a plain value: copying it copies
// the whole entry list, and there is never any sharing between copies.
type Annotation struct {
	entries []annotationEntry
}

// Empty reports whether the annotation carries no tags.
func (a Annotation) Empty() bool {
	return len(a.entries) == 0
}

// Has reports whether tag is present in the annotation.
func (a Annotation) Has(tag string) bool {
	_, ok := a.lookup(tag)
	return ok
}

// HasPolarization reports whether the annotation carries a "P" tag.
func (a Annotation) HasPolarization() bool {
	return a.Has("P")
}

func (a Annotation) lookup(tag string) (complex64, bool) {
	for _, e := range a.entries {
		if e.tag == tag {
			return e.value, true
		}
	}
	return 0, false
}

// Get returns the value of tag, or def if tag is absent.
func (a Annotation) Get(tag string, def complex64) complex64 {
	if v, ok := a.lookup(tag); ok {
		return v
	}
	return def
}

func isTagStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}

func isTagRune(c byte) bool {
	return isTagStart(c) || (c >= '0' && c <= '9')
}

// ParseAnnotation parses the "TAG:VALUE,TAG:VALUE,..." textual form
// described in the annotation grammar. An empty string parses to the
// empty Annotation.
func ParseAnnotation(s string) (Annotation, error) {
	var a Annotation
	if s == "" {
		return a, nil
	}
	seen := map[string]bool{}
	for len(s) > 0 {
		i := 0
		for i < len(s) && isTagRune(s[i]) {
			if i == 0 && !isTagStart(s[i]) {
				break
			}
			i++
		}
		if i == 0 || i >= len(s) || s[i] != ':' {
			return Annotation{}, errors.Wrapf(ErrInvalidAnnotation, "missing tag/value separator in %q", s)
		}
		tag := s[:i]
		rest := s[i+1:]

		// find the end of the value: next top-level comma.
		depth := 0
		j := 0
		for j < len(rest) {
			switch rest[j] {
			case '(':
				depth++
			case ')':
				depth--
				if depth < 0 {
					return Annotation{}, errors.Wrapf(ErrInvalidAnnotation, "unbalanced parentheses in %q", s)
				}
			case ',':
				if depth == 0 {
					goto foundEnd
				}
			}
			j++
		}
	foundEnd:
		if depth != 0 {
			return Annotation{}, errors.Wrapf(ErrInvalidAnnotation, "unbalanced parentheses in %q", s)
		}
		valueStr := rest[:j]

		value, err := parseAnnotationValue(tag, valueStr)
		if err != nil {
			return Annotation{}, err
		}

		if seen[tag] {
			return Annotation{}, errors.Wrapf(ErrInvalidAnnotation, "duplicate tag %q", tag)
		}
		seen[tag] = true
		a.entries = append(a.entries, annotationEntry{tag: tag, value: value})

		if j < len(rest) {
			rest = rest[j+1:]
		} else {
			rest = ""
		}
		s = rest
	}
	sort.Slice(a.entries, func(i, j int) bool { return a.entries[i].tag < a.entries[j].tag })
	return a, nil
}

func parseAnnotationValue(tag, value string) (complex64, error) {
	if tag == "P" && len(value) == 1 && value[0] >= 'A' && value[0] <= 'Z' {
		v, ok := polarLetterToValue[value[0]]
		if !ok {
			return 0, errors.Wrapf(ErrInvalidAnnotation, "unknown polarization value %q", value)
		}
		return v, nil
	}

	// (FLOAT,FLOAT)
	if len(value) >= 2 && value[0] == '(' && value[len(value)-1] == ')' {
		parts := strings.SplitN(value[1:len(value)-1], ",", 2)
		if len(parts) != 2 {
			return 0, errors.Wrapf(ErrInvalidAnnotation, "cannot parse complex value %q", value)
		}
		re, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 32)
		im, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
		if err1 != nil || err2 != nil {
			return 0, errors.Wrapf(ErrInvalidAnnotation, "cannot parse complex value %q", value)
		}
		return complex(float32(re), float32(im)), nil
	}

	// FLOAT ("i"|"j")?  or  FLOAT ("+"|"-") FLOAT ("i"|"j")
	real, rest, err := leadingFloat(value)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidAnnotation, "cannot parse value %q", value)
	}
	if rest == "" {
		return complex(float32(real), 0), nil
	}
	if rest == "i" || rest == "j" {
		return complex(0, float32(real)), nil
	}
	if rest[0] == '+' || rest[0] == '-' {
		sign := float64(1)
		if rest[0] == '-' {
			sign = -1
		}
		imagPart, rest2, err := leadingFloat(rest[1:])
		if err != nil || (rest2 != "i" && rest2 != "j") {
			return 0, errors.Wrapf(ErrInvalidAnnotation, "cannot parse value %q", value)
		}
		return complex(float32(real), float32(sign*imagPart)), nil
	}
	return 0, errors.Wrapf(ErrInvalidAnnotation, "trailing characters in value %q", value)
}

// leadingFloat parses the longest valid float64 prefix of s and returns
// its value along with the unparsed remainder.
func leadingFloat(s string) (float64, string, error) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i == start {
		return 0, "", errors.Wrap(ErrInvalidAnnotation, "no digits in float")
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > j {
			i = k
		}
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", errors.Wrap(ErrInvalidAnnotation, "malformed float")
	}
	return v, s[i:], nil
}

// strValue renders the value for tag in canonical form.
func (a Annotation) strValue(tag string) string {
	v, _ := a.lookup(tag)
	if tag == "P" {
		if letter, ok := polarLetterFor(v); ok {
			return string(letter)
		}
	}
	if imag(v) == 0 {
		return formatFloat32(real(v))
	}
	return fmt.Sprintf("(%s,%s)", formatFloat32(real(v)), formatFloat32(imag(v)))
}

func formatFloat32(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// String renders the annotation in canonical form: entries in tag order,
// separated by commas.
func (a Annotation) String() string {
	parts := make([]string, len(a.entries))
	for i, e := range a.entries {
		parts[i] = e.tag + ":" + a.strValue(e.tag)
	}
	return strings.Join(parts, ",")
}

// CompatibleAnnotation attempts to merge add into a: tags present in both
// must carry equal values (the "P" tag is never compared or merged into
// the result, matching the polarization special case), tags present only
// in add are copied in. Returns the merged annotation and true on
// success, or the zero Annotation and false on a genuine conflict.
func (a Annotation) CompatibleAnnotation(add Annotation) (Annotation, bool) {
	merged := Annotation{entries: append([]annotationEntry(nil), a.entries...)}
	for _, e := range add.entries {
		if e.tag == "P" {
			continue
		}
		if v, ok := merged.lookup(e.tag); ok {
			if v != e.value {
				return Annotation{}, false
			}
			continue
		}
		merged.entries = append(merged.entries, e)
	}
	sort.Slice(merged.entries, func(i, j int) bool { return merged.entries[i].tag < merged.entries[j].tag })
	return merged, true
}

// Equal reports whether a and b have the same canonical textual form.
func (a Annotation) Equal(b Annotation) bool {
	return a.String() == b.String()
}
