package fock

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const rightAngle = "〉" // U+3009 "〉", the alternate 3-byte closer for '|'

type stateScanner struct {
	s   string
	pos int
}

func (p *stateScanner) skipBlanks() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func (p *stateScanner) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *stateScanner) rest() string { return p.s[p.pos:] }

// ParseState parses the "[...]", "|...>"/"|...〉", or "(...)" textual Fock
// state form described in the state grammar.
func ParseState(s string) (State, error) {
	p := &stateScanner{s: s}
	p.skipBlanks()
	if p.pos >= len(p.s) {
		return State{}, errors.Wrap(ErrInvalidFockState, "empty input")
	}
	open := p.peek()
	if open != '[' && open != '|' && open != '(' {
		return State{}, errors.Wrapf(ErrInvalidFockState, "unrecognized opening character %q", open)
	}
	p.pos++

	var occ []int
	var annots map[int][]modeAnnotation

	for {
		p.skipBlanks()
		c := p.peek()
		if c == 0 || !strings.ContainsRune("0123456789,{", rune(c)) {
			break
		}
		if len(occ) > 0 && c != ',' {
			break
		}
		if len(occ) == 0 && c == ',' {
			break
		}
		if c == ',' {
			p.pos++
			p.skipBlanks()
		}

		totalCount := 0
		byForm := map[string]*modeAnnotation{}
		var order []string
		for {
			c = p.peek()
			if !(c >= '0' && c <= '9') && c != '{' {
				break
			}
			count := 0
			if c == '{' {
				count = 1
			} else {
				for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
					count = count*10 + int(p.s[p.pos]-'0')
					p.pos++
				}
			}
			var annot *Annotation
			if p.peek() == '{' {
				if count == 0 {
					return State{}, errors.Wrap(ErrInvalidFockState, "annotation on 0 photons")
				}
				start := p.pos + 1
				end := start
				for end < len(p.s) && p.s[end] != '}' {
					end++
				}
				if end >= len(p.s) {
					return State{}, errors.Wrap(ErrInvalidFockState, "unterminated annotation block")
				}
				a, err := ParseAnnotation(p.s[start:end])
				if err != nil {
					return State{}, err
				}
				annot = &a
				p.pos = end + 1
			}
			if annot != nil {
				form := annot.String()
				if form != "" {
					if existing, ok := byForm[form]; ok {
						existing.count += count
					} else {
						byForm[form] = &modeAnnotation{count: count, annotation: *annot}
						order = append(order, form)
					}
				}
			}
			totalCount += count
		}

		mode := len(occ)
		if len(byForm) > 0 {
			sort.Strings(order)
			if annots == nil {
				annots = map[int][]modeAnnotation{}
			}
			for _, form := range order {
				annots[mode] = append(annots[mode], *byForm[form])
			}
		}
		occ = append(occ, totalCount)
	}

	m := len(occ)
	if len(occ) == 0 && p.peek() == ',' {
		m = 1
		for {
			p.skipBlanks()
			if p.peek() != ',' {
				break
			}
			m++
			p.pos++
		}
	}

	var closeOK bool
	switch open {
	case '[':
		closeOK = p.peek() == ']'
	case '(':
		closeOK = p.peek() == ')'
	case '|':
		closeOK = p.peek() == '>' || strings.HasPrefix(p.rest(), rightAngle)
	}
	if !closeOK {
		return State{}, errors.Wrap(ErrInvalidFockState, "mismatched or missing closing bracket")
	}
	if p.peek() == '>' || p.peek() == ')' || p.peek() == ']' {
		p.pos++
	} else {
		_, size := utf8.DecodeRuneInString(p.rest())
		p.pos += size
	}
	p.skipBlanks()
	if p.pos != len(p.s) {
		return State{}, errors.Wrapf(ErrInvalidFockState, "trailing characters: %q", p.rest())
	}

	if len(occ) == 0 && m > 0 {
		// pure vacuum shorthand ",,,"
		return Vacuum(m), nil
	}

	state := FromOccupations(occ)
	for mode, list := range annots {
		state.setModeAnnots(mode, list)
	}
	return state, nil
}
