// Command slosh is an interactive shell for building, printing, and
// transforming Fock states and computing matrix permanents against the
// fock and permanent packages.
package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/cmd"
	"github.com/pkg/errors"

	"github.com/lumenphoton/slos/fock"
	"github.com/lumenphoton/slos/permanent"
)

// shell holds the REPL's current working state: the last parsed Fock
// state and the last built array/map, so commands can chain off one
// another the way a human would at a prompt.
type shell struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	lastCmd     *cmd.Selection

	state fock.State
	array *fock.Array
	layer *fock.LayerMap

	lineWidth int
}

func newShell() *shell {
	return &shell{}
}

// run reads commands from r and writes output to w until EOF, a read
// error, or the quit command. Errors returned by other command handlers
// are printed and reading continues.
func (s *shell) run(r io.Reader, w io.Writer, interactive bool) {
	s.input = bufio.NewScanner(r)
	s.output = bufio.NewWriter(w)
	s.interactive = interactive

	for {
		s.prompt()

		line, err := s.getLine()
		if err != nil {
			break
		}

		if err := s.processCommand(line); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			s.printf("%v\n", err)
		}
	}
	s.flush()
}

var errQuit = errors.New("quit")

func (s *shell) processCommand(line string) error {
	var c cmd.Selection
	if line != "" {
		var err error
		c, err = cmds.Lookup(line)
		switch {
		case errors.Is(err, cmd.ErrNotFound):
			s.println("Command not found.")
			return nil
		case errors.Is(err, cmd.ErrAmbiguous):
			s.println("Command is ambiguous.")
			return nil
		case err != nil:
			s.printf("ERROR: %v.\n", err)
			return nil
		}
	} else if s.lastCmd != nil {
		c = *s.lastCmd
	}

	if c.Command == nil {
		return nil
	}
	if c.Command.Data == nil && c.Command.Subtree != nil {
		s.displayCommands(c.Command.Subtree)
		return nil
	}

	s.lastCmd = &c

	handler := c.Command.Data.(func(*shell, cmd.Selection) error)
	return handler(s, c)
}

func (s *shell) getLine() (string, error) {
	if s.input.Scan() {
		return s.input.Text(), nil
	}
	if s.input.Err() != nil {
		return "", s.input.Err()
	}
	return "", io.EOF
}

func (s *shell) prompt() {
	if !s.interactive {
		return
	}
	s.printf("slosh> ")
}

func (s *shell) printf(format string, args ...any) {
	fmt.Fprintf(s.output, format, args...)
	s.flush()
}

func (s *shell) println(args ...any) {
	fmt.Fprintln(s.output, args...)
	s.flush()
}

func (s *shell) flush() {
	s.output.Flush()
}

func (s *shell) displayCommands(tree *cmd.Tree) {
	s.printf("%s commands:\n", tree.Title)
	width := s.lineWidth
	for _, c := range tree.Commands {
		if c.Brief == "" {
			continue
		}
		brief := c.Brief
		if width > 0 && len(c.Name)+len(brief)+6 > width {
			brief = brief[:max(0, width-len(c.Name)-9)] + "..."
		}
		s.printf("    %-15s  %s\n", c.Name, brief)
	}
}

func (s *shell) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		s.displayCommands(cmds)
		return nil
	}
	sel, err := cmds.Lookup(strings.Join(c.Args, " "))
	if err != nil {
		s.printf("%v\n", err)
		return nil
	}
	if sel.Command.Subtree != nil {
		s.displayCommands(sel.Command.Subtree)
		return nil
	}
	if sel.Command.Usage != "" {
		s.printf("Usage: %s\n", sel.Command.Usage)
	}
	if sel.Command.Description != "" {
		s.printf("%s\n", sel.Command.Description)
	}
	return nil
}

func (s *shell) cmdComplete(c cmd.Selection) error {
	if len(c.Args) != 1 {
		s.printf("Usage: %s\n", c.Command.Usage)
		return nil
	}
	s.println(complete(c.Args[0]))
	return nil
}

func (s *shell) cmdQuit(c cmd.Selection) error {
	return errQuit
}

func (s *shell) cmdParse(c cmd.Selection) error {
	if len(c.Args) != 1 {
		s.printf("Usage: %s\n", c.Command.Usage)
		return nil
	}
	fs, err := fock.ParseState(c.Args[0])
	if err != nil {
		return err
	}
	s.state = fs
	s.println(s.state.String())
	return nil
}

func (s *shell) cmdPrint(c cmd.Selection) error {
	if !s.state.Defined() {
		s.println("No current state. Use 'parse' first.")
		return nil
	}
	s.println(s.state.String())
	return nil
}

func (s *shell) cmdTensor(c cmd.Selection) error {
	if len(c.Args) != 1 {
		s.printf("Usage: %s\n", c.Command.Usage)
		return nil
	}
	if !s.state.Defined() {
		s.println("No current state. Use 'parse' first.")
		return nil
	}
	rhs, err := fock.ParseState(c.Args[0])
	if err != nil {
		return err
	}
	fs, err := s.state.Tensor(rhs)
	if err != nil {
		return err
	}
	s.state = fs
	s.println(s.state.String())
	return nil
}

func (s *shell) cmdSlice(c cmd.Selection) error {
	if len(c.Args) != 2 && len(c.Args) != 3 {
		s.printf("Usage: %s\n", c.Command.Usage)
		return nil
	}
	if !s.state.Defined() {
		s.println("No current state. Use 'parse' first.")
		return nil
	}
	start, err := strconv.Atoi(c.Args[0])
	if err != nil {
		return errors.Wrapf(err, "invalid start %q", c.Args[0])
	}
	end, err := strconv.Atoi(c.Args[1])
	if err != nil {
		return errors.Wrapf(err, "invalid end %q", c.Args[1])
	}
	step := 1
	if len(c.Args) == 3 {
		step, err = strconv.Atoi(c.Args[2])
		if err != nil {
			return errors.Wrapf(err, "invalid step %q", c.Args[2])
		}
	}
	fs, err := s.state.Slice(start, end, step)
	if err != nil {
		return err
	}
	s.state = fs
	s.println(s.state.String())
	return nil
}

func (s *shell) cmdSeparate(c cmd.Selection) error {
	if !s.state.Defined() {
		s.println("No current state. Use 'parse' first.")
		return nil
	}
	groups, err := s.state.Separate()
	if err != nil {
		return err
	}
	for _, g := range groups {
		s.println(g.String())
	}
	return nil
}

func (s *shell) cmdArray(c cmd.Selection) error {
	if len(c.Args) != 2 {
		s.printf("Usage: %s\n", c.Command.Usage)
		return nil
	}
	m, err := strconv.Atoi(c.Args[0])
	if err != nil {
		return errors.Wrapf(err, "invalid m %q", c.Args[0])
	}
	n, err := strconv.Atoi(c.Args[1])
	if err != nil {
		return errors.Wrapf(err, "invalid n %q", c.Args[1])
	}
	a := fock.NewArray(m, n)
	a.Generate()
	s.array = a
	s.printf("array m=%d n=%d size=%d\n", m, n, a.Count())
	return nil
}

func (s *shell) cmdMap(c cmd.Selection) error {
	if len(c.Args) != 2 {
		s.printf("Usage: %s\n", c.Command.Usage)
		return nil
	}
	m, err := strconv.Atoi(c.Args[0])
	if err != nil {
		return errors.Wrapf(err, "invalid m %q", c.Args[0])
	}
	n, err := strconv.Atoi(c.Args[1])
	if err != nil {
		return errors.Wrapf(err, "invalid n %q", c.Args[1])
	}
	parent := fock.NewArray(m, n-1)
	parent.Generate()
	child := fock.NewArray(m, n)
	child.Generate()
	lm, err := fock.NewLayerMap(child, parent)
	if err != nil {
		return err
	}
	lm.Generate()
	s.layer = lm
	s.printf("map m=%d n=%d size=%d\n", m, n, lm.Count())
	return nil
}

func (s *shell) cmdPermanent(c cmd.Selection) error {
	if len(c.Args) < 2 {
		s.printf("Usage: %s\n", c.Command.Usage)
		return nil
	}
	n, err := strconv.Atoi(c.Args[0])
	if err != nil {
		return errors.Wrapf(err, "invalid n %q", c.Args[0])
	}
	kind := c.Args[1]
	values := c.Args[2:]
	if len(values) != 2*n*n {
		return errors.Errorf("expected %d values, got %d", 2*n*n, len(values))
	}
	a := make([]complex128, n*n)
	for i := range a {
		re, err := strconv.ParseFloat(values[2*i], 64)
		if err != nil {
			return errors.Wrapf(err, "invalid real part %q", values[2*i])
		}
		im, err := strconv.ParseFloat(values[2*i+1], 64)
		if err != nil {
			return errors.Wrapf(err, "invalid imaginary part %q", values[2*i+1])
		}
		a[i] = complex(re, im)
	}
	var p complex128
	switch kind {
	case "glynn":
		p, err = permanent.Glynn(a, n)
	case "ryser", "":
		p, err = permanent.Ryser(a, n, 0)
	default:
		return errors.Errorf("unknown permanent kind %q", kind)
	}
	if err != nil {
		return err
	}
	s.println(p)
	return nil
}
