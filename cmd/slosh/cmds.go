package main

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree("slosh")
	root.AddCommand(cmd.Command{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*shell).cmdHelp,
	})
	root.AddCommand(cmd.Command{
		Name:  "parse",
		Brief: "Parse a textual Fock state and make it current",
		Description: "Parse the textual form of a Fock state (e.g." +
			" \"|1,1,0>\" or \"|{P:H}1,0>\") and store it as the current" +
			" state for subsequent commands.",
		Usage: "parse <state>",
		Data:  (*shell).cmdParse,
	})
	root.AddCommand(cmd.Command{
		Name:        "print",
		Brief:       "Print the current Fock state",
		Description: "Print the canonical textual form of the current state.",
		Usage:       "print",
		Data:        (*shell).cmdPrint,
	})
	root.AddCommand(cmd.Command{
		Name:  "tensor",
		Brief: "Tensor the current state with a parsed state",
		Description: "Parse a Fock state and replace the current state with" +
			" its tensor product with the previous current state.",
		Usage: "tensor <state>",
		Data:  (*shell).cmdTensor,
	})
	root.AddCommand(cmd.Command{
		Name:  "slice",
		Brief: "Slice a mode range out of the current state",
		Description: "Replace the current state with the sub-state over" +
			" modes [start, end) with the given stride (default 1).",
		Usage: "slice <start> <end> [<step>]",
		Data:  (*shell).cmdSlice,
	})
	root.AddCommand(cmd.Command{
		Name:  "separate",
		Brief: "Partition the current state by distinguishability",
		Description: "Partition the current state's photons into" +
			" distinguishability groups and print one bare state per group.",
		Usage: "separate",
		Data:  (*shell).cmdSeparate,
	})
	root.AddCommand(cmd.Command{
		Name:  "array",
		Brief: "Build and describe a layer array",
		Description: "Build the lexicographically ordered array of all" +
			" m-mode, n-photon states and print its size.",
		Usage: "array <m> <n>",
		Data:  (*shell).cmdArray,
	})
	root.AddCommand(cmd.Command{
		Name:  "map",
		Brief: "Build and describe a layer map",
		Description: "Build the transition table between the (n-1)- and" +
			" n-photon layers of m modes and print its size.",
		Usage: "map <m> <n>",
		Data:  (*shell).cmdMap,
	})
	root.AddCommand(cmd.Command{
		Name:  "permanent",
		Brief: "Compute the permanent of a matrix",
		Description: "Compute the permanent of an n x n complex matrix" +
			" given as 2n^2 separate arguments (real part, then imaginary" +
			" part, of each entry) in row-major order, using the given" +
			" algorithm (glynn or ryser).",
		Usage: "permanent <n> <kind> <values...>",
		Data:  (*shell).cmdPermanent,
	})
	root.AddCommand(cmd.Command{
		Name:  "complete",
		Brief: "Resolve a command or annotation-tag prefix",
		Description: "Resolve prefix to the unique command name or" +
			" polarization tag it identifies, if any.",
		Usage: "complete <prefix>",
		Data:  (*shell).cmdComplete,
	})
	root.AddCommand(cmd.Command{
		Name:        "quit",
		Brief:       "Quit the shell",
		Description: "Quit the shell.",
		Usage:       "quit",
		Data:        (*shell).cmdQuit,
	})
	cmds = root
}
