package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/beevik/term"
)

func main() {
	s := newShell()

	args := os.Args[1:]
	for _, filename := range args {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		s.run(file, os.Stdout, false)
		file.Close()
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			s.println()
			s.println("Type 'quit' to exit.")
			s.prompt()
		}
	}()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdin.Fd())); err == nil && w > 0 {
			s.lineWidth = w
		}
	}

	s.run(os.Stdin, os.Stdout, true)
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
