package main

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/alnah/go-man2html"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal reports whether w is an interactive terminal.
	IsTerminal func(w io.Writer) bool

	// NewPool creates the converter pool of a run.
	NewPool func(size int, opts ...man2html.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		IsTerminal: isTerminal,
		NewPool:    newPoolAdapter,
	}
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
