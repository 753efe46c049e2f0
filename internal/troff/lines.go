package troff

import (
	"bufio"
	"io"
	"iter"
	"strings"
)

// LineSource is a single-pass cursor over source lines.
// The dispatcher and the table sub-parser advance the same cursor: a line
// returned by Next is consumed for every reader of the source.
type LineSource interface {
	// Next returns the next line without its terminator.
	// The boolean is false once the source is exhausted.
	Next() (string, bool)
}

// errSource is implemented by line sources that can fail while reading.
type errSource interface {
	Err() error
}

// Lines is a LineSource over an in-memory slice.
type Lines struct {
	lines []string
	pos   int
}

// NewLines creates a LineSource that yields lines in order.
func NewLines(lines []string) *Lines {
	return &Lines{lines: lines}
}

// SplitLines splits text on newlines and returns a LineSource over the result.
// A trailing newline does not produce an extra empty line.
func SplitLines(text string) *Lines {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return NewLines(nil)
	}
	return NewLines(strings.Split(text, "\n"))
}

// Next implements LineSource.
func (l *Lines) Next() (string, bool) {
	if l.pos >= len(l.lines) {
		return "", false
	}
	line := l.lines[l.pos]
	l.pos++
	return line, true
}

// Scanner is a LineSource reading from an io.Reader.
type Scanner struct {
	sc *bufio.Scanner
}

// maxLineSize bounds a single source line.
const maxLineSize = 1 << 20

// NewScanner creates a LineSource over r. Carriage returns before newlines
// are dropped. Read errors end the source and are reported by Err.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{sc: sc}
}

// Next implements LineSource.
func (s *Scanner) Next() (string, bool) {
	if !s.sc.Scan() {
		return "", false
	}
	return strings.TrimSuffix(s.sc.Text(), "\r"), true
}

// Err returns the first non-EOF error encountered while reading.
func (s *Scanner) Err() error {
	return s.sc.Err()
}

// Seq adapts an iter.Seq to a LineSource.
type Seq struct {
	next func() (string, bool)
	stop func()
}

// FromSeq creates a LineSource pulling from seq.
// Call Stop when the source is no longer needed before it is exhausted.
func FromSeq(seq iter.Seq[string]) *Seq {
	next, stop := iter.Pull(seq)
	return &Seq{next: next, stop: stop}
}

// Next implements LineSource.
func (s *Seq) Next() (string, bool) {
	return s.next()
}

// Stop releases the underlying iterator.
func (s *Seq) Stop() {
	s.stop()
}

// sourceErr returns the read error of src, if it reports one.
func sourceErr(src LineSource) error {
	if es, ok := src.(errSource); ok {
		return es.Err()
	}
	return nil
}
