package troff

import "strings"

// evalIf handles the .if subset that matters for HTML output. The converter
// acts as a typesetter: "t" branches are rendered, "n" branches dropped.
// Anything else is unsupported and only shows up in debug mode.
func (s *Stream) evalIf(args string) {
	switch {
	case strings.HasPrefix(args, "t "):
		s.emit(s.dec.Decode(args[2:]))
	case strings.HasPrefix(args, "n "):
	case s.opts.Debug:
		s.emit(s.dec.errorMarker("if", args))
	}
}
