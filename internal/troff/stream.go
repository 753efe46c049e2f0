package troff

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"regexp"
	"strings"
)

// FailureMode selects what a Stream emits after an internal error.
type FailureMode int

const (
	// CloseOnError closes the open table and block, then the body and
	// document, so the output stays well-formed.
	CloseOnError FailureMode = iota

	// TruncateOnError stops right after the last complete line.
	TruncateOnError
)

// Options configures a Stream.
type Options struct {
	// Debug renders unknown macros and unsupported conditionals as
	// visible error markers instead of dropping them.
	Debug bool

	// HeadLines are raw HTML lines inserted after the <title> element.
	HeadLines []string

	// OnError selects the failure behavior. The zero value is CloseOnError.
	OnError FailureMode

	// Logger receives unknown fonts (debug) and aborted conversions (error).
	// Nil discards them.
	Logger *slog.Logger
}

type phase int

const (
	phaseStart phase = iota
	phaseBody
	phaseDone
)

// label tracks a .TP term waiting for its definition.
const (
	labelNone    = 0
	labelOpened  = 1 // <dt> emitted, the next line is the term
	labelPending = 2 // term emitted, <dd> goes after the next line
)

// document is the state of one conversion.
type document struct {
	title   string
	section string
	date    string
	headed  bool

	block          block
	label          int
	preprocessors  []Preprocessor
	pageNumberChar string
}

// Stream converts troff man source to HTML one line at a time.
// It is single-pass: lines are pulled from the source only as output is
// requested, and a Stream cannot be restarted.
type Stream struct {
	src    LineSource
	opts   Options
	dec    *Decoder
	logger *slog.Logger

	doc   document
	phase phase
	queue []string
	table *tableParser

	err       error
	truncated bool
}

// NewStream creates a Stream reading from src.
func NewStream(src LineSource, opts Options) *Stream {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger
	}
	return &Stream{
		src:    src,
		opts:   opts,
		dec:    NewDecoder(logger),
		logger: logger,
		doc:    document{pageNumberChar: "%"},
	}
}

// Next returns the next HTML line, terminated by a newline.
// The boolean is false once the document is complete or the conversion
// stopped on an error; Err tells the two apart.
func (s *Stream) Next() (string, bool) {
	for len(s.queue) == 0 {
		if s.phase == phaseDone {
			return "", false
		}
		s.advance()
	}
	line := s.queue[0]
	s.queue = s.queue[1:]
	return line + "\n", true
}

// All returns the remaining lines as a sequence.
func (s *Stream) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			line, ok := s.Next()
			if !ok || !yield(line) {
				return
			}
		}
	}
}

// WriteTo drains the stream into w. It returns the first write error, or
// the conversion error if the stream stopped early.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for {
		line, ok := s.Next()
		if !ok {
			return total, s.err
		}
		n, err := io.WriteString(w, line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
}

// Err returns the error that ended the conversion early, if any.
func (s *Stream) Err() error { return s.err }

// Truncated reports whether the output ended without closing tags.
func (s *Stream) Truncated() bool { return s.truncated }

// Title returns the page title from .TH.
func (s *Stream) Title() string { return s.doc.title }

// Section returns the manual section from .TH.
func (s *Stream) Section() string { return s.doc.section }

// Date returns the date string from .TH.
func (s *Stream) Date() string { return s.doc.date }

// Preprocessors returns the preprocessors declared by the page.
func (s *Stream) Preprocessors() []Preprocessor { return s.doc.preprocessors }

// PageNumberChar returns the character registered with .pc.
func (s *Stream) PageNumberChar() string { return s.doc.pageNumberChar }

// advance produces the output of one source line, or one table row.
// A panic ends the conversion instead of reaching the consumer.
func (s *Stream) advance() {
	defer func() {
		if r := recover(); r != nil {
			s.fail(fmt.Errorf("%w: %v", ErrInternal, r))
		}
	}()

	switch s.phase {
	case phaseStart:
		s.emit("<!doctype html>")
		s.phase = phaseBody
	case phaseBody:
		if s.table != nil {
			s.queue = s.table.step(s.queue)
			if s.table.done() {
				s.table = nil
				s.afterLine()
			}
			return
		}

		line, ok := s.src.Next()
		if !ok {
			if err := sourceErr(s.src); err != nil {
				s.fail(fmt.Errorf("%w: %v", ErrRead, err))
				return
			}
			s.closeBlock()
			s.emit("</body>", "</html>")
			s.phase = phaseDone
			return
		}
		s.processLine(line)
	}
}

// fail ends the conversion after err.
func (s *Stream) fail(err error) {
	s.err = err
	s.logger.Error("troff conversion aborted",
		slog.String("title", s.doc.title),
		slog.Any("error", err))

	if s.opts.OnError == TruncateOnError {
		s.truncated = true
	} else {
		if s.table != nil && s.table.state != tableStart && !s.table.done() {
			s.emit("</table>")
		}
		s.closeBlock()
		s.emit("</body>", "</html>")
	}

	s.table = nil
	s.phase = phaseDone
}

func (s *Stream) emit(lines ...string) {
	s.queue = append(s.queue, lines...)
}

// processLine dispatches one source line.
func (s *Stream) processLine(line string) {
	switch {
	case strings.HasPrefix(line, commentPrefix):
		s.emit(comment(line[len(commentPrefix):]))
		return
	case strings.HasPrefix(line, preprocessorPrefix):
		s.declarePreprocessors(line[len(preprocessorPrefix):])
		return
	}

	line = stripInlineComment(line)

	macro, name, args := MacroNone, "", line
	if strings.HasPrefix(line, ".") {
		name, args = splitMacro(line)
		macro = lookupMacro(name)
	}

	if next, ok := topMacros[macro]; ok {
		s.closeBlock()
		s.doc.block = next
	}

	if s.dispatch(macro, name, args) {
		s.afterLine()
	}
}

// dispatch renders one macro or text line. It returns false when a
// sub-parser took over the source and the line is not finished yet.
func (s *Stream) dispatch(macro Macro, name, args string) bool {
	d := s.dec

	switch macro {
	case MacroTitle:
		s.title(args)

	case MacroHead:
		s.emit(`<a name="`+d.anchor(args)+`"></a>`, d.heading(tagHead, args))
	case MacroSubhead:
		s.emit(d.heading(tagSubhead, args))

	case MacroBold:
		s.emit(d.wrap(tagBold, args))
	case MacroItalic:
		s.emit(d.wrap(tagItalic, args))
	case MacroRoman:
		s.emit(d.wrap(tagRoman, args))

	case MacroBoldItalic:
		s.emit(d.wrapAlternating(tagBold, tagItalic, args))
	case MacroItalicBold:
		s.emit(d.wrapAlternating(tagItalic, tagBold, args))
	case MacroItalicRoman:
		s.emit(d.wrapAlternating(tagItalic, tagRoman, args))
	case MacroRomanItalic:
		s.emit(d.wrapAlternating(tagRoman, tagItalic, args))
	case MacroRomanBold:
		s.emit(d.wrapAlternating(tagRoman, tagBold, args))
	case MacroBoldRoman:
		s.emit(d.wrapAlternating(tagBold, tagRoman, args))

	case MacroSmall:
		s.emit(d.wrap(tagSmall, args))
	case MacroSmallBold:
		text, end := spanEnd(args)
		s.emit(element(tagBold, element(tagSmall, d.decodeArgs(text))) + end)

	case MacroPara:
		s.emit("<p>" + d.Decode(args))
	case MacroIndented:
		s.openDefList()
		s.emit("<dt>")
		s.doc.label = labelOpened
	case MacroIndentedParam:
		s.openDefList()
		if tag := SplitArgs(args); len(tag) > 0 && tag[0] != "" {
			s.emit("<dt>" + d.Decode(tag[0]))
		}
		s.emit("<dd>")
	case MacroIndent:
		s.emit("<blockquote>")
	case MacroNoFill:
		s.emit("<pre>")
	case MacroHanging:
		s.emit(`<p style="margin-left: 3em">`)
	case MacroDedent, MacroFill:

	case MacroSpacer:
		s.emit(`<div style="margin: 0 0 1em 0"></div>`)
	case MacroLineBreak:
		s.emit("<br/>")
	case MacroPageNumChar:
		s.doc.pageNumberChar = strings.TrimSpace(args)
	case MacroIf:
		s.evalIf(args)

	case MacroTableStart:
		s.table = newTableParser(args, s.src, d)
		return false
	case MacroTableEnd:
		// Reached only without a matching .TS.
		if s.opts.Debug {
			s.emit(d.errorMarker(name, args))
		}

	case MacroNone:
		switch {
		case args != "":
			s.emit(d.Decode(args))
		case s.doc.block == blockPre:
			s.emit("")
		default:
			s.emit("<p>")
		}

	default:
		if s.opts.Debug && name != "." {
			s.emit(d.errorMarker(name, args))
		}
	}

	return true
}

// afterLine advances the pending-label state once per processed line.
func (s *Stream) afterLine() {
	switch s.doc.label {
	case labelOpened:
		s.doc.label = labelPending
	case labelPending:
		s.emit("<dd>")
		s.doc.label = labelNone
	}
}

// title captures the .TH fields and emits the document preamble.
// Only the first .TH of a page is rendered.
func (s *Stream) title(args string) {
	if s.doc.headed {
		return
	}
	s.doc.headed = true

	fields := SplitArgs(args)
	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	s.doc.title, s.doc.section, s.doc.date = field(0), field(1), field(2)

	heading := s.dec.Decode(s.doc.title)
	s.emit(
		"<html>",
		"<head>",
		"\t<title>"+StripTags(heading)+"</title>",
		"\t"+`<meta charset="utf-8">`,
	)
	for _, line := range s.opts.HeadLines {
		s.emit("\t" + line)
	}
	s.emit(
		"</head>",
		"<body>",
		"<h1>"+heading+"</h1>",
	)
}

// openDefList opens a definition list unless one is already open.
func (s *Stream) openDefList() {
	if s.doc.block == blockDefList {
		return
	}
	s.closeBlock()
	s.emit("<dl>")
	s.doc.block = blockDefList
}

// closeBlock ends the open top-level block, if any.
func (s *Stream) closeBlock() {
	if s.doc.block != blockNone {
		s.emit("</" + string(s.doc.block) + ">")
		s.doc.block = blockNone
	}
}

// declarePreprocessors records the letters of a '\" line, such as '\" te.
func (s *Stream) declarePreprocessors(rest string) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return
	}
	for _, r := range fields[0] {
		if p, ok := preprocessors[r]; ok {
			s.doc.preprocessors = append(s.doc.preprocessors, p)
		}
	}
}

// splitMacro splits a request line into the macro token and its arguments.
func splitMacro(line string) (name, args string) {
	sp := strings.IndexAny(line, " \t")
	if sp == -1 {
		return line, ""
	}
	return line[:sp], line[sp+1:]
}

var hyphenRun = regexp.MustCompile(`-{2,}`)

// comment renders a troff comment as an HTML comment. Runs of hyphens
// would end the comment early, so they become a dash.
func comment(text string) string {
	text = hyphenRun.ReplaceAllString(strings.TrimSpace(text), "–")
	return "<!-- " + text + " -->"
}

// stripInlineComment cuts a line at an unescaped \" comment.
func stripInlineComment(line string) string {
	for i := 0; i+1 < len(line); i++ {
		if line[i] != '\\' {
			continue
		}
		if line[i+1] == '"' {
			return line[:i]
		}
		i++
	}
	return line
}
