package troff

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// TableOptions holds the global options of a tbl block.
type TableOptions struct {
	Center      bool
	Expand      bool
	Box         bool
	DoubleBox   bool
	AllBox      bool
	Frame       bool
	DoubleFrame bool
	NoKeep      bool
	NoSpaces    bool

	Tab          rune   // column separator
	Delim        string // eqn delimiter pair
	DecimalPoint rune
	LineSize     int // rule thickness in points, 0 for the device default
}

// DefaultTableOptions returns the options of a table without an options line.
func DefaultTableOptions() TableOptions {
	return TableOptions{
		Tab:          '\t',
		DecimalPoint: '.',
	}
}

// ParseTableOptions parses a tbl options line such as
// "center allbox tab(:);". Names are case-insensitive and may be separated
// by blanks or commas. Unknown options are ignored.
func ParseTableOptions(line string) TableOptions {
	opts := DefaultTableOptions()
	line = strings.TrimSuffix(strings.TrimSpace(line), ";")

	i := 0
	for i < len(line) {
		if !isLetter(line[i]) {
			i++
			continue
		}

		start := i
		for i < len(line) && isLetter(line[i]) {
			i++
		}
		name := strings.ToLower(line[start:i])

		j := i
		for j < len(line) && isBlank(line[j]) {
			j++
		}
		value, hasValue := "", false
		if j < len(line) && line[j] == '(' {
			hasValue = true
			end := strings.IndexByte(line[j+1:], ')')
			if end == -1 {
				value = line[j+1:]
				i = len(line)
			} else {
				value = line[j+1 : j+1+end]
				i = j + end + 2
			}
		}

		opts.set(name, value, hasValue)
	}

	return opts
}

func (o *TableOptions) set(name, value string, hasValue bool) {
	switch name {
	case "center", "centre":
		o.Center = true
	case "expand":
		o.Expand = true
	case "box":
		o.Box = true
	case "doublebox":
		o.DoubleBox = true
	case "allbox":
		o.AllBox = true
	case "frame":
		o.Frame = true
	case "doubleframe":
		o.DoubleFrame = true
	case "nokeep":
		o.NoKeep = true
	case "nospaces":
		o.NoSpaces = true
	case "tab":
		if r, _ := utf8.DecodeRuneInString(value); hasValue && r != utf8.RuneError {
			o.Tab = r
		}
	case "delim":
		if hasValue {
			o.Delim = value
		}
	case "decimalpoint":
		if r, _ := utf8.DecodeRuneInString(value); hasValue && r != utf8.RuneError {
			o.DecimalPoint = r
		}
	case "linesize":
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n >= 0 {
			o.LineSize = n
		}
	}
}

// classes returns the CSS classes rendering the options.
func (o TableOptions) classes() []string {
	var classes []string
	if o.Center {
		classes = append(classes, "center")
	}
	if o.Expand {
		classes = append(classes, "expand")
	}
	switch {
	case o.AllBox:
		classes = append(classes, "allbox")
	case o.DoubleBox || o.DoubleFrame:
		classes = append(classes, "doublebox")
	case o.Box || o.Frame:
		classes = append(classes, "box")
	}
	return classes
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// Table section markers.
const (
	tableEnd      = ".TE"
	tableContinue = ".T&"
	blockOpen     = "T{"
	blockClose    = "T}"
)

type tableState int

const (
	tableStart tableState = iota
	tableFormat
	tableRows
	tableDone
)

// tableParser consumes a .TS block from the shared line source, one row
// per step. Format lines are recorded but not applied to the output.
type tableParser struct {
	src   LineSource
	dec   *Decoder
	title string

	state   tableState
	options TableOptions
	formats []string
	rows    int
}

func newTableParser(title string, src LineSource, dec *Decoder) *tableParser {
	return &tableParser{
		src:     src,
		dec:     dec,
		title:   strings.TrimSpace(title),
		options: DefaultTableOptions(),
	}
}

// done reports whether the closing tag has been emitted.
func (t *tableParser) done() bool {
	return t.state == tableDone
}

// step appends the next piece of output to out.
func (t *tableParser) step(out []string) []string {
	switch t.state {
	case tableStart:
		return t.start(out)
	case tableFormat:
		t.readFormats()
		if t.state == tableDone {
			return append(out, "</table>")
		}
		return out
	case tableRows:
		return t.nextRow(out)
	}
	return out
}

// start reads the optional options line and opens the table.
func (t *tableParser) start(out []string) []string {
	line, ok := t.src.Next()

	switch {
	case ok && strings.HasSuffix(strings.TrimSpace(line), ";"):
		t.options = ParseTableOptions(line)
		t.state = tableFormat
	case ok && strings.HasPrefix(line, tableEnd):
		t.state = tableDone
	case ok:
		t.state = tableFormat
		t.addFormat(line)
	default:
		t.state = tableDone
	}

	out = append(out, t.openTag())
	if t.title != "" {
		out = append(out, "\t<tr><th>"+t.dec.decodeArgs(t.title)+"</th></tr>")
	}
	if t.state == tableDone {
		out = append(out, "</table>")
	}
	return out
}

func (t *tableParser) openTag() string {
	classes := t.options.classes()
	if len(classes) == 0 {
		return "<table>"
	}
	return `<table class="` + strings.Join(classes, " ") + `">`
}

// readFormats consumes format lines up to the one ending in ".".
func (t *tableParser) readFormats() {
	for t.state == tableFormat {
		line, ok := t.src.Next()
		if !ok || strings.HasPrefix(line, tableEnd) {
			t.state = tableDone
			return
		}
		t.addFormat(line)
	}
}

func (t *tableParser) addFormat(line string) {
	line = strings.TrimSpace(line)
	if strings.HasSuffix(line, ".") {
		t.state = tableRows
		line = strings.TrimSuffix(line, ".")
	}
	t.formats = append(t.formats, line)
}

// nextRow emits one data row, or the closing tag at the end of the block.
func (t *tableParser) nextRow(out []string) []string {
	for {
		line, ok := t.src.Next()
		if !ok || strings.HasPrefix(line, tableEnd) {
			t.state = tableDone
			return append(out, "</table>")
		}

		switch {
		case strings.HasPrefix(line, tableContinue):
			t.state = tableFormat
			return out
		case strings.HasPrefix(line, "."):
			continue
		case isRuleRow(line):
			t.rows++
			return append(out, `	<tr class="rule"></tr>`)
		}

		line = t.joinBlocks(line)
		out = append(out, "\t<tr>")
		for _, field := range splitRow(line, t.options.Tab) {
			out = append(out, "\t\t<td>"+t.dec.Decode(field)+"</td>")
		}
		t.rows++
		return append(out, "\t</tr>")
	}
}

// joinBlocks appends following lines while a T{ text block is open.
// Running out of lines closes the block implicitly.
func (t *tableParser) joinBlocks(line string) string {
	for strings.Count(line, blockOpen) > strings.Count(line, blockClose) {
		next, ok := t.src.Next()
		if !ok {
			break
		}
		line += " " + next
	}
	return line
}

// isRuleRow reports whether a data line only draws a horizontal rule.
func isRuleRow(line string) bool {
	line = strings.TrimSpace(line)
	return line == "_" || line == "="
}

// splitRow splits a data line on tab, keeping T{...T} blocks whole and
// stripping their delimiters.
func splitRow(line string, tab rune) []string {
	var fields []string
	for {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, blockOpen) {
			body := trimmed[len(blockOpen):]
			end := strings.Index(body, blockClose)
			if end == -1 {
				return append(fields, strings.TrimSpace(body))
			}
			fields = append(fields, strings.TrimSpace(body[:end]))
			rest := body[end+len(blockClose):]
			k := strings.IndexRune(rest, tab)
			if k == -1 {
				return fields
			}
			line = rest[k+utf8.RuneLen(tab):]
			continue
		}

		k := strings.IndexRune(line, tab)
		if k == -1 {
			return append(fields, strings.TrimSpace(line))
		}
		fields = append(fields, strings.TrimSpace(line[:k]))
		line = line[k+utf8.RuneLen(tab):]
	}
}
