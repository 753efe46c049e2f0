package troff

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// style is a semantic character style selected by a font.
type style int

const (
	styleBold style = iota
	styleItalic
	styleMono
)

// styleTags maps styles to the inline element that renders them.
var styleTags = [...]string{
	styleBold:   "b",
	styleItalic: "i",
	styleMono:   "code",
}

// fontAction is what a font escape does to the font stack.
type fontAction int

const (
	fontRoman    fontAction = iota // close every open font element
	fontPrevious                   // close the most recent font element
	fontStyled                     // open one element per style
)

type font struct {
	action fontAction
	styles []style
}

// fonts normalizes troff font names. Mono implies roman.
var fonts = map[string]font{
	"R": {action: fontRoman},
	"P": {action: fontPrevious},
	"B": {action: fontStyled, styles: []style{styleBold}},
	"I": {action: fontStyled, styles: []style{styleItalic}},

	"BI": {action: fontStyled, styles: []style{styleBold, styleItalic}},

	"1": {action: fontRoman},
	"2": {action: fontStyled, styles: []style{styleItalic}},
	"3": {action: fontStyled, styles: []style{styleBold}},
	"4": {action: fontStyled, styles: []style{styleBold, styleItalic}},

	"C":  {action: fontStyled, styles: []style{styleMono}},
	"CR": {action: fontStyled, styles: []style{styleMono}},
	"CW": {action: fontStyled, styles: []style{styleMono}},
	"CB": {action: fontStyled, styles: []style{styleMono, styleBold}},
	"CI": {action: fontStyled, styles: []style{styleMono, styleItalic}},

	"TR": {action: fontRoman},
	"TB": {action: fontStyled, styles: []style{styleBold}},
	"TI": {action: fontStyled, styles: []style{styleItalic}},
	"HR": {action: fontRoman},
	"HB": {action: fontStyled, styles: []style{styleBold}},
	"HI": {action: fontStyled, styles: []style{styleItalic}},
}

// namedChars are special characters addressable as \(xx or \[name].
var namedChars = []struct{ name, html string }{
	{"ss", "ß"},
	{":a", "ä"},
	{":A", "Ä"},
	{":o", "ö"},
	{":O", "Ö"},
	{":u", "ü"},
	{":U", "Ü"},
	{"hy", "-"},
	{"rg", "&reg;"},
	{"co", "&copy;"},
	{"oq", "&lsquo;"},
	{"cq", "&rsquo;"},
	{"lq", "&ldquo;"},
	{"rq", "&rdquo;"},
	{"aa", "&acute;"},
	{"bu", "&bull;"},
	{"mu", "&times;"},
	{"em", "&mdash;"},
	{"en", "&ndash;"},
	{"dq", "&quot;"},
	{"aq", "&#39;"},
	{"ga", "&#96;"},
	{"ti", "~"},
	{"ha", "^"},
	{"rs", "&#92;"},
	{"sl", "/"},
	{"de", "&deg;"},
	{"tm", "&trade;"},
	{"+-", "&plusmn;"},
	{"<=", "&le;"},
	{">=", "&ge;"},
	{"->", "&rarr;"},
	{"<-", "&larr;"},
	{"ua", "&uarr;"},
	{"da", "&darr;"},
	{"or", "|"},
	{"ba", "|"},
	{"bv", "|"},
	{"sc", "&sect;"},
	{"ps", "&para;"},
	{"ct", "&cent;"},
	{"Po", "&pound;"},
	{"Eu", "&euro;"},
	{"fm", "&prime;"},
	{"sd", "&Prime;"},
}

// plainEscapes are escapes outside the \( and \[ namespaces.
var plainEscapes = []struct{ esc, html string }{
	{`\*[softhyphen]`, "&shy;"},
	{`\*(lq`, "&ldquo;"},
	{`\*(rq`, "&rdquo;"},
	{`\*(Tm`, "&trade;"},
	{`\*R`, "&reg;"},

	{`\e`, "&#92;"},
	{`\E`, "&#92;"},
	{`\\`, "&#92;"},
	{`\-`, "&ndash;"},
	{`\~`, "&nbsp;"},
	{`\ `, "&nbsp;"},
	{`\0`, "&#8199;"}, // figure space
	{`\|`, "&#8201;"}, // thin space
	{`\^`, "&#8202;"}, // hair space
	{`\&`, "&#8203;"}, // zero width space
	{`\n`, "<br/>"},
	{`\'`, "&acute;"},
	{"\\`", "&#96;"},
	{`\.`, "."},
	{`\%`, ""},
	{`\:`, ""},
	{`\/`, ""},
	{`\,`, ""},
	{`\c`, ""},
}

// charReplacer substitutes character escapes in one left-to-right pass.
// It runs after HTML escaping, so its keys are escaped the same way.
var charReplacer = newCharReplacer()

func newCharReplacer() *strings.Replacer {
	var pairs []string
	for _, e := range plainEscapes {
		pairs = append(pairs, escapeHTML(e.esc), e.html)
	}
	for _, c := range namedChars {
		if utf8.RuneCountInString(c.name) == 2 {
			pairs = append(pairs, escapeHTML(`\(`+c.name), c.html)
		}
		pairs = append(pairs, escapeHTML(`\[`+c.name+`]`), c.html)
	}
	return strings.NewReplacer(pairs...)
}

// literalReplacer restores \< and \> while leaving escaped backslashes alone.
var literalReplacer = strings.NewReplacer(`\\`, `\\`, `\>`, ">", `\<`, "<")

var htmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// sizeEscape matches point-size changes, which have no HTML rendering.
var sizeEscape = regexp.MustCompile(`\\s(?:\[[^\]]*\]|[+-]?\(\d\d|\([+-]?\d\d|[+-]?\d)`)

// tagPattern matches HTML tags for plain-text extraction.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// escapeHTML escapes the characters that are markup in HTML text.
func escapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// StripTags removes HTML tags, keeping entities.
func StripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// Decoder converts troff inline text to HTML.
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder creates a Decoder reporting unknown fonts to logger.
// A nil logger discards them.
func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = discardLogger
	}
	return &Decoder{logger: logger}
}

// Decode returns text as HTML: markup characters escaped, character
// escapes translated, and font and colour escapes turned into inline
// elements. Elements still open at the end of text are closed, so the
// result is balanced even for malformed input.
func (d *Decoder) Decode(text string) string {
	text = literalReplacer.Replace(text)
	text = escapeHTML(text)
	text = charReplacer.Replace(text)
	text = sizeEscape.ReplaceAllString(text, "")
	text = d.decodeFonts(text)
	text = decodeColors(text)
	return text
}

// decodeFonts turns \f escapes into nested style elements.
func (d *Decoder) decodeFonts(s string) string {
	if !strings.Contains(s, `\f`) {
		return s
	}

	var b strings.Builder
	var stack TagStack
	i := 0
	for {
		next := strings.Index(s[i:], `\f`)
		if next == -1 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+next])

		name, bracketed, end := escapeArg(s, i+next+2)
		i = end
		if bracketed && name == "" {
			name = "P"
		}

		f, ok := fonts[name]
		if !ok {
			d.logger.Debug("unknown font, using roman", slog.String("font", name))
			f = fonts["R"]
		}

		switch f.action {
		case fontRoman:
			stack.CloseAll(&b)
		case fontPrevious:
			if tag, ok := stack.Pop(); ok {
				writeEndTag(&b, tag)
			}
		case fontStyled:
			for _, st := range f.styles {
				tag := styleTags[st]
				stack.Push(tag)
				b.WriteString("<" + tag + ">")
			}
		}
	}

	stack.CloseAll(&b)
	return b.String()
}

// decodeColors turns \m escapes into coloured spans.
func decodeColors(s string) string {
	if !strings.Contains(s, `\m`) {
		return s
	}

	var b strings.Builder
	var stack TagStack
	i := 0
	for {
		next := strings.Index(s[i:], `\m`)
		if next == -1 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+next])

		name, _, end := escapeArg(s, i+next+2)
		i = end

		if name == "" {
			if tag, ok := stack.Pop(); ok {
				writeEndTag(&b, tag)
			}
			continue
		}

		stack.Push("span")
		b.WriteString(`<span style="color:` + sanitizeColor(name) + `">`)
	}

	stack.CloseAll(&b)
	return b.String()
}

// escapeArg reads the argument of a font or colour escape starting at pos:
// one character, "(xy", or "[name]". An unterminated bracket runs to the end.
func escapeArg(s string, pos int) (name string, bracketed bool, end int) {
	if pos >= len(s) {
		return "", false, len(s)
	}

	switch s[pos] {
	case '(':
		end = pos + 1
		for n := 0; n < 2 && end < len(s); n++ {
			_, size := utf8.DecodeRuneInString(s[end:])
			end += size
		}
		return s[pos+1 : end], false, end
	case '[':
		closing := strings.IndexByte(s[pos+1:], ']')
		if closing == -1 {
			return s[pos+1:], true, len(s)
		}
		return s[pos+1 : pos+1+closing], true, pos + closing + 2
	default:
		_, size := utf8.DecodeRuneInString(s[pos:])
		return s[pos : pos+size], false, pos + size
	}
}

// sanitizeColor keeps the characters that can appear in a CSS colour name
// or hex value.
func sanitizeColor(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '#':
			return r
		}
		return -1
	}, name)
	if clean == "" {
		return "inherit"
	}
	return clean
}

// discardLogger drops every record.
var discardLogger = slog.New(slog.DiscardHandler)
