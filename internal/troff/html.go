package troff

import "strings"

// Inline element names used by macros. An empty name renders no element.
const (
	tagRoman   = ""
	tagBold    = "b"
	tagItalic  = "i"
	tagSmall   = "small"
	tagHead    = "h2"
	tagSubhead = "h3"
)

// continuation marks an argument line that joins the next output without a space.
const continuation = `\c`

// element wraps inner HTML in a tag. An empty tag returns inner unchanged.
func element(tag, inner string) string {
	if tag == "" {
		return inner
	}
	return "<" + tag + ">" + inner + "</" + tag + ">"
}

// spanEnd strips a trailing \c and returns the separator the span ends with.
func spanEnd(text string) (string, string) {
	if strings.HasSuffix(text, continuation) {
		return strings.TrimSuffix(text, continuation), ""
	}
	return text, " "
}

// decodeArgs decodes a macro argument line as one span of words.
func (d *Decoder) decodeArgs(text string) string {
	return d.Decode(strings.Join(SplitArgs(text), " "))
}

// wrap renders a single-style macro such as .B.
func (d *Decoder) wrap(tag, text string) string {
	text, end := spanEnd(text)
	return element(tag, d.decodeArgs(text)) + end
}

// wrapAlternating renders macros such as .BR, alternating tag1 and tag2
// over successive arguments. Arguments are joined without spaces.
func (d *Decoder) wrapAlternating(tag1, tag2, text string) string {
	text, end := spanEnd(text)

	var b strings.Builder
	for i, arg := range SplitArgs(text) {
		tag := tag1
		if i%2 == 1 {
			tag = tag2
		}
		b.WriteString(element(tag, d.Decode(arg)))
	}
	return b.String() + end
}

// heading renders a section or subsection heading.
func (d *Decoder) heading(tag, text string) string {
	return element(tag, d.decodeArgs(text))
}

// anchor returns the fragment name of a section heading.
func (d *Decoder) anchor(text string) string {
	return attrEscape(StripTags(d.decodeArgs(text)))
}

// errorMarker renders an unsupported construct in debug mode.
func (d *Decoder) errorMarker(name, text string) string {
	return `<div class="error">` + element(tagBold, escapeHTML(name)) + d.Decode(text) + `</div>`
}

// attrEscape makes already-escaped text safe inside a double-quoted attribute.
func attrEscape(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}
