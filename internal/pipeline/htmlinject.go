package pipeline

import (
	"context"
	"html"
	"regexp"
	"strings"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>\n" + sanitizeCSS(cssContent) + "\n</style>\n"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if pos := afterBodyTag(htmlContent, lowerHTML); pos != -1 {
		return htmlContent[:pos] + styleBlock + htmlContent[pos:]
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// afterBodyTag returns the offset just past the opening <body...> tag,
// or -1 if there is none. lowerHTML is htmlContent lowercased.
func afterBodyTag(htmlContent, lowerHTML string) int {
	idx := strings.Index(lowerHTML, "<body")
	if idx == -1 {
		return -1
	}
	closeIdx := strings.Index(htmlContent[idx:], ">")
	if closeIdx == -1 {
		return -1
	}
	return idx + closeIdx + 1
}

// DefaultTOCTitle heads the table of contents when no title is configured.
const DefaultTOCTitle = "Contents"

// TOCData holds TOC configuration for injection.
type TOCData struct {
	Title string
}

// TOCInjector defines the contract for TOC injection into HTML.
type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error)
}

// section is a top-level section of a manual page.
type section struct {
	ID   string // fragment target
	Text string // heading text content
}

// sectionPattern matches h2 elements.
// Captures: 1=attributes, 2=inner HTML (may contain inline tags)
var sectionPattern = regexp.MustCompile(`(?is)<h2(\s[^>]*)?>(.*?)</h2>`)

// idPattern extracts an id attribute.
var idPattern = regexp.MustCompile(`(?i)\bid="([^"]*)"`)

// htmlTagPattern matches HTML tags for stripping from heading text.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags removes HTML tags from a string, decodes HTML entities,
// and collapses whitespace. Entities are decoded so the text is not
// double-encoded when escaped again for the TOC.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// extractSections returns the h2 headings of a page in document order.
// Troff pages anchor a section by its text; headings with an id
// attribute (Markdown pages) link to that id instead.
func extractSections(htmlContent string) []section {
	var sections []section
	for _, m := range sectionPattern.FindAllStringSubmatch(htmlContent, -1) {
		text := stripHTMLTags(m[2])
		if text == "" {
			continue
		}
		id := text
		if idm := idPattern.FindStringSubmatch(m[1]); idm != nil {
			id = html.UnescapeString(idm[1])
		}
		sections = append(sections, section{ID: id, Text: text})
	}
	return sections
}

// generateTOC renders the table of contents as an ordered list.
func generateTOC(sections []section, title string) string {
	if len(sections) == 0 {
		return ""
	}
	if title == "" {
		title = DefaultTOCTitle
	}

	var buf strings.Builder
	buf.WriteString(`<aside class="toc">`)
	buf.WriteString("<h3>" + html.EscapeString(title) + "</h3>")
	buf.WriteString("<ol>")
	for _, s := range sections {
		buf.WriteString(`<li><a href="#`)
		buf.WriteString(html.EscapeString(s.ID))
		buf.WriteString(`">`)
		buf.WriteString(html.EscapeString(s.Text))
		buf.WriteString("</a></li>")
	}
	buf.WriteString("</ol></aside>\n")
	return buf.String()
}

// TOCInjection implements TOCInjector.
type TOCInjection struct{}

// NewTOCInjection creates a new TOC injector.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// InjectTOC lists the page sections in an <aside class="toc"> placed at the
// start of the body. If data is nil or the page has no sections, htmlContent
// is returned unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	tocHTML := generateTOC(extractSections(htmlContent), data.Title)
	if tocHTML == "" {
		return htmlContent, nil
	}

	if pos := afterBodyTag(htmlContent, strings.ToLower(htmlContent)); pos != -1 {
		if strings.HasPrefix(htmlContent[pos:], "\n") {
			pos++
		}
		return htmlContent[:pos] + tocHTML + htmlContent[pos:], nil
	}

	return tocHTML + htmlContent, nil
}
