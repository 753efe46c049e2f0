package pipeline

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultCrossRefPattern links a page reference to the file name the batch
// converter writes for it.
const DefaultCrossRefPattern = "{name}.{section}.html"

// CrossRefData configures cross-reference linking.
type CrossRefData struct {
	// URLPattern builds page links. {name} and {section} are replaced by
	// the referenced page. Empty means DefaultCrossRefPattern.
	URLPattern string
}

// CrossRefInjector defines the contract for cross-reference linking.
type CrossRefInjector interface {
	LinkCrossRefs(ctx context.Context, htmlContent string, data *CrossRefData) (string, error)
}

// CrossRefLinker turns page references and section names into links.
//
// A page reference is a bold or italic page name directly followed by a
// parenthesized section, as in <b>ls</b>(1). A section name is bold
// upper-case text equal to one of the page's h2 headings.
type CrossRefLinker struct{}

// NewCrossRefLinker creates a CrossRefLinker.
func NewCrossRefLinker() *CrossRefLinker {
	return &CrossRefLinker{}
}

var (
	// pageNamePattern matches names that can be manual pages.
	pageNamePattern = regexp.MustCompile(`^[\w.+-]+$`)

	// sectionRefPattern matches a section suffix such as "(1)" or "(3pm)".
	sectionRefPattern = regexp.MustCompile(`^\(([1-9])(\w*)\)`)

	// sectionNamePattern matches section names worth linking.
	sectionNamePattern = regexp.MustCompile(`^[A-Z ]+$`)
)

// LinkCrossRefs rewrites htmlContent with page and section links.
// If data is nil, returns htmlContent unchanged.
func (l *CrossRefLinker) LinkCrossRefs(ctx context.Context, htmlContent string, data *CrossRefData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	pattern := data.URLPattern
	if pattern == "" {
		pattern = DefaultCrossRefPattern
	}

	sections := make(map[string]bool)
	for _, h := range collectElements(doc, atom.H2) {
		sections[normalizedText(h)] = true
	}

	linkPageRefs(doc, pattern)
	linkSectionNames(doc, sections)

	return renderHTML(doc, isFragment)
}

// linkPageRefs wraps "<b>name</b>(N)" in a link to the referenced page.
// The section suffix moves inside the link.
func linkPageRefs(doc *html.Node, pattern string) {
	for _, n := range collectElements(doc, atom.B, atom.I) {
		if insideLink(n) {
			continue
		}

		next := n.NextSibling
		if next == nil || next.Type != html.TextNode {
			continue
		}
		m := sectionRefPattern.FindStringSubmatch(next.Data)
		if m == nil {
			continue
		}
		name := normalizedText(n)
		if !pageNamePattern.MatchString(name) {
			continue
		}

		link := wrapInLink(n, PageURL(pattern, name, m[1]+m[2]))
		link.AppendChild(&html.Node{Type: html.TextNode, Data: m[0]})
		next.Data = next.Data[len(m[0]):]
		if next.Data == "" {
			next.Parent.RemoveChild(next)
		}
	}
}

// linkSectionNames wraps bold mentions of a section in a fragment link.
func linkSectionNames(doc *html.Node, sections map[string]bool) {
	for _, n := range collectElements(doc, atom.B) {
		if insideLink(n) || n.Parent == nil || n.Parent.DataAtom == atom.H2 {
			continue
		}
		text := normalizedText(n)
		if !sectionNamePattern.MatchString(text) || !sections[text] {
			continue
		}
		wrapInLink(n, "#"+text)
	}
}

// PageURL expands a cross-reference pattern for one page.
func PageURL(pattern, name, section string) string {
	return strings.NewReplacer(
		"{name}", url.PathEscape(name),
		"{section}", url.PathEscape(section),
	).Replace(pattern)
}
