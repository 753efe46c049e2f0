package pipeline

import (
	"context"
	"html"
	"regexp"
	"strings"
)

// GroffHTMLCleaner adapts HTML produced by groff (man -Thtml) to the
// document shape of the troff converter.
type GroffHTMLCleaner struct{}

// NewGroffHTMLCleaner creates a GroffHTMLCleaner.
func NewGroffHTMLCleaner() *GroffHTMLCleaner {
	return &GroffHTMLCleaner{}
}

var (
	// groffRejectPattern matches groff's section index entries, rules, and
	// the second line of its HTML 4 doctype.
	groffRejectPattern = regexp.MustCompile(`^<a href="#[\w ]+">[\w ]+</a><br>$|^<hr>$|loose\.dtd">$`)

	titlePattern = regexp.MustCompile(`(?is)<title>(.*?)</title>`)
)

// Clean rewrites the doctype and charset declaration, drops the section
// index and horizontal rules, and inserts headLines after </title>.
func (c *GroffHTMLCleaner) Clean(ctx context.Context, htmlContent string, headLines []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	for line := range strings.Lines(crlfOrCR.ReplaceAllString(htmlContent, "\n")) {
		line = strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(line, "<!DOCTYPE"):
			b.WriteString("<!doctype html>\n")
		case strings.HasPrefix(line, `<meta http-equiv="Content-Type"`):
			b.WriteString("<meta charset=\"utf-8\">\n")
		case !groffRejectPattern.MatchString(line):
			b.WriteString(line + "\n")
		}
		if strings.HasSuffix(line, "</title>") {
			for _, h := range headLines {
				b.WriteString(h + "\n")
			}
		}
	}
	return b.String(), nil
}

// DocumentTitle returns the text of the first <title> element.
func DocumentTitle(htmlContent string) string {
	m := titlePattern.FindStringSubmatch(htmlContent)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}
