package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DocumentHead describes the <head> of a generated document.
type DocumentHead struct {
	Title     string
	HeadLines []string // raw HTML lines after the <title> element
}

// WrapDocument wraps a body fragment in a complete HTML5 document laid out
// like the troff converter output.
func WrapDocument(head DocumentHead, body string) string {
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html>\n<head>\n")
	b.WriteString("\t<title>" + html.EscapeString(head.Title) + "</title>\n")
	b.WriteString("\t<meta charset=\"utf-8\">\n")
	for _, line := range head.HeadLines {
		b.WriteString("\t" + line + "\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(strings.TrimSuffix(body, "\n"))
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string, head DocumentHead) (string, error)
}

// GoldmarkConverter converts Markdown manual pages (ronn style) to HTML
// using goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions,
// syntax highlighting, and MathML rendering of $...$ formulas.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			extension.DefinitionList,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
			treeblood.MathML(),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // ids are the TOC targets
		),
		goldmark.WithRendererOptions(
			goldhtml.WithXHTML(),
			// WithUnsafe is not used: raw HTML in pages is not trusted.
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to a standalone HTML5 document.
// Goldmark has no context support, so conversion runs in a goroutine
// and the caller stops waiting on cancellation.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string, head DocumentHead) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: WrapDocument(head, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
