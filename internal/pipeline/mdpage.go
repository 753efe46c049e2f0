package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// ManualHeader is the name line of a Markdown manual page, such as
// "ls(1) -- list directory contents".
type ManualHeader struct {
	Name        string
	Section     string
	Description string
}

// Title returns the header as shown in a browser tab: "ls(1)".
func (h ManualHeader) Title() string {
	if h.Section == "" {
		return h.Name
	}
	return h.Name + "(" + h.Section + ")"
}

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// headerPattern matches a ronn name line, with or without the ATX marker.
	headerPattern = regexp.MustCompile(`^#?\s*([\w.+-]+)\(([0-9]\w*)\)\s*(?:--|-|—)?\s*(.*)$`)
)

// MarkdownPreprocessor defines the contract for Markdown page preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) (string, ManualHeader)
}

// ManualPagePreprocessor normalizes a Markdown manual page and reads its
// name line.
type ManualPagePreprocessor struct{}

// PreprocessMarkdown normalizes line endings, compresses runs of blank
// lines, and parses the header from the first non-blank line. A page
// without a recognizable name line gets a zero header.
func (p *ManualPagePreprocessor) PreprocessMarkdown(ctx context.Context, content string) (string, ManualHeader) {
	if ctx.Err() != nil {
		return content, ManualHeader{}
	}

	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = multipleBlankLines.ReplaceAllString(content, "\n\n")
	return content, ParseManualHeader(content)
}

// ParseManualHeader parses the name line of a Markdown manual page.
func ParseManualHeader(content string) ManualHeader {
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := headerPattern.FindStringSubmatch(line)
		if m == nil {
			return ManualHeader{}
		}
		return ManualHeader{Name: m[1], Section: m[2], Description: strings.TrimSpace(m[3])}
	}
	return ManualHeader{}
}
