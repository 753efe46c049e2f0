package man2html

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-man2html/internal/dateutil"
	"github.com/alnah/go-man2html/internal/troff"
)

// Format identifies the markup of a page source.
type Format int

const (
	// FormatAuto detects the format from the page name and content.
	FormatAuto Format = iota
	// FormatTroff is man-macro troff source.
	FormatTroff
	// FormatMarkdown is a ronn-style Markdown manual page.
	FormatMarkdown
	// FormatGroffHTML is a page already rendered by groff -Thtml.
	FormatGroffHTML
)

var formatNames = map[Format]string{
	FormatAuto:      "auto",
	FormatTroff:     "troff",
	FormatMarkdown:  "markdown",
	FormatGroffHTML: "groff-html",
}

// String returns the name accepted by ParseFormat.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat parses a format name, case-insensitively. The empty string
// is FormatAuto.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatAuto, nil
	}
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// markdownSuffixes mark Markdown pages by file name.
var markdownSuffixes = []string{".md", ".markdown", ".ronn"}

// DetectFormat guesses the format of a page from its name and source.
// Compression suffixes in name are ignored.
func DetectFormat(name, source string) Format {
	name = strings.ToLower(strings.TrimSuffix(name, ".gz"))
	for _, suffix := range markdownSuffixes {
		if strings.HasSuffix(name, suffix) {
			return FormatMarkdown
		}
	}

	head := strings.TrimLeft(source, " \t\r\n\ufeff")
	if len(head) > 16 {
		head = head[:16]
	}
	head = strings.ToLower(head)
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		return FormatGroffHTML
	}
	if ext := filepath.Ext(name); ext == ".html" || ext == ".htm" {
		return FormatGroffHTML
	}
	return FormatTroff
}

// FailureMode selects the output of a troff conversion that stops on an
// internal error.
type FailureMode = troff.FailureMode

const (
	// CloseOnError closes every open element so the partial page is
	// well-formed.
	CloseOnError = troff.CloseOnError
	// TruncateOnError stops after the last complete line.
	TruncateOnError = troff.TruncateOnError
)

// ParseFailureMode parses "close" or "truncate". The empty string is
// CloseOnError.
func ParseFailureMode(s string) (FailureMode, error) {
	switch strings.ToLower(s) {
	case "", "close":
		return CloseOnError, nil
	case "truncate":
		return TruncateOnError, nil
	}
	return CloseOnError, fmt.Errorf("%w: %q (must be close or truncate)", ErrInvalidFailureMode, s)
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid. A nil receiver means
// defaults and is valid.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// Footer configures the PDF page footer. The page title, such as LS(1),
// always leads the footer.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Date           string // literal, "auto[:FORMAT]" or "page[:FORMAT]"
	Text           string
}

// Validate checks that footer settings are valid. A nil receiver means no
// footer and is valid.
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
	if _, err := dateutil.ResolveDate(f.Date, "", time.Time{}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFooterDate, err)
	}
	return nil
}

// TOC requests a table of contents listing the page sections.
type TOC struct {
	Title string // empty = "Contents"
}

// CrossRefs requests links for page references such as ls(1) and for
// section names mentioned in bold.
type CrossRefs struct {
	// URLPattern builds page links from {name} and {section}.
	// Empty links to "{name}.{section}.html" next to the page.
	URLPattern string
}

// Validate checks the URL pattern. A nil receiver is valid.
func (x *CrossRefs) Validate() error {
	if x == nil || x.URLPattern == "" {
		return nil
	}
	if !strings.Contains(x.URLPattern, "{name}") {
		return fmt.Errorf("%w: %q must contain {name}", ErrInvalidCrossRefURL, x.URLPattern)
	}
	return nil
}

// Input contains conversion parameters.
type Input struct {
	Source    string        // page source (required)
	Name      string        // file name, used for format detection
	Format    Format        // FormatAuto detects it
	HeadLines []string      // raw HTML lines after <title>, after the converter's
	CSS       string        // extra CSS appended to the converter style
	TOC       *TOC          // nil = no table of contents
	CrossRefs *CrossRefs    // nil = no links
	PDF       bool          // also render a PDF
	Page      *PageSettings // nil = defaults
	Footer    *Footer       // nil = no footer
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML      []byte
	PDF       []byte // nil unless Input.PDF
	Format    Format // the format actually converted
	Title     string // from .TH, the Markdown name line or <title>
	Section   string
	Date      string // as written in the page
	Truncated bool   // the HTML ends without closing tags
}

// PageTitle returns "TITLE(SECTION)", or the title alone.
func (r *ConvertResult) PageTitle() string {
	if r.Section == "" {
		return r.Title
	}
	return r.Title + "(" + r.Section + ")"
}
