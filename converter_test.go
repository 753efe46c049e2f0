package man2html

// Notes:
// - Convert is tested with the real troff, Markdown and groff HTML stages;
//   only the PDF backend is mocked, so no browser is needed.
// - Internal test options (withPDFConverter, withMarkdownConverter) inject
//   mocks before NewConverter fills in the defaults.
// - Aborted troff conversions are driven through drainStream with failing
//   line sources, since a well-formed Input cannot make the interpreter fail.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/alnah/go-man2html/internal/pipeline"
	"github.com/alnah/go-man2html/internal/troff"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockPDFConverter struct {
	called    bool
	inputHTML string
	inputOpts *pdfOptions
	output    []byte
	err       error
	closed    bool
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	m.called = true
	m.inputHTML = htmlContent
	m.inputOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

type panicMarkdownConverter struct{}

func (panicMarkdownConverter) ToHTML(ctx context.Context, content string, head pipeline.DocumentHead) (string, error) {
	panic("renderer exploded")
}

// failingSource yields its lines, then panics.
type failingSource struct {
	lines []string
}

func (s *failingSource) Next() (string, bool) {
	if len(s.lines) == 0 {
		panic("source exploded")
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, true
}

func withPDFConverter(p pdfConverter) Option {
	return func(c *Converter) {
		c.pdfConverter = p
	}
}

func withMarkdownConverter(h pipeline.HTMLConverter) Option {
	return func(c *Converter) {
		c.mdConverter = h
	}
}

// newTestConverter builds a converter with a mocked PDF backend.
func newTestConverter(t *testing.T, opts ...Option) (*Converter, *mockPDFConverter) {
	t.Helper()

	mock := &mockPDFConverter{}
	c, err := NewConverter(append([]Option{withPDFConverter(mock)}, opts...)...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mock
}

const lsPage = `.TH LS 1 "2024-01-02" "GNU coreutils"
.SH NAME
ls \- list directory contents
.SH DESCRIPTION
List information about the FILEs. See
.B SEE ALSO
below.
.SH SEE ALSO
.BR dir (1),
.BR vdir (1)
`

// ---------------------------------------------------------------------------
// TestNewConverter - Style resolution
// ---------------------------------------------------------------------------

func TestNewConverter_Styles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cssPath := filepath.Join(dir, "page.css")
	if err := os.WriteFile(cssPath, []byte("body { margin: 0 }"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name        string
		opts        []Option
		wantContain string
		wantEmpty   bool
	}{
		{name: "default style", opts: nil, wantContain: "aside.toc"},
		{name: "built-in name", opts: []Option{WithStyle("dark")}, wantContain: "--bg: #17181a"},
		{name: "inline CSS", opts: []Option{WithStyle("h1 { color: red }")}, wantContain: "h1 { color: red }"},
		{name: "file path", opts: []Option{WithStyle(cssPath)}, wantContain: "margin: 0"},
		{name: "disabled", opts: []Option{WithStyle("")}, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestConverter(t, tt.opts...)
			if tt.wantEmpty {
				if c.style != "" {
					t.Errorf("style = %q, want empty", c.style)
				}
				return
			}
			if !strings.Contains(c.style, tt.wantContain) {
				t.Errorf("style does not contain %q", tt.wantContain)
			}
		})
	}
}

func TestNewConverter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "unknown style", opts: []Option{WithStyle("neon")}, wantErr: ErrStyleNotFound},
		{name: "missing style file", opts: []Option{WithStyle("./missing/page.css")}, wantErr: os.ErrNotExist},
		{name: "bad asset path", opts: []Option{WithAssetPath("/nonexistent/assets/xyz")}, wantErr: ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewConverter(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewConverter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewConverter_AssetPathOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "styles", "house.css"), []byte("/* house */"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, _ := newTestConverter(t, WithAssetPath(dir), WithStyle("house"))
	if c.style != "/* house */" {
		t.Errorf("style = %q, want custom style", c.style)
	}
	if !strings.Contains(c.printStyle, "break-inside") {
		t.Error("print style should fall back to the built-in one")
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}

// ---------------------------------------------------------------------------
// TestConvert - Pipeline by format
// ---------------------------------------------------------------------------

func TestConvert_Troff(t *testing.T) {
	t.Parallel()

	c, mock := newTestConverter(t, WithHeadLines(`<link rel="icon" href="i.png">`))
	res, err := c.Convert(context.Background(), Input{
		Source:    lsPage,
		HeadLines: []string{`<meta name="x" content="y">`},
		TOC:       &TOC{},
		CrossRefs: &CrossRefs{},
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if res.Format != FormatTroff || res.Title != "LS" || res.Section != "1" || res.Date != "2024-01-02" {
		t.Errorf("metadata = %+v", res)
	}
	if res.PDF != nil || mock.called {
		t.Error("PDF rendered without Input.PDF")
	}

	html := string(res.HTML)
	for _, want := range []string{
		"<title>LS</title>",
		`<link rel="icon" href="i.png"/>`,
		`<meta name="x" content="y"/>`,
		"<style>",
		`<aside class="toc">`,
		`<a href="#SEE ALSO">SEE ALSO</a>`,
		`<a href="dir.1.html"><b>dir</b>(1)</a>`,
		`<a href="#SEE ALSO"><b>SEE ALSO</b></a>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Index(html, `<link rel="icon"`) > strings.Index(html, `<meta name="x"`) {
		t.Error("converter head lines should come before input head lines")
	}
}

func TestConvert_Markdown(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t, WithStyle(""))
	res, err := c.Convert(context.Background(), Input{
		Name:   "tool.1.md",
		Source: "tool(1) -- do things\n=====\n\n## SYNOPSIS\n\n`tool` [options]\n",
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if res.Format != FormatMarkdown || res.PageTitle() != "tool(1)" {
		t.Errorf("metadata = %+v", res)
	}
	html := string(res.HTML)
	if !strings.Contains(html, "<title>tool(1)</title>") || !strings.Contains(html, "SYNOPSIS</h2>") {
		t.Errorf("unexpected HTML:\n%s", html)
	}
	if strings.Contains(html, "<style>") {
		t.Error("style injected although disabled")
	}
}

func TestConvert_GroffHTML(t *testing.T) {
	t.Parallel()

	src := "<!DOCTYPE html PUBLIC \"-//W3C//DTD HTML 4.01 Transitional//EN\"\n" +
		"<html>\n<head>\n<title>GREP(1)</title>\n</head>\n<body>\n<hr>\n<h2>NAME</h2>\n</body>\n</html>\n"

	c, _ := newTestConverter(t)
	res, err := c.Convert(context.Background(), Input{Source: src, CSS: "p { x: y }"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if res.Format != FormatGroffHTML || res.Title != "GREP" || res.Section != "1" {
		t.Errorf("metadata = %+v", res)
	}
	html := string(res.HTML)
	if !strings.HasPrefix(html, "<!doctype html>") || strings.Contains(html, "<hr>") {
		t.Errorf("groff page not cleaned:\n%s", html)
	}
	if !strings.Contains(html, "p { x: y }") {
		t.Error("input CSS missing")
	}
}

func TestConvert_PDF(t *testing.T) {
	t.Parallel()

	c, mock := newTestConverter(t, withClock(func() time.Time {
		return time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	}))

	page := &PageSettings{Size: "a4", Orientation: "landscape", Margin: 1}
	res, err := c.Convert(context.Background(), Input{
		Source: lsPage,
		PDF:    true,
		Page:   page,
		Footer: &Footer{Position: "Center", ShowPageNumber: true, Date: "page:long", Text: "coreutils"},
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if string(res.PDF) != "%PDF-1.4 mock" {
		t.Errorf("PDF = %q", res.PDF)
	}
	if !strings.Contains(mock.inputHTML, "break-inside") {
		t.Error("print style not applied to the PDF document")
	}
	if strings.Contains(string(res.HTML), "break-inside") {
		t.Error("print style leaked into the HTML result")
	}
	if mock.inputOpts.Page != page {
		t.Error("page settings not passed through")
	}

	want := footerData{Position: "center", ShowPageNumber: true, Title: "LS(1)", Date: "January 2, 2024", Text: "coreutils"}
	if got := *mock.inputOpts.Footer; got != want {
		t.Errorf("footer = %+v, want %+v", got, want)
	}
}

func TestConvert_PDFError(t *testing.T) {
	t.Parallel()

	c, mock := newTestConverter(t)
	mock.err = ErrBrowserConnect

	_, err := c.Convert(context.Background(), Input{Source: lsPage, PDF: true})
	if !errors.Is(err, ErrBrowserConnect) {
		t.Errorf("Convert() error = %v, want ErrBrowserConnect", err)
	}
}

func TestConvert_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "empty source", input: Input{}, wantErr: ErrEmptySource},
		{name: "unknown format", input: Input{Source: "x", Format: Format(42)}, wantErr: ErrInvalidFormat},
		{name: "bad page size", input: Input{Source: "x", Page: &PageSettings{Size: "a5", Orientation: "portrait", Margin: 1}}, wantErr: ErrInvalidPageSize},
		{name: "bad footer position", input: Input{Source: "x", Footer: &Footer{Position: "top"}}, wantErr: ErrInvalidFooterPosition},
		{name: "bad footer date", input: Input{Source: "x", Footer: &Footer{Date: "auto:"}}, wantErr: ErrInvalidFooterDate},
		{name: "bad xref pattern", input: Input{Source: "x", CrossRefs: &CrossRefs{URLPattern: "/man/{section}"}}, wantErr: ErrInvalidCrossRefURL},
	}

	c, _ := newTestConverter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := c.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvert_RecoversPanic(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t, withMarkdownConverter(panicMarkdownConverter{}))
	res, err := c.Convert(context.Background(), Input{Source: "# x", Format: FormatMarkdown})
	if !errors.Is(err, ErrInternal) || res != nil {
		t.Errorf("Convert() = %v, %v; want nil, ErrInternal", res, err)
	}
}

func TestConvert_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := newTestConverter(t)
	for _, format := range []Format{FormatTroff, FormatMarkdown, FormatGroffHTML} {
		if _, err := c.Convert(ctx, Input{Source: lsPage, Format: format}); !errors.Is(err, context.Canceled) {
			t.Errorf("Convert(%v) error = %v, want context.Canceled", format, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestDrainStream - Aborted troff conversions
// ---------------------------------------------------------------------------

func TestDrainStream_Aborted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		mode          FailureMode
		wantTruncated bool
		wantSuffix    string
	}{
		{name: "close on error", mode: CloseOnError, wantSuffix: "</html>\n"},
		{name: "truncate on error", mode: TruncateOnError, wantTruncated: true, wantSuffix: "<h2>NAME</h2>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestConverter(t, WithOnError(tt.mode))
			src := &failingSource{lines: []string{".TH LS 1", ".SH NAME"}}
			s := troff.NewStream(src, c.streamOptions(Input{}))

			res, html, err := c.drainStream(context.Background(), s, &ConvertResult{Format: FormatTroff})
			if !errors.Is(err, ErrConversionAborted) {
				t.Fatalf("drainStream() error = %v, want ErrConversionAborted", err)
			}
			if res == nil || res.Title != "LS" || res.Truncated != tt.wantTruncated {
				t.Errorf("result = %+v", res)
			}
			if !strings.HasSuffix(html, tt.wantSuffix) {
				t.Errorf("partial HTML should end with %q:\n%s", tt.wantSuffix, html)
			}
		})
	}
}

func TestStreamReader_ReadError(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t)
	s := c.StreamReader(iotest.ErrReader(errors.New("disk gone")), Input{})

	_, _, err := c.drainStream(context.Background(), s, &ConvertResult{})
	if !errors.Is(err, ErrConversionAborted) || !strings.Contains(err.Error(), "disk gone") {
		t.Errorf("drainStream() error = %v", err)
	}
}

func TestStream_UsesConverterOptions(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t, WithDebug(true), WithHeadLines("<x>"))
	s := c.Stream(Input{Source: ".TH A 1\n.zz arg\n"})

	var out strings.Builder
	if _, err := s.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if !strings.Contains(out.String(), `<div class="error"><b>.zz</b>arg</div>`) {
		t.Errorf("debug marker missing:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "\t<x>\n") {
		t.Errorf("head line missing:\n%s", out.String())
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	mock := &mockPDFConverter{}
	c, err := NewConverter(withPDFConverter(mock))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !mock.closed {
		t.Error("Close() did not close the PDF backend")
	}
}

func TestSplitPageTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, name, section string
	}{
		{"LS(1)", "LS", "1"},
		{"printf (3p)", "printf", "3p"},
		{"Manual", "Manual", ""},
		{"odd(", "odd(", ""},
	}
	for _, tt := range tests {
		name, section := splitPageTitle(tt.in)
		if name != tt.name || section != tt.section {
			t.Errorf("splitPageTitle(%q) = %q, %q; want %q, %q", tt.in, name, section, tt.name, tt.section)
		}
	}
}
