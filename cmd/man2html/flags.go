package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config      string
	quiet       bool
	verbose     bool
	printConfig bool
}

// inputFlags select and locate the pages.
type inputFlags struct {
	format  string
	section string
	manPath []string
	lang    string
	langSet bool // --lang was given, even empty
}

// renderFlags control the HTML document.
type renderFlags struct {
	debug     bool
	onError   string
	style     string
	noStyle   bool
	assetPath string
	head      []string
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled bool
	title   string
}

// xrefFlags holds cross-reference flags.
type xrefFlags struct {
	enabled bool
	url     string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	enabled    bool
	position   string
	date       string
	text       string
	pageNumber bool
}

// pdfFlags holds PDF output flags.
type pdfFlags struct {
	enabled bool
	page    pageFlags
	footer  footerFlags
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	timeout string
	version bool
	input   inputFlags
	render  renderFlags
	toc     tocFlags
	xref    xrefFlags
	pdf     pdfFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective configuration and exit")
}

// addInputFlags adds page lookup flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "source format: auto, troff, markdown, groff-html")
	fs.StringVarP(&f.section, "section", "s", "", "manual section for bare page names")
	fs.StringArrayVar(&f.manPath, "man-path", nil, "manual page root (repeatable)")
	fs.StringVar(&f.lang, "lang", "", "page language, such as de or pt_BR (\"\" = untranslated)")
}

// addRenderFlags adds HTML rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVarP(&f.debug, "debug", "d", false, "mark unsupported macros in the output")
	fs.StringVar(&f.onError, "on-error", "", "output after an internal error: close, truncate")
	fs.StringVar(&f.style, "style", "", "CSS style name, file path, or inline CSS")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringArrayVar(&f.head, "head", nil, "raw HTML line added to <head> (repeatable)")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "add a table of contents")
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
}

// addXRefFlags adds cross-reference flags to a FlagSet.
func addXRefFlags(fs *flag.FlagSet, f *xrefFlags) {
	fs.BoolVar(&f.enabled, "xref", false, "link page references and section names")
	fs.StringVar(&f.url, "xref-url", "", "page link pattern with {name} and {section}")
}

// addPDFFlags adds PDF flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.BoolVar(&f.enabled, "pdf", false, "write PDF instead of HTML (requires Chrome)")
	fs.StringVarP(&f.page.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.page.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.page.margin, "margin", 0, "page margin in inches (0.25-3.0)")
	fs.BoolVar(&f.footer.enabled, "footer", false, "print a footer with the page title")
	fs.StringVar(&f.footer.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.footer.date, "footer-date", "", "footer date: literal, auto[:FORMAT], page[:FORMAT]")
	fs.StringVar(&f.footer.text, "footer-text", "", "custom footer text")
	fs.BoolVar(&f.footer.pageNumber, "footer-page-number", false, "show page numbers in footer")
}

// registerConvertFlags binds every convert flag to f.
func registerConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.version, "version", false, "show version information")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addInputFlags(fs, &f.input)
	addRenderFlags(fs, &f.render)
	addTOCFlags(fs, &f.toc)
	addXRefFlags(fs, &f.xref)
	addPDFFlags(fs, &f.pdf)
}

// parseConvertFlags parses convert command flags and returns positional
// args. Parse errors and usage go to stderr.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &convertFlags{}
	registerConvertFlags(fs, f)

	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.input.langSet = fs.Changed("lang")

	return f, fs.Args(), nil
}
