package man2html

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-man2html/internal/assets"
	"github.com/alnah/go-man2html/internal/dateutil"
	"github.com/alnah/go-man2html/internal/pipeline"
	"github.com/alnah/go-man2html/internal/troff"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.ManualPagePreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.TOCInjector          = (*pipeline.TOCInjection)(nil)
	_ pipeline.CrossRefInjector     = (*pipeline.CrossRefLinker)(nil)
	_ pdfConverter                  = (*rodConverter)(nil)
	_ pdfRenderer                   = (*rodRenderer)(nil)
)

// Stream is the lazy troff conversion of one page. Next returns one HTML
// line per call and pulls source lines only as needed.
type Stream = troff.Stream

// Converter orchestrates the manual page to HTML (and PDF) pipeline.
// Create with NewConverter, use Convert, and Close when done.
// A Converter is safe for sequential use; use a ConverterPool for
// parallel conversions.
type Converter struct {
	cfg    converterConfig
	logger *slog.Logger

	style        string
	printStyle   string
	preprocessor pipeline.MarkdownPreprocessor
	mdConverter  pipeline.HTMLConverter
	groffCleaner *pipeline.GroffHTMLCleaner
	cssInjector  pipeline.CSSInjector
	tocInjector  pipeline.TOCInjector
	xrefLinker   pipeline.CrossRefInjector
	pdfConverter pdfConverter
}

// NewConverter creates a Converter. Without WithStyle the built-in
// "default" style is used. Returns an error if the style or the asset
// path cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:          converterConfig{timeout: defaultTimeout, now: time.Now},
		logger:       slog.New(slog.DiscardHandler),
		preprocessor: &pipeline.ManualPagePreprocessor{},
		mdConverter:  pipeline.NewGoldmarkConverter(),
		groffCleaner: pipeline.NewGroffHTMLCleaner(),
		cssInjector:  &pipeline.CSSInjection{},
		tocInjector:  pipeline.NewTOCInjection(),
		xrefLinker:   pipeline.NewCrossRefLinker(),
	}

	for _, opt := range opts {
		opt(c)
	}

	styles, err := assets.NewResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	if !c.cfg.styleSet {
		c.cfg.styleInput = assets.DefaultStyleName
	}
	if c.style, err = styles.Resolve(c.cfg.styleInput); err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, c.cfg.styleInput)
		}
		return nil, fmt.Errorf("loading style %q: %w", c.cfg.styleInput, err)
	}
	if c.printStyle, err = styles.LoadStyle(assets.PrintStyleName); err != nil {
		return nil, fmt.Errorf("loading print style: %w", err)
	}

	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}
	return c, nil
}

// Stream returns the lazy troff conversion of input.Source, configured
// with the converter's debug, failure and head-line settings. No style,
// table of contents or links are applied.
func (c *Converter) Stream(input Input) *Stream {
	return troff.NewStream(troff.SplitLines(input.Source), c.streamOptions(input))
}

// StreamReader is like Stream but reads the page from r line by line.
func (c *Converter) StreamReader(r io.Reader, input Input) *Stream {
	return troff.NewStream(troff.NewScanner(r), c.streamOptions(input))
}

func (c *Converter) streamOptions(input Input) troff.Options {
	return troff.Options{
		Debug:     c.cfg.debug,
		HeadLines: c.headLines(input),
		OnError:   c.cfg.onError,
		Logger:    c.logger,
	}
}

func (c *Converter) headLines(input Input) []string {
	return slices.Concat(c.cfg.headLines, input.HeadLines)
}

// Convert runs the pipeline: format conversion, style, table of contents,
// cross-reference links, then PDF rendering when requested.
//
// A troff page that stops on an internal error returns the partial result
// together with an error wrapping ErrConversionAborted. Panics elsewhere
// in the pipeline are returned as errors wrapping ErrInternal.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	start := time.Now()
	res, htmlContent, convErr := c.toHTML(ctx, input)
	if convErr != nil && !errors.Is(convErr, ErrConversionAborted) {
		return nil, convErr
	}

	htmlContent, err = c.decorate(ctx, htmlContent, c.style+cssSeparator(input.CSS)+input.CSS, input)
	if err != nil {
		return nil, err
	}
	res.HTML = []byte(htmlContent)

	if convErr != nil {
		return res, convErr
	}

	if input.PDF {
		if res.PDF, err = c.renderPDF(ctx, htmlContent, res, input); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("page converted",
		slog.String("page", res.PageTitle()),
		slog.String("format", res.Format.String()),
		slog.Int("html_bytes", len(res.HTML)),
		slog.Int("pdf_bytes", len(res.PDF)),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

func cssSeparator(extra string) string {
	if extra == "" {
		return ""
	}
	return "\n"
}

// toHTML converts the source by format into a complete document.
func (c *Converter) toHTML(ctx context.Context, input Input) (*ConvertResult, string, error) {
	format := input.Format
	if format == FormatAuto {
		format = DetectFormat(input.Name, input.Source)
	}
	res := &ConvertResult{Format: format}

	switch format {
	case FormatMarkdown:
		md, header := c.preprocessor.PreprocessMarkdown(ctx, input.Source)
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		res.Title, res.Section = header.Name, header.Section
		out, err := c.mdConverter.ToHTML(ctx, md, pipeline.DocumentHead{
			Title:     header.Title(),
			HeadLines: c.headLines(input),
		})
		if err != nil {
			return nil, "", fmt.Errorf("converting Markdown page: %w", err)
		}
		return res, out, nil

	case FormatGroffHTML:
		out, err := c.groffCleaner.Clean(ctx, input.Source, c.headLines(input))
		if err != nil {
			return nil, "", fmt.Errorf("cleaning groff HTML: %w", err)
		}
		res.Title, res.Section = splitPageTitle(pipeline.DocumentTitle(out))
		return res, out, nil

	default:
		return c.drainStream(ctx, c.Stream(input), res)
	}
}

// drainStream collects a troff stream, checking ctx between lines.
func (c *Converter) drainStream(ctx context.Context, s *Stream, res *ConvertResult) (*ConvertResult, string, error) {
	var b strings.Builder
	for line := range s.All() {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		b.WriteString(line)
	}

	res.Title, res.Section, res.Date = s.Title(), s.Section(), s.Date()
	res.Truncated = s.Truncated()
	if err := s.Err(); err != nil {
		return res, b.String(), fmt.Errorf("%w: %s: %v", ErrConversionAborted, res.PageTitle(), err)
	}
	return res, b.String(), nil
}

// splitPageTitle splits "LS(1)" into its name and section.
func splitPageTitle(title string) (string, string) {
	name, rest, ok := strings.Cut(title, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return title, ""
	}
	return strings.TrimSpace(name), strings.TrimSuffix(rest, ")")
}

// decorate applies CSS, the table of contents and the links.
func (c *Converter) decorate(ctx context.Context, htmlContent, css string, input Input) (string, error) {
	if css != "" {
		htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, css)
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}

	var err error
	if input.TOC != nil {
		htmlContent, err = c.tocInjector.InjectTOC(ctx, htmlContent, &pipeline.TOCData{Title: input.TOC.Title})
		if err != nil {
			return "", fmt.Errorf("injecting table of contents: %w", err)
		}
	}
	if input.CrossRefs != nil {
		htmlContent, err = c.xrefLinker.LinkCrossRefs(ctx, htmlContent, &pipeline.CrossRefData{URLPattern: input.CrossRefs.URLPattern})
		if err != nil {
			return "", fmt.Errorf("linking cross references: %w", err)
		}
	}
	return htmlContent, nil
}

// renderPDF prints the page with the print style appended.
func (c *Converter) renderPDF(ctx context.Context, htmlContent string, res *ConvertResult, input Input) ([]byte, error) {
	printable := c.cssInjector.InjectCSS(ctx, htmlContent, c.printStyle)

	opts := &pdfOptions{Page: input.Page}
	if input.Footer != nil {
		date, err := dateutil.ResolveDate(input.Footer.Date, res.Date, c.cfg.now())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFooterDate, err)
		}
		opts.Footer = &footerData{
			Position:       strings.ToLower(input.Footer.Position),
			ShowPageNumber: input.Footer.ShowPageNumber,
			Title:          res.PageTitle(),
			Date:           date,
			Text:           input.Footer.Text,
		}
	}

	pdf, err := c.pdfConverter.ToPDF(ctx, printable, opts)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	return pdf, nil
}

// Close releases the headless browser, if one was started.
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// validateInput checks an Input built by a library user. The CLI validates
// its configuration earlier; both paths meet here.
func validateInput(input Input) error {
	if input.Source == "" {
		return ErrEmptySource
	}
	if _, ok := formatNames[input.Format]; !ok {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, input.Format)
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Footer.Validate(); err != nil {
		return err
	}
	return input.CrossRefs.Validate()
}
