package main

import (
	"log/slog"
	"time"

	"github.com/alnah/go-man2html"
	"github.com/alnah/go-man2html/internal/config"
)

// conversionParams groups the Input fields shared by every page of a run.
type conversionParams struct {
	format    man2html.Format
	toc       *man2html.TOC
	crossRefs *man2html.CrossRefs
	pdf       bool
	page      *man2html.PageSettings
	footer    *man2html.Footer
}

// buildParams creates the shared conversion parameters from config.
// Flags are merged into config by mergeFlags before this is called.
func buildParams(cfg *config.Config) (*conversionParams, error) {
	format, err := man2html.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	params := &conversionParams{
		format: format,
		toc:    buildTOC(cfg),
		pdf:    cfg.PDF.Enabled,
	}

	if params.crossRefs, err = buildCrossRefs(cfg); err != nil {
		return nil, err
	}
	if !params.pdf {
		return params, nil
	}
	if params.page, err = buildPageSettings(cfg); err != nil {
		return nil, err
	}
	if params.footer, err = buildFooter(cfg); err != nil {
		return nil, err
	}
	return params, nil
}

// buildTOC returns nil unless the table of contents is enabled.
func buildTOC(cfg *config.Config) *man2html.TOC {
	if !cfg.TOC.Enabled {
		return nil
	}
	return &man2html.TOC{Title: cfg.TOC.Title}
}

// buildCrossRefs returns nil unless linking is enabled.
func buildCrossRefs(cfg *config.Config) (*man2html.CrossRefs, error) {
	if !cfg.XRef.Enabled {
		return nil, nil
	}
	x := &man2html.CrossRefs{URLPattern: cfg.XRef.URLPattern}
	if err := x.Validate(); err != nil {
		return nil, err
	}
	return x, nil
}

// buildPageSettings creates man2html.PageSettings from config, filling
// unset fields with defaults. Without any page setting it returns nil.
func buildPageSettings(cfg *config.Config) (*man2html.PageSettings, error) {
	page := cfg.PDF.Page
	if page.Size == "" && page.Orientation == "" && page.Margin == 0 {
		return nil, nil
	}

	ps := man2html.DefaultPageSettings()
	if page.Size != "" {
		ps.Size = page.Size
	}
	if page.Orientation != "" {
		ps.Orientation = page.Orientation
	}
	if page.Margin != 0 {
		ps.Margin = page.Margin
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// buildFooter returns nil unless the footer is enabled.
func buildFooter(cfg *config.Config) (*man2html.Footer, error) {
	if !cfg.PDF.Footer.Enabled {
		return nil, nil
	}
	f := &man2html.Footer{
		Position:       cfg.PDF.Footer.Position,
		ShowPageNumber: cfg.PDF.Footer.ShowPageNumber,
		Date:           cfg.PDF.Footer.Date,
		Text:           cfg.PDF.Footer.Text,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// converterOptions translates config into options for every converter of
// the pool.
func converterOptions(cfg *config.Config, noStyle bool, timeout time.Duration, logger *slog.Logger) ([]man2html.Option, error) {
	onError, err := man2html.ParseFailureMode(cfg.OnError)
	if err != nil {
		return nil, err
	}

	opts := []man2html.Option{
		man2html.WithDebug(cfg.Debug),
		man2html.WithOnError(onError),
		man2html.WithLogger(logger),
	}

	switch {
	case noStyle:
		opts = append(opts, man2html.WithStyle(""))
	case cfg.Style != "":
		opts = append(opts, man2html.WithStyle(cfg.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, man2html.WithAssetPath(cfg.Assets.BasePath))
	}
	if len(cfg.Head) > 0 {
		opts = append(opts, man2html.WithHeadLines(cfg.Head...))
	}
	if timeout > 0 {
		opts = append(opts, man2html.WithTimeout(timeout))
	}
	return opts, nil
}
