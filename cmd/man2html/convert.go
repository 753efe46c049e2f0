package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alnah/go-man2html"
	"github.com/alnah/go-man2html/internal/config"
	"github.com/alnah/go-man2html/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no page specified")
	ErrReadPage           = errors.New("failed to read page")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrTerminalOutput     = errors.New("refusing to write PDF to a terminal")
)

// hintError appends an actionable hint to an error message.
type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() + e.hint }
func (e *hintError) Unwrap() error { return e.err }

// withHint attaches hint to err. An empty hint returns err unchanged.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintError{err: err, hint: hint}
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment, logger *slog.Logger) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	// Load configuration: CLI flags > env vars > config file > defaults
	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateWorkers(cfg.Workers); err != nil {
		return err
	}

	if flags.common.printConfig {
		out, err := cfg.YAML()
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Fprint(env.Stdout, out)
		return nil
	}

	if len(positionalArgs) == 0 {
		return ErrNoInput
	}

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg.Timeout)
	if err != nil {
		return err
	}

	params, err := buildParams(cfg)
	if err != nil {
		return err
	}
	lookup := resolveLookup(flags, cfg)

	jobs, err := planJobs(positionalArgs, flags.output, cfg, params.pdf, lookup, env)
	if err != nil {
		return err
	}

	opts, err := converterOptions(cfg, flags.render.noStyle, timeout, logger)
	if err != nil {
		return err
	}

	workers := min(man2html.ResolvePoolSize(cfg.Workers), len(jobs))
	pool := env.NewPool(workers, opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing converters", slog.Any("error", err))
		}
	}()

	logger.Debug("starting conversion",
		slog.Int("pages", len(jobs)),
		slog.Int("workers", workers),
		slog.Bool("pdf", params.pdf))

	results := convertBatch(ctx, pool, jobs, params, lookup, env)
	return printResults(results, flags.common.quiet, flags.common.verbose, env)
}

// loadConfig loads the config named by the flag, or by MAN2HTML_CONFIG.
// Without either, the defaults apply.
func loadConfig(name string, envCfg *envConfig) (*config.Config, error) {
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		err = fmt.Errorf("loading config: %w", err)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, withHint(err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, err
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Rendering flags
	if flags.render.debug {
		cfg.Debug = true
	}
	if flags.render.onError != "" {
		cfg.OnError = flags.render.onError
	}
	if flags.input.format != "" {
		cfg.Format = flags.input.format
	}
	if flags.render.style != "" {
		cfg.Style = flags.render.style
	}
	if flags.render.assetPath != "" {
		cfg.Assets.BasePath = flags.render.assetPath
	}
	cfg.Head = append(cfg.Head, flags.render.head...)

	// Man path flags (lang is resolved in resolveLookup)
	if len(flags.input.manPath) > 0 {
		cfg.ManPath.Roots = flags.input.manPath
	}

	// TOC and cross-reference flags
	if flags.toc.enabled {
		cfg.TOC.Enabled = true
	}
	if flags.toc.title != "" {
		cfg.TOC.Title = flags.toc.title
	}
	if flags.xref.enabled {
		cfg.XRef.Enabled = true
	}
	if flags.xref.url != "" {
		cfg.XRef.URLPattern = flags.xref.url
		cfg.XRef.Enabled = true
	}

	// PDF flags
	if flags.pdf.enabled {
		cfg.PDF.Enabled = true
	}
	if flags.pdf.page.size != "" {
		cfg.PDF.Page.Size = flags.pdf.page.size
	}
	if flags.pdf.page.orientation != "" {
		cfg.PDF.Page.Orientation = flags.pdf.page.orientation
	}
	if flags.pdf.page.margin > 0 {
		cfg.PDF.Page.Margin = flags.pdf.page.margin
	}

	// Footer flags
	if flags.pdf.footer.enabled {
		cfg.PDF.Footer.Enabled = true
	}
	if flags.pdf.footer.position != "" {
		cfg.PDF.Footer.Position = flags.pdf.footer.position
	}
	if flags.pdf.footer.date != "" {
		cfg.PDF.Footer.Date = flags.pdf.footer.date
	}
	if flags.pdf.footer.text != "" {
		cfg.PDF.Footer.Text = flags.pdf.footer.text
	}
	if flags.pdf.footer.pageNumber {
		cfg.PDF.Footer.ShowPageNumber = true
		cfg.PDF.Footer.Enabled = true
	}

	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
}

// resolveTimeoutWithEnv picks the PDF timeout: flag, then environment,
// then config. Zero keeps the library default.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration, cfgValue string) (time.Duration, error) {
	if flagValue != "" {
		return parseTimeout(flagValue)
	}
	if envValue > 0 {
		return envValue, nil
	}
	if cfgValue != "" {
		return parseTimeout(cfgValue)
	}
	return 0, nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (use a duration such as 30s or 2m)", ErrInvalidTimeout, s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, s)
	}
	return d, nil
}

// validateWorkers checks the --workers value.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > man2html.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, man2html.MaxPoolSize)
	}
	return nil
}
