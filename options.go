package man2html

import (
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings applied by options.
type converterConfig struct {
	timeout    time.Duration
	debug      bool
	onError    FailureMode
	headLines  []string
	assetPath  string
	styleInput string
	styleSet   bool
	now        func() time.Time
}

// defaultTimeout bounds browser page loads.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("man2html: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithDebug renders unsupported macros and conditionals as visible error
// markers.
func WithDebug(debug bool) Option {
	return func(c *Converter) {
		c.cfg.debug = debug
	}
}

// WithOnError selects the output of a troff conversion that fails midway.
func WithOnError(mode FailureMode) Option {
	return func(c *Converter) {
		c.cfg.onError = mode
	}
}

// WithLogger sets the logger receiving conversion diagnostics. The default
// discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStyle selects the stylesheet: a built-in name ("default", "dark",
// "print"), a file path, or inline CSS. An empty string disables styling.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
		c.cfg.styleSet = true
	}
}

// WithAssetPath adds a directory of custom styles (styles/<name>.css)
// searched before the built-in ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithHeadLines adds raw HTML lines, such as <link> elements, to the head
// of every page.
func WithHeadLines(lines ...string) Option {
	return func(c *Converter) {
		c.cfg.headLines = append(c.cfg.headLines, lines...)
	}
}

// withClock replaces time.Now for footer dates in tests.
func withClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.cfg.now = now
	}
}
