// Package config loads the YAML configuration of the man2html CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-man2html/internal/dateutil"
	"github.com/alnah/go-man2html/internal/fileutil"
	"github.com/alnah/go-man2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName names the directory searched under the user config directory.
const AppName = "go-man2html"

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxStyleLength       = 4096 // a name, a path or inline CSS
	MaxHeadLineLength    = 2048
	MaxHeadLines         = 32
	MaxTitleLength       = 100
	MaxURLPatternLength  = 2048
	MaxLangLength        = 32
	MaxDateLength        = 60
	MaxTextLength        = 500
	MaxPageSizeLength    = 10
	MaxOrientationLength = 10
)

// Accepted enumerations.
var (
	OnErrorValues  = []string{"close", "truncate"}
	FormatValues   = []string{"auto", "troff", "markdown", "groff-html"}
	PositionValues = []string{"left", "center", "right"}
)

// Config holds all CLI configuration. Zero values mean "use the default".
type Config struct {
	Debug   bool          `yaml:"debug"`
	OnError string        `yaml:"onError"` // "close" (default) or "truncate"
	Format  string        `yaml:"format"`  // "auto" (default), "troff", "markdown", "groff-html"
	Style   string        `yaml:"style"`   // built-in name, file path or inline CSS
	Assets  AssetsConfig  `yaml:"assets"`
	Head    []string      `yaml:"head"` // raw HTML lines added after <title>
	TOC     TOCConfig     `yaml:"toc"`
	XRef    XRefConfig    `yaml:"xref"`
	ManPath ManPathConfig `yaml:"manPath"`
	Output  OutputConfig  `yaml:"output"`
	PDF     PDFConfig     `yaml:"pdf"`
	Workers int           `yaml:"workers"` // 0 = derived from GOMAXPROCS
	Timeout string        `yaml:"timeout"` // Go duration, e.g. "45s"
}

// AssetsConfig defines where custom styles are looked up.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // directory holding styles/<name>.css
}

// TOCConfig defines the table of contents.
type TOCConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"` // empty = "Contents"
}

// XRefConfig defines cross-reference linking.
type XRefConfig struct {
	Enabled    bool   `yaml:"enabled"`
	URLPattern string `yaml:"urlPattern"` // {name} and {section} placeholders
}

// ManPathConfig defines where page references are resolved.
type ManPathConfig struct {
	Roots []string `yaml:"roots"` // empty = $MANPATH or system roots
	Lang  string   `yaml:"lang"`  // empty = from the locale
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = stdout for one page, cwd for several
}

// PDFConfig defines PDF output.
type PDFConfig struct {
	Enabled bool         `yaml:"enabled"`
	Page    PageConfig   `yaml:"page"`
	Footer  FooterConfig `yaml:"footer"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches
}

// FooterConfig defines the PDF page footer.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"` // "left", "center", "right"
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Date           string `yaml:"date"` // literal, "auto[:FORMAT]" or "page[:FORMAT]"
	Text           string `yaml:"text"`
}

// DefaultConfig returns a configuration with every feature disabled.
func DefaultConfig() *Config {
	return &Config{}
}

// TimeoutDuration parses Timeout. An empty value returns 0.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: timeout %q (use a positive duration such as 45s)", ErrInvalidValue, c.Timeout)
	}
	return d, nil
}

// Validate checks enumerations, lengths and formats. LoadConfig calls it;
// callers building a Config by hand should too.
func (c *Config) Validate() error {
	checks := []error{
		validateEnum("onError", c.OnError, OnErrorValues),
		validateEnum("format", c.Format, FormatValues),
		validateFieldLength("style", c.Style, MaxStyleLength),
		validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength),
		validateFieldLength("toc.title", c.TOC.Title, MaxTitleLength),
		validateFieldLength("xref.urlPattern", c.XRef.URLPattern, MaxURLPatternLength),
		validateFieldLength("manPath.lang", c.ManPath.Lang, MaxLangLength),
		validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength),
		validateFieldLength("pdf.page.size", c.PDF.Page.Size, MaxPageSizeLength),
		validateFieldLength("pdf.page.orientation", c.PDF.Page.Orientation, MaxOrientationLength),
		validateEnum("pdf.footer.position", c.PDF.Footer.Position, PositionValues),
		validateFieldLength("pdf.footer.date", c.PDF.Footer.Date, MaxDateLength),
		validateFieldLength("pdf.footer.text", c.PDF.Footer.Text, MaxTextLength),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	if len(c.Head) > MaxHeadLines {
		return fmt.Errorf("%w: head has %d lines (max %d)", ErrInvalidValue, len(c.Head), MaxHeadLines)
	}
	for i, line := range c.Head {
		if err := validateFieldLength(fmt.Sprintf("head[%d]", i), line, MaxHeadLineLength); err != nil {
			return err
		}
	}
	for i, root := range c.ManPath.Roots {
		if err := validateFieldLength(fmt.Sprintf("manPath.roots[%d]", i), root, MaxPathLength); err != nil {
			return err
		}
	}

	if p := c.XRef.URLPattern; p != "" && !strings.Contains(p, "{name}") {
		return fmt.Errorf("%w: xref.urlPattern %q must contain {name}", ErrInvalidValue, p)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidValue, c.Workers)
	}
	if c.PDF.Page.Margin < 0 {
		return fmt.Errorf("%w: pdf.page.margin must not be negative, got %.2f", ErrInvalidValue, c.PDF.Page.Margin)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := dateutil.ResolveDate(c.PDF.Footer.Date, "", time.Time{}); err != nil {
		return fmt.Errorf("pdf.footer.date: %w", err)
	}
	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateEnum accepts an empty value or one of allowed, case-insensitively.
func validateEnum(fieldName, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// LoadConfig loads a configuration from a file path or a config name.
// A value containing a path separator is a path; a name is searched with
// the .yaml and .yml extensions in the current directory, then in the
// user config directory. A missing file is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SearchPaths lists the files tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, 2*len(extensions))
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := userConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppName, name+ext))
		}
	}
	return paths
}

// userConfigDir prefers $XDG_CONFIG_HOME on every platform.
func userConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	return os.UserConfigDir()
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// YAML encodes the configuration, for --print-config.
func (c *Config) YAML() (string, error) {
	data, err := yamlutil.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
