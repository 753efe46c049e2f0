package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes a YAML file into dir and returns its path.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const fullConfig = `
debug: true
onError: truncate
format: troff
style: dark
assets:
  basePath: ./assets
head:
  - <link rel="icon" href="/favicon.ico">
toc:
  enabled: true
  title: Sections
xref:
  enabled: true
  urlPattern: /man/{section}/{name}
manPath:
  roots: [/usr/share/man, /opt/man]
  lang: de_DE
output:
  defaultDir: ./out
pdf:
  enabled: true
  page:
    size: a4
    orientation: landscape
    margin: 0.75
  footer:
    enabled: true
    position: center
    showPageNumber: true
    date: page:long
    text: Reference
workers: 3
timeout: 45s
`

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading
// ---------------------------------------------------------------------------

func TestLoadConfig_Full(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "full.yaml", fullConfig)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	checks := []struct {
		field string
		got   any
		want  any
	}{
		{"debug", cfg.Debug, true},
		{"onError", cfg.OnError, "truncate"},
		{"format", cfg.Format, "troff"},
		{"style", cfg.Style, "dark"},
		{"assets.basePath", cfg.Assets.BasePath, "./assets"},
		{"head", len(cfg.Head), 1},
		{"toc.enabled", cfg.TOC.Enabled, true},
		{"toc.title", cfg.TOC.Title, "Sections"},
		{"xref.urlPattern", cfg.XRef.URLPattern, "/man/{section}/{name}"},
		{"manPath.roots", len(cfg.ManPath.Roots), 2},
		{"manPath.lang", cfg.ManPath.Lang, "de_DE"},
		{"output.defaultDir", cfg.Output.DefaultDir, "./out"},
		{"pdf.enabled", cfg.PDF.Enabled, true},
		{"pdf.page.size", cfg.PDF.Page.Size, "a4"},
		{"pdf.page.margin", cfg.PDF.Page.Margin, 0.75},
		{"pdf.footer.position", cfg.PDF.Footer.Position, "center"},
		{"pdf.footer.date", cfg.PDF.Footer.Date, "page:long"},
		{"workers", cfg.Workers, 3},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
		}
	}

	d, err := cfg.TimeoutDuration()
	if err != nil || d != 45*time.Second {
		t.Errorf("TimeoutDuration() = %v, %v; want 45s", d, err)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "unknown field", content: "stlye: dark\n", wantErr: ErrConfigParse},
		{name: "malformed YAML", content: "toc: [\n", wantErr: ErrConfigParse},
		{name: "empty file", content: "", wantErr: ErrConfigParse},
		{name: "invalid onError", content: "onError: ignore\n", wantErr: ErrInvalidValue},
		{name: "invalid format", content: "format: pod\n", wantErr: ErrInvalidValue},
		{name: "invalid footer position", content: "pdf:\n  footer:\n    position: top\n", wantErr: ErrInvalidValue},
		{name: "invalid timeout", content: "timeout: soon\n", wantErr: ErrInvalidValue},
		{name: "toc title too long", content: "toc:\n  title: " + strings.Repeat("x", MaxTitleLength+1) + "\n", wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, dir, strings.ReplaceAll(tt.name, " ", "-")+".yaml", tt.content)
			_, err := LoadConfig(path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
		t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig(missing path) error = %v, want ErrConfigNotFound", err)
	}
	if _, err := LoadConfig("no-such-config-name-xyz"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig(missing name) error = %v, want ErrConfigNotFound", err)
	}
}

// Notes:
// - Name resolution tests change the working directory and XDG_CONFIG_HOME,
//   so they do not run in parallel.

func TestLoadConfig_ByName(t *testing.T) {
	work := t.TempDir()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(work)

	userDir := filepath.Join(xdg, AppName)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, userDir, "team.yml", "style: print\n")
	writeConfig(t, userDir, "local.yaml", "style: from-user-dir\n")
	writeConfig(t, work, "local.yaml", "style: from-cwd\n")

	tests := []struct {
		name      string
		wantStyle string
	}{
		{"team", "print"},
		{"local", "from-cwd"},
	}
	for _, tt := range tests {
		cfg, err := LoadConfig(tt.name)
		if err != nil {
			t.Fatalf("LoadConfig(%q) error = %v", tt.name, err)
		}
		if cfg.Style != tt.wantStyle {
			t.Errorf("LoadConfig(%q).Style = %q, want %q", tt.name, cfg.Style, tt.wantStyle)
		}
	}
}

func TestSearchPaths(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	got := SearchPaths("man")
	want := []string{
		"man.yaml",
		"man.yml",
		filepath.Join(xdg, AppName, "man.yaml"),
		filepath.Join(xdg, AppName, "man.yml"),
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("SearchPaths() = %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Field checks
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "zero config", cfg: Config{}},
		{name: "enum case-insensitive", cfg: Config{OnError: "TRUNCATE", Format: "Groff-HTML"}},
		{name: "xref pattern without name", cfg: Config{XRef: XRefConfig{URLPattern: "/man/{section}"}}, wantErr: ErrInvalidValue},
		{name: "negative workers", cfg: Config{Workers: -1}, wantErr: ErrInvalidValue},
		{name: "negative margin", cfg: Config{PDF: PDFConfig{Page: PageConfig{Margin: -1}}}, wantErr: ErrInvalidValue},
		{name: "zero timeout string", cfg: Config{Timeout: "0s"}, wantErr: ErrInvalidValue},
		{name: "bad footer date format", cfg: Config{PDF: PDFConfig{Footer: FooterConfig{Date: "auto:[YYYY"}}}, wantErr: errAny},
		{name: "too many head lines", cfg: Config{Head: make([]string, MaxHeadLines+1)}, wantErr: ErrInvalidValue},
		{name: "head line too long", cfg: Config{Head: []string{strings.Repeat("x", MaxHeadLineLength+1)}}, wantErr: ErrFieldTooLong},
		{name: "root too long", cfg: Config{ManPath: ManPathConfig{Roots: []string{strings.Repeat("x", MaxPathLength+1)}}}, wantErr: ErrFieldTooLong},
		{name: "lang too long", cfg: Config{ManPath: ManPathConfig{Lang: strings.Repeat("x", MaxLangLength+1)}}, wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			switch {
			case tt.wantErr == nil && err != nil:
				t.Errorf("Validate() unexpected error: %v", err)
			case tt.wantErr == errAny && err == nil:
				t.Error("Validate() expected an error")
			case tt.wantErr != nil && tt.wantErr != errAny && !errors.Is(err, tt.wantErr):
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// errAny marks cases where only the presence of an error matters.
var errAny = errors.New("any error")

func TestConfig_YAML(t *testing.T) {
	t.Parallel()

	cfg := &Config{Style: "print", TOC: TOCConfig{Enabled: true}}
	out, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}
	for _, want := range []string{"style: print", "enabled: true", "manPath:"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML() output missing %q:\n%s", want, out)
		}
	}
}
