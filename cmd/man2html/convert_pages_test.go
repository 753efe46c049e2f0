package main

// Notes:
// - resolveOutput/planJobs: we test the directory, file and stdout modes.
// - resolvePage: we test stdin, existing files and man path references.
// - resolveLookup: language precedence reads the locale only in the
//   default case, which is not asserted since it depends on the host.

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-man2html/internal/config"
	"github.com/alnah/go-man2html/internal/fileutil"
	"github.com/alnah/go-man2html/internal/manpath"
)

// ---------------------------------------------------------------------------
// TestResolveOutput - Output mode selection
// ---------------------------------------------------------------------------

func TestResolveOutput(t *testing.T) {
	t.Parallel()

	existing := t.TempDir()

	tests := []struct {
		name       string
		output     string
		defaultDir string
		pages      int
		wantDir    string
		wantFile   string
	}{
		{name: "one page to stdout", pages: 1},
		{name: "one page to file", output: "ls.html", pages: 1, wantFile: "ls.html"},
		{name: "trailing slash is a directory", output: "out/", pages: 1, wantDir: "out/"},
		{name: "existing directory", output: existing, pages: 1, wantDir: existing},
		{name: "several pages to -o", output: "out", pages: 3, wantDir: "out"},
		{name: "several pages default to cwd", pages: 2, wantDir: "."},
		{name: "config default directory", defaultDir: "/srv/man", pages: 1, wantDir: "/srv/man"},
		{name: "flag wins over default", output: "x.html", defaultDir: "/srv/man", pages: 1, wantFile: "x.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir, file := resolveOutput(tt.output, tt.defaultDir, tt.pages)
			if dir != tt.wantDir || file != tt.wantFile {
				t.Errorf("resolveOutput = (%q, %q), want (%q, %q)", dir, file, tt.wantDir, tt.wantFile)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolvePage - Argument resolution
// ---------------------------------------------------------------------------

func TestResolvePage(t *testing.T) {
	t.Parallel()

	root := manRoot(t)
	file := writePage(t, t.TempDir(), "local.1", ".TH LOCAL 1\n")
	lookup := pageLookup{roots: []string{root}}

	tests := []struct {
		name    string
		arg     string
		lookup  pageLookup
		want    string
		wantErr error
	}{
		{name: "stdin", arg: "-", lookup: lookup, want: ""},
		{name: "existing file", arg: file, lookup: lookup, want: file},
		{name: "reference", arg: "ls(1)", lookup: lookup, want: filepath.Join(root, "man1", "ls.1")},
		{name: "section default", arg: "mount", lookup: pageLookup{roots: []string{root}, section: "8"},
			want: filepath.Join(root, "man8", "mount.8")},
		{name: "explicit section beats default", arg: "ls.1", lookup: pageLookup{roots: []string{root}, section: "8"},
			want: filepath.Join(root, "man1", "ls.1")},
		{name: "missing path", arg: "dir/missing.1", lookup: lookup, wantErr: ErrReadPage},
		{name: "missing reference", arg: "nope(1)", lookup: lookup, wantErr: manpath.ErrPageNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolvePage(tt.arg, tt.lookup)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolvePage_MissingPathIsNotExist(t *testing.T) {
	t.Parallel()

	_, err := resolvePage("dir/missing.1", pageLookup{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist in chain", err)
	}
}

// ---------------------------------------------------------------------------
// TestResolveLookup - Man path settings
// ---------------------------------------------------------------------------

func TestResolveLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		cfgLang  string
		cfgRoots []string
		wantLang string
	}{
		{name: "explicit empty lang", args: []string{"--lang="}, cfgLang: "de", wantLang: ""},
		{name: "flag lang", args: []string{"--lang", "fr"}, cfgLang: "de", wantLang: "fr"},
		{name: "config lang", cfgLang: "pt_BR", wantLang: "pt_BR"},
		{name: "C locale", cfgLang: "C", wantLang: ""},
		{name: "POSIX locale", cfgLang: "POSIX", wantLang: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, _ := mustParseFlags(t, tt.args...)
			cfg := &config.Config{ManPath: config.ManPathConfig{Lang: tt.cfgLang, Roots: []string{"/r"}}}

			l := resolveLookup(f, cfg)
			if l.lang != tt.wantLang {
				t.Errorf("lang = %q, want %q", l.lang, tt.wantLang)
			}
			if len(l.roots) != 1 || l.roots[0] != "/r" {
				t.Errorf("roots = %v, want [/r]", l.roots)
			}
		})
	}
}

func TestResolveLookup_DefaultRoots(t *testing.T) {
	t.Parallel()

	f, _ := mustParseFlags(t, "-s", "5")
	l := resolveLookup(f, config.DefaultConfig())

	if len(l.roots) == 0 {
		t.Error("roots should fall back to the system man path")
	}
	if l.section != "5" {
		t.Errorf("section = %q, want 5", l.section)
	}
}

// ---------------------------------------------------------------------------
// TestPlanJobs - Job planning
// ---------------------------------------------------------------------------

func TestPlanJobs(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	page := writePage(t, t.TempDir(), "ls.1", ".TH LS 1\n")
	cfg := config.DefaultConfig()

	jobs, err := planJobs([]string{page, "missing(1)"}, "out", cfg, false, pageLookup{roots: []string{t.TempDir()}}, te.Environment)
	if err != nil {
		t.Fatalf("planJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].Path != page || jobs[0].OutputDir != "out" || jobs[0].Err != nil {
		t.Errorf("jobs[0] = %+v", jobs[0])
	}
	if !errors.Is(jobs[1].Err, manpath.ErrPageNotFound) {
		t.Errorf("jobs[1].Err = %v, want ErrPageNotFound", jobs[1].Err)
	}
}

func TestPlanJobs_TerminalOnlyBlocksPDF(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.IsTerminal = func(io.Writer) bool { return true }
	page := writePage(t, t.TempDir(), "ls.1", ".TH LS 1\n")
	cfg := config.DefaultConfig()

	if _, err := planJobs([]string{page}, "", cfg, false, pageLookup{}, te.Environment); err != nil {
		t.Errorf("HTML to a terminal should be allowed: %v", err)
	}
	if _, err := planJobs([]string{page}, "", cfg, true, pageLookup{}, te.Environment); !errors.Is(err, ErrTerminalOutput) {
		t.Errorf("PDF to a terminal: error = %v, want ErrTerminalOutput", err)
	}
	if _, err := planJobs([]string{page}, "ls.pdf", cfg, true, pageLookup{}, te.Environment); err != nil {
		t.Errorf("PDF to a file should be allowed: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestOutputPath - Output file naming
// ---------------------------------------------------------------------------

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		job     pageJob
		title   string
		section string
		ext     string
		want    string
		wantErr error
	}{
		{name: "explicit file", job: pageJob{Output: "x.html"}, ext: "html", want: "x.html"},
		{name: "stdout", job: pageJob{}, ext: "html", want: ""},
		{name: "file page", job: pageJob{Path: "/usr/share/man/man1/ls.1.gz", OutputDir: "out"}, ext: "pdf",
			want: filepath.Join("out", "ls.1.pdf")},
		{name: "stdin page uses title", job: pageJob{OutputDir: "out"}, title: "GIT-LOG", section: "1", ext: "html",
			want: filepath.Join("out", "git-log.1.html")},
		{name: "stdin page without title", job: pageJob{OutputDir: "out"}, ext: "html", wantErr: fileutil.ErrOutputName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := outputPath(tt.job, tt.title, tt.section, tt.ext)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("outputPath = %q, want %q", got, tt.want)
			}
		})
	}
}
