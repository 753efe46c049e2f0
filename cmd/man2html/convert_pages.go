package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-man2html/internal/config"
	"github.com/alnah/go-man2html/internal/fileutil"
	"github.com/alnah/go-man2html/internal/hints"
	"github.com/alnah/go-man2html/internal/manpath"
)

// stdinArg reads the page from standard input.
const stdinArg = "-"

// pageLookup holds where page references are resolved.
type pageLookup struct {
	roots   []string
	lang    string
	section string // applied to references without a section
}

// pageJob is one page to convert.
type pageJob struct {
	Arg  string // as given on the command line
	Path string // resolved page file; empty reads stdin

	// OutputDir is set when pages are written as <name>.<section> files.
	// Otherwise Output names the file, and an empty Output is stdout.
	OutputDir string
	Output    string

	Err error // resolution failure, reported as the page's result
}

// toStdout reports whether the page is written to standard output.
func (j pageJob) toStdout() bool {
	return j.OutputDir == "" && j.Output == ""
}

// resolveLookup builds the man path settings. An explicit --lang wins,
// even empty; "C" and "POSIX" in the config or environment mean
// untranslated pages; otherwise the locale decides.
func resolveLookup(flags *convertFlags, cfg *config.Config) pageLookup {
	l := pageLookup{
		roots:   cfg.ManPath.Roots,
		section: flags.input.section,
	}
	if len(l.roots) == 0 {
		l.roots = manpath.DefaultRoots()
	}

	switch {
	case flags.input.langSet:
		l.lang = flags.input.lang
	case cfg.ManPath.Lang == "C" || cfg.ManPath.Lang == "POSIX":
		l.lang = ""
	case cfg.ManPath.Lang != "":
		l.lang = cfg.ManPath.Lang
	default:
		l.lang = manpath.DefaultLang()
	}
	return l
}

// planJobs resolves every argument to a page and its destination.
// Pages that cannot be found become jobs carrying their error, so the
// rest of a batch still converts.
func planJobs(args []string, output string, cfg *config.Config, pdf bool, lookup pageLookup, env *Environment) ([]pageJob, error) {
	outDir, outFile := resolveOutput(output, cfg.Output.DefaultDir, len(args))

	if outDir == "" && outFile == "" && pdf && env.IsTerminal(env.Stdout) {
		return nil, fmt.Errorf("%w: use -o or redirect standard output", ErrTerminalOutput)
	}

	jobs := make([]pageJob, 0, len(args))
	for _, arg := range args {
		path, err := resolvePage(arg, lookup)
		jobs = append(jobs, pageJob{
			Arg:       arg,
			Path:      path,
			OutputDir: outDir,
			Output:    outFile,
			Err:       err,
		})
	}
	return jobs, nil
}

// resolveOutput decides between a directory, a single file and stdout.
// Several pages, a path ending in a separator, or an existing directory
// select directory mode; the config default directory applies when no
// -o is given.
func resolveOutput(output, defaultDir string, pages int) (dir, file string) {
	switch {
	case output == "" && defaultDir != "":
		return defaultDir, ""
	case output == "" && pages > 1:
		return ".", ""
	case output == "":
		return "", ""
	case pages > 1 || isDirPath(output):
		return output, ""
	}
	return "", output
}

func isDirPath(p string) bool {
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// resolvePage returns the file holding the page named by arg: stdin for
// "-", an existing file as is, otherwise a reference such as ls(1), ls.1
// or ls searched in the man path.
func resolvePage(arg string, lookup pageLookup) (string, error) {
	if arg == stdinArg {
		return "", nil
	}
	if fileutil.FileExists(arg) {
		return arg, nil
	}
	if !manpath.IsRef(arg) {
		return "", fmt.Errorf("%w: %s: %w", ErrReadPage, arg, os.ErrNotExist)
	}

	ref, err := manpath.ParseRef(arg)
	if err != nil {
		return "", err
	}
	if ref.Section == "" {
		ref.Section = lookup.section
	}

	path, err := manpath.Find(lookup.roots, lookup.lang, ref.Name, ref.Section)
	if err != nil {
		return "", withHint(err, hints.ForPageNotFound(lookup.roots, lookup.lang))
	}
	return path, nil
}

// outputPath returns the file a converted page is written to. Pages read
// from stdin are named after their title.
func outputPath(job pageJob, title, section, ext string) (string, error) {
	if job.OutputDir == "" {
		return job.Output, nil
	}

	var name string
	var err error
	if job.Path == "" {
		name, err = fileutil.OutputName(stdinArg, title, section, ext)
	} else {
		name, err = fileutil.OutputName(job.Path, "", "", ext)
	}
	if err != nil {
		return "", err
	}
	return filepath.Join(job.OutputDir, name), nil
}
