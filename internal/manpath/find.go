package manpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSections is the search order when a reference has no section.
var DefaultSections = []string{"1", "8", "3", "2", "5", "4", "9", "6", "7"}

// fallbackRoots are searched when MANPATH is unset.
var fallbackRoots = []string{"/usr/local/share/man", "/usr/share/man"}

// compressed lists the suffixes tried after the plain file name.
var compressed = []string{".gz", ""}

// DefaultRoots returns the roots from $MANPATH, or the usual system roots.
func DefaultRoots() []string {
	var roots []string
	for _, p := range filepath.SplitList(os.Getenv("MANPATH")) {
		if p != "" {
			roots = append(roots, p)
		}
	}
	if len(roots) == 0 {
		return append([]string(nil), fallbackRoots...)
	}
	return roots
}

// DefaultLang derives a language directory name from $LC_ALL, $LC_MESSAGES
// or $LANG: "de_DE.UTF-8" gives "de_DE". The C and POSIX locales give "".
func DefaultLang() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return normalizeLang(v)
		}
	}
	return ""
}

func normalizeLang(v string) string {
	if i := strings.IndexAny(v, ".@"); i != -1 {
		v = v[:i]
	}
	if v == "C" || v == "POSIX" {
		return ""
	}
	return v
}

// Find returns the path of the page name(section) under the first root
// that has it. An empty section tries DefaultSections in order.
func Find(roots []string, lang, name, section string) (string, error) {
	sections := []string{section}
	if section == "" {
		sections = DefaultSections
	}

	var tried int
	for _, sec := range sections {
		for _, root := range roots {
			for _, path := range candidates(root, lang, name, sec) {
				tried++
				if isFile(path) {
					return path, nil
				}
			}
		}
	}

	ref := Ref{Name: name, Section: section}
	return "", fmt.Errorf("%w: %s (searched %d locations in %s)",
		ErrPageNotFound, ref, tried, strings.Join(roots, string(os.PathListSeparator)))
}

// candidates lists the paths tried for one root, most specific first.
func candidates(root, lang, name, section string) []string {
	var langDirs []string
	if lang != "" {
		langDirs = append(langDirs, lang+".UTF-8", lang)
		if short, _, ok := strings.Cut(lang, "_"); ok {
			langDirs = append(langDirs, short)
		}
	}
	langDirs = append(langDirs, "")

	sectionDirs := []string{"man" + section}
	if len(section) > 1 {
		sectionDirs = append(sectionDirs, "man"+section[:1])
	}

	file := name + "." + section
	var paths []string
	for _, l := range langDirs {
		for _, d := range sectionDirs {
			for _, ext := range compressed {
				paths = append(paths, filepath.Join(root, l, d, file+ext))
			}
		}
	}
	return paths
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
