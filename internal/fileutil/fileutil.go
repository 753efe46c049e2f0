// Package fileutil provides file and path helpers shared by the converter
// and the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrOutputName             = errors.New("cannot derive output file name")
)

// tempPattern prefixes temp files so leftovers are easy to spot.
const tempPattern = "man2html-*."

// WriteTempFile writes content to a new temp file with the given extension.
// The returned cleanup removes the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", tempPattern+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}

// ValidateExtension checks that an extension is safe inside a file name.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists reports whether path is an existing non-directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsFilePath reports whether s looks like a path rather than a name:
// "dark" is a name, "./dark.css" and "sub/dir" are paths.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS reports whether s is inline CSS rather than a name or a path.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// pageSuffixes are stripped from source names before deriving output names.
var pageSuffixes = []string{".gz", ".bz2", ".xz", ".md", ".markdown", ".ronn", ".html", ".htm"}

// OutputName returns "<name>.<section>.<ext>" for a page. When name is
// empty it is derived from the base of source, dropping compression and
// markup suffixes, so "ls.1.gz" gives "ls.1.html".
func OutputName(source, name, section, ext string) (string, error) {
	if err := ValidateExtension(ext); err != nil {
		return "", err
	}

	if name != "" {
		base := strings.ToLower(sanitize(name))
		if section != "" {
			base += "." + sanitize(section)
		}
		return base + "." + ext, nil
	}

	base := filepath.Base(source)
	for _, suffix := range pageSuffixes {
		base = strings.TrimSuffix(base, suffix)
	}
	if base == "" || base == "." || base == string(filepath.Separator) || base == "-" {
		return "", fmt.Errorf("%w: %q", ErrOutputName, source)
	}
	return sanitize(base) + "." + ext, nil
}

// sanitize replaces characters that are unsafe in file names.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, s)
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
