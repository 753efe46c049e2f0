// Package hints provides actionable hints appended to CLI error messages.
// Every hint is formatted as "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-man2html/internal/fileutil"
)

// IsInContainer detects a Docker container through /.dockerenv.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch failures, suggesting
// the environment variables that usually fix them in CI and containers.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "drop --pdf to write HTML only")

	return formatHints(hints)
}

// ForTimeout suggests a longer timeout.
func ForTimeout() string {
	return format("for long pages, use --timeout flag")
}

// ForConfigNotFound suggests --config and the user config path that was
// searched, if any.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(toSlash(p), "/go-man2html/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the built-in styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForPageNotFound returns hints when a page reference matched no file.
func ForPageNotFound(roots []string, lang string) string {
	hints := []string{"add a root with --man-path or MANPATH"}
	if len(roots) > 0 {
		hints[0] += " (searched " + strings.Join(roots, ", ") + ")"
	}
	if lang != "" {
		hints = append(hints, "pages for "+lang+" may not be installed, try --lang=")
	}
	return formatHints(hints)
}

// ForConversionAborted suggests ways to inspect a page that stopped early.
func ForConversionAborted() string {
	return format("rerun with --verbose for the failing line, --debug to flag unsupported macros")
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
