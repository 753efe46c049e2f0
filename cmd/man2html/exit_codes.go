package main

import (
	"context"
	"errors"
	"os"

	"github.com/alnah/go-man2html"
	"github.com/alnah/go-man2html/internal/config"
	"github.com/alnah/go-man2html/internal/fileutil"
	"github.com/alnah/go-man2html/internal/manpath"
)

// Exit codes for the man2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Page not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, man2html.ErrBrowserConnect) ||
		errors.Is(err, man2html.ErrPageCreate) ||
		errors.Is(err, man2html.ErrPageLoad) ||
		errors.Is(err, man2html.ErrPDFGeneration) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, manpath.ErrPageNotFound) ||
		errors.Is(err, manpath.ErrReadPage) ||
		errors.Is(err, manpath.ErrSoLoop) ||
		errors.Is(err, ErrReadPage) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, manpath.ErrInvalidRef) ||
		errors.Is(err, fileutil.ErrOutputName) ||
		errors.Is(err, man2html.ErrEmptySource) ||
		errors.Is(err, man2html.ErrInvalidFormat) ||
		errors.Is(err, man2html.ErrInvalidPageSize) ||
		errors.Is(err, man2html.ErrInvalidOrientation) ||
		errors.Is(err, man2html.ErrInvalidMargin) ||
		errors.Is(err, man2html.ErrInvalidFooterPosition) ||
		errors.Is(err, man2html.ErrInvalidFooterDate) ||
		errors.Is(err, man2html.ErrInvalidCrossRefURL) ||
		errors.Is(err, man2html.ErrInvalidFailureMode) ||
		errors.Is(err, man2html.ErrStyleNotFound) ||
		errors.Is(err, man2html.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrTerminalOutput) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
