package main

// Notes:
// - exitCodeFor: we test each error family, wrapped as the CLI wraps them.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-man2html"
	"github.com/alnah/go-man2html/internal/config"
	"github.com/alnah/go-man2html/internal/manpath"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "unknown", err: errors.New("boom"), want: ExitGeneral},
		{name: "aborted conversion", err: man2html.ErrConversionAborted, want: ExitGeneral},

		{name: "browser connect", err: fmt.Errorf("converting: %w", man2html.ErrBrowserConnect), want: ExitBrowser},
		{name: "pdf generation", err: man2html.ErrPDFGeneration, want: ExitBrowser},
		{name: "deadline", err: context.DeadlineExceeded, want: ExitBrowser},

		{name: "page not found", err: withHint(manpath.ErrPageNotFound, "\n  hint: x"), want: ExitIO},
		{name: "so loop", err: manpath.ErrSoLoop, want: ExitIO},
		{name: "not exist", err: fmt.Errorf("%w: x: %w", ErrReadPage, os.ErrNotExist), want: ExitIO},
		{name: "write", err: ErrWriteOutput, want: ExitIO},
		{name: "no input", err: ErrNoInput, want: ExitIO},

		{name: "config not found", err: fmt.Errorf("loading config: %w", config.ErrConfigNotFound), want: ExitUsage},
		{name: "config value", err: config.ErrInvalidValue, want: ExitUsage},
		{name: "page size", err: man2html.ErrInvalidPageSize, want: ExitUsage},
		{name: "style", err: man2html.ErrStyleNotFound, want: ExitUsage},
		{name: "workers", err: ErrInvalidWorkerCount, want: ExitUsage},
		{name: "timeout", err: ErrInvalidTimeout, want: ExitUsage},
		{name: "terminal", err: ErrTerminalOutput, want: ExitUsage},
		{name: "shell", err: ErrUnsupportedShell, want: ExitUsage},
		{name: "invalid ref", err: manpath.ErrInvalidRef, want: ExitUsage},

		{name: "batch unwraps first failure", err: &batchError{failed: 1, total: 2, first: manpath.ErrPageNotFound}, want: ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
