package main

// Notes:
// - This file holds test doubles and helpers shared by the cmd tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-man2html"
)

// ---------------------------------------------------------------------------
// Mock Implementations - For unit testing
// ---------------------------------------------------------------------------

// mockConverter records inputs and returns a result derived from them.
type mockConverter struct {
	mu          sync.Mutex
	calls       []man2html.Input
	convertFunc func(ctx context.Context, input man2html.Input) (*man2html.ConvertResult, error)
}

func (m *mockConverter) Convert(ctx context.Context, input man2html.Input) (*man2html.ConvertResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()

	if m.convertFunc != nil {
		return m.convertFunc(ctx, input)
	}

	res := &man2html.ConvertResult{
		HTML:    []byte("<p>" + strings.TrimSpace(input.Source) + "</p>\n"),
		Format:  man2html.FormatTroff,
		Title:   "LS",
		Section: "1",
	}
	if input.PDF {
		res.PDF = []byte("%PDF-1.4 mock")
	}
	return res, nil
}

func (m *mockConverter) getCalls() []man2html.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]man2html.Input(nil), m.calls...)
}

// mockPool hands out one shared mockConverter.
type mockPool struct {
	conv       *mockConverter
	acquireErr error

	mu       sync.Mutex
	size     int
	opts     []man2html.Option
	acquired int
	released int
	closed   bool
}

func (p *mockPool) Acquire(_ context.Context) (CLIConverter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Test Environment
// ---------------------------------------------------------------------------

// testEnv is an Environment writing to buffers, with a mock pool.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	pool   *mockPool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		pool:   &mockPool{conv: &mockConverter{}},
	}
	te.Environment = &Environment{
		Now:        func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) },
		Stdin:      strings.NewReader(""),
		Stdout:     te.stdout,
		Stderr:     te.stderr,
		IsTerminal: func(io.Writer) bool { return false },
		NewPool: func(size int, opts ...man2html.Option) Pool {
			te.pool.mu.Lock()
			te.pool.size = size
			te.pool.opts = opts
			te.pool.mu.Unlock()
			return te.pool
		},
	}
	return te
}

// writePage writes a page file under dir and returns its path.
func writePage(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// manRoot creates a man path root holding man1/ls.1 and man8/mount.8.
func manRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writePage(t, root, "man1/ls.1", ".TH LS 1\n.SH NAME\nls \\- list\n")
	writePage(t, root, "man8/mount.8", ".TH MOUNT 8\n.SH NAME\nmount \\- mount\n")
	return root
}

// mustParseFlags parses convert flags or fails the test.
func mustParseFlags(t *testing.T, args ...string) (*convertFlags, []string) {
	t.Helper()
	f, rest, err := parseConvertFlags(args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseConvertFlags(%v): %v", args, err)
	}
	return f, rest
}
