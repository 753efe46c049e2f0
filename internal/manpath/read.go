package manpath

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxSoDepth bounds chains of .so redirections.
const maxSoDepth = 5

var gzipMagic = []byte{0x1f, 0x8b}

// Open opens a page, decompressing it when it starts with the gzip magic
// number. The file name suffix is not trusted.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) // #nosec G304 -- page path chosen by the user
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadPage, err)
	}

	br := bufio.NewReader(f)
	head, _ := br.Peek(len(gzipMagic))
	if !bytes.Equal(head, gzipMagic) {
		return readCloser{Reader: br, close: f.Close}, nil
	}

	zr, err := gzip.NewReader(br)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrReadPage, path, err)
	}
	return readCloser{Reader: zr, close: func() error {
		zerr := zr.Close()
		if err := f.Close(); err != nil {
			return err
		}
		return zerr
	}}, nil
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// ReadPage returns the decompressed source of the page at path. A page
// that only holds a ".so man1/other.1" request is replaced by its target,
// resolved against the page's root.
func ReadPage(path string) (string, error) {
	for range maxSoDepth {
		src, err := readAll(path)
		if err != nil {
			return "", err
		}
		target, ok := soTarget(src)
		if !ok {
			return src, nil
		}
		path, err = resolveSo(path, target)
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSoLoop, path)
}

func readAll(path string) (string, error) {
	rc, err := Open(path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrReadPage, path, err)
	}
	return string(data), nil
}

// soTarget reports the target of a page made of a single .so request,
// ignoring comment lines.
func soTarget(src string) (string, bool) {
	var target string
	for line := range strings.Lines(src) {
		line = strings.TrimSpace(line)
		switch {
		case line == "", strings.HasPrefix(line, `.\"`), strings.HasPrefix(line, `'\"`):
			continue
		case target == "" && strings.HasPrefix(line, ".so "):
			target = strings.TrimSpace(line[len(".so "):])
		default:
			return "", false
		}
	}
	return target, target != ""
}

// resolveSo finds the redirection target next to the man<S> directory
// holding from.
func resolveSo(from, target string) (string, error) {
	root := filepath.Dir(filepath.Dir(from))
	base := filepath.Join(root, filepath.FromSlash(target))
	for _, ext := range compressed {
		if isFile(base + ext) {
			return base + ext, nil
		}
	}
	return "", fmt.Errorf("%w: .so %s from %s", ErrPageNotFound, target, from)
}
