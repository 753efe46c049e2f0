package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DirLoader reads <dir>/styles/<name>.css. Files are opened through
// os.OpenInRoot, so neither ".." nor a symlink can leave the styles
// directory.
type DirLoader struct {
	styles string
}

// NewDirLoader checks that dir is a readable directory. It does not need
// a styles subdirectory yet; every lookup then reports ErrStyleNotFound.
func NewDirLoader(dir string) (*DirLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// ReadDir also fails on a regular file.
	if _, err := os.ReadDir(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, abs)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	return &DirLoader{styles: filepath.Join(abs, "styles")}, nil
}

// LoadStyle reads the style file called name.
func (d *DirLoader) LoadStyle(name string) (string, error) {
	if err := ValidateStyleName(name); err != nil {
		return "", err
	}

	f, err := os.OpenInRoot(d.styles, name+styleExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrStyleRead, name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrStyleRead, name, err)
	}
	return string(data), nil
}

var _ Loader = (*DirLoader)(nil)
