package assets

import (
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-man2html/internal/fileutil"
)

// Resolver looks styles up in a custom directory first, then among the
// built-in styles.
type Resolver struct {
	loaders []Loader
}

// NewResolver returns a Resolver. An empty dir means built-in styles only.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{}
	if dir != "" {
		custom, err := NewDirLoader(dir)
		if err != nil {
			return nil, err
		}
		r.loaders = append(r.loaders, custom)
	}
	r.loaders = append(r.loaders, BuiltinLoader{})
	return r, nil
}

// LoadStyle returns the first match for name. Only a missing style moves
// on to the next loader; other errors are returned as is.
func (r *Resolver) LoadStyle(name string) (string, error) {
	var err error
	for _, l := range r.loaders {
		var css string
		css, err = l.LoadStyle(name)
		if err == nil || !errors.Is(err, ErrStyleNotFound) {
			return css, err
		}
	}
	return "", err
}

// Resolve turns a --style value into CSS. The value is inline CSS when it
// holds a brace, a file path when it holds a separator, and otherwise a
// style name. An empty value disables styling.
func (r *Resolver) Resolve(style string) (string, error) {
	switch {
	case style == "":
		return "", nil
	case fileutil.IsCSS(style):
		return style, nil
	case fileutil.IsFilePath(style):
		data, err := os.ReadFile(style) // #nosec G304 -- path given by the user
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrStyleRead, err)
		}
		return string(data), nil
	}
	return r.LoadStyle(style)
}

// HasCustomDir reports whether a custom directory is searched.
func (r *Resolver) HasCustomDir() bool {
	return len(r.loaders) > 1
}

var _ Loader = (*Resolver)(nil)
