package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed styles/*.css
var builtinStyles embed.FS

// BuiltinLoader serves the styles compiled into the binary.
type BuiltinLoader struct{}

// LoadStyle returns the built-in style called name.
func (BuiltinLoader) LoadStyle(name string) (string, error) {
	if err := ValidateStyleName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(builtinStyles, "styles/"+name+styleExt)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(data), nil
}

// StyleNames lists the built-in styles in sorted order.
func StyleNames() []string {
	entries, _ := fs.ReadDir(builtinStyles, "styles")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), styleExt))
	}
	slices.Sort(names)
	return names
}

var _ Loader = BuiltinLoader{}
