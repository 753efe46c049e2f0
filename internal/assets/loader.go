package assets

import (
	"fmt"
	"strings"
)

// Built-in style names.
const (
	// DefaultStyleName is applied when no style is configured.
	DefaultStyleName = "default"

	// PrintStyleName is appended to every page rendered as PDF.
	PrintStyleName = "print"
)

// styleExt is the file extension of style files.
const styleExt = ".css"

// Loader loads a style by name, without the .css extension.
type Loader interface {
	LoadStyle(name string) (string, error)
}

// ValidateStyleName rejects names that are empty, contain a path separator
// or a dot, or start with a hyphen.
func ValidateStyleName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidStyleName)
	case strings.ContainsAny(name, `/\.`):
		return fmt.Errorf("%w: %q", ErrInvalidStyleName, name)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with a hyphen", ErrInvalidStyleName, name)
	}
	return nil
}
