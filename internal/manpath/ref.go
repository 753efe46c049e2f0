package manpath

import (
	"fmt"
	"regexp"
	"strings"
)

// Ref names a manual page, such as ls(1).
type Ref struct {
	Name    string
	Section string // empty searches DefaultSections
}

// String returns the name(section) form.
func (r Ref) String() string {
	if r.Section == "" {
		return r.Name
	}
	return r.Name + "(" + r.Section + ")"
}

// FileName returns the page file name without compression suffix.
func (r Ref) FileName() string {
	return r.Name + "." + r.Section
}

var (
	parenRef = regexp.MustCompile(`^([\w.+:-]+)\(([0-9][\w]*)\)$`)
	dotRef   = regexp.MustCompile(`^([\w.+:-]+)\.([0-9][a-z]*)$`)
	bareRef  = regexp.MustCompile(`^[\w+:-][\w.+:-]*$`)
)

// ParseRef parses "ls(1)", "ls.1" or a bare "ls".
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if m := parenRef.FindStringSubmatch(s); m != nil {
		return Ref{Name: m[1], Section: m[2]}, nil
	}
	if m := dotRef.FindStringSubmatch(s); m != nil {
		return Ref{Name: m[1], Section: m[2]}, nil
	}
	if bareRef.MatchString(s) {
		return Ref{Name: s}, nil
	}
	return Ref{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
}

// IsRef reports whether s reads as a page reference rather than a path.
// Bare names are only references when no such file exists, which the
// caller decides.
func IsRef(s string) bool {
	if strings.ContainsAny(s, `/\`) {
		return false
	}
	_, err := ParseRef(s)
	return err == nil
}
