package troff

import "errors"

// Sentinel errors ending a Stream early.
var (
	// ErrInternal wraps a panic recovered while converting a line.
	ErrInternal = errors.New("internal conversion error")

	// ErrRead wraps a failure of the line source.
	ErrRead = errors.New("reading source lines failed")
)
