package assets

import "errors"

// Sentinel errors for style loading.
var (
	// ErrStyleNotFound means no loader has a style by that name.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidStyleName means the name could address a file outside the
	// styles directory, or would be read as a flag.
	ErrInvalidStyleName = errors.New("invalid style name")

	// ErrInvalidBasePath means the asset directory is missing or unreadable.
	ErrInvalidBasePath = errors.New("invalid asset directory")

	// ErrStyleRead wraps I/O failures, including symlinks that leave the
	// styles directory.
	ErrStyleRead = errors.New("failed to read style")
)
