package manpath

import "errors"

// Sentinel errors for page lookup and reading.
var (
	ErrInvalidRef   = errors.New("invalid page reference")
	ErrPageNotFound = errors.New("manual page not found")
	ErrReadPage     = errors.New("reading manual page failed")
	ErrSoLoop       = errors.New("too many .so redirections")
)
