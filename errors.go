package man2html

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySource       = errors.New("page source cannot be empty")
	ErrConversionAborted = errors.New("conversion aborted")
	ErrInternal          = errors.New("internal error")
	ErrPDFGeneration     = errors.New("PDF generation failed")
	ErrBrowserConnect    = errors.New("failed to connect to browser")
	ErrPageCreate        = errors.New("failed to create browser page")
	ErrPageLoad          = errors.New("failed to load page")

	// Input validation errors.
	ErrInvalidFormat         = errors.New("invalid source format")
	ErrInvalidPageSize       = errors.New("invalid page size")
	ErrInvalidOrientation    = errors.New("invalid orientation")
	ErrInvalidMargin         = errors.New("invalid margin")
	ErrInvalidFooterPosition = errors.New("invalid footer position")
	ErrInvalidFooterDate     = errors.New("invalid footer date")
	ErrInvalidCrossRefURL    = errors.New("invalid cross-reference URL pattern")
	ErrInvalidFailureMode    = errors.New("invalid failure mode")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
