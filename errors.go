package img2pdf

import (
	"errors"

	"github.com/alnah/go-img2pdf/internal/imaging"
)

// Sentinel errors for library operations.
var (
	ErrNoImages      = errors.New("no images found")
	ErrReadRoot      = errors.New("failed to read root directory")
	ErrDecode        = imaging.ErrDecode
	ErrPDFGeneration = errors.New("PDF generation failed")
	ErrWritePDF      = errors.New("failed to write PDF file")
	ErrOptimize      = errors.New("PDF optimization failed")
	ErrPageCount     = errors.New("PDF page count mismatch")
	ErrPDFRead       = errors.New("failed to read PDF")
	ErrDocumentSaved = errors.New("document already saved")

	// Input validation errors.
	ErrEmptyRootDir      = errors.New("root directory cannot be empty")
	ErrEmptyOutputPath   = errors.New("output path cannot be empty")
	ErrInvalidAidsDir    = errors.New("invalid aids directory name")
	ErrInvalidExtension  = errors.New("invalid image extension")
	ErrInvalidMaxWidth   = errors.New("invalid max width")
	ErrInvalidQuality    = errors.New("invalid quality")
	ErrInvalidCanvas     = errors.New("invalid chapter canvas")
	ErrInvalidFontSize   = errors.New("invalid chapter font size")
	ErrInvalidPolicy     = errors.New("invalid image policy")
	ErrInvalidPageBitmap = errors.New("page image has no pixels")
)
