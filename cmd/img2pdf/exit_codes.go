package main

import (
	"errors"
	"os"

	img2pdf "github.com/alnah/go-img2pdf"
	"github.com/alnah/go-img2pdf/internal/config"
)

// Exit codes for img2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion, or nothing to convert
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitPDF     = 4 // Unreadable image or PDF errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil || errors.Is(err, img2pdf.ErrNoImages) {
		return ExitSuccess
	}

	// Image and PDF errors (exit 4)
	if errors.Is(err, img2pdf.ErrDecode) ||
		errors.Is(err, img2pdf.ErrPDFGeneration) ||
		errors.Is(err, img2pdf.ErrOptimize) ||
		errors.Is(err, img2pdf.ErrPageCount) ||
		errors.Is(err, img2pdf.ErrPDFRead) {
		return ExitPDF
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, img2pdf.ErrReadRoot) ||
		errors.Is(err, img2pdf.ErrWritePDF) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigTooLarge) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, img2pdf.ErrEmptyRootDir) ||
		errors.Is(err, img2pdf.ErrEmptyOutputPath) ||
		errors.Is(err, img2pdf.ErrInvalidAidsDir) ||
		errors.Is(err, img2pdf.ErrInvalidExtension) ||
		errors.Is(err, img2pdf.ErrInvalidMaxWidth) ||
		errors.Is(err, img2pdf.ErrInvalidQuality) ||
		errors.Is(err, img2pdf.ErrInvalidCanvas) ||
		errors.Is(err, img2pdf.ErrInvalidFontSize) ||
		errors.Is(err, img2pdf.ErrInvalidPolicy) ||
		errors.Is(err, ErrTooManyArgs) {
		return ExitUsage
	}

	return ExitGeneral
}
