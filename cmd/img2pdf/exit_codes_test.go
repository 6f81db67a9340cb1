package main

// Notes:
// - exitCodeFor: we test sentinel errors from img2pdf and config packages,
//   plus wrapped errors to verify the errors.Is() chain.
// - Exit code constants: we verify Unix conventions and that custom codes
//   stay below 126.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	img2pdf "github.com/alnah/go-img2pdf"
	"github.com/alnah/go-img2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},
		{"no images", img2pdf.ErrNoImages, ExitSuccess},
		{"wrapped no images", fmt.Errorf("run: %w", img2pdf.ErrNoImages), ExitSuccess},

		// Image and PDF errors (exit 4)
		{"decode", img2pdf.ErrDecode, ExitPDF},
		{"pdf generation", img2pdf.ErrPDFGeneration, ExitPDF},
		{"optimize", img2pdf.ErrOptimize, ExitPDF},
		{"page count", img2pdf.ErrPageCount, ExitPDF},
		{"pdf read", img2pdf.ErrPDFRead, ExitPDF},
		{"wrapped decode", fmt.Errorf("adding x.png: %w", img2pdf.ErrDecode), ExitPDF},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read root", img2pdf.ErrReadRoot, ExitIO},
		{"write pdf", img2pdf.ErrWritePDF, ExitIO},
		{"wrapped file not exist", fmt.Errorf("%w: folders: %w", img2pdf.ErrReadRoot, os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config not found type", &config.NotFoundError{Tried: []string{"a.yaml"}}, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config too large", config.ErrConfigTooLarge, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"empty root", img2pdf.ErrEmptyRootDir, ExitUsage},
		{"empty output", img2pdf.ErrEmptyOutputPath, ExitUsage},
		{"invalid aids dir", img2pdf.ErrInvalidAidsDir, ExitUsage},
		{"invalid extension", img2pdf.ErrInvalidExtension, ExitUsage},
		{"invalid max width", img2pdf.ErrInvalidMaxWidth, ExitUsage},
		{"invalid quality", img2pdf.ErrInvalidQuality, ExitUsage},
		{"invalid canvas", img2pdf.ErrInvalidCanvas, ExitUsage},
		{"invalid font size", img2pdf.ErrInvalidFontSize, ExitUsage},
		{"invalid policy", img2pdf.ErrInvalidPolicy, ExitUsage},
		{"too many args", ErrTooManyArgs, ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("something else"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Errorf("standard codes = %d/%d/%d, want 0/1/2", ExitSuccess, ExitGeneral, ExitUsage)
	}

	seen := map[int]bool{}
	for _, code := range []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitPDF} {
		if code >= 126 {
			t.Errorf("exit code %d collides with shell-reserved range", code)
		}
		if seen[code] {
			t.Errorf("exit code %d is used twice", code)
		}
		seen[code] = true
	}
}
