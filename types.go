package img2pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-img2pdf/internal/chapter"
	"github.com/alnah/go-img2pdf/internal/fileutil"
	"github.com/alnah/go-img2pdf/internal/imaging"
)

// Defaults applied to zero-valued Input fields.
const (
	DefaultAidsDir   = "00_LEARNINGAIDS"
	DefaultExtension = ".png"
	DefaultMaxWidth  = 1600
	DefaultQuality   = imaging.DefaultQuality
)

// Malformed image policies.
const (
	OnInvalidAbort = "abort" // stop at the first unreadable image
	OnInvalidSkip  = "skip"  // log it, leave it out, keep going
)

// Quality bounds for compressed pages.
const (
	MinQuality = imaging.MinQuality
	MaxQuality = imaging.MaxQuality
)

// Input contains conversion parameters.
type Input struct {
	RootDir        string          // Folder whose subfolders are scanned (required)
	OutputPath     string          // Destination PDF (required)
	AidsDir        string          // Child folder holding the images (default: 00_LEARNINGAIDS)
	Extension      string          // Image extension, case-insensitive (default: .png)
	Chapters       bool            // Divider page and outline entry per folder
	Compress       bool            // Downsample, JPEG pages, optimize
	MaxWidth       int             // pixels, used when Compress is set (default: 1600)
	Quality        int             // JPEG quality 1-100, used when Compress is set (default: 75)
	Chapter        ChapterSettings // Divider page appearance
	OnInvalidImage string          // "abort" or "skip" (default: abort)
}

// ChapterSettings configures divider pages. Zero fields use the defaults
// of a 1600x900 canvas, 64pt embedded bold font and "Chapter: " prefix.
type ChapterSettings struct {
	Width    int     // pixels
	Height   int     // pixels
	FontPath string  // TrueType/OpenType file, empty = embedded font
	FontSize float64 // points
	Prefix   string  // prepended to the folder name
}

// withDefaults returns a copy of in with zero fields filled in.
func (in Input) withDefaults() Input {
	if in.AidsDir == "" {
		in.AidsDir = DefaultAidsDir
	}
	if in.Extension == "" {
		in.Extension = DefaultExtension
	}
	if in.MaxWidth == 0 {
		in.MaxWidth = DefaultMaxWidth
	}
	if in.Quality == 0 {
		in.Quality = DefaultQuality
	}
	if in.OnInvalidImage == "" {
		in.OnInvalidImage = OnInvalidAbort
	}
	in.OnInvalidImage = strings.ToLower(in.OnInvalidImage)

	def := chapter.DefaultSettings()
	if in.Chapter.Width == 0 {
		in.Chapter.Width = def.Width
	}
	if in.Chapter.Height == 0 {
		in.Chapter.Height = def.Height
	}
	if in.Chapter.FontSize == 0 {
		in.Chapter.FontSize = def.FontSize
	}
	if in.Chapter.Prefix == "" {
		in.Chapter.Prefix = def.Prefix
	}
	return in
}

// Validate checks that input fields are usable.
// Zero values are accepted where a default exists.
func (in Input) Validate() error {
	in = in.withDefaults()

	if strings.TrimSpace(in.RootDir) == "" {
		return ErrEmptyRootDir
	}
	if strings.TrimSpace(in.OutputPath) == "" {
		return ErrEmptyOutputPath
	}
	if fileutil.IsFilePath(in.AidsDir) || in.AidsDir == "." || in.AidsDir == ".." {
		return fmt.Errorf("%w: %q must be a single folder name", ErrInvalidAidsDir, in.AidsDir)
	}
	if _, err := fileutil.NormalizeExtension(in.Extension); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidExtension, err)
	}

	if in.Compress {
		if in.MaxWidth < 1 {
			return fmt.Errorf("%w: %d (must be positive)", ErrInvalidMaxWidth, in.MaxWidth)
		}
		if in.Quality < MinQuality || in.Quality > MaxQuality {
			return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidQuality, in.Quality, MinQuality, MaxQuality)
		}
	}

	if in.Chapters {
		if in.Chapter.Width < 1 || in.Chapter.Height < 1 {
			return fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, in.Chapter.Width, in.Chapter.Height)
		}
		if in.Chapter.FontSize < 0 {
			return fmt.Errorf("%w: %.1f", ErrInvalidFontSize, in.Chapter.FontSize)
		}
	}

	switch in.OnInvalidImage {
	case OnInvalidAbort, OnInvalidSkip:
	default:
		return fmt.Errorf("%w: %q (must be abort or skip)", ErrInvalidPolicy, in.OnInvalidImage)
	}

	return nil
}

// encoding returns the page encoding used for the whole document.
func (in Input) encoding() imaging.Encoding {
	if in.Compress {
		return imaging.Encoding{Format: imaging.FormatJPEG, Quality: in.Quality}
	}
	return imaging.Encoding{Format: imaging.FormatPNG}
}

// maxWidth returns the downsampling threshold, or 0 for none.
func (in Input) maxWidth() int {
	if in.Compress {
		return in.MaxWidth
	}
	return 0
}

// chapterSettings maps ChapterSettings to the renderer configuration.
func (in Input) chapterSettings() chapter.Settings {
	return chapter.Settings{
		Width:    in.Chapter.Width,
		Height:   in.Chapter.Height,
		FontPath: in.Chapter.FontPath,
		FontSize: in.Chapter.FontSize,
		Prefix:   in.Chapter.Prefix,
	}
}

// FolderEntry is one top-level subfolder and its images in page order.
type FolderEntry struct {
	Name   string   // Subfolder name, used as the chapter title
	Images []string // Image paths in natural order, possibly empty
}

// OutlineEntry is one bookmark of a chaptered document.
type OutlineEntry struct {
	Title string
	Page  int // 1-indexed page of the divider
}

// Result contains the outcome of a conversion.
type Result struct {
	OutputPath string
	Pages      int            // Pages written, dividers included
	Folders    int            // Folders with an aids folder, including empty ones
	Outline    []OutlineEntry // Empty unless Input.Chapters
	Skipped    []string       // Images left out under the skip policy
	Duration   time.Duration
}
