// Package chapter renders chapter divider pages: a blank canvas with a
// centered "Chapter: <title>" caption.
package chapter

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Canvas and text defaults.
const (
	DefaultWidth    = 1600
	DefaultHeight   = 900
	DefaultFontSize = 64.0
	DefaultPrefix   = "Chapter: "

	// maxTextRatio is the share of the canvas width a caption may use
	// before the font is scaled down.
	maxTextRatio = 0.9
	fontDPI      = 72
)

// Sentinel errors for renderer configuration.
var (
	ErrInvalidCanvas   = errors.New("invalid chapter canvas size")
	ErrInvalidFontSize = errors.New("invalid chapter font size")
	ErrFontLoad        = errors.New("failed to load chapter font")
)

// Settings configures a Renderer.
type Settings struct {
	Width    int     // canvas width in pixels
	Height   int     // canvas height in pixels
	FontPath string  // TrueType/OpenType file; empty = embedded Go Bold
	FontSize float64 // points at 72 dpi, so 1pt = 1px
	Prefix   string  // prepended to every title
}

// DefaultSettings returns a 1600x900 canvas with the embedded font.
func DefaultSettings() Settings {
	return Settings{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FontSize: DefaultFontSize,
		Prefix:   DefaultPrefix,
	}
}

// Validate checks canvas and font size bounds.
func (s Settings) Validate() error {
	if s.Width < 1 || s.Height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, s.Width, s.Height)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("%w: %.1f", ErrInvalidFontSize, s.FontSize)
	}
	return nil
}

// Renderer draws divider pages. It is not safe for concurrent use.
type Renderer struct {
	settings Settings
	font     *opentype.Font // nil when using basicfont
	fallback error
}

// NewRenderer resolves the font once. A missing or unreadable FontPath is not
// fatal: the embedded Go Bold face is used instead and the reason is kept for
// FontFallback.
func NewRenderer(s Settings) *Renderer {
	r := &Renderer{settings: s}

	if s.FontPath != "" {
		f, err := loadFont(s.FontPath)
		if err == nil {
			r.font = f
			return r
		}
		r.fallback = err
	}

	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		// Only reachable if the embedded font is corrupt.
		r.fallback = errors.Join(r.fallback, fmt.Errorf("%w: embedded: %v", ErrFontLoad, err))
		return r
	}
	r.font = f
	return r
}

// FontFallback returns why the preferred font was not used, or nil.
func (r *Renderer) FontFallback() error {
	return r.fallback
}

// Caption returns the text drawn for title.
func (r *Renderer) Caption(title string) string {
	return r.settings.Prefix + title
}

// Render returns a white canvas with the caption for title centered on it.
func (r *Renderer) Render(title string) (*image.RGBA, error) {
	if err := r.settings.Validate(); err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, r.settings.Width, r.settings.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	caption := r.Caption(title)
	face, err := r.fitFace(caption)
	if err != nil {
		return nil, err
	}
	defer func() { _ = face.Close() }()

	advance := font.MeasureString(face, caption)
	metrics := face.Metrics()

	x := (fixed.I(r.settings.Width) - advance) / 2
	// Baseline sits so the ascent/descent box is vertically centered.
	y := (fixed.I(r.settings.Height) + metrics.Ascent - metrics.Descent) / 2

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(caption)

	return canvas, nil
}

// fitFace returns a face at the configured size, shrunk so the caption
// fits within maxTextRatio of the canvas width.
func (r *Renderer) fitFace(caption string) (font.Face, error) {
	if r.font == nil {
		return basicfont.Face7x13, nil
	}

	size := r.settings.FontSize
	face, err := newFace(r.font, size)
	if err != nil {
		return nil, err
	}

	limit := fixed.I(int(float64(r.settings.Width) * maxTextRatio))
	advance := font.MeasureString(face, caption)
	if advance <= limit || advance <= 0 {
		return face, nil
	}

	_ = face.Close()
	size = size * float64(limit) / float64(advance)
	return newFace(r.font, size)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}
	return face, nil
}

func loadFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- font path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontLoad, path, err)
	}
	return f, nil
}
