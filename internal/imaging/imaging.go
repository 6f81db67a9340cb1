// Package imaging decodes source images and normalizes them for page embedding.
//
// A normalized image is an opaque *image.RGBA: any palette, grayscale or
// alpha source is flattened onto a white background, optionally after
// downsampling to a maximum width.
package imaging

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // registered for Open
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"
)

// Sentinel errors for image operations.
var (
	ErrDecode         = errors.New("failed to decode image")
	ErrUnknownFormat  = errors.New("unknown page encoding")
	ErrInvalidQuality = errors.New("invalid JPEG quality")
	ErrEmptyImage     = errors.New("image has no pixels")
)

// Format names the encoding used for embedded page images.
type Format string

// Page encodings.
const (
	FormatPNG  Format = "png"  // lossless
	FormatJPEG Format = "jpeg" // lossy, honours Encoding.Quality
)

// Quality bounds for JPEG page encoding.
const (
	MinQuality     = 1
	MaxQuality     = 100
	DefaultQuality = 75
)

// Background is the colour alpha is flattened onto.
var Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Encoding describes how normalized pages are written into the document.
// It is chosen once per document, not per image.
type Encoding struct {
	Format  Format
	Quality int
}

// Validate checks the encoding is usable.
func (e Encoding) Validate() error {
	switch e.Format {
	case FormatPNG:
		return nil
	case FormatJPEG:
		if e.Quality < MinQuality || e.Quality > MaxQuality {
			return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidQuality, e.Quality, MinQuality, MaxQuality)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, e.Format)
}

// Open decodes the image at path. The file is closed before returning.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from directory listing
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s", ErrEmptyImage, path)
	}
	return img, nil
}

// ScaledSize returns the size an image of w×h takes after Normalize with maxWidth.
// Images no wider than maxWidth (or any image when maxWidth <= 0) keep their size.
// Height is scaled by the same ratio and rounded to the nearest pixel, never below 1.
func ScaledSize(w, h, maxWidth int) (int, int) {
	if maxWidth <= 0 || w <= maxWidth {
		return w, h
	}
	ratio := float64(maxWidth) / float64(w)
	nh := int(math.Round(float64(h) * ratio))
	if nh < 1 {
		nh = 1
	}
	return maxWidth, nh
}

// Normalize downsamples img to maxWidth when it is wider and flattens it onto
// an opaque background. The result always has origin (0, 0).
func Normalize(img image.Image, maxWidth int) *image.RGBA {
	src := img.Bounds()
	w, h := ScaledSize(src.Dx(), src.Dy(), maxWidth)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	if w == src.Dx() && h == src.Dy() {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Over)
		return dst
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return dst
}

// Encode writes img using enc.
func Encode(w io.Writer, img image.Image, enc Encoding) error {
	if err := enc.Validate(); err != nil {
		return err
	}
	if img.Bounds().Empty() {
		return ErrEmptyImage
	}

	switch enc.Format {
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: enc.Quality})
	default:
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		return encoder.Encode(w, img)
	}
}
