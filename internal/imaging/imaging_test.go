package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG encodes img to dir/name and returns the path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

func solidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// ---------------------------------------------------------------------------
// ScaledSize
// ---------------------------------------------------------------------------

func TestScaledSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"narrower than threshold", 800, 600, 1600, 800, 600},
		{"equal to threshold", 1600, 900, 1600, 1600, 900},
		{"wider is scaled", 2000, 1000, 1600, 1600, 800},
		{"rounds to nearest", 2000, 1001, 1600, 1600, 801},
		{"rounds half away from zero", 4, 5, 2, 2, 3},
		{"rounds down below half", 3, 5, 2, 2, 3},
		{"never below one pixel", 5000, 1, 10, 10, 1},
		{"zero threshold disables scaling", 4000, 3000, 0, 4000, 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gotW, gotH := ScaledSize(tt.w, tt.h, tt.max)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("ScaledSize(%d, %d, %d) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.max, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Normalize
// ---------------------------------------------------------------------------

func TestNormalize_KeepsNarrowImages(t *testing.T) {
	t.Parallel()

	src := solidNRGBA(120, 80, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	got := Normalize(src, 1600)

	if got.Bounds().Dx() != 120 || got.Bounds().Dy() != 80 {
		t.Errorf("size = %v, want 120x80", got.Bounds().Size())
	}
	if c := got.RGBAAt(5, 5); c != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel = %v, want source colour", c)
	}
}

func TestNormalize_DownsamplesWideImages(t *testing.T) {
	t.Parallel()

	src := solidNRGBA(2000, 1000, color.NRGBA{R: 200, G: 0, B: 0, A: 255})
	got := Normalize(src, 1600)

	if got.Bounds().Dx() != 1600 {
		t.Errorf("width = %d, want 1600", got.Bounds().Dx())
	}
	if got.Bounds().Dy() != 800 {
		t.Errorf("height = %d, want 800", got.Bounds().Dy())
	}
	if !got.Opaque() {
		t.Error("normalized image is not opaque")
	}
}

func TestNormalize_AspectRatioWithinOnePixel(t *testing.T) {
	t.Parallel()

	sizes := [][2]int{{1601, 997}, {2048, 1536}, {3333, 1111}, {1700, 13}}
	for _, s := range sizes {
		src := image.NewGray(image.Rect(0, 0, s[0], s[1]))
		got := Normalize(src, 1600)
		wantH := float64(s[1]) * 1600 / float64(s[0])
		diff := float64(got.Bounds().Dy()) - wantH
		if diff < -1 || diff > 1 {
			t.Errorf("%dx%d -> height %d, want within 1px of %.2f", s[0], s[1], got.Bounds().Dy(), wantH)
		}
	}
}

func TestNormalize_FlattensAlphaOntoWhite(t *testing.T) {
	t.Parallel()

	src := solidNRGBA(4, 4, color.NRGBA{R: 0, G: 0, B: 0, A: 0})
	got := Normalize(src, 0)

	if !got.Opaque() {
		t.Fatal("normalized image is not opaque")
	}
	if c := got.RGBAAt(1, 1); c != Background {
		t.Errorf("transparent pixel = %v, want background %v", c, Background)
	}
}

func TestNormalize_ConvertsPalette(t *testing.T) {
	t.Parallel()

	pal := color.Palette{color.RGBA{A: 0}, color.RGBA{R: 0, G: 0, B: 255, A: 255}}
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	src.SetColorIndex(1, 0, 1)

	got := Normalize(src, 0)
	if c := got.RGBAAt(0, 0); c != Background {
		t.Errorf("transparent palette entry = %v, want background", c)
	}
	if c := got.RGBAAt(1, 0); c != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("blue palette entry = %v, want opaque blue", c)
	}
}

func TestNormalize_NonZeroOrigin(t *testing.T) {
	t.Parallel()

	full := solidNRGBA(10, 10, color.NRGBA{G: 255, A: 255})
	sub := full.SubImage(image.Rect(5, 5, 10, 10))

	got := Normalize(sub, 0)
	if got.Bounds().Min != (image.Point{}) {
		t.Errorf("origin = %v, want (0,0)", got.Bounds().Min)
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel = %v, want green", c)
	}
}

// ---------------------------------------------------------------------------
// Open
// ---------------------------------------------------------------------------

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writePNG(t, dir, "ok.png", solidNRGBA(3, 2, color.NRGBA{A: 255}))

	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("size = %v, want 3x2", img.Bounds().Size())
	}
}

func TestOpen_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not a png"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Open() error = %v, want ErrDecode", err)
	}
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() error = %v, want os.ErrNotExist", err)
	}
}

// ---------------------------------------------------------------------------
// Encode
// ---------------------------------------------------------------------------

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	src := Normalize(solidNRGBA(2400, 600, color.NRGBA{R: 1, G: 2, B: 3, A: 128}), 1600)

	tests := []struct {
		name string
		enc  Encoding
	}{
		{"png", Encoding{Format: FormatPNG}},
		{"jpeg", Encoding{Format: FormatJPEG, Quality: 75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Encode(&buf, src, tt.enc); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			decoded, format, err := image.Decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if format != string(tt.enc.Format) {
				t.Errorf("format = %q, want %q", format, tt.enc.Format)
			}
			if decoded.Bounds().Dx() != 1600 || decoded.Bounds().Dy() != 400 {
				t.Errorf("size = %v, want 1600x400", decoded.Bounds().Size())
			}
			if o, ok := decoded.(interface{ Opaque() bool }); ok && !o.Opaque() {
				t.Error("decoded page carries transparency")
			}
		})
	}
}

func TestEncode_PNGHasNoAlphaChannel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	img := Normalize(solidNRGBA(8, 8, color.NRGBA{R: 9, A: 10}), 0)
	if err := Encode(&buf, img, Encoding{Format: FormatPNG}); err != nil {
		t.Fatal(err)
	}

	// IHDR colour type lives at byte 25: 2 = truecolour without alpha.
	if got := buf.Bytes()[25]; got != 2 {
		t.Errorf("PNG colour type = %d, want 2 (RGB)", got)
	}
}

func TestEncode_JPEGQuality(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: uint8(x ^ y), A: 255})
		}
	}

	var low, high bytes.Buffer
	if err := Encode(&low, img, Encoding{Format: FormatJPEG, Quality: 10}); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&high, img, Encoding{Format: FormatJPEG, Quality: 95}); err != nil {
		t.Fatal(err)
	}
	if low.Len() >= high.Len() {
		t.Errorf("quality 10 size %d >= quality 95 size %d", low.Len(), high.Len())
	}
	if _, err := jpeg.Decode(&low); err != nil {
		t.Errorf("decode low quality: %v", err)
	}
}

func TestEncoding_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		enc     Encoding
		wantErr error
	}{
		{"png ignores quality", Encoding{Format: FormatPNG, Quality: 0}, nil},
		{"jpeg in range", Encoding{Format: FormatJPEG, Quality: 75}, nil},
		{"jpeg too low", Encoding{Format: FormatJPEG, Quality: 0}, ErrInvalidQuality},
		{"jpeg too high", Encoding{Format: FormatJPEG, Quality: 101}, ErrInvalidQuality},
		{"unknown format", Encoding{Format: "webp"}, ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.enc.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
