package chapter

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// inkBounds returns the bounding box of non-white pixels.
func inkBounds(img *image.RGBA) image.Rectangle {
	var box image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R < 0x80 && c.G < 0x80 && c.B < 0x80 {
				box = box.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return box
}

func TestRender_DefaultCanvas(t *testing.T) {
	t.Parallel()

	r := NewRenderer(DefaultSettings())
	img, err := r.Render("Algebra")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if got := img.Bounds().Size(); got != image.Pt(1600, 900) {
		t.Errorf("size = %v, want 1600x900", got)
	}
	if !img.Opaque() {
		t.Error("divider page is not opaque")
	}
	if r.FontFallback() != nil {
		t.Errorf("FontFallback() = %v, want nil for embedded font", r.FontFallback())
	}
}

func TestRender_CaptionIsCentered(t *testing.T) {
	t.Parallel()

	r := NewRenderer(DefaultSettings())
	img, err := r.Render("Geometry")
	if err != nil {
		t.Fatal(err)
	}

	box := inkBounds(img)
	if box.Empty() {
		t.Fatal("no text drawn")
	}

	left := box.Min.X
	right := img.Bounds().Dx() - box.Max.X
	if diff := left - right; diff < -12 || diff > 12 {
		t.Errorf("horizontal margins %d/%d not centered", left, right)
	}

	top := box.Min.Y
	bottom := img.Bounds().Dy() - box.Max.Y
	if diff := top - bottom; diff < -40 || diff > 40 {
		t.Errorf("vertical margins %d/%d not centered", top, bottom)
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	r := NewRenderer(DefaultSettings())
	a, err := r.Render("Same")
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Render("Same")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("two renders of the same title differ")
	}

	c, err := r.Render("Different")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.Pix, c.Pix) {
		t.Error("different titles rendered identically")
	}
}

func TestRender_LongTitleFitsCanvas(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	s.Width, s.Height = 400, 200
	r := NewRenderer(s)

	img, err := r.Render("An Extremely Long Folder Name That Would Never Fit At Sixty Four Points")
	if err != nil {
		t.Fatal(err)
	}

	box := inkBounds(img)
	if box.Empty() {
		t.Fatal("no text drawn")
	}
	if box.Min.X < 0 || box.Max.X > 400 || box.Dx() > 380 {
		t.Errorf("text box %v overflows 400px canvas", box)
	}
}

func TestNewRenderer_FontFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "missing file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope.ttf")
			},
		},
		{
			name: "not a font",
			setup: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "bad.ttf")
				if err := os.WriteFile(p, []byte("garbage"), 0o600); err != nil {
					t.Fatal(err)
				}
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := DefaultSettings()
			s.FontPath = tt.setup(t)
			r := NewRenderer(s)

			if !errors.Is(r.FontFallback(), ErrFontLoad) {
				t.Errorf("FontFallback() = %v, want ErrFontLoad", r.FontFallback())
			}
			img, err := r.Render("Fallback")
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if inkBounds(img).Empty() {
				t.Error("fallback font drew nothing")
			}
		})
	}
}

func TestNewRenderer_PreferredFont(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "regular.ttf")
	if err := os.WriteFile(p, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}

	s := DefaultSettings()
	s.FontPath = p
	r := NewRenderer(s)
	if r.FontFallback() != nil {
		t.Fatalf("FontFallback() = %v, want nil", r.FontFallback())
	}

	regular, err := r.Render("Fonts")
	if err != nil {
		t.Fatal(err)
	}
	bold, err := NewRenderer(DefaultSettings()).Render("Fonts")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(regular.Pix, bold.Pix) {
		t.Error("preferred font rendered identically to the fallback")
	}
}

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr error
	}{
		{"defaults", func(*Settings) {}, nil},
		{"zero width", func(s *Settings) { s.Width = 0 }, ErrInvalidCanvas},
		{"negative height", func(s *Settings) { s.Height = -1 }, ErrInvalidCanvas},
		{"zero font size", func(s *Settings) { s.FontSize = 0 }, ErrInvalidFontSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := DefaultSettings()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}

			_, err := NewRenderer(s).Render("x")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Render() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCaption(t *testing.T) {
	t.Parallel()

	r := NewRenderer(DefaultSettings())
	if got := r.Caption("A"); got != "Chapter: A" {
		t.Errorf("Caption() = %q, want %q", got, "Chapter: A")
	}
}
