package img2pdf

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// writePNG writes a w×h PNG filled with c, creating parent directories.
func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() { _ = f.Close() }()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

// writeFile writes raw bytes, creating parent directories.
func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

// layout describes a fixture tree: folder name -> image file names.
type layout map[string][]string

// buildTree creates root/<folder>/00_LEARNINGAIDS/<image> for every entry,
// each image w×h, and returns root.
func buildTree(t *testing.T, tree layout, w, h int) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "folders")
	if err := os.MkdirAll(root, 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	for folder, images := range tree {
		for i, name := range images {
			shade := uint8(40 * (i + 1))
			writePNG(t, filepath.Join(root, folder, DefaultAidsDir, name), w, h, color.RGBA{R: shade, G: 0x80, B: 0xc0, A: 0xff})
		}
	}
	return root
}

// solid returns an opaque w×h image.
func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

// inspect reads back the PDF at path or fails the test.
func inspect(t *testing.T, path string) *DocumentInfo {
	t.Helper()

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect(%s) error = %v", path, err)
	}
	return info
}

// bookmarks reads the top-level outline of the PDF at path with pdfcpu, so
// destinations are resolved independently of Inspect.
func bookmarks(t *testing.T, path string) []pdfcpu.Bookmark {
	t.Helper()

	f, err := os.Open(path) // #nosec G304 -- test fixture path
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	bms, err := api.Bookmarks(f, newPDFCPUProcessor().config())
	if err != nil {
		t.Fatalf("api.Bookmarks(%s) error = %v", path, err)
	}
	return bms
}
