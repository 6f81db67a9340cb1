package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	img2pdf "github.com/alnah/go-img2pdf"
)

// testEnv returns an Environment writing to buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

// writeTree creates root/<folder>/00_LEARNINGAIDS/<file> with small PNGs
// and returns root.
func writeTree(t *testing.T, tree map[string][]string) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "folders")
	if err := os.MkdirAll(root, 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	for folder, files := range tree {
		dir := filepath.Join(root, folder, "00_LEARNINGAIDS")
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
		for _, name := range files {
			writeTestPNG(t, filepath.Join(dir, name), 40, 30)
		}
	}
	return root
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 6), G: 90, B: uint8(y * 8), A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

// mockConverter records the Input it receives.
type mockConverter struct {
	input  img2pdf.Input
	called bool
	result *img2pdf.Result
	err    error
}

func (m *mockConverter) Convert(_ context.Context, in img2pdf.Input) (*img2pdf.Result, error) {
	m.called = true
	m.input = in
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &img2pdf.Result{OutputPath: in.OutputPath, Pages: 1, Folders: 1}, nil
}

// mustParse parses convert flags or fails the test.
func mustParse(t *testing.T, args ...string) (*convertFlags, []string) {
	t.Helper()

	f, rest, err := parseConvertFlags(args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseConvertFlags(%v) error = %v", args, err)
	}
	return f, rest
}
