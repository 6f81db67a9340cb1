package img2pdf

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/unicode"

	"github.com/alnah/go-img2pdf/internal/fileutil"
	"github.com/alnah/go-img2pdf/internal/imaging"
)

// creator is written to the PDF info dictionary.
const creator = "go-img2pdf"

// Document assembles image pages into a PDF held in memory until Save.
// Each page is exactly the size of its bitmap, one pixel per point.
// A Document is not safe for concurrent use.
type Document struct {
	pdf     *gofpdf.Fpdf
	enc     imaging.Encoding
	pages   int
	outline []OutlineEntry
	saved   bool
}

// NewDocument creates an empty document whose pages are embedded with enc.
func NewDocument(enc imaging.Encoding) (*Document, error) {
	if err := enc.Validate(); err != nil {
		return nil, err
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		SizeStr:        "A4",
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(creator, true)

	return &Document{pdf: pdf, enc: enc}, nil
}

// AppendImage adds img as a new page and returns the number of pages added.
// Images that are not opaque are flattened onto white first.
func (d *Document) AppendImage(img image.Image) (int, error) {
	if err := d.addPage(img); err != nil {
		return 0, err
	}
	return 1, nil
}

// AppendChapter adds img as a divider page with an outline entry titled
// title that targets it, and returns the number of pages added. Titles
// outside ASCII are written as UTF-16, so any Unicode title survives.
func (d *Document) AppendChapter(title string, img image.Image) (int, error) {
	text, err := outlineText(title)
	if err != nil {
		return 0, fmt.Errorf("%w: bookmark %q: %v", ErrPDFGeneration, title, err)
	}
	if err := d.addPage(img); err != nil {
		return 0, err
	}
	d.pdf.Bookmark(text, 0, 0)
	if err := d.pdf.Error(); err != nil {
		return 0, fmt.Errorf("%w: bookmark %q: %v", ErrPDFGeneration, title, err)
	}
	d.outline = append(d.outline, OutlineEntry{Title: title, Page: d.pages})
	return 1, nil
}

// outlineText encodes title as a PDF text string: ASCII as is, anything
// else as big-endian UTF-16 with a byte order mark.
func outlineText(title string) (string, error) {
	for i := 0; i < len(title); i++ {
		if title[i] >= 0x80 {
			return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String(title)
		}
	}
	return title, nil
}

// addPage encodes img and places it on a page of its own size.
func (d *Document) addPage(img image.Image) error {
	if d.saved {
		return ErrDocumentSaved
	}
	if img == nil || img.Bounds().Empty() {
		return ErrInvalidPageBitmap
	}
	if o, ok := img.(interface{ Opaque() bool }); !ok || !o.Opaque() {
		img = imaging.Normalize(img, 0)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, d.enc); err != nil {
		return fmt.Errorf("%w: encoding page %d: %v", ErrPDFGeneration, d.pages+1, err)
	}

	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	name := fmt.Sprintf("page-%d", d.pages+1)
	opts := gofpdf.ImageOptions{ImageType: d.imageType()}

	orientation, size := pageFormat(w, h)
	d.pdf.AddPageFormat(orientation, size)
	d.pdf.RegisterImageOptionsReader(name, opts, &buf)
	d.pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrPDFGeneration, d.pages+1, err)
	}

	d.pages++
	return nil
}

// imageType maps the page encoding to the gofpdf image type name.
func (d *Document) imageType() string {
	if d.enc.Format == imaging.FormatJPEG {
		return "JPG"
	}
	return "PNG"
}

// pageFormat returns the orientation and size gofpdf needs to produce a page
// exactly w×h points, wide pages included.
func pageFormat(w, h float64) (string, gofpdf.SizeType) {
	if w > h {
		return "L", gofpdf.SizeType{Wd: h, Ht: w}
	}
	return "P", gofpdf.SizeType{Wd: w, Ht: h}
}

// PageCount returns the number of pages appended so far.
func (d *Document) PageCount() int {
	return d.pages
}

// Outline returns a copy of the outline entries in page order.
func (d *Document) Outline() []OutlineEntry {
	out := make([]OutlineEntry, len(d.outline))
	copy(out, d.outline)
	return out
}

// WriteTo writes the finished PDF to w. The document cannot be appended to
// or written again afterwards.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if d.saved {
		return 0, ErrDocumentSaved
	}
	if d.pages == 0 {
		return 0, ErrNoImages
	}
	d.saved = true

	cw := &countingWriter{w: w}
	if err := d.pdf.Output(cw); err != nil {
		return cw.n, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return cw.n, nil
}

// Save writes the PDF to path in a single step: a temporary file in the same
// directory is renamed over path only once the PDF is complete.
func (d *Document) Save(path string) error {
	if d.pages == 0 {
		return ErrNoImages
	}
	return fileutil.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := d.WriteTo(w)
		return err
	})
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
