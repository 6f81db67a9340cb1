package img2pdf

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxInheritDepth bounds the walk up the page tree for inherited attributes.
const maxInheritDepth = 32

// DocumentInfo describes a PDF read back from disk.
type DocumentInfo struct {
	Path    string
	Pages   []PageInfo
	Outline []string // Top-level outline titles in order
}

// PageInfo describes one page.
type PageInfo struct {
	Width  float64 // points
	Height float64 // points
	Images []ImageInfo
}

// ImageInfo describes an image XObject used by a page.
type ImageInfo struct {
	Name       string
	Width      int // pixels
	Height     int // pixels
	ColorSpace string
	Filter     string
	HasAlpha   bool // true when a soft mask is attached
}

// Inspect reads the PDF at path and reports its pages, their images and the
// top-level outline.
func Inspect(path string) (info *DocumentInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrPDFRead, path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPDFRead, path, err)
	}
	defer func() { _ = f.Close() }()

	info = &DocumentInfo{Path: path}
	n := r.NumPage()
	info.Pages = make([]PageInfo, 0, n)
	for i := 1; i <= n; i++ {
		info.Pages = append(info.Pages, inspectPage(r.Page(i)))
	}

	for _, o := range r.Outline().Child {
		info.Outline = append(info.Outline, o.Title)
	}

	return info, nil
}

func inspectPage(p pdf.Page) PageInfo {
	var page PageInfo

	box := inherited(p.V, "MediaBox")
	if box.Kind() == pdf.Array && box.Len() == 4 {
		page.Width = box.Index(2).Float64() - box.Index(0).Float64()
		page.Height = box.Index(3).Float64() - box.Index(1).Float64()
	}

	// Resources may be shared by every page, so only XObjects the
	// content stream paints belong to this page.
	drawn := drawnXObjects(p.V.Key("Contents"))
	xobjects := p.Resources().Key("XObject")
	names := xobjects.Keys()
	sort.Strings(names)
	for _, name := range names {
		if !drawn[name] {
			continue
		}
		x := xobjects.Key(name)
		if x.Key("Subtype").Name() != "Image" {
			continue
		}
		page.Images = append(page.Images, ImageInfo{
			Name:       name,
			Width:      int(x.Key("Width").Int64()),
			Height:     int(x.Key("Height").Int64()),
			ColorSpace: nameOrFirst(x.Key("ColorSpace")),
			Filter:     nameOrFirst(x.Key("Filter")),
			HasAlpha:   !x.Key("SMask").IsNull(),
		})
	}

	return page
}

// drawnXObjects returns the names used by "/Name Do" operators in a page's
// content, which is a single stream or an array of streams.
func drawnXObjects(contents pdf.Value) map[string]bool {
	drawn := make(map[string]bool)

	var streams []pdf.Value
	switch contents.Kind() {
	case pdf.Stream:
		streams = append(streams, contents)
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			streams = append(streams, contents.Index(i))
		}
	}

	for _, s := range streams {
		if s.Kind() != pdf.Stream {
			continue
		}
		rc := s.Reader()
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			continue
		}

		fields := strings.Fields(string(data))
		for i := 1; i < len(fields); i++ {
			if fields[i] == "Do" && strings.HasPrefix(fields[i-1], "/") {
				drawn[fields[i-1][1:]] = true
			}
		}
	}
	return drawn
}

// inherited looks key up on v and then on its Parent chain.
func inherited(v pdf.Value, key string) pdf.Value {
	for i := 0; i < maxInheritDepth && !v.IsNull(); i++ {
		if got := v.Key(key); !got.IsNull() {
			return got
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

// nameOrFirst returns a name value, or the first name of an array
// such as [/ICCBased 5 0 R] or [/FlateDecode].
func nameOrFirst(v pdf.Value) string {
	switch v.Kind() {
	case pdf.Name:
		return v.Name()
	case pdf.Array:
		if v.Len() > 0 {
			return v.Index(0).Name()
		}
	}
	return ""
}
