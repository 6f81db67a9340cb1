// Package img2pdf assembles folders of page images into a single PDF.
//
// # Quick Start
//
// Point a converter at a root folder whose subfolders each hold a
// 00_LEARNINGAIDS/ directory of PNG pages:
//
//	conv := img2pdf.NewConverter()
//
//	result, err := conv.Convert(ctx, img2pdf.Input{
//	    RootDir:    "folders",
//	    OutputPath: "compressed_learningaids.pdf",
//	    Compress:   true,
//	})
//	if errors.Is(err, img2pdf.ErrNoImages) {
//	    fmt.Println("No images found.")
//	    return
//	}
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Pages, "pages")
//
// # Layout
//
// Subfolders of RootDir are visited in natural order ("2" before "10"),
// and so are the images inside each aids folder. Folders without images
// are skipped.
//
// With Input.Chapters set, every folder starts with a divider page
// reading "Chapter: <folder>" and gets an outline (bookmark) entry that
// targets that divider. Without it, images follow each other with no
// separators.
//
// # Compression
//
// When Input.Compress is true, images wider than Input.MaxWidth are
// downsampled, every page is embedded as JPEG at Input.Quality, and the
// finished file is optimized with pdfcpu. Otherwise pages keep their
// original size and are embedded losslessly.
//
// Each page is exactly the size of its bitmap, one pixel per point.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := img2pdf.NewConverter(
//	    img2pdf.WithLogger(slog.Default()),
//	    img2pdf.WithProgressOutput(os.Stderr),
//	)
//
// # Inspection
//
// Inspect reads a PDF back and reports its pages, embedded images and
// outline, which is handy for checking the output of Convert:
//
//	info, err := img2pdf.Inspect("compressed_learningaids.pdf")
package img2pdf
