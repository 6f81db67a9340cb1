package img2pdf

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/alnah/go-img2pdf/internal/chapter"
	"github.com/alnah/go-img2pdf/internal/imaging"
)

// Compile-time interface implementation checks.
var (
	_ ChapterRenderer  = (*chapter.Renderer)(nil)
	_ pdfPostProcessor = (*pdfcpuProcessor)(nil)
)

// Converter collects images from a folder tree and writes them as one PDF.
// Create with NewConverter and call Convert. A Converter holds no per-run
// state and may be reused.
type Converter struct {
	logger   *slog.Logger
	progress io.Writer
	renderer ChapterRenderer
	post     pdfPostProcessor
	now      func() time.Time
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithLogger, WithProgressOutput).
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		logger: discardLogger(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.post == nil {
		c.post = newPDFCPUProcessor()
	}

	return c
}

// Convert runs collect, normalize, assemble, save and, when compressing,
// optimize, then checks the written page count.
//
// If no image is found (or every image was skipped) it returns ErrNoImages
// and writes nothing. The context is checked between images.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.Validate(); err != nil {
		return nil, err
	}
	in := input.withDefaults()
	start := c.now()

	folders, err := Collect(in.RootDir, CollectOptions{
		AidsDir:   in.AidsDir,
		Extension: in.Extension,
		Logger:    c.logger,
	})
	if err != nil {
		return nil, err
	}

	total := CountImages(folders)
	if total == 0 {
		return nil, ErrNoImages
	}
	c.logger.Info("collected images", "root", in.RootDir, "folders", len(folders), "images", total)

	doc, err := NewDocument(in.encoding())
	if err != nil {
		return nil, err
	}

	a := &assembly{
		doc:      doc,
		maxWidth: in.maxWidth(),
		skip:     in.OnInvalidImage == OnInvalidSkip,
		logger:   c.logger,
		bar:      newProgress(c.progress, total),
	}

	if in.Chapters {
		err = a.chaptered(ctx, folders, c.chapterRenderer(in))
	} else {
		err = a.flat(ctx, Flatten(folders))
	}
	if err != nil {
		a.bar.abort()
		return nil, err
	}
	a.bar.finish()

	if a.pages == 0 {
		return nil, ErrNoImages
	}

	if err := doc.Save(in.OutputPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWritePDF, in.OutputPath, err)
	}
	c.logger.Debug("document written", "path", in.OutputPath, "pages", a.pages)

	if in.Compress {
		if err := c.post.Optimize(in.OutputPath); err != nil {
			return nil, err
		}
		c.logger.Debug("document optimized", "path", in.OutputPath)
	}

	if err := verifyPageCount(c.post, in.OutputPath, a.pages); err != nil {
		return nil, err
	}

	return &Result{
		OutputPath: in.OutputPath,
		Pages:      a.pages,
		Folders:    len(folders),
		Outline:    doc.Outline(),
		Skipped:    a.skipped,
		Duration:   c.now().Sub(start),
	}, nil
}

// chapterRenderer returns the injected renderer or one built from in.
func (c *Converter) chapterRenderer(in Input) ChapterRenderer {
	r := c.renderer
	if r == nil {
		r = chapter.NewRenderer(in.chapterSettings())
	}
	if fb := r.FontFallback(); fb != nil {
		c.logger.Warn("chapter font unavailable, using embedded font", "error", fb)
	}
	return r
}

// assembly carries the state of one Convert run. pages is the running
// page counter, accumulated from what each append reports.
type assembly struct {
	doc      *Document
	maxWidth int
	skip     bool
	logger   *slog.Logger
	bar      *progress
	pages    int
	skipped  []string
}

// flat appends every image as a page, with no separators.
func (a *assembly) flat(ctx context.Context, paths []string) error {
	for _, path := range paths {
		if err := a.appendImage(ctx, path, nil); err != nil {
			return err
		}
	}
	return nil
}

// chaptered appends, for each folder, a divider page and its images.
// Under the abort policy every folder gets its divider, even one with no
// images. Under the skip policy the divider is added just before the
// folder's first readable image, so a folder whose images were all skipped
// leaves no trace.
func (a *assembly) chaptered(ctx context.Context, folders []FolderEntry, r ChapterRenderer) error {
	for _, folder := range folders {
		opened := false
		open := func() error {
			if opened {
				return nil
			}
			opened = true
			divider, err := r.Render(folder.Name)
			if err != nil {
				return fmt.Errorf("rendering chapter %q: %w", folder.Name, err)
			}
			n, err := a.doc.AppendChapter(folder.Name, divider)
			if err != nil {
				return err
			}
			a.pages += n
			a.logger.Debug("chapter added", "title", folder.Name, "page", a.pages)
			return nil
		}

		if !a.skip {
			if err := open(); err != nil {
				return err
			}
		}

		for _, path := range folder.Images {
			if err := a.appendImage(ctx, path, open); err != nil {
				return err
			}
		}
	}
	return nil
}

// appendImage loads path and appends it. before, when set, runs once the
// image is known to be readable and before its page is added.
func (a *assembly) appendImage(ctx context.Context, path string, before func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := a.load(path)
	if err != nil || img == nil {
		return err
	}

	if before != nil {
		if err := before(); err != nil {
			return err
		}
	}

	n, err := a.doc.AppendImage(img)
	if err != nil {
		return fmt.Errorf("adding %s: %w", path, err)
	}
	a.pages += n
	return nil
}

// load decodes and normalizes path. It returns a nil image when the file
// is unreadable and the skip policy is active.
func (a *assembly) load(path string) (image.Image, error) {
	defer a.bar.tick()

	img, err := imaging.Open(path)
	if err != nil {
		if a.skip && (errors.Is(err, imaging.ErrDecode) || errors.Is(err, imaging.ErrEmptyImage)) {
			a.logger.Warn("skipping unreadable image", "path", path, "error", err)
			a.skipped = append(a.skipped, path)
			return nil, nil
		}
		return nil, err
	}
	return imaging.Normalize(img, a.maxWidth), nil
}

// progress wraps an optional progress bar.
type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress(w io.Writer, total int) *progress {
	if w == nil {
		return &progress{}
	}
	return &progress{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Adding pages"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)}
}

func (p *progress) tick() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *progress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func (p *progress) abort() {
	if p.bar != nil {
		_ = p.bar.Clear()
	}
}
