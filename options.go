package img2pdf

import (
	"image"
	"io"
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// ChapterRenderer draws divider pages.
// *chapter.Renderer from internal/chapter is the default implementation.
type ChapterRenderer interface {
	// Render returns the divider bitmap for a folder name.
	Render(title string) (*image.RGBA, error)
	// FontFallback returns why the preferred font was not used, or nil.
	FontFallback() error
}

// WithLogger sets the structured logger. Nil restores the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l == nil {
			l = discardLogger()
		}
		c.logger = l
	}
}

// WithProgressOutput enables a progress bar, one tick per image, on w.
func WithProgressOutput(w io.Writer) Option {
	return func(c *Converter) {
		c.progress = w
	}
}

// WithChapterRenderer replaces the divider page renderer built from
// Input.Chapter. Panics if r is nil (programmer error).
func WithChapterRenderer(r ChapterRenderer) Option {
	if r == nil {
		panic("img2pdf: WithChapterRenderer renderer must not be nil")
	}
	return func(c *Converter) {
		c.renderer = r
	}
}

// withClock overrides time.Now, for tests.
func withClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

// withPostProcessor overrides the pdfcpu post-processor, for tests.
func withPostProcessor(pp pdfPostProcessor) Option {
	return func(c *Converter) {
		c.post = pp
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
