package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// inputFlags holds image discovery flags.
type inputFlags struct {
	aidsDir   string
	extension string
	onInvalid bool // --skip-invalid
}

// compressionFlags holds downsampling and encoding flags.
type compressionFlags struct {
	disabled bool
	maxWidth int
	quality  int
}

// chapterFlags holds divider page flags.
type chapterFlags struct {
	enabled  bool
	font     string
	fontSize float64
	width    int
	height   int
	prefix   string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common      commonFlags
	output      string
	input       inputFlags
	compression compressionFlags
	chapters    chapterFlags

	// changed records flags set on the command line, so defaults never
	// override config file or environment values.
	changed map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addInputFlags adds image discovery flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVar(&f.aidsDir, "aids-dir", "", "child folder holding images (default 00_LEARNINGAIDS)")
	fs.StringVar(&f.extension, "ext", "", "image extension (default .png)")
	fs.BoolVar(&f.onInvalid, "skip-invalid", false, "skip unreadable images instead of aborting")
}

// addCompressionFlags adds compression flags to a FlagSet.
func addCompressionFlags(fs *flag.FlagSet, f *compressionFlags) {
	fs.BoolVar(&f.disabled, "no-compress", false, "keep original size and lossless pages")
	fs.IntVar(&f.maxWidth, "max-width", 0, "downsample wider images to this width (default 1600)")
	fs.IntVar(&f.quality, "quality", 0, "JPEG quality 1-100 (default 75)")
}

// addChapterFlags adds chapter divider flags to a FlagSet.
func addChapterFlags(fs *flag.FlagSet, f *chapterFlags) {
	fs.BoolVar(&f.enabled, "chapters", false, "add a divider page and bookmark per folder")
	fs.StringVar(&f.font, "font", "", "TrueType/OpenType font for divider pages")
	fs.Float64Var(&f.fontSize, "font-size", 0, "divider caption size in points (default 64)")
	fs.IntVar(&f.width, "canvas-width", 0, "divider page width in pixels (default 1600)")
	fs.IntVar(&f.height, "canvas-height", 0, "divider page height in pixels (default 900)")
	fs.StringVar(&f.prefix, "prefix", "", "divider caption prefix (default \"Chapter: \")")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &convertFlags{changed: make(map[string]bool)}

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path")
	addCommonFlags(fs, &f.common)
	addInputFlags(fs, &f.input)
	addCompressionFlags(fs, &f.compression)
	addChapterFlags(fs, &f.chapters)

	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })

	return f, fs.Args(), nil
}
