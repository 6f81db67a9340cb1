package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	img2pdf "github.com/alnah/go-img2pdf"
	"github.com/alnah/go-img2pdf/internal/config"
	"github.com/alnah/go-img2pdf/internal/hints"
)

// ErrTooManyArgs is returned when more than one root folder is given.
var ErrTooManyArgs = errors.New("too many arguments")

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, input img2pdf.Input) (*img2pdf.Result, error)
}

// Compile-time interface implementation check.
var _ Converter = (*img2pdf.Converter)(nil)

// newConverter builds the library converter; replaced in tests.
var newConverter = func(logger *slog.Logger, progress io.Writer) Converter {
	opts := []img2pdf.Option{img2pdf.WithLogger(logger)}
	if progress != nil {
		opts = append(opts, img2pdf.WithProgressOutput(progress))
	}
	return img2pdf.NewConverter(opts...)
}

// runConvertCmd parses flags, runs the conversion and returns an exit code.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		printConvertUsage(env.Stderr)
		return ExitUsage
	}

	logger := newLogger(env.Stderr, flags.common)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}
	logger.Debug("runtime", "gomaxprocs", runtime.GOMAXPROCS(0))

	var progress io.Writer
	if !flags.common.quiet {
		progress = env.Stdout
	}

	start := env.Now()
	cfg, err := runConvert(ctx, positional, flags, newConverter(logger, progress), env)
	logger.Debug("convert finished", "elapsed", env.Now().Sub(start), "error", err)
	if errors.Is(err, img2pdf.ErrNoImages) {
		fmt.Fprintln(env.Stdout, "No images found.")
		if flags.common.verbose {
			fmt.Fprintln(env.Stderr, strings.TrimPrefix(hints.ForNoImages(cfg.Input.AidsDir, cfg.Input.Extension), "\n"))
		}
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, cfg))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert resolves configuration, converts, and prints the outcome. It
// returns the resolved configuration, or nil when resolution failed.
func runConvert(ctx context.Context, positional []string, flags *convertFlags, conv Converter, env *Environment) (*config.Config, error) {
	if len(positional) > 1 {
		return nil, fmt.Errorf("%w: expected at most one root folder, got %d", ErrTooManyArgs, len(positional))
	}

	cfg, err := resolveConfig(flags, loadEnvConfig())
	if err != nil {
		return nil, err
	}
	if len(positional) == 1 {
		cfg.Input.RootDir = positional[0]
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	result, err := conv.Convert(ctx, buildInput(cfg))
	if err != nil {
		return cfg, err
	}

	printResult(env.Stdout, result, cfg.Compression.Enabled, flags.common)
	return cfg, nil
}

// resolveConfig layers defaults, config file, environment and flags.
func resolveConfig(flags *convertFlags, envCfg *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	return cfg, nil
}

// mergeFlags merges CLI flags into config. Only flags given on the command
// line override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	set := flags.changed

	if set["output"] {
		cfg.Output.Path = flags.output
	}
	if set["aids-dir"] {
		cfg.Input.AidsDir = flags.input.aidsDir
	}
	if set["ext"] {
		cfg.Input.Extension = flags.input.extension
	}
	if set["skip-invalid"] {
		cfg.Images.OnInvalid = config.OnInvalidAbort
		if flags.input.onInvalid {
			cfg.Images.OnInvalid = config.OnInvalidSkip
		}
	}

	if set["no-compress"] {
		cfg.Compression.Enabled = !flags.compression.disabled
	}
	if set["max-width"] {
		cfg.Compression.MaxWidth = flags.compression.maxWidth
	}
	if set["quality"] {
		cfg.Compression.Quality = flags.compression.quality
	}

	if set["chapters"] {
		cfg.Chapters.Enabled = flags.chapters.enabled
	}
	if set["font"] {
		cfg.Chapters.Font = flags.chapters.font
	}
	if set["font-size"] {
		cfg.Chapters.FontSize = flags.chapters.fontSize
	}
	if set["canvas-width"] {
		cfg.Chapters.Width = flags.chapters.width
	}
	if set["canvas-height"] {
		cfg.Chapters.Height = flags.chapters.height
	}
	if set["prefix"] {
		cfg.Chapters.Prefix = flags.chapters.prefix
	}
}

// buildInput maps the resolved configuration to a library Input.
func buildInput(cfg *config.Config) img2pdf.Input {
	return img2pdf.Input{
		RootDir:    cfg.Input.RootDir,
		OutputPath: cfg.Output.Path,
		AidsDir:    cfg.Input.AidsDir,
		Extension:  cfg.Input.Extension,
		Chapters:   cfg.Chapters.Enabled,
		Compress:   cfg.Compression.Enabled,
		MaxWidth:   cfg.Compression.MaxWidth,
		Quality:    cfg.Compression.Quality,
		Chapter: img2pdf.ChapterSettings{
			Width:    cfg.Chapters.Width,
			Height:   cfg.Chapters.Height,
			FontPath: cfg.Chapters.Font,
			FontSize: cfg.Chapters.FontSize,
			Prefix:   cfg.Chapters.Prefix,
		},
		OnInvalidImage: cfg.Images.OnInvalid,
	}
}

// printResult prints the completion message and, when verbose, a summary.
func printResult(w io.Writer, r *img2pdf.Result, compressed bool, common commonFlags) {
	if common.quiet {
		return
	}

	if compressed {
		fmt.Fprintf(w, "Compressed PDF saved to: %s\n", r.OutputPath)
	} else {
		fmt.Fprintf(w, "PDF saved to: %s\n", r.OutputPath)
	}

	for _, path := range r.Skipped {
		fmt.Fprintf(w, "  skipped: %s\n", path)
	}

	if common.verbose {
		fmt.Fprintf(w, "%d pages from %d folders in %v\n", r.Pages, r.Folders, r.Duration.Round(time.Millisecond))
		for _, e := range r.Outline {
			fmt.Fprintf(w, "  p.%-4d %s\n", e.Page, e.Title)
		}
	}
}

// hintFor returns an actionable hint for err, or "". cfg is the resolved
// configuration; nil falls back to defaults.
func hintFor(err error, cfg *config.Config) string {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var notFound *config.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Tried)
	case errors.Is(err, img2pdf.ErrReadRoot):
		return hints.ForRootNotFound(cfg.Input.RootDir)
	case errors.Is(err, img2pdf.ErrDecode):
		return hints.ForDecodeError()
	case errors.Is(err, img2pdf.ErrWritePDF):
		return hints.ForOutputDirectory()
	}
	return ""
}

// newLogger returns a text logger on w: debug with --verbose, warnings by
// default, nothing with --quiet.
func newLogger(w io.Writer, common commonFlags) *slog.Logger {
	if common.quiet {
		return slog.New(slog.DiscardHandler)
	}

	level := slog.LevelWarn
	if common.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}
