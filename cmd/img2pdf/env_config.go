package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-img2pdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
// Empty strings, zero numbers and nil booleans mean "not set".
type envConfig struct {
	ConfigPath string // IMG2PDF_CONFIG: config file name or path
	RootDir    string // IMG2PDF_ROOT: folder to scan
	Output     string // IMG2PDF_OUTPUT: output PDF path
	AidsDir    string // IMG2PDF_AIDS_DIR: child folder holding images
	Extension  string // IMG2PDF_EXT: image extension
	Compress   *bool  // IMG2PDF_COMPRESS: true/false
	MaxWidth   int    // IMG2PDF_MAX_WIDTH: downsampling width
	Quality    int    // IMG2PDF_QUALITY: JPEG quality
	Chapters   *bool  // IMG2PDF_CHAPTERS: true/false
	Font       string // IMG2PDF_FONT: divider font path
	OnInvalid  string // IMG2PDF_ON_INVALID: abort or skip
}

// knownEnvVars lists valid IMG2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"IMG2PDF_CONFIG":     true,
	"IMG2PDF_ROOT":       true,
	"IMG2PDF_OUTPUT":     true,
	"IMG2PDF_AIDS_DIR":   true,
	"IMG2PDF_EXT":        true,
	"IMG2PDF_COMPRESS":   true,
	"IMG2PDF_MAX_WIDTH":  true,
	"IMG2PDF_QUALITY":    true,
	"IMG2PDF_CHAPTERS":   true,
	"IMG2PDF_FONT":       true,
	"IMG2PDF_ON_INVALID": true,
	"IMG2PDF_CONTAINER":  true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("IMG2PDF_CONFIG"),
		RootDir:    os.Getenv("IMG2PDF_ROOT"),
		Output:     os.Getenv("IMG2PDF_OUTPUT"),
		AidsDir:    os.Getenv("IMG2PDF_AIDS_DIR"),
		Extension:  os.Getenv("IMG2PDF_EXT"),
		Font:       os.Getenv("IMG2PDF_FONT"),
		OnInvalid:  os.Getenv("IMG2PDF_ON_INVALID"),
		Compress:   envBool("IMG2PDF_COMPRESS"),
		Chapters:   envBool("IMG2PDF_CHAPTERS"),
		MaxWidth:   envPositiveInt("IMG2PDF_MAX_WIDTH"),
		Quality:    envPositiveInt("IMG2PDF_QUALITY"),
	}
	return cfg
}

func envBool(name string) *bool {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func envPositiveInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// warnUnknownEnvVars logs warnings for unrecognized IMG2PDF_* variables.
// Helps catch typos like IMG2PDF_QUALTY instead of IMG2PDF_QUALITY.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "IMG2PDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are applied later via
// mergeFlags, giving: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.RootDir != "" {
		cfg.Input.RootDir = env.RootDir
	}
	if env.AidsDir != "" {
		cfg.Input.AidsDir = env.AidsDir
	}
	if env.Extension != "" {
		cfg.Input.Extension = env.Extension
	}
	if env.Output != "" {
		cfg.Output.Path = env.Output
	}

	if env.Compress != nil {
		cfg.Compression.Enabled = *env.Compress
	}
	if env.MaxWidth > 0 {
		cfg.Compression.MaxWidth = env.MaxWidth
	}
	if env.Quality > 0 {
		cfg.Compression.Quality = env.Quality
	}

	if env.Chapters != nil {
		cfg.Chapters.Enabled = *env.Chapters
	}
	if env.Font != "" {
		cfg.Chapters.Font = env.Font
	}

	if env.OnInvalid != "" {
		cfg.Images.OnInvalid = env.OnInvalid
	}
}
