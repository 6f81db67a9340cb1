package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-img2pdf/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config file exceeds maximum size")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Defaults mirror the behaviour of running the tool with no arguments.
const (
	DefaultRootDir    = "folders"
	DefaultOutputPath = "compressed_learningaids.pdf"
	DefaultAidsDir    = "00_LEARNINGAIDS"
	DefaultExtension  = ".png"
	DefaultMaxWidth   = 1600
	DefaultQuality    = 75
	DefaultCanvasW    = 1600
	DefaultCanvasH    = 900
	DefaultFontSize   = 64.0
	DefaultPrefix     = "Chapter: "
	DefaultOnInvalid  = OnInvalidAbort
)

// Malformed image policies.
const (
	OnInvalidAbort = "abort"
	OnInvalidSkip  = "skip"
)

// Field length and range limits.
const (
	MaxPathLength   = 4096
	MaxNameLength   = 255
	MaxPrefixLength = 100
	MaxCanvasSide   = 14400 // PDF user space limit in points
	MinQuality      = 1
	MaxQuality      = 100
)

// MaxFileSize limits config input to prevent memory exhaustion (1MB).
var MaxFileSize = 1 << 20

// Config holds all configuration for document generation.
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Compression CompressionConfig `yaml:"compression"`
	Chapters    ChaptersConfig    `yaml:"chapters"`
	Images      ImagesConfig      `yaml:"images"`
}

// InputConfig defines where source images are collected from.
type InputConfig struct {
	RootDir   string `yaml:"rootDir"`   // Folder whose subfolders are scanned
	AidsDir   string `yaml:"aidsDir"`   // Child folder name holding images
	Extension string `yaml:"extension"` // Matched case-insensitively
}

// OutputConfig defines the output document.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// CompressionConfig defines downsampling and page encoding.
type CompressionConfig struct {
	Enabled  bool `yaml:"enabled"`
	MaxWidth int  `yaml:"maxWidth"` // pixels
	Quality  int  `yaml:"quality"`  // JPEG quality, 1-100
}

// ChaptersConfig defines chapter divider pages and the outline.
type ChaptersConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Font     string  `yaml:"font"` // Empty = embedded font
	FontSize float64 `yaml:"fontSize"`
	Prefix   string  `yaml:"prefix"`
}

// ImagesConfig defines how unreadable images are handled.
type ImagesConfig struct {
	OnInvalid string `yaml:"onInvalid"` // "abort" or "skip"
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			RootDir:   DefaultRootDir,
			AidsDir:   DefaultAidsDir,
			Extension: DefaultExtension,
		},
		Output: OutputConfig{Path: DefaultOutputPath},
		Compression: CompressionConfig{
			Enabled:  true,
			MaxWidth: DefaultMaxWidth,
			Quality:  DefaultQuality,
		},
		Chapters: ChaptersConfig{
			Enabled:  false,
			Width:    DefaultCanvasW,
			Height:   DefaultCanvasH,
			FontSize: DefaultFontSize,
			Prefix:   DefaultPrefix,
		},
		Images: ImagesConfig{OnInvalid: DefaultOnInvalid},
	}
}

// Validate checks lengths and ranges.
// Called automatically by LoadConfig, but available for callers who
// construct or mutate a Config after loading (e.g., after merging flags).
func (c *Config) Validate() error {
	if err := validateFieldLength("input.rootDir", c.Input.RootDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("input.aidsDir", c.Input.AidsDir, MaxNameLength); err != nil {
		return err
	}
	if c.Input.AidsDir == "" || fileutil.IsFilePath(c.Input.AidsDir) {
		return fmt.Errorf("%w: input.aidsDir %q must be a single folder name", ErrInvalidValue, c.Input.AidsDir)
	}
	if _, err := fileutil.NormalizeExtension(c.Input.Extension); err != nil {
		return fmt.Errorf("%w: input.extension: %v", ErrInvalidValue, err)
	}

	if err := validateFieldLength("output.path", c.Output.Path, MaxPathLength); err != nil {
		return err
	}
	if c.Output.Path == "" {
		return fmt.Errorf("%w: output.path is required", ErrInvalidValue)
	}

	if c.Compression.Enabled {
		if c.Compression.MaxWidth < 1 {
			return fmt.Errorf("%w: compression.maxWidth must be positive, got %d", ErrInvalidValue, c.Compression.MaxWidth)
		}
		if c.Compression.Quality < MinQuality || c.Compression.Quality > MaxQuality {
			return fmt.Errorf("%w: compression.quality must be between %d and %d, got %d",
				ErrInvalidValue, MinQuality, MaxQuality, c.Compression.Quality)
		}
	}

	if c.Chapters.Enabled {
		if c.Chapters.Width < 1 || c.Chapters.Width > MaxCanvasSide ||
			c.Chapters.Height < 1 || c.Chapters.Height > MaxCanvasSide {
			return fmt.Errorf("%w: chapters canvas must be between 1 and %d, got %dx%d",
				ErrInvalidValue, MaxCanvasSide, c.Chapters.Width, c.Chapters.Height)
		}
		if c.Chapters.FontSize <= 0 {
			return fmt.Errorf("%w: chapters.fontSize must be positive, got %.1f", ErrInvalidValue, c.Chapters.FontSize)
		}
		if err := validateFieldLength("chapters.font", c.Chapters.Font, MaxPathLength); err != nil {
			return err
		}
		if err := validateFieldLength("chapters.prefix", c.Chapters.Prefix, MaxPrefixLength); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Images.OnInvalid) {
	case OnInvalidAbort, OnInvalidSkip:
	default:
		return fmt.Errorf("%w: images.onInvalid %q (must be abort or skip)", ErrInvalidValue, c.Images.OnInvalid)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes YAML on top of DefaultConfig, rejecting unknown fields.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxFileSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-img2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-img2pdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Tried: triedPaths}
}

// NotFoundError reports a config name that matched no file.
// It matches ErrConfigNotFound with errors.Is.
type NotFoundError struct {
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: tried %s", ErrConfigNotFound, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }
