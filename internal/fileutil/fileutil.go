// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// File permission constants.
const (
	DirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	FilePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// NormalizeExtension validates ext and returns it with a leading dot.
// "png", ".png" and "PNG" are all accepted; the case is preserved.
func NormalizeExtension(ext string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if trimmed == "" {
		return "", ErrExtensionEmpty
	}
	if strings.ContainsAny(trimmed, "/\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrExtensionPathTraversal, ext)
	}
	return "." + trimmed, nil
}

// HasExtension reports whether name ends in ext, ignoring case.
// ext must include the leading dot.
func HasExtension(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "default" -> false (name)
//   - "./img2pdf.yaml" -> true (relative path)
//   - "/etc/img2pdf.yaml" -> true (absolute)
//   - "sub/dir" -> true (contains separator)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// WriteFileAtomic writes to a temporary file next to path and renames it into
// place once write succeeds, so a failed run never leaves a partial file.
// The parent directory is created if needed.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".img2pdf-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if writeErr := write(tmpFile); writeErr != nil {
		_ = tmpFile.Close()
		return writeErr
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if chmodErr := os.Chmod(tmpPath, FilePermissions); chmodErr != nil {
		return fmt.Errorf("setting permissions: %w", chmodErr)
	}

	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		return fmt.Errorf("renaming temp file: %w", renameErr)
	}

	return nil
}
