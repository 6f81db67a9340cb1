// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-img2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForRootNotFound returns hints for a missing or unreadable root folder.
func ForRootNotFound(root string) string {
	var hints []string
	hints = append(hints, "pass the folder as the first argument or set IMG2PDF_ROOT")
	if IsInContainer() {
		hints = append(hints, "mount "+root+" into the container")
	}
	return formatHints(hints)
}

// ForNoImages returns a hint when the root contains no qualifying images.
func ForNoImages(aidsDir, ext string) string {
	return format("each chapter folder needs a " + aidsDir + "/ child with *" + ext + " files (see --aids-dir, --ext)")
}

// ForDecodeError returns a hint for unreadable source images.
func ForDecodeError() string {
	return format("use --skip-invalid to leave unreadable images out")
}

// ForFontFallback returns a hint shown when the chapter font could not be loaded.
func ForFontFallback() string {
	return format("--font expects a TrueType or OpenType file; using the embedded font")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-img2pdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-img2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	hints := []string{"check parent directory exists and is writable"}
	if IsInContainer() {
		hints = append(hints, "mount a writable volume for -o")
	}
	return formatHints(hints)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
