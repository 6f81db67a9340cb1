package img2pdf

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-img2pdf/internal/fileutil"
	"github.com/alnah/go-img2pdf/internal/natsort"
)

// CollectOptions configures Collect.
type CollectOptions struct {
	AidsDir   string       // default: 00_LEARNINGAIDS
	Extension string       // default: .png
	Logger    *slog.Logger // optional, receives skipped folders at debug level
}

// Collect lists the immediate subfolders of root in natural order and, for
// each one, the images in its AidsDir child, also in natural order.
//
// Subfolders whose aids folder is missing or unreadable are left out. A
// subfolder whose aids folder holds no matching file is kept with no images. Entries of root that are not directories are ignored.
// Only a failure to read root itself is an error; it wraps ErrReadRoot and
// the underlying fs error.
func Collect(root string, opts CollectOptions) ([]FolderEntry, error) {
	if opts.AidsDir == "" {
		opts.AidsDir = DefaultAidsDir
	}
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	ext, err := fileutil.NormalizeExtension(opts.Extension)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtension, err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadRoot, root, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if isDir(root, e) {
			names = append(names, e.Name())
		}
	}
	natsort.Strings(names)

	folders := make([]FolderEntry, 0, len(names))
	for _, name := range names {
		aids := filepath.Join(root, name, opts.AidsDir)
		images, err := listImages(aids, ext)
		if err != nil {
			logger.Debug("skipping folder", "folder", name, "reason", err)
			continue
		}
		folders = append(folders, FolderEntry{Name: name, Images: images})
	}

	return folders, nil
}

// listImages returns the paths of regular files in dir ending in ext,
// in natural order of their names.
func listImages(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if !fileutil.HasExtension(e.Name(), ext) || !isRegular(dir, e) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	natsort.Paths(paths)
	return paths, nil
}

// isDir reports whether e is a directory, following symlinks.
func isDir(parent string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	return fileutil.DirExists(filepath.Join(parent, e.Name()))
}

// isRegular reports whether e is a regular file, following symlinks.
func isRegular(parent string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	return fileutil.FileExists(filepath.Join(parent, e.Name()))
}

// Flatten returns every image of folders in page order.
func Flatten(folders []FolderEntry) []string {
	var paths []string
	for _, f := range folders {
		paths = append(paths, f.Images...)
	}
	return paths
}

// CountImages returns the number of images across folders.
func CountImages(folders []FolderEntry) int {
	n := 0
	for _, f := range folders {
		n += len(f.Images)
	}
	return n
}
