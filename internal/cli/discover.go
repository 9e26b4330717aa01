package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/reoring/jsonldlint/internal/config"
)

// Discover lists the files to lint under target. A file target is returned
// as is; a directory yields the files whose name ends in ext, descending
// into subdirectories only when recursive is set. The configuration file is
// never listed.
func Discover(target, ext string, recursive bool) ([]string, error) {
	if !strings.HasPrefix(ext, ".") {
		return nil, fmt.Errorf("file extension must begin with `.`, got %q", ext)
	}
	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file or directory does not exist: %s", target)
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}

	var files []string
	err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != target && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if lintable(d.Name(), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", target, err)
	}
	sort.Strings(files)
	return files, nil
}

func lintable(name, ext string) bool {
	return name != config.FileName && strings.HasSuffix(name, ext)
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
