// Package enumerate lists the candidate documents of a folder.
package enumerate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

// List returns the paths of the regular files directly inside folder whose
// extension matches one of exts (case-insensitive, with or without the dot).
// Symlinks count when they resolve to a regular file. Paths are sorted by file
// name. Subfolders are not descended into.
func List(folder string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", internalerr.ErrIO, folder, err)
	}

	want := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		want[ext] = struct{}{}
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := want[strings.ToLower(filepath.Ext(e.Name()))]; !ok {
			continue
		}
		path := filepath.Join(folder, e.Name())
		if !isRegular(e, path) {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// isRegular follows symlinks; broken links are skipped.
func isRegular(e os.DirEntry, path string) bool {
	if e.Type()&os.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
