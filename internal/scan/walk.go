package scan

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".webm": {},
	".mov":  {},
	".flv":  {},
	".wmv":  {},
	".m4v":  {},
	".mpg":  {},
	".mpeg": {},
	".m2v":  {},
}

// IsVideo reports whether path has a recognized video extension.
func IsVideo(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Videos walks root and returns every video file beneath it, in walk order.
// Unreadable entries below the root are logged and skipped; only a root that
// cannot be read at all fails the walk.
func Videos(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.WithField("path", path).WithError(err).Warn("skipping unreadable path")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsVideo(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
