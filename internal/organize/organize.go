// Package organize computes the Artist/Artist - Song/ library layout and
// places files and NFO sidecars into it.
package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaa/mvorg/internal/fileops"
	"github.com/jaa/mvorg/internal/resolve"
)

// OriginalSuffix tags a preserved lower-quality original kept next to a
// downloaded upgrade.
const OriginalSuffix = " (original)"

// Entry is the planned destination for one organized item.
type Entry struct {
	ArtistDir string
	VideoDir  string
	TargetDir string
	FileName  string
	NFOPath   string
}

// TargetPath is the full destination path for the local file.
func (e Entry) TargetPath() string {
	return filepath.Join(e.TargetDir, e.FileName)
}

// DownloadPath is where an upgraded copy is written. Downloads are always
// mp4 per the yt-dlp format selection.
func (e Entry) DownloadPath() string {
	stem := strings.TrimSuffix(e.FileName, filepath.Ext(e.FileName))
	return filepath.Join(e.TargetDir, Sanitize(stem)+".mp4")
}

// OriginalPath is where the original file is preserved when an upgrade is
// downloaded.
func (e Entry) OriginalPath(localPath string) string {
	base := filepath.Base(localPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(e.TargetDir, Sanitize(stem+OriginalSuffix+ext))
}

// Plan computes the target layout for a resolved record:
// targetRoot/Artist/Artist - Song/Artist - Song.ext. The artist folder uses
// the primary artist; extraInfo from the filename is kept as a suffix.
func Plan(targetRoot string, record resolve.Record, localPath, extraInfo string) Entry {
	artistDir := Sanitize(PrimaryArtist(record.Artist))
	videoDir := Sanitize(record.Artist + " - " + record.Song)
	targetDir := filepath.Join(targetRoot, artistDir, videoDir)

	base := filepath.Base(localPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	var fileName string
	switch {
	case strings.Contains(strings.ToLower(stem), strings.ToLower(OriginalSuffix)):
		// Already a preserved original; keep the name as-is.
		fileName = Sanitize(base)
	case extraInfo != "":
		fileName = Sanitize(record.Artist + " - " + record.Song + " " + extraInfo + ext)
	default:
		fileName = Sanitize(record.Artist+" - "+record.Song) + ext
	}

	return Entry{
		ArtistDir: artistDir,
		VideoDir:  videoDir,
		TargetDir: targetDir,
		FileName:  fileName,
		NFOPath:   filepath.Join(targetDir, NFOFileName),
	}
}

// Place moves localPath into the planned folder and writes the NFO sidecar.
// It is idempotent: a file already at its target path, or a target that
// already exists, skips the move (moved=false) without error.
func Place(entry Entry, localPath string, record resolve.Record) (moved bool, err error) {
	if err := os.MkdirAll(entry.TargetDir, 0o755); err != nil {
		return false, fmt.Errorf("create target folder %s: %w", entry.TargetDir, err)
	}

	target := entry.TargetPath()
	switch {
	case filepath.Clean(localPath) == filepath.Clean(target):
		// Already in place.
	case fileops.Exists(target):
		// A previous run placed this item; leave both files alone.
	default:
		if err := fileops.Move(localPath, target); err != nil {
			return false, err
		}
		moved = true
	}

	// A re-run over an already placed item must not rewrite the sidecar.
	if moved || !fileops.Exists(entry.NFOPath) {
		if err := WriteNFO(entry.NFOPath, record); err != nil {
			return moved, err
		}
	}
	return moved, nil
}

// PreserveOriginal moves the local file aside under its "(original)" name
// after an upgrade download succeeded.
func PreserveOriginal(entry Entry, localPath string) (string, error) {
	originalPath := entry.OriginalPath(localPath)
	if filepath.Clean(localPath) == filepath.Clean(originalPath) || fileops.Exists(originalPath) {
		return originalPath, nil
	}
	if err := fileops.Move(localPath, originalPath); err != nil {
		return "", err
	}
	return originalPath, nil
}
