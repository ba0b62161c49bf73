// Package fileops wraps the filesystem operations the organizer performs.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	statFile   = os.Stat
	renameFile = os.Rename
	removeFile = os.Remove
)

// Exists reports whether path exists as a regular file.
func Exists(path string) bool {
	info, err := statFile(path)
	return err == nil && !info.IsDir()
}

// Move renames src to dst, falling back to copy+remove when the rename
// crosses filesystems. dst must not already exist.
func Move(src, dst string) error {
	src = strings.TrimSpace(src)
	dst = strings.TrimSpace(dst)
	if src == "" || dst == "" {
		return fmt.Errorf("move: source and destination must be set")
	}
	if src == dst {
		return fmt.Errorf("move: source and destination are the same path: %s", src)
	}

	if _, err := statFile(dst); err == nil {
		return fmt.Errorf("move: destination already exists: %s", dst)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("move: stat destination %q: %w", dst, err)
	}

	if err := renameFile(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := removeFile(src); err != nil {
		return fmt.Errorf("move: remove source %q after copy: %w", src, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("move: open source %q: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("move: stat source %q: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("move: create destination %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = removeFile(dst)
		return fmt.Errorf("move: copy to %q: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		_ = removeFile(dst)
		return fmt.Errorf("move: close destination %q: %w", dst, err)
	}
	return nil
}
