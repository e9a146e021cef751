// Package ioutils provides file system utilities for studio-images.
//
// This package contains functions for:
//   - File writing and removal
//   - Existence checks
//   - Directory creation for the uploads layout
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package ioutils

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Subdirectories of the uploads root.
const (
	OriginalDir  = "original"
	ThumbnailDir = "thumbnails"
	MediumDir    = "medium"
)

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing. A partially written file is removed.
//
// Example:
//
//	err := WriteFile(ctx, "/uploads/original/pilates-centro-sp-studio-1.jpg", data)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		_ = RemoveFile(path)
		return err
	}
	return nil
}

// RemoveFile deletes a file; a missing file is not an error.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// FileExists reports whether something occupies path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// EnsureLayout creates root and each of the given subdirectories.
//
// Example:
//
//	err := EnsureLayout("/uploads/studios", OriginalDir, ThumbnailDir, MediumDir)
func EnsureLayout(root string, subdirs ...string) error {
	if err := EnsureDir(root); err != nil {
		return err
	}
	for _, sub := range subdirs {
		if err := EnsureDir(filepath.Join(root, sub)); err != nil {
			return err
		}
	}
	return nil
}
