package model

import "path/filepath"

// DownloadTask describes the download of one studio image during one run.
//
// Tasks are created by the download manager after the filename and extension
// have been resolved, handed to the fetcher and the variant generator, and
// dropped once the studio has been handled.
//
// Example:
//
//	task := NewDownloadTask(studio, "pilates-vila-mariana-sp-studio-zen", ".jpg", "/uploads/original")
//	// task.FileName = "pilates-vila-mariana-sp-studio-zen.jpg"
//	// task.Path     = "/uploads/original/pilates-vila-mariana-sp-studio-zen.jpg"
type DownloadTask struct {
	// Studio is the record the image belongs to.
	Studio *Studio

	// URL is the remote image location.
	URL string

	// BaseName is the SEO filename without extension.
	BaseName string

	// Extension is the resolved extension, including the dot.
	Extension string

	// FileName is BaseName + Extension, the value persisted to the store.
	FileName string

	// Path is the full local path of the original image.
	Path string

	// Size is the number of bytes written, set after a successful fetch.
	Size int64
}

// NewDownloadTask creates a task whose file lives in originalDir.
func NewDownloadTask(studio *Studio, baseName, ext, originalDir string) *DownloadTask {
	fileName := baseName + ext
	return &DownloadTask{
		Studio:    studio,
		URL:       studio.ImageURL,
		BaseName:  baseName,
		Extension: ext,
		FileName:  fileName,
		Path:      filepath.Join(originalDir, fileName),
	}
}
