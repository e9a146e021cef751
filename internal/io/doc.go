// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File writing, removal and existence checks
//   - Creation of the uploads layout (original/, thumbnails/, medium/)
//   - Image verification and resized variant generation
//
// # File Operations
//
//	// Ensure the uploads layout exists
//	err := ioutils.EnsureLayout(root, ioutils.OriginalDir, ioutils.ThumbnailDir, ioutils.MediumDir)
//
//	// Write data to file
//	err := ioutils.WriteFile(ctx, "/path/to/file.jpg", data)
//
// # Image Processing
//
// The ImageService checks originals and derives WebP copies:
//
//	svc := ioutils.NewImageService(root, thumbSpec, mediumSpec)
//
//	// Reject truncated or fake images
//	err := svc.Verify(originalPath)
//
//	// Write thumbnails/<base>.webp and medium/<base>.webp
//	variants, err := svc.MakeVariants(ctx, originalPath, base)
package ioutils
