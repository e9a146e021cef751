package ioutils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration

	"github.com/handiism/studio-images/internal/model"
)

// VariantExtension is the extension of every generated variant.
const VariantExtension = ".webp"

// ErrCorruptImage is returned when a file cannot be decoded as an image.
var ErrCorruptImage = errors.New("corrupt image")

// ImageService verifies downloaded originals and derives resized copies.
//
// ImageService is used to:
//   - Check that a freshly written file decodes as an image
//   - Produce a thumbnail and a medium copy of an original, as WebP
//
// Example usage:
//
//	svc := NewImageService("/uploads/studios",
//	    model.VariantSpec{Name: "thumbnail", Dir: ThumbnailDir, Width: 300, Height: 200, Quality: 85},
//	    model.VariantSpec{Name: "medium", Dir: MediumDir, Width: 600, Height: 400, Quality: 90},
//	)
//
//	if err := svc.Verify(path); err != nil {
//	    // delete and retry
//	}
//	variants, err := svc.MakeVariants(ctx, path, "pilates-centro-sp-studio-1")
//	// variants.Thumbnail = "thumbnails/pilates-centro-sp-studio-1.webp"
type ImageService struct {
	root      string
	thumbnail model.VariantSpec
	medium    model.VariantSpec
}

// NewImageService creates an ImageService writing variants under root.
func NewImageService(root string, thumbnail, medium model.VariantSpec) *ImageService {
	return &ImageService{
		root:      root,
		thumbnail: thumbnail,
		medium:    medium,
	}
}

// VariantDirs returns the subdirectories variants are written to.
func (s *ImageService) VariantDirs() []string {
	return []string{s.thumbnail.Dir, s.medium.Dir}
}

// Verify decodes the file at path and reports ErrCorruptImage if it is not
// a structurally valid image.
func (s *ImageService) Verify(path string) error {
	if _, err := imaging.Open(path); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}
	return nil
}

// VariantPaths returns the relative paths MakeVariants would produce for
// baseName, without touching the disk.
func (s *ImageService) VariantPaths(baseName string) model.Variants {
	return model.Variants{
		Thumbnail: variantRelPath(s.thumbnail, baseName),
		Medium:    variantRelPath(s.medium, baseName),
	}
}

// MakeVariants decodes the original once and writes the thumbnail and
// medium copies.
//
// Images that cannot be re-encoded as-is (palette, transparency) are first
// flattened onto an opaque white canvas. Each copy is scaled down with a
// Lanczos filter to fit its bounding box, preserving the aspect ratio;
// images already inside the box keep their size. Copies are lossy WebP at
// the quality of their spec.
//
// On failure the zero Variants is returned along with the error; the
// original is left untouched.
func (s *ImageService) MakeVariants(ctx context.Context, originalPath, baseName string) (model.Variants, error) {
	img, err := imaging.Open(originalPath)
	if err != nil {
		return model.Variants{}, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}

	img = Flatten(img)

	thumb, err := s.writeVariant(ctx, img, s.thumbnail, baseName)
	if err != nil {
		return model.Variants{}, err
	}

	medium, err := s.writeVariant(ctx, img, s.medium, baseName)
	if err != nil {
		return model.Variants{}, err
	}

	return model.Variants{Thumbnail: thumb, Medium: medium}, nil
}

func (s *ImageService) writeVariant(ctx context.Context, img image.Image, spec model.VariantSpec, baseName string) (string, error) {
	resized := imaging.Fit(img, spec.Width, spec.Height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: float32(spec.Quality)}); err != nil {
		return "", fmt.Errorf("encode %s: %w", spec.Name, err)
	}

	rel := variantRelPath(spec, baseName)
	if err := WriteFile(ctx, filepath.Join(s.root, filepath.FromSlash(rel)), buf.Bytes()); err != nil {
		return "", fmt.Errorf("write %s: %w", spec.Name, err)
	}

	return rel, nil
}

func variantRelPath(spec model.VariantSpec, baseName string) string {
	return path.Join(spec.Dir, baseName+VariantExtension)
}

// Flatten returns img unchanged when it is opaque and not palette based;
// otherwise it draws img over an opaque white RGBA canvas.
//
// Example:
//
//	// A transparent PNG logo becomes a logo on white
//	flat := Flatten(pngWithAlpha)
func Flatten(img image.Image) image.Image {
	if !needsFlatten(img) {
		return img
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Over)
	return dst
}

func needsFlatten(img image.Image) bool {
	switch img.(type) {
	case *image.Paletted:
		return true
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}
