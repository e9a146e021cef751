package naming

import (
	"net/url"
	"path"
	"strings"
)

// DefaultExtension is used when neither the URL nor the content type tells
// what the image is.
const DefaultExtension = ".jpg"

// AllowedExtensions lists the URL suffixes kept as-is.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// ResolveExtension chooses the extension of a downloaded image.
//
// Priority:
//  1. The URL path suffix, lowercased, when it is in AllowedExtensions
//  2. The content type, when known: jpeg/jpg → ".jpg", png → ".png", webp → ".webp"
//  3. DefaultExtension
//
// known is false when the content type could not be determined (the HEAD
// probe failed or returned no header); contentType is then ignored.
//
// Example:
//
//	ResolveExtension("https://cdn.example.com/a.PNG", "", false)        // ".png"
//	ResolveExtension("https://cdn.example.com/img", "image/webp", true) // ".webp"
//	ResolveExtension("https://cdn.example.com/img", "", false)          // ".jpg"
func ResolveExtension(rawURL, contentType string, known bool) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}

	ext := strings.ToLower(path.Ext(p))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return ext
		}
	}

	if known {
		ct := strings.ToLower(contentType)
		switch {
		case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
			return ".jpg"
		case strings.Contains(ct, "png"):
			return ".png"
		case strings.Contains(ct, "webp"):
			return ".webp"
		}
	}

	return DefaultExtension
}
