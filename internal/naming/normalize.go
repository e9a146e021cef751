package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength is the maximum length of a normalized slug.
const MaxSlugLength = 50

var (
	invalidSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	separatorRuns    = regexp.MustCompile(`[-\s]+`)
)

// Normalize converts free-form text into a URL-safe ASCII slug.
//
// The following transformations are applied, in order:
//   - Decomposition and removal of combining marks ("ã" → "a")
//   - Lowercasing
//   - Removal of characters outside [a-z0-9], whitespace and hyphen
//   - Runs of whitespace and hyphens → single hyphen
//   - Leading and trailing hyphens → removed
//   - Truncation to MaxSlugLength
//
// Normalize is total and idempotent: an empty input yields "", and
// Normalize(Normalize(s)) == Normalize(s).
//
// Example:
//
//	Normalize("Estúdio São Paulo")   // "estudio-sao-paulo"
//	Normalize("  Pilates & Yoga!! ") // "pilates-yoga"
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = stripMarks(text)
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, text)

	text = strings.ToLower(text)
	text = invalidSlugChars.ReplaceAllString(text, "")
	text = separatorRuns.ReplaceAllString(text, "-")
	text = strings.Trim(text, "-")

	return truncate(text, MaxSlugLength)
}

// stripMarks decomposes text and drops the combining marks.
func stripMarks(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// truncate cuts an ASCII slug to max bytes without leaving a dangling hyphen.
func truncate(slug string, max int) string {
	if len(slug) > max {
		slug = strings.TrimRight(slug[:max], "-")
	}
	return slug
}
