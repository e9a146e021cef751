// Package naming turns noisy studio fields into SEO-friendly filenames.
//
// # Slugs
//
// Normalize strips accents, lowercases, drops everything outside
// [a-z0-9 -] and joins words with single hyphens:
//
//	naming.Normalize("Estúdio São Paulo") // "estudio-sao-paulo"
//
// # Filenames
//
// GenerateFilename composes pilates-{neighborhood}-{city}-{name}, with
// defaults for missing parts. The policy decides whether the studio id is
// appended:
//
//	naming.GenerateFilename(studio, naming.PolicyPlain)    // "pilates-vila-mariana-sp-studio-zen"
//	naming.GenerateFilename(studio, naming.PolicyIDSuffix) // "pilates-vila-mariana-sp-studio-zen-42"
//
// # Extensions
//
// ResolveExtension picks the file extension from the URL path, then from
// the Content-Type header, then falls back to ".jpg".
//
// # Collisions
//
// CollisionGuard remembers which studio claimed which target path during a
// run and refuses a second claim by a different studio.
package naming
