package naming

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/handiism/studio-images/internal/model"
)

// Policy selects how base filenames are made unique.
type Policy string

const (
	// PolicyPlain omits the studio id. Two studios whose fields normalize
	// to the same slug map to the same file.
	PolicyPlain Policy = "plain"

	// PolicyIDSuffix appends "-{id}" to every filename.
	PolicyIDSuffix Policy = "id-suffix"
)

const (
	// Prefix starts every generated filename. A stored image reference
	// starting with Prefix+"-" marks a studio as processed.
	Prefix = "pilates"

	DefaultNeighborhood = "centro"
	DefaultCity         = "sp"

	plainMaxLength    = 100
	suffixedMaxLength = 80
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyPlain, PolicyIDSuffix:
		return p, nil
	}
	return "", fmt.Errorf("unknown naming policy %q (want %q or %q)", s, PolicyPlain, PolicyIDSuffix)
}

// GenerateFilename builds the base filename (no extension) for a studio:
//
//	pilates-{neighborhood}-{city}-{name}[-{id}]
//
// Empty parts fall back to "centro", "sp" and "studio-{id}". The composed
// name is capped at 100 characters for PolicyPlain, or at 80 characters
// before the id suffix for PolicyIDSuffix. Unknown policies behave like
// PolicyPlain.
//
// Example:
//
//	studio := &model.Studio{ID: 42, Title: "Studio Zen", Neighborhood: "Vila Mariana", CityCode: "sp"}
//	GenerateFilename(studio, PolicyPlain)    // "pilates-vila-mariana-sp-studio-zen"
//	GenerateFilename(studio, PolicyIDSuffix) // "pilates-vila-mariana-sp-studio-zen-42"
func GenerateFilename(studio *model.Studio, policy Policy) string {
	id := strconv.FormatInt(studio.ID, 10)

	name := Normalize(studio.Title)
	if name == "" {
		name = "studio-" + id
	}
	neighborhood := Normalize(studio.Neighborhood)
	if neighborhood == "" {
		neighborhood = DefaultNeighborhood
	}
	city := Normalize(studio.CityCode)
	if city == "" {
		city = DefaultCity
	}

	filename := fmt.Sprintf("%s-%s-%s-%s", Prefix, neighborhood, city, name)

	if policy == PolicyIDSuffix {
		return truncate(filename, suffixedMaxLength) + "-" + id
	}
	return truncate(filename, plainMaxLength)
}
