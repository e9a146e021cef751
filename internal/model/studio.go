package model

import "strings"

// Studio is a row of the studios table as returned by the record store.
//
// Only the fields needed for naming and downloading are mapped; the rest of
// the row is ignored. Studio is owned by the store: this program reads it and
// at most rewrites ImageURL.
type Studio struct {
	// ID is the numeric primary key.
	ID int64 `json:"id"`

	// Title is the studio display name, free-form and often accented.
	Title string `json:"title"`

	// Neighborhood is the district the studio is located in.
	Neighborhood string `json:"neighborhood"`

	// CityCode is a short city identifier such as "sp".
	CityCode string `json:"city_code"`

	// ImageURL is either a remote URL or, once processed, a local filename
	// carrying the processed prefix.
	ImageURL string `json:"image_url"`
}

// HasImage reports whether the studio references any image at all.
func (s *Studio) HasImage() bool {
	return strings.TrimSpace(s.ImageURL) != ""
}

// IsProcessed reports whether ImageURL already holds a filename produced by
// a previous run, recognised by the given prefix.
func (s *Studio) IsProcessed(prefix string) bool {
	return prefix != "" && strings.HasPrefix(s.ImageURL, prefix)
}

// DisplayName returns the title, or a placeholder for untitled studios.
func (s *Studio) DisplayName() string {
	if s.Title == "" {
		return "Unknown"
	}
	return s.Title
}
