package model

import (
	"fmt"
	"strings"
)

// Category is the closed set of archive categories a clip can belong to.
// The storage key form ("long-talks") and the remote URL path segment
// ("long+talks") are distinct; use URLSegment for URL construction.
type Category string

const (
	CategoryLongTalks Category = "long-talks"
	CategoryRandom    Category = "random"
	CategoryCampsArts Category = "camps-arts"
	CategoryWarnings  Category = "warnings"
)

// categorySegments maps each category to the +-encoded path segment used by
// the remote storage bucket. This mapping is the single place URL encoding
// for categories is defined.
var categorySegments = map[Category]string{
	CategoryLongTalks: "long+talks",
	CategoryRandom:    "random",
	CategoryCampsArts: "camps+and+arts",
	CategoryWarnings:  "warnings",
}

// AllCategories returns every valid category in a stable order.
func AllCategories() []Category {
	return []Category{CategoryLongTalks, CategoryRandom, CategoryCampsArts, CategoryWarnings}
}

// ParseCategory validates a raw string as a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if _, ok := categorySegments[c]; !ok {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categorySegments[c]
	return ok
}

// URLSegment returns the +-encoded remote path segment for the category.
func (c Category) URLSegment() string {
	return categorySegments[c]
}

// AudioClip represents one archived recording.
type AudioClip struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	AudioURL   string   `json:"audioUrl"` // Absolute URL to the remote media asset, immutable once set
	Category   Category `json:"category"`
	Filename   string   `json:"filename"`   // Original source filename, join key to the transcript file
	Transcript string   `json:"transcript"` // Short preview; the full transcript lives in the external text file
	CreatedAt  int64    `json:"createdAt"`  // Epoch milliseconds
}

// TranscriptFilename maps a clip's media filename to its transcript resource
// name by stripping the media extension and appending ".txt".
func TranscriptFilename(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		filename = filename[:idx]
	}
	return filename + ".txt"
}
