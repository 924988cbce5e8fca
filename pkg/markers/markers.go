// Package markers implements the inline image-marker protocol the agent
// uses to name attachments inside generated text. Extraction is pure so it
// stays testable without any generative call.
package markers

import (
	"regexp"
	"strings"
)

// Marker syntax: <<IMG:IMG_PROD_001>> — a namespace-qualified image id.
var markerPattern = regexp.MustCompile(`<<IMG:(IMG_[A-Z]+_\d+)>>`)

// spaceRuns collapses the whitespace holes left by stripped markers.
var spaceRuns = regexp.MustCompile(`[ \t]{2,}`)

// DefaultMaxImages is the per-message attachment cap. The model is asked to
// self-limit, but the protocol does not trust it.
const DefaultMaxImages = 3

// Extract returns the text with all markers stripped, plus the referenced
// image ids in first-occurrence order with duplicates removed and the list
// truncated to maxImages (extras dropped, not replaced). maxImages <= 0
// falls back to DefaultMaxImages.
func Extract(text string, maxImages int) (string, []string) {
	if maxImages <= 0 {
		maxImages = DefaultMaxImages
	}

	matches := markerPattern.FindAllStringSubmatch(text, -1)

	seen := make(map[string]bool, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) > maxImages {
		ids = ids[:maxImages]
	}

	clean := markerPattern.ReplaceAllString(text, "")
	clean = spaceRuns.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)

	return clean, ids
}
