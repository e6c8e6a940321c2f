package chat

import "strings"

// Marker lists for message type detection. Matching is case-sensitive
// substring containment, media list first, list order as the tie-break.
//
// The system markers "added", "left" and "removed" are ordinary words and
// will match inside unrelated prose; this is a known limitation of the
// export dialect's classification, kept as-is.
var (
	mediaMarkers = []string{
		"sticker omitted",
		"image omitted",
		"audio omitted",
		"video omitted",
		"Contact card omitted",
	}

	systemMarkers = []string{
		"Messages and calls are end-to-end encrypted",
		"created this group",
		"added",
		"left",
		"removed",
		"changed the subject",
		"changed this group's icon",
		"deleted this message",
	}
)

// DetectType classifies a cleaned message body as media, system or text.
func DetectType(text string) string {
	for _, marker := range mediaMarkers {
		if strings.Contains(text, marker) {
			return TypeMedia
		}
	}
	for _, marker := range systemMarkers {
		if strings.Contains(text, marker) {
			return TypeSystem
		}
	}
	return TypeText
}
