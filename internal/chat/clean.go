package chat

import (
	"regexp"
	"strings"
)

// mentionIDRe matches "@<digits>" mention-id suffixes appended to sender
// names by some export dialects.
var mentionIDRe = regexp.MustCompile(`@\d+`)

// cleanUsername strips mention-id suffixes and surrounding whitespace
// from a sender name.
func cleanUsername(name string) string {
	return strings.TrimSpace(mentionIDRe.ReplaceAllString(name, ""))
}

// CleanText removes invisible format characters from a message body and
// trims surrounding whitespace. Stripped: the left-to-right mark (U+200E),
// the right-to-left mark (U+200F) and the full U+200B–U+200F range.
// Emoji and all other content are preserved. Idempotent.
func CleanText(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if r >= '\u200b' && r <= '\u200f' {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.TrimSpace(sb.String())
}
