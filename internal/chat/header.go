package chat

import "regexp"

// HeaderKind tags the result of classifying a raw line against the two
// accepted header shapes.
type HeaderKind int

const (
	// NotAMessage matched neither header shape.
	NotAMessage HeaderKind = iota
	// DatedMessage is "[date, time] sender: body".
	DatedMessage
	// DatedNotice is "[date, time] body" with no sender prefix
	// (group and system events).
	DatedNotice
)

var (
	// datedMessageRe captures date, time, sender (everything up to the
	// first colon) and body. Accepted dates are M/D/YY or M/D/YYYY;
	// times are H:MM or H:MM:SS with a two-letter meridiem marker,
	// case-insensitive, optionally space-separated.
	datedMessageRe = regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{2,4}),\s*(\d{1,2}:\d{2}(?::\d{2})?\s*[APMapm]{2})\]\s*([^:]+):\s*(.+)$`)

	// datedNoticeRe captures date, time and the full remaining text.
	// Tried only after datedMessageRe fails.
	datedNoticeRe = regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{2,4}),\s*(\d{1,2}:\d{2}(?::\d{2})?\s*[APMapm]{2})\]\s*(.+)$`)
)

// Header is the tagged result of matching a raw line against the header
// grammar. Sender is empty for DatedNotice.
type Header struct {
	Kind   HeaderKind
	Date   string
	Time   string
	Sender string
	Body   string
}

// MatchHeader classifies one raw (possibly multi-line-joined) string
// against the two header shapes, dated message first.
func MatchHeader(line string) Header {
	if m := datedMessageRe.FindStringSubmatch(line); m != nil {
		return Header{
			Kind:   DatedMessage,
			Date:   m[1],
			Time:   m[2],
			Sender: m[3],
			Body:   m[4],
		}
	}
	if m := datedNoticeRe.FindStringSubmatch(line); m != nil {
		return Header{
			Kind: DatedNotice,
			Date: m[1],
			Time: m[2],
			Body: m[3],
		}
	}
	return Header{Kind: NotAMessage}
}

// isMessageStart reports whether a stripped line begins a new logical
// message, i.e. matches either header shape.
func isMessageStart(line string) bool {
	return datedMessageRe.MatchString(line) || datedNoticeRe.MatchString(line)
}
