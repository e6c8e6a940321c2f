package chat

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConversationGap is the largest gap between consecutive timestamps that
// keeps two messages in the same conversation. Anything strictly greater
// starts a new one.
const ConversationGap = 3600 * time.Second

// Parser turns raw exported chat text into an ordered sequence of
// messages grouped into conversations. A Parser performs one-shot batch
// transforms; each Parse call produces an independent Result.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. Diagnostics for unparsable timestamps go to
// the given logger and are also collected on the Result.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse consumes a full newline-delimited transcript in a single pass.
// Lines matching a header shape start a new logical message; other
// non-blank lines extend the buffered one, joined by a single space.
// Blank lines are discarded. A continuation line arriving before any
// message start is lost. Malformed messages never abort the parse.
func (p *Parser) Parse(text string) *Result {
	res := &Result{}
	var buffer string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if isMessageStart(line) {
			if buffer != "" {
				p.emit(res, buffer)
			}
			buffer = line
			continue
		}

		// Continuation line. With no buffered message to attach to
		// (a fragment before the first header), the line is lost.
		if buffer == "" {
			continue
		}
		buffer += " " + line
	}

	if buffer != "" {
		p.emit(res, buffer)
	}

	return res
}

// emit extracts a finalized raw message string into a record and appends
// it to the result, assigning its conversation.
func (p *Parser) emit(res *Result, raw string) {
	h := MatchHeader(raw)
	if h.Kind == NotAMessage {
		return
	}

	ts, ok := parseTimestamp(h.Date, h.Time)
	if !ok {
		res.Warnings = append(res.Warnings, fmt.Sprintf("unparsable timestamp: %s, %s", h.Date, h.Time))
		p.logger.Warn("unparsable timestamp", "date", h.Date, "time", h.Time)
	}

	msg := Message{Timestamp: ts}
	switch h.Kind {
	case DatedMessage:
		msg.Username = cleanUsername(h.Sender)
		msg.Text = CleanText(h.Body)
		msg.Type = DetectType(msg.Text)
	case DatedNotice:
		// Notices are always system, never reclassified.
		msg.Username = SystemUser
		msg.Text = CleanText(h.Body)
		msg.Type = TypeSystem
	}
	if msg.Username == "" {
		msg.Username = UnknownUser
	}

	if p.breaksConversation(res, msg) {
		res.Conversations = append(res.Conversations, Conversation{ID: len(res.Conversations)})
	}
	conv := &res.Conversations[len(res.Conversations)-1]
	msg.ConversationID = conv.ID
	conv.Messages = append(conv.Messages, msg)
	res.Messages = append(res.Messages, msg)
}

// breaksConversation applies the segmentation rule: a new conversation
// starts when there is no previous record, when either side's timestamp
// is absent, or when the gap exceeds ConversationGap. A gap of exactly
// ConversationGap stays in the same conversation.
func (p *Parser) breaksConversation(res *Result, msg Message) bool {
	if len(res.Messages) == 0 {
		return true
	}
	prev := res.Messages[len(res.Messages)-1]
	if prev.Timestamp.IsZero() || msg.Timestamp.IsZero() {
		return true
	}
	return msg.Timestamp.Sub(prev.Timestamp) > ConversationGap
}
