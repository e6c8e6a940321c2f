package chat

import "time"

// Message types assigned by the classifier.
const (
	TypeText   = "text"
	TypeMedia  = "media"
	TypeSystem = "system"
)

// Username sentinels. SystemUser is assigned to dated notices (group and
// system events with no sender prefix). UnknownUser fills records whose
// sender was lost, e.g. rows rehydrated from storage with a NULL username.
const (
	SystemUser  = "SYSTEM"
	UnknownUser = "UNKNOWN"
)

// Message is a single parsed unit of conversation.
// A zero Timestamp means the source timestamp could not be parsed;
// such records are kept, never dropped.
type Message struct {
	Timestamp      time.Time `json:"timestamp"`
	Username       string    `json:"username"`
	Text           string    `json:"message"`
	Type           string    `json:"type"`
	ConversationID int       `json:"conversation_id"`
}

// Conversation is a contiguous run of messages with no time gap exceeding
// ConversationGap and no absent timestamp at the boundary.
type Conversation struct {
	ID       int
	Messages []Message
}

// Result is the output of a single parse pass.
type Result struct {
	Messages      []Message
	Conversations []Conversation
	Warnings      []string
}
