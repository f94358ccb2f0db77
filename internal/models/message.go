package models

import "time"

// Sender tells which side of the conversation authored a message. It is
// computed once, when the controller accepts the message, by comparing the
// author name against the active identity, so a later identity change cannot
// flip the side of an already rendered message.
type Sender string

const (
	SenderLocal  Sender = "user"
	SenderRemote Sender = "other"
)

// Message represents one accepted chat utterance. Once appended to the
// timeline it is immutable.
type Message struct {
	ID         int       `json:"id"`
	Text       string    `json:"text"`
	Sender     Sender    `json:"sender"`
	SenderName string    `json:"sender_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatEvent is broadcasted through websockets.
type ChatEvent struct {
	Type     string    `json:"type"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}
