// Package domain contains core concepts of the chat system.
// This file defines Message entities.
// Messages are immutable once appended to the store.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message references its sender and conversation; the store owns all three.
type Message struct {
	ID           uuid.UUID
	Text         string
	CreatedAt    time.Time
	Sender       *User
	Conversation *Conversation
}

// MessageRecord is the persisted form of a Message, with references flattened to ids.
type MessageRecord struct {
	ID             uuid.UUID
	Text           string
	CreatedAt      time.Time
	SenderID       uuid.UUID
	ConversationID uuid.UUID
}

func (m *Message) Record() MessageRecord {
	return MessageRecord{
		ID:             m.ID,
		Text:           m.Text,
		CreatedAt:      m.CreatedAt,
		SenderID:       m.Sender.ID,
		ConversationID: m.Conversation.ID,
	}
}
