package store

import (
	"chat-server/domain"
	"chat-server/errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// SendMessage appends a message if sender is a stored user currently belonging to conv.
// The conversation's last message time strictly increases on success.
func (s *Store) SendMessage(sender *domain.User, conv *domain.Conversation, text string) (*domain.Message, error) {
	if conv == nil || s.conversationsByID[conv.ID] != conv {
		return nil, errors.ErrUnknownConversation
	}
	if sender == nil || s.usersByID[sender.ID] != sender || !conv.HasMember(sender.ID) {
		return nil, errors.ErrNotAMember
	}

	at := s.now()
	if !at.After(conv.LastMessage) {
		at = conv.LastMessage.Add(time.Nanosecond)
	}
	msg := &domain.Message{
		ID:           uuid.New(),
		Text:         text,
		CreatedAt:    at,
		Sender:       sender,
		Conversation: conv,
	}
	s.messages = append(s.messages, msg)
	s.messageIDs[msg.ID] = struct{}{}
	conv.LastMessage = at

	if s.archive != nil {
		if err := s.archive.StoreMessage(msg.Record()); err != nil {
			s.log.Error("Archiving message failed", "id", msg.ID, "error", err)
		}
	}
	return msg, nil
}

// MessagesOf returns the messages of conv in store order.
func (s *Store) MessagesOf(conv *domain.Conversation) []*domain.Message {
	return lo.Filter(s.messages, func(m *domain.Message, _ int) bool { return m.Conversation == conv })
}

func (s *Store) Messages() []*domain.Message {
	return append([]*domain.Message(nil), s.messages...)
}

func (s *Store) DrainMessages() {
	s.messages = nil
	clear(s.messageIDs)
}
