package store

import (
	"chat-server/domain"
	"chat-server/errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// LoadUsers appends users in order. A repeated identifier rejects the whole batch.
func (s *Store) LoadUsers(users []*domain.User) error {
	seen := make(map[uuid.UUID]struct{}, len(users))
	for i, u := range users {
		if _, ok := s.usersByID[u.ID]; ok {
			return fmt.Errorf("%w: record %d: user %s", errors.ErrDuplicateID, i+1, u.ID)
		}
		if _, ok := seen[u.ID]; ok {
			return fmt.Errorf("%w: record %d: user %s", errors.ErrDuplicateID, i+1, u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	for _, u := range users {
		s.users = append(s.users, u)
		s.usersByID[u.ID] = u
	}
	return nil
}

// LoadConversations resolves member ids against loaded users.
// Unknown member ids are dropped silently.
func (s *Store) LoadConversations(records []domain.ConversationRecord) error {
	convs := make([]*domain.Conversation, 0, len(records))
	seen := make(map[uuid.UUID]struct{}, len(records))
	for i, r := range records {
		if _, ok := s.conversationsByID[r.ID]; ok {
			return fmt.Errorf("%w: record %d: conversation %s", errors.ErrDuplicateID, i+1, r.ID)
		}
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: record %d: conversation %s", errors.ErrDuplicateID, i+1, r.ID)
		}
		seen[r.ID] = struct{}{}

		members := lo.FilterMap(r.MemberIDs, func(id uuid.UUID, _ int) (*domain.User, bool) {
			u, ok := s.usersByID[id]
			return u, ok
		})
		if dropped := len(r.MemberIDs) - len(members); dropped > 0 {
			s.log.Debug("Dropped unknown members", "conversation", r.ID, "dropped", dropped)
		}
		convs = append(convs, &domain.Conversation{
			ID:          r.ID,
			Name:        r.Name,
			Members:     domain.UniqueMembers(members),
			Start:       r.Start,
			LastMessage: r.LastMessage,
		})
	}
	for _, c := range convs {
		s.conversations = append(s.conversations, c)
		s.conversationsByID[c.ID] = c
	}
	return nil
}

// LoadMessages requires both the sender and the conversation to be loaded already.
func (s *Store) LoadMessages(records []domain.MessageRecord) error {
	msgs := make([]*domain.Message, 0, len(records))
	seen := make(map[uuid.UUID]struct{}, len(records))
	for i, r := range records {
		sender, ok := s.usersByID[r.SenderID]
		if !ok {
			return fmt.Errorf("%w: record %d: user %s", errors.ErrUnknownSender, i+1, r.SenderID)
		}
		conv, ok := s.conversationsByID[r.ConversationID]
		if !ok {
			return fmt.Errorf("%w: record %d: conversation %s", errors.ErrUnknownConversation, i+1, r.ConversationID)
		}
		_, dup := s.messageIDs[r.ID]
		if _, again := seen[r.ID]; dup || again {
			return fmt.Errorf("%w: record %d: message %s", errors.ErrDuplicateID, i+1, r.ID)
		}
		seen[r.ID] = struct{}{}
		msgs = append(msgs, &domain.Message{
			ID:           r.ID,
			Text:         r.Text,
			CreatedAt:    r.CreatedAt,
			Sender:       sender,
			Conversation: conv,
		})
	}
	for _, m := range msgs {
		s.messages = append(s.messages, m)
		s.messageIDs[m.ID] = struct{}{}
	}
	return nil
}

// LoadRelationships allows at most one record per unordered pair.
func (s *Store) LoadRelationships(relationships []domain.Relationship) error {
	seen := make(map[domain.Pair]struct{}, len(relationships))
	for i, r := range relationships {
		pair := domain.NewPair(r.Pair.A, r.Pair.B)
		_, exists := s.relsByPair[pair]
		if _, again := seen[pair]; exists || again {
			return fmt.Errorf("%w: record %d: %s/%s", errors.ErrDuplicateRelationship, i+1, pair.A, pair.B)
		}
		seen[pair] = struct{}{}
	}
	for _, r := range relationships {
		s.putRelationship(domain.NewPair(r.Pair.A, r.Pair.B), r.Status)
	}
	return nil
}
