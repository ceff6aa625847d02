package store

import (
	"chat-server/domain"

	"github.com/samber/lo"
)

// AddConversation always succeeds. Members unknown to the store are dropped
// and repeated members keep their first position.
func (s *Store) AddConversation(name string, members []*domain.User) *domain.Conversation {
	known := lo.Filter(members, func(u *domain.User, _ int) bool {
		return u != nil && s.usersByID[u.ID] == u
	})
	conv := domain.NewConversation(name, known, s.now())
	s.conversations = append(s.conversations, conv)
	s.conversationsByID[conv.ID] = conv
	s.log.Debug("Conversation added", "id", conv.ID, "name", name, "members", len(conv.Members))
	return conv
}

// GetConversation returns the first conversation in store order matching query.
func (s *Store) GetConversation(query domain.ConversationQuery) (*domain.Conversation, bool) {
	return lo.Find(s.conversations, query.Matches)
}

// GetConversations returns every conversation matching query, or false when
// there is none or when the query has no filter.
func (s *Store) GetConversations(query domain.ConversationQuery) ([]*domain.Conversation, bool) {
	convs := lo.Filter(s.conversations, func(c *domain.Conversation, _ int) bool { return query.Matches(c) })
	return convs, len(convs) > 0
}

func (s *Store) Conversations() []*domain.Conversation {
	return append([]*domain.Conversation(nil), s.conversations...)
}

func (s *Store) DrainConversations() {
	s.conversations = nil
	clear(s.conversationsByID)
}
