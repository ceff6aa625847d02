package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Conversation keeps its members in insertion order, without duplicates.
type Conversation struct {
	ID          uuid.UUID
	Name        string
	Members     []*User
	Start       time.Time
	LastMessage time.Time
}

func NewConversation(name string, members []*User, at time.Time) *Conversation {
	return &Conversation{
		ID:          uuid.New(),
		Name:        name,
		Members:     UniqueMembers(members),
		Start:       at,
		LastMessage: at,
	}
}

// UniqueMembers drops nil entries and repeated ids, keeping the first occurrence.
func UniqueMembers(members []*User) []*User {
	members = lo.Filter(members, func(u *User, _ int) bool { return u != nil })
	return lo.UniqBy(members, func(u *User) uuid.UUID { return u.ID })
}

func (c *Conversation) HasMember(id uuid.UUID) bool {
	return lo.ContainsBy(c.Members, func(u *User) bool { return u.ID == id })
}

func (c *Conversation) MemberIDs() []uuid.UUID {
	return lo.Map(c.Members, func(u *User, _ int) uuid.UUID { return u.ID })
}

// ConversationRecord is the persisted form of a Conversation.
type ConversationRecord struct {
	ID          uuid.UUID
	Name        string
	MemberIDs   []uuid.UUID
	Start       time.Time
	LastMessage time.Time
}

func (c *Conversation) Record() ConversationRecord {
	return ConversationRecord{
		ID:          c.ID,
		Name:        c.Name,
		MemberIDs:   c.MemberIDs(),
		Start:       c.Start,
		LastMessage: c.LastMessage,
	}
}

// ConversationQuery selects conversations by name substring, member superset, or both.
// A nil field is an absent filter.
type ConversationQuery struct {
	Name    *string
	Members []*User
}

func (q ConversationQuery) IsEmpty() bool {
	return q.Name == nil && q.Members == nil
}

// Matches reports whether c satisfies every filter present in q.
// An empty query matches nothing.
func (q ConversationQuery) Matches(c *Conversation) bool {
	if q.IsEmpty() {
		return false
	}
	if q.Name != nil && !strings.Contains(c.Name, *q.Name) {
		return false
	}
	return lo.EveryBy(q.Members, func(u *User) bool { return c.HasMember(u.ID) })
}
