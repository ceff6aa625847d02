//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks
package store

import (
	"chat-server/domain"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// MessageArchive receives a copy of every message accepted at runtime.
type MessageArchive interface {
	StoreMessage(message domain.MessageRecord) error
}

// Store is the sole owner of users, conversations, messages and relationships.
// Entities are shared by pointer; every mutation goes through the Store.
// It is not safe for concurrent use.
type Store struct {
	log     *slog.Logger
	now     func() time.Time
	archive MessageArchive

	users     []*domain.User
	usersByID map[uuid.UUID]*domain.User

	conversations     []*domain.Conversation
	conversationsByID map[uuid.UUID]*domain.Conversation

	messages   []*domain.Message
	messageIDs map[uuid.UUID]struct{}

	relationships []*domain.Relationship
	relsByPair    map[domain.Pair]*domain.Relationship
}

func NewStore(log *slog.Logger) *Store {
	return &Store{
		log:               log,
		now:               func() time.Time { return time.Now().UTC() },
		usersByID:         make(map[uuid.UUID]*domain.User),
		conversationsByID: make(map[uuid.UUID]*domain.Conversation),
		messageIDs:        make(map[uuid.UUID]struct{}),
		relsByPair:        make(map[domain.Pair]*domain.Relationship),
	}
}

// WithClock replaces the time source used for new entities.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = func() time.Time { return now().UTC() }
	return s
}

// WithArchive mirrors every sent message into archive.
// Archive failures are logged and never fail the send.
func (s *Store) WithArchive(archive MessageArchive) *Store {
	s.archive = archive
	return s
}
