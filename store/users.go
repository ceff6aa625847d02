package store

import (
	"chat-server/domain"
	"chat-server/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// AddUser rejects only an exact (name, email) duplicate.
func (s *Store) AddUser(name, email string) (*domain.User, error) {
	if s.hasUser(name, email, uuid.Nil) {
		return nil, errors.ErrDuplicateUser
	}
	user := domain.NewUser(name, email, s.now())
	s.users = append(s.users, user)
	s.usersByID[user.ID] = user
	s.log.Debug("User added", "id", user.ID, "name", name)
	return user, nil
}

// UpdateUser changes name and email under the same duplicate rule as AddUser.
// The user keeps its identifier, so every conversation and message sees the change.
func (s *Store) UpdateUser(id uuid.UUID, name, email string) (*domain.User, error) {
	user, ok := s.usersByID[id]
	if !ok {
		return nil, errors.ErrUnknownUser
	}
	if s.hasUser(name, email, id) {
		return nil, errors.ErrDuplicateUser
	}
	user.Name = name
	user.Email = email
	return user, nil
}

// GetUser returns the first user in store order matching term.
func (s *Store) GetUser(criterion domain.Criterion, term string) (*domain.User, bool) {
	return lo.Find(s.users, func(u *domain.User) bool { return u.Matches(criterion, term) })
}

// GetUsers returns every matching user, or false when there is none.
func (s *Store) GetUsers(criterion domain.Criterion, term string) ([]*domain.User, bool) {
	users := lo.Filter(s.users, func(u *domain.User, _ int) bool { return u.Matches(criterion, term) })
	return users, len(users) > 0
}

func (s *Store) UserByID(id uuid.UUID) (*domain.User, bool) {
	user, ok := s.usersByID[id]
	return user, ok
}

func (s *Store) Users() []*domain.User {
	return append([]*domain.User(nil), s.users...)
}

func (s *Store) DrainUsers() {
	s.users = nil
	clear(s.usersByID)
}

func (s *Store) hasUser(name, email string, except uuid.UUID) bool {
	return lo.ContainsBy(s.users, func(u *domain.User) bool {
		return u.ID != except && u.Name == name && u.Email == email
	})
}
