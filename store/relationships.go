package store

import (
	"chat-server/domain"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// RelationshipStatus looks up the record of the unordered pair (a, b).
// A missing record is created as Neutral; created reports that case so callers
// can tell a first contact from an existing record.
func (s *Store) RelationshipStatus(a, b uuid.UUID) (status domain.RelationshipStatus, created bool) {
	pair := domain.NewPair(a, b)
	if rel, ok := s.relsByPair[pair]; ok {
		return rel.Status, false
	}
	s.putRelationship(pair, domain.NeutralStatus())
	s.log.Debug("Relationship created on lookup", "a", pair.A, "b", pair.B)
	return domain.NeutralStatus(), true
}

// SetRelationship creates or replaces the record of the unordered pair (a, b).
func (s *Store) SetRelationship(a, b uuid.UUID, status domain.RelationshipStatus) {
	pair := domain.NewPair(a, b)
	if rel, ok := s.relsByPair[pair]; ok {
		rel.Status = status
		return
	}
	s.putRelationship(pair, status)
}

func (s *Store) Relationships() []domain.Relationship {
	return lo.Map(s.relationships, func(r *domain.Relationship, _ int) domain.Relationship { return *r })
}

func (s *Store) DrainRelationships() {
	s.relationships = nil
	clear(s.relsByPair)
}

func (s *Store) putRelationship(pair domain.Pair, status domain.RelationshipStatus) {
	rel := &domain.Relationship{Pair: pair, Status: status}
	s.relationships = append(s.relationships, rel)
	s.relsByPair[pair] = rel
}
