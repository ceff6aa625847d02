// Package domain contains core concepts of the chat system.
// This file defines User entities and related invariants.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is identified by its ID only. Name and email are mutable through the store.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
}

func NewUser(name, email string, at time.Time) *User {
	return &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: at,
	}
}

// Criterion selects which user field a lookup matches against.
type Criterion int

const (
	ByID Criterion = iota
	ByName
	ByEmail
)

func (c Criterion) String() string {
	switch c {
	case ByID:
		return "ID"
	case ByName:
		return "NAME"
	case ByEmail:
		return "EMAIL"
	default:
		return "UNKNOWN"
	}
}

// ParseCriterion maps a protocol option token to a Criterion.
func ParseCriterion(s string) (Criterion, bool) {
	switch s {
	case "ID":
		return ByID, true
	case "NAME":
		return ByName, true
	case "EMAIL":
		return ByEmail, true
	default:
		return 0, false
	}
}

// Matches applies the lookup rule: exact match on the identifier,
// case-insensitive containment on name and email.
func (u *User) Matches(criterion Criterion, term string) bool {
	switch criterion {
	case ByID:
		return u.ID.String() == term
	case ByName:
		return containsFold(u.Name, term)
	case ByEmail:
		return containsFold(u.Email, term)
	default:
		return false
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
