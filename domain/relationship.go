package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type StatusKind int

const (
	Neutral StatusKind = iota
	BestFriends
	Friends
	Blocked
)

func (k StatusKind) String() string {
	switch k {
	case BestFriends:
		return "BestFriends"
	case Friends:
		return "Friends"
	case Neutral:
		return "Neutral"
	case Blocked:
		return "Blocked"
	default:
		return fmt.Sprintf("StatusKind(%d)", int(k))
	}
}

// RelationshipStatus carries BlockedBy only when Kind is Blocked.
type RelationshipStatus struct {
	Kind      StatusKind
	BlockedBy uuid.UUID
}

func NeutralStatus() RelationshipStatus {
	return RelationshipStatus{Kind: Neutral}
}

func BlockedBy(id uuid.UUID) RelationshipStatus {
	return RelationshipStatus{Kind: Blocked, BlockedBy: id}
}

// Pair is an unordered pair of user ids, normalised so that A <= B.
type Pair struct {
	A uuid.UUID
	B uuid.UUID
}

func NewPair(a, b uuid.UUID) Pair {
	if b.String() < a.String() {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

type Relationship struct {
	Pair   Pair
	Status RelationshipStatus
}
