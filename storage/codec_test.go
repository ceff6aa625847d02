package storage

import (
	"chat-server/domain"
	"chat-server/errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDecodeUser(t *testing.T) {
	t.Run("should read the bare format", func(t *testing.T) {
		req := require.New(t)
		id := uuid.New()

		user, err := DecodeUser(id.String() + ";Curtis Jones;mail@curtisjones.ca;2020-05-03T12:30:00+02:00")

		req.NoError(err)
		req.Equal(id, user.ID)
		req.Equal("Curtis Jones", user.Name)
		req.Equal("mail@curtisjones.ca", user.Email)
		req.True(user.CreatedAt.Equal(time.Date(2020, 5, 3, 10, 30, 0, 0, time.UTC)))
	})

	t.Run("should fail on wrong field count", func(t *testing.T) {
		_, err := DecodeUser(uuid.NewString() + ";Ann;a@x")
		require.ErrorIs(t, err, errors.ErrWrongFieldCount)
	})

	t.Run("should fail on a malformed identifier", func(t *testing.T) {
		_, err := DecodeUser("not-a-uuid;Ann;a@x;2020-05-03T12:30:00Z")
		require.ErrorIs(t, err, errors.ErrMalformedID)
	})

	t.Run("should fail on a malformed timestamp", func(t *testing.T) {
		_, err := DecodeUser(uuid.NewString() + ";Ann;a@x;yesterday")
		require.ErrorIs(t, err, errors.ErrMalformedTimestamp)
	})
}

func TestEncodeUser_EscapesReservedCharacters(t *testing.T) {
	req := require.New(t)
	user := &domain.User{
		ID:        uuid.New(),
		Name:      `Semi;colon, back\slash`,
		Email:     "multi\nline\r@x",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 123, time.UTC),
	}

	line := EncodeUser(user)
	decoded, err := DecodeUser(line)

	req.NotContains(line, "\n")
	req.NoError(err)
	req.Equal(user, decoded)
}

func TestEncodeMessage_KeepsCommasBare(t *testing.T) {
	req := require.New(t)
	record := domain.MessageRecord{
		ID:             uuid.New(),
		Text:           "one, two, three",
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		SenderID:       uuid.New(),
		ConversationID: uuid.New(),
	}

	line := EncodeMessage(record)
	req.Contains(line, ";one, two, three;")
	req.NotContains(line, `\`)

	decoded, err := DecodeMessage(line)
	req.NoError(err)
	req.Equal(record, decoded)
}

func TestConversationCodec(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a, b := uuid.New(), uuid.New()

	t.Run("should accept a trailing list separator", func(t *testing.T) {
		req := require.New(t)
		line := uuid.NewString() + ";General;" + a.String() + "," + b.String() + ",;" +
			at.Format(TimeLayout) + ";" + at.Format(TimeLayout)

		record, err := DecodeConversation(line)

		req.NoError(err)
		req.Equal([]uuid.UUID{a, b}, record.MemberIDs)
	})

	t.Run("should round trip an empty member list", func(t *testing.T) {
		req := require.New(t)
		record := domain.ConversationRecord{ID: uuid.New(), Name: "Empty, really", Start: at, LastMessage: at}

		decoded, err := DecodeConversation(EncodeConversation(record))

		req.NoError(err)
		req.Equal(record, decoded)
	})

	t.Run("should fail on a malformed member id", func(t *testing.T) {
		line := uuid.NewString() + ";General;oops,;" + at.Format(TimeLayout) + ";" + at.Format(TimeLayout)
		_, err := DecodeConversation(line)
		require.ErrorIs(t, err, errors.ErrMalformedID)
	})
}

func TestRelationshipCodec(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	for _, status := range []domain.RelationshipStatus{
		{Kind: domain.BestFriends},
		{Kind: domain.Friends},
		domain.NeutralStatus(),
		domain.BlockedBy(b),
	} {
		t.Run("should round trip "+status.Kind.String(), func(t *testing.T) {
			req := require.New(t)
			rel := domain.Relationship{Pair: domain.NewPair(a, b), Status: status}

			decoded, err := DecodeRelationship(EncodeRelationship(rel))

			req.NoError(err)
			req.Equal(rel, decoded)
		})
	}

	t.Run("should reject Blocked without a blocker", func(t *testing.T) {
		_, err := DecodeRelationship(a.String() + ";" + b.String() + ";Blocked")
		require.ErrorIs(t, err, errors.ErrMalformedStatus)
	})

	t.Run("should reject an unknown tag", func(t *testing.T) {
		_, err := DecodeRelationship(a.String() + ";" + b.String() + ";Enemies")
		require.ErrorIs(t, err, errors.ErrMalformedStatus)
	})

	t.Run("should reject a payload on Friends", func(t *testing.T) {
		_, err := DecodeRelationship(a.String() + ";" + b.String() + ";Friends," + a.String())
		require.ErrorIs(t, err, errors.ErrMalformedStatus)
	})
}
