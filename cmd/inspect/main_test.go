package main

import (
	"bytes"
	"chat-server/domain"
	"chat-server/internal"
	"chat-server/mocks"
	"chat-server/repositories"
	"chat-server/storage"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCollect_Users(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	ann := domain.NewUser("Ann", "a@x", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	path := filepath.Join(dir, "users")
	req.NoError(os.WriteFile(path, []byte(storage.EncodeUser(ann)+"\n"), 0o644))

	header, rows, err := collect(internal.Config{UsersFilepath: path}, "users", "")

	req.NoError(err)
	req.Equal([]string{"ID", "Name", "Email", "Created"}, header)
	req.Equal([][]string{{ann.ID.String(), "Ann", "a@x", "2026-01-01T00:00:00Z"}}, rows)

	var out bytes.Buffer
	render(&out, header, rows)
	req.Contains(out.String(), "a@x")
}

func TestCollect_Errors(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "rels")
	req.NoError(os.WriteFile(path, []byte("garbage\n"), 0o644))

	_, _, err := collect(internal.Config{RelationshipsFilepath: path}, "rels", "")
	req.Error(err)

	_, _, err = collect(internal.Config{}, "archive", "")
	req.ErrorContains(err, "ARCHIVE_FILEPATH")

	_, _, err = collect(internal.Config{}, "everything", "")
	req.ErrorContains(err, "unknown kind")
}

func TestPageArchive(t *testing.T) {
	t.Run("should follow the cursor until an empty page", func(t *testing.T) {
		req := require.New(t)
		repository := mocks.NewMockIMessageRepository(gomock.NewController(t))
		conversationID := uuid.New()
		first := []domain.MessageRecord{{ID: uuid.New(), Text: "newest"}}
		second := []domain.MessageRecord{{ID: uuid.New(), Text: "oldest"}}

		gomock.InOrder(
			repository.EXPECT().GetMessages(conversationID, nil).Return(first, lo.ToPtr("k1"), nil),
			repository.EXPECT().GetMessages(conversationID, lo.ToPtr("k1")).Return(second, lo.ToPtr("k2"), nil),
			repository.EXPECT().GetMessages(conversationID, lo.ToPtr("k2")).Return(nil, lo.ToPtr(""), nil),
		)

		messages, err := pageArchive(repository, conversationID)
		req.NoError(err)
		req.Equal(append(first, second...), messages)
	})

	t.Run("should fail on an archive error", func(t *testing.T) {
		repository := mocks.NewMockIMessageRepository(gomock.NewController(t))
		repository.EXPECT().GetMessages(gomock.Any(), nil).Return(nil, nil, fmt.Errorf("corrupted"))

		_, err := pageArchive(repository, uuid.New())
		require.ErrorContains(t, err, "corrupted")
	})

	t.Run("should gather every message across limited pages", func(t *testing.T) {
		req := require.New(t)
		db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
		req.NoError(err)
		t.Cleanup(func() { _ = db.Close() })
		repository := repositories.NewMessageRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil)), lo.ToPtr(2))

		conversationID := uuid.New()
		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := range 5 {
			req.NoError(repository.StoreMessage(domain.MessageRecord{
				ID:             uuid.New(),
				Text:           fmt.Sprintf("msg %d", i),
				CreatedAt:      start.Add(time.Duration(i) * time.Second),
				SenderID:       uuid.New(),
				ConversationID: conversationID,
			}))
		}

		messages, err := pageArchive(repository, conversationID)
		req.NoError(err)
		req.Equal([]string{"msg 4", "msg 3", "msg 2", "msg 1", "msg 0"},
			lo.Map(messages, func(m domain.MessageRecord, _ int) string { return m.Text }))
	})
}
