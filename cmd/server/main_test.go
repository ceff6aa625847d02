package main

import (
	"chat-server/domain"
	"chat-server/mocks"
	"chat-server/storage"
	"chat-server/store"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestServe(t *testing.T) {
	t.Run("should save and drain the store once the supervisor returns", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		log := logs.GetLoggerFromLevel(slog.LevelDebug)
		dir := t.TempDir()
		files := storage.NewFileStore(log, storage.Paths{
			Users:         filepath.Join(dir, "users"),
			Conversations: filepath.Join(dir, "convs"),
			Messages:      filepath.Join(dir, "msgs"),
			Relationships: filepath.Join(dir, "rels"),
		})
		st := store.NewStore(log)
		ann, err := st.AddUser("Ann", "a@x")
		req.NoError(err)
		st.AddConversation("General", []*domain.User{ann})

		ctx := context.Background()
		srv := mocks.NewMockWorker(ctrl)
		sup := mocks.NewMockISupervisor(ctrl)
		gomock.InOrder(
			sup.EXPECT().Add(srv).Return(sup),
			sup.EXPECT().Run(ctx),
		)

		req.NoError(serve(ctx, log, sup, srv, files, st))
		req.Empty(st.Users())
		req.Empty(st.Conversations())
		raw, err := os.ReadFile(filepath.Join(dir, "users"))
		req.NoError(err)
		req.Equal(storage.EncodeUser(ann)+"\n", string(raw))
	})

	t.Run("should report a failed save", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		log := logs.GetLoggerFromLevel(slog.LevelDebug)
		missing := filepath.Join(t.TempDir(), "missing")
		files := storage.NewFileStore(log, storage.Paths{
			Users:         filepath.Join(missing, "users"),
			Conversations: filepath.Join(missing, "convs"),
			Messages:      filepath.Join(missing, "msgs"),
			Relationships: filepath.Join(missing, "rels"),
		})
		st := store.NewStore(log)
		_, err := st.AddUser("Ann", "a@x")
		req.NoError(err)

		srv := mocks.NewMockWorker(ctrl)
		sup := mocks.NewMockISupervisor(ctrl)
		sup.EXPECT().Add(srv).Return(sup)
		sup.EXPECT().Run(gomock.Any())

		req.Error(serve(context.Background(), log, sup, srv, files, st))
		req.Len(st.Users(), 1)
	})
}
