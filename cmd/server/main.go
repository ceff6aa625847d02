package main

import (
	"chat-server/contract"
	"chat-server/internal"
	"chat-server/protocol"
	"chat-server/repositories"
	"chat-server/runtime/workers"
	"chat-server/server"
	"chat-server/storage"
	"chat-server/store"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run loads the store, serves until SIGINT/SIGTERM, then saves and drains the store.
// Deferred cleanups run before main exits.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Store, optionally mirrored into the BadgerDB archive
	st := store.NewStore(log)
	if config.ArchiveFilepath != "" {
		db, err := badger.Open(badger.DefaultOptions(config.ArchiveFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return fmt.Errorf("archive opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing archive...")
			_ = db.Close()
		}()
		st.WithArchive(repositories.NewMessageRepository(db, log, config.LimitMessages))
	}

	// 3. Load flat files: users, conversations, messages, relationships
	files := storage.NewFileStore(log, storage.Paths{
		Users:         config.UsersFilepath,
		Conversations: config.ConversationsFilepath,
		Messages:      config.MessagesFilepath,
		Relationships: config.RelationshipsFilepath,
	})
	if err = files.Load(st); err != nil {
		return fmt.Errorf("loading store failed: %w", err)
	}

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Listener, bound before serving so a bad port fails fast
	listener, err := server.Listen(config.Host, config.Port)
	if err != nil {
		return err
	}

	engine := protocol.NewEngine(log, st)
	srv := server.NewServer(log, listener, engine, config.ConnectionBufferSize)

	// 6. Serve under supervision until a signal arrives, then save
	return serve(ctx, log, workers.NewSupervisor(log, config.RestartInterval), srv, files, st)
}

// serve blocks until the supervised server stops, then saves and drains the store.
// Each file is attempted even if another failed.
func serve(ctx context.Context, log *slog.Logger, sup contract.ISupervisor, srv contract.Worker, files storage.FileStore, st storage.Repository) error {
	sup.Add(srv).Run(ctx)
	log.Info("Shutting down, saving store...")

	if err := files.Close(st); err != nil {
		return err
	}
	log.Info("Program stopped cleanly")
	return nil
}
