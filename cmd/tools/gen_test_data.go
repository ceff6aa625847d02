package main

import (
	"chat-server/domain"
	"chat-server/repositories"
	"chat-server/storage"
	"chat-server/store"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
)

// Writes a small consistent dataset in the flat-file format, ready to be loaded by the server.
func main() {
	outputDir := flag.String("out", "./files", "destination directory")
	archiveDir := flag.String("archive", os.Getenv("ARCHIVE_FILEPATH"), "badger archive directory, empty to skip archiving")
	users := flag.Int("users", 6, "number of users")
	perConv := flag.Int("messages", 5, "messages per conversation")
	flag.Parse()

	if err := generate(*outputDir, *archiveDir, *users, *perConv); err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Dataset written to %s\n", *outputDir)
}

// generate also mirrors every message into the archive when archiveDir is set.
func generate(outputDir, archiveDir string, users, perConv int) error {
	if users < 2 {
		return fmt.Errorf("at least 2 users are needed, got %d", users)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("cannot create %s: %w", outputDir, err)
	}
	log := logs.GetLoggerFromLevel(slog.LevelWarn)
	st := store.NewStore(log)
	if archiveDir != "" {
		db, err := badger.Open(badger.DefaultOptions(archiveDir).WithLoggingLevel(badger.WARNING))
		if err != nil {
			return fmt.Errorf("archive opening failed: %w", err)
		}
		defer db.Close()
		st.WithArchive(repositories.NewMessageRepository(db, log, nil))
	}

	// 1. Users
	created := make([]*domain.User, 0, users)
	for i := range users {
		u, err := st.AddUser(fmt.Sprintf("User%02d", i), fmt.Sprintf("user%02d@chat.local", i))
		if err != nil {
			return err
		}
		created = append(created, u)
	}

	// 2. One conversation per pair of neighbours, plus one with everybody
	convs := lo.Map(lo.Range(users-1), func(i int, _ int) *domain.Conversation {
		return st.AddConversation(fmt.Sprintf("pair-%02d", i), created[i:i+2])
	})
	convs = append(convs, st.AddConversation("everyone", created))

	// 3. Messages alternating between members
	for _, conv := range convs {
		for i := range perConv {
			sender := conv.Members[i%len(conv.Members)]
			if _, err := st.SendMessage(sender, conv, fmt.Sprintf("message %d from %s", i, sender.Name)); err != nil {
				return err
			}
		}
	}

	// 4. Relationships cycling through every status
	kinds := []domain.StatusKind{domain.Friends, domain.BestFriends, domain.Neutral}
	for i := 0; i+1 < users; i++ {
		a, b := created[i], created[i+1]
		status := domain.RelationshipStatus{Kind: kinds[i%len(kinds)]}
		if i%4 == 3 {
			status = domain.BlockedBy(a.ID)
		}
		st.SetRelationship(a.ID, b.ID, status)
	}

	files := storage.NewFileStore(log, storage.Paths{
		Users:         filepath.Join(outputDir, "users"),
		Conversations: filepath.Join(outputDir, "convs"),
		Messages:      filepath.Join(outputDir, "msgs"),
		Relationships: filepath.Join(outputDir, "rels"),
	})
	return files.Close(st)
}
