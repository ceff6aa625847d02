package storage

import (
	"bufio"
	"chat-server/domain"
	chaterr "chat-server/errors"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/samber/lo"
)

const maxLineSize = 1 << 20

// Repository is the store surface the codec loads into and drains from.
type Repository interface {
	LoadUsers(users []*domain.User) error
	LoadConversations(records []domain.ConversationRecord) error
	LoadMessages(records []domain.MessageRecord) error
	LoadRelationships(relationships []domain.Relationship) error

	Users() []*domain.User
	Conversations() []*domain.Conversation
	Messages() []*domain.Message
	Relationships() []domain.Relationship

	DrainUsers()
	DrainConversations()
	DrainMessages()
	DrainRelationships()
}

// Paths locates the four flat files.
type Paths struct {
	Users         string
	Conversations string
	Messages      string
	Relationships string
}

type FileStore struct {
	log   *slog.Logger
	paths Paths
}

func NewFileStore(log *slog.Logger, paths Paths) FileStore {
	return FileStore{log: log, paths: paths}
}

// Load reads users, conversations, messages then relationships.
// The order matters: each kind resolves its references against the ones loaded before it.
// Any malformed line aborts the whole load.
func (f FileStore) Load(repo Repository) error {
	users, err := readRecords(f, f.paths.Users, chaterr.ErrInvalidUsersFile, DecodeUser)
	if err != nil {
		return err
	}
	if err = repo.LoadUsers(users); err != nil {
		return fmt.Errorf("%w: %w", chaterr.ErrInvalidUsersFile, err)
	}

	convs, err := readRecords(f, f.paths.Conversations, chaterr.ErrInvalidConvsFile, DecodeConversation)
	if err != nil {
		return err
	}
	if err = repo.LoadConversations(convs); err != nil {
		return fmt.Errorf("%w: %w", chaterr.ErrInvalidConvsFile, err)
	}

	msgs, err := readRecords(f, f.paths.Messages, chaterr.ErrInvalidMsgsFile, DecodeMessage)
	if err != nil {
		return err
	}
	if err = repo.LoadMessages(msgs); err != nil {
		return fmt.Errorf("%w: %w", chaterr.ErrInvalidMsgsFile, err)
	}

	rels, err := readRecords(f, f.paths.Relationships, chaterr.ErrInvalidRelsFile, DecodeRelationship)
	if err != nil {
		return err
	}
	if err = repo.LoadRelationships(rels); err != nil {
		return fmt.Errorf("%w: %w", chaterr.ErrInvalidRelsFile, err)
	}

	f.log.Info("Store loaded",
		"users", len(users),
		"conversations", len(convs),
		"messages", len(msgs),
		"relationships", len(rels))
	return nil
}

// Close writes every entity kind to its file and drains it from the store once written.
// Each file is attempted even if a previous one failed, so a partial failure
// leaves the successfully saved kinds drained and the failed ones in memory.
func (f FileStore) Close(repo Repository) error {
	steps := []struct {
		kind  string
		path  string
		lines func() []string
		drain func()
	}{
		{"messages", f.paths.Messages, func() []string {
			return lo.Map(repo.Messages(), func(m *domain.Message, _ int) string { return EncodeMessage(m.Record()) })
		}, repo.DrainMessages},
		{"conversations", f.paths.Conversations, func() []string {
			return lo.Map(repo.Conversations(), func(c *domain.Conversation, _ int) string { return EncodeConversation(c.Record()) })
		}, repo.DrainConversations},
		{"users", f.paths.Users, func() []string {
			return lo.Map(repo.Users(), func(u *domain.User, _ int) string { return EncodeUser(u) })
		}, repo.DrainUsers},
		{"relationships", f.paths.Relationships, func() []string {
			return lo.Map(repo.Relationships(), func(r domain.Relationship, _ int) string { return EncodeRelationship(r) })
		}, repo.DrainRelationships},
	}

	var errs []error
	for _, step := range steps {
		lines := step.lines()
		if err := writeLines(step.path, lines); err != nil {
			f.log.Error("Saving failed", "kind", step.kind, "path", step.path, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", step.kind, err))
			continue
		}
		step.drain()
		f.log.Info("Saved", "kind", step.kind, "path", step.path, "records", len(lines))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", chaterr.ErrSaveFailed, errors.Join(errs...))
	}
	return nil
}

// readRecords decodes one record per line. A missing file is an empty collection.
func readRecords[T any](f FileStore, path string, kind error, decode func(string) (T, error)) ([]T, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		f.log.Info("File not found, starting empty", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kind, err)
	}
	defer file.Close()

	var records []T
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		record, err := decode(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", kind, lineNumber, err)
		}
		records = append(records, record)
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", kind, err)
	}
	return records, nil
}

func writeLines(path string, lines []string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()

	w := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err = w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
