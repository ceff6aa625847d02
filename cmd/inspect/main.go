package main

import (
	"chat-server/domain"
	"chat-server/internal"
	"chat-server/repositories"
	"chat-server/storage"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

func main() {
	kind := flag.String("kind", "users", "What to print: users, convs, msgs, rels or archive")
	conversation := flag.String("conv", "", "Conversation id, required with -kind=archive")
	colours := flag.Bool("colours", true, "Colorize the header")
	flag.Parse()

	config, err := internal.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	header, rows, err := collect(config, *kind, *conversation)
	if err != nil {
		log.Fatal(err)
	}

	title := fmt.Sprintf("  ====== %s (%d) ======", *kind, len(rows))
	if *colours {
		title = color.New(color.BgBlack, color.FgGreen).Render(title)
	}
	fmt.Println(title)
	render(os.Stdout, header, rows)
}

func collect(config internal.Config, kind, conversation string) ([]string, [][]string, error) {
	switch kind {
	case "users":
		rows, err := readFile(config.UsersFilepath, func(line string) ([]string, error) {
			u, err := storage.DecodeUser(line)
			if err != nil {
				return nil, err
			}
			return []string{u.ID.String(), u.Name, u.Email, u.CreatedAt.Format(storage.TimeLayout)}, nil
		})
		return []string{"ID", "Name", "Email", "Created"}, rows, err
	case "convs":
		rows, err := readFile(config.ConversationsFilepath, func(line string) ([]string, error) {
			c, err := storage.DecodeConversation(line)
			if err != nil {
				return nil, err
			}
			return []string{c.ID.String(), c.Name, fmt.Sprint(len(c.MemberIDs)), c.Start.Format(storage.TimeLayout), c.LastMessage.Format(storage.TimeLayout)}, nil
		})
		return []string{"ID", "Name", "Members", "Start", "Last message"}, rows, err
	case "msgs":
		rows, err := readFile(config.MessagesFilepath, func(line string) ([]string, error) {
			m, err := storage.DecodeMessage(line)
			if err != nil {
				return nil, err
			}
			return messageRow(m), nil
		})
		return messageHeader(), rows, err
	case "rels":
		rows, err := readFile(config.RelationshipsFilepath, func(line string) ([]string, error) {
			r, err := storage.DecodeRelationship(line)
			if err != nil {
				return nil, err
			}
			blockedBy := ""
			if r.Status.Kind == domain.Blocked {
				blockedBy = r.Status.BlockedBy.String()
			}
			return []string{r.Pair.A.String(), r.Pair.B.String(), r.Status.Kind.String(), blockedBy}, nil
		})
		return []string{"User", "User", "Status", "Blocked by"}, rows, err
	case "archive":
		rows, err := readArchive(config, conversation)
		return messageHeader(), rows, err
	default:
		return nil, nil, fmt.Errorf("unknown kind %q", kind)
	}
}

func readFile(path string, row func(line string) ([]string, error)) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for i, line := range strings.Split(strings.TrimSuffix(string(content), "\n"), "\n") {
		if line == "" {
			continue
		}
		r, err := row(line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func readArchive(config internal.Config, conversation string) ([][]string, error) {
	if config.ArchiveFilepath == "" {
		return nil, fmt.Errorf("ARCHIVE_FILEPATH is not set")
	}
	conversationID, err := uuid.Parse(conversation)
	if err != nil {
		return nil, fmt.Errorf("invalid -conv: %w", err)
	}
	// BypassLockGuard allows reading while the server holds the lock
	db, err := badger.Open(badger.DefaultOptions(config.ArchiveFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer db.Close()

	repository := repositories.NewMessageRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil)), config.LimitMessages)
	messages, err := pageArchive(repository, conversationID)
	if err != nil {
		return nil, err
	}
	return lo.Map(messages, func(m domain.MessageRecord, _ int) []string { return messageRow(m) }), nil
}

// pageArchive follows the cursor until the archive returns an empty page.
func pageArchive(repository repositories.IMessageRepository, conversationID uuid.UUID) ([]domain.MessageRecord, error) {
	var (
		messages []domain.MessageRecord
		cursor   *string
	)
	for {
		page, next, err := repository.GetMessages(conversationID, cursor)
		if err != nil {
			return nil, fmt.Errorf("reading archive failed: %w", err)
		}
		if len(page) == 0 {
			return messages, nil
		}
		messages = append(messages, page...)
		cursor = next
	}
}

func messageHeader() []string {
	return []string{"ID", "Sender", "Conversation", "At", "Text"}
}

func messageRow(m domain.MessageRecord) []string {
	return []string{m.ID.String(), m.SenderID.String(), m.ConversationID.String(), m.CreatedAt.Format(storage.TimeLayout), m.Text}
}

func render(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.AppendBulk(rows)
	table.Render()
}
