//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=../mocks/mock_engine.go -package=mocks
package protocol

import (
	"chat-server/domain"
	"chat-server/storage"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
)

// IEngine answers one request line. A non-nil error is a protocol violation
// and the caller is expected to drop the connection.
type IEngine interface {
	Handle(request string) (string, error)
}

// Directory is the part of the store the engine reads from.
type Directory interface {
	GetUser(criterion domain.Criterion, term string) (*domain.User, bool)
	GetUsers(criterion domain.Criterion, term string) ([]*domain.User, bool)
	GetConversation(query domain.ConversationQuery) (*domain.Conversation, bool)
}

type Engine struct {
	log       *slog.Logger
	directory Directory
}

func NewEngine(log *slog.Logger, directory Directory) *Engine {
	return &Engine{log: log, directory: directory}
}

func (e *Engine) Handle(request string) (string, error) {
	cmd, err := Parse(request)
	var diagnostic Diagnostic
	switch {
	case errors.As(err, &diagnostic):
		e.log.Debug("Diagnostic", "request", request, "response", string(diagnostic))
		return string(diagnostic), nil
	case err != nil:
		return "", err
	}

	switch c := cmd.(type) {
	case GetUserCommand:
		return e.getUser(c), nil
	case GetConvByNameCommand:
		name := c.Name
		return e.getConversation(domain.ConversationQuery{Name: &name}), nil
	case GetConvByMembersCommand:
		return e.getConversationByMembers(c), nil
	default:
		// REL and MSG are reserved
		e.log.Debug("No handler for command", "noun", cmd.Noun())
		return "", nil
	}
}

func (e *Engine) getUser(c GetUserCommand) string {
	if !c.Multi {
		user, ok := e.directory.GetUser(c.Criterion, c.Term)
		if !ok {
			return NoUserFound
		}
		return serializeUser(user)
	}
	users, ok := e.directory.GetUsers(c.Criterion, c.Term)
	if !ok {
		return NoUsersFound
	}
	return strings.Join(lo.Map(users, func(u *domain.User, _ int) string { return serializeUser(u) }), "")
}

func (e *Engine) getConversationByMembers(c GetConvByMembersCommand) string {
	members := lo.FilterMap(c.MemberIDs, func(id string, _ int) (*domain.User, bool) {
		return e.directory.GetUser(domain.ByID, id)
	})
	if len(members) == 0 {
		return NoValidUsersProvided
	}
	if len(members) != len(c.MemberIDs) {
		return InvalidUserProvided
	}
	return e.getConversation(domain.ConversationQuery{Members: members})
}

func (e *Engine) getConversation(query domain.ConversationQuery) string {
	conv, ok := e.directory.GetConversation(query)
	if !ok {
		return NoConvsFound
	}
	return storage.EncodeConversation(conv.Record()) + "\n"
}

func serializeUser(u *domain.User) string {
	return storage.EncodeUser(u) + "\n"
}
