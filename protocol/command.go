package protocol

import (
	"chat-server/domain"
	"chat-server/errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Diagnostic responses returned to the client as-is.
const (
	NotGet                       = "NOT GET"
	NoUserFound                  = "NO USER FOUND"
	NoUsersFound                 = "NO USERS FOUND"
	NoOptionProvided             = "NO OPTION PROVIDED"
	NoOptionOrSearchTermProvided = "NO OPTION OR SEARCH TERM PROVIDED"
	NoSearchTermProvided         = "NO SEARCH TERM PROVIDED"
	NoConvsFound                 = "NO CONVS FOUND"
	NoValidUsersProvided         = "NO VALID USERS PROVIDED"
	InvalidUserProvided          = "INVALID USER PROVIDED"
	IncompleteCommand            = "INCOMPLETE COMMAND"
)

const (
	tokenSeparator  = " "
	memberSeparator = ","
	multiOption     = "MULT"
)

// Diagnostic is a malformed-request outcome that is answered, not escalated.
type Diagnostic string

func (d Diagnostic) Error() string {
	return string(d)
}

type Command interface {
	Noun() string
}

type GetUserCommand struct {
	Multi     bool
	Criterion domain.Criterion
	Term      string
}

func (GetUserCommand) Noun() string { return "USER" }

type GetConvByNameCommand struct {
	Name string
}

func (GetConvByNameCommand) Noun() string { return "CONV" }

type GetConvByMembersCommand struct {
	MemberIDs []string
}

func (GetConvByMembersCommand) Noun() string { return "CONV" }

// GetRelCommand and GetMsgCommand parse but have no handler yet.
type GetRelCommand struct {
	Args []string
}

func (GetRelCommand) Noun() string { return "REL" }

type GetMsgCommand struct {
	Args []string
}

func (GetMsgCommand) Noun() string { return "MSG" }

// Parse turns one request line into a Command.
// It returns a Diagnostic for requests the client can fix, and
// errors.ErrProtocolViolation when the noun after GET is missing or unknown.
func Parse(request string) (Command, error) {
	tokens := strings.Split(request, tokenSeparator)
	if tokens[0] != "GET" {
		return nil, Diagnostic(NotGet)
	}
	if len(tokens) < 2 {
		return nil, fmt.Errorf("%w: missing noun", errors.ErrProtocolViolation)
	}
	args := tokens[2:]
	switch noun := tokens[1]; noun {
	case "USER":
		return parseGetUser(args)
	case "CONV":
		return parseGetConv(args)
	case "REL":
		return GetRelCommand{Args: args}, nil
	case "MSG":
		return GetMsgCommand{Args: args}, nil
	default:
		return nil, fmt.Errorf("%w: unknown noun %q", errors.ErrProtocolViolation, noun)
	}
}

func parseGetUser(args []string) (Command, error) {
	if !hasToken(args) {
		return nil, Diagnostic(NoOptionProvided)
	}
	multi := args[0] == multiOption
	if multi {
		args = args[1:]
		if !hasToken(args) {
			return nil, Diagnostic(NoOptionOrSearchTermProvided)
		}
	}
	criterion, ok := domain.ParseCriterion(args[0])
	if !ok {
		return nil, Diagnostic(fmt.Sprintf("INVALID GET USER %s COMMAND", args[0]))
	}
	term := strings.TrimSpace(strings.Join(args[1:], tokenSeparator))
	if term == "" {
		return nil, Diagnostic(NoSearchTermProvided)
	}
	return GetUserCommand{Multi: multi, Criterion: criterion, Term: term}, nil
}

func parseGetConv(args []string) (Command, error) {
	if !hasToken(args) {
		return nil, Diagnostic(IncompleteCommand)
	}
	term := strings.TrimSpace(strings.Join(args[1:], tokenSeparator))
	if term == "" {
		return nil, Diagnostic(IncompleteCommand)
	}
	switch option := args[0]; option {
	case "NAME":
		return GetConvByNameCommand{Name: term}, nil
	case "MEMBERS":
		ids := lo.FilterMap(strings.Split(term, memberSeparator), func(id string, _ int) (string, bool) {
			id = strings.TrimSpace(id)
			return id, id != ""
		})
		return GetConvByMembersCommand{MemberIDs: ids}, nil
	default:
		return nil, Diagnostic(fmt.Sprintf("INVALID GET CONV %s COMMAND", option))
	}
}

func hasToken(args []string) bool {
	return len(args) > 0 && args[0] != ""
}
