package storage

import (
	"chat-server/domain"
	chaterr "chat-server/errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	FieldSeparator = ';'
	ListSeparator  = ','
	escapeChar     = '\\'
)

// TimeLayout is RFC 3339 with nanoseconds, always written in UTC.
const TimeLayout = time.RFC3339Nano

const (
	userFields         = 4
	conversationFields = 5
	messageFields      = 5
	relationshipFields = 3
)

// EncodeUser renders id;name;email;create_time.
func EncodeUser(u *domain.User) string {
	return joinFields(
		u.ID.String(),
		escapeField(u.Name),
		escapeField(u.Email),
		formatTime(u.CreatedAt),
	)
}

func DecodeUser(line string) (*domain.User, error) {
	fields, err := splitFields(line, userFields)
	if err != nil {
		return nil, err
	}
	id, err := parseID(fields[0])
	if err != nil {
		return nil, err
	}
	createdAt, err := parseTime(fields[3])
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:        id,
		Name:      unescapeField(fields[1]),
		Email:     unescapeField(fields[2]),
		CreatedAt: createdAt,
	}, nil
}

// EncodeConversation renders id;name;member_id,member_id,...;start;last_msg.
func EncodeConversation(c domain.ConversationRecord) string {
	members := lo.Map(c.MemberIDs, func(id uuid.UUID, _ int) string { return id.String() })
	return joinFields(
		c.ID.String(),
		escapeField(c.Name),
		strings.Join(members, string(ListSeparator)),
		formatTime(c.Start),
		formatTime(c.LastMessage),
	)
}

// DecodeConversation accepts the member list with or without a trailing separator.
func DecodeConversation(line string) (domain.ConversationRecord, error) {
	fields, err := splitFields(line, conversationFields)
	if err != nil {
		return domain.ConversationRecord{}, err
	}
	id, err := parseID(fields[0])
	if err != nil {
		return domain.ConversationRecord{}, err
	}
	memberIDs, err := ParseIDList(fields[2])
	if err != nil {
		return domain.ConversationRecord{}, err
	}
	start, err := parseTime(fields[3])
	if err != nil {
		return domain.ConversationRecord{}, err
	}
	lastMessage, err := parseTime(fields[4])
	if err != nil {
		return domain.ConversationRecord{}, err
	}
	return domain.ConversationRecord{
		ID:          id,
		Name:        unescapeField(fields[1]),
		MemberIDs:   memberIDs,
		Start:       start,
		LastMessage: lastMessage,
	}, nil
}

// EncodeMessage renders id;text;time_stamp;sender_id;conversation_id.
func EncodeMessage(m domain.MessageRecord) string {
	return joinFields(
		m.ID.String(),
		escapeField(m.Text),
		formatTime(m.CreatedAt),
		m.SenderID.String(),
		m.ConversationID.String(),
	)
}

func DecodeMessage(line string) (domain.MessageRecord, error) {
	fields, err := splitFields(line, messageFields)
	if err != nil {
		return domain.MessageRecord{}, err
	}
	id, err := parseID(fields[0])
	if err != nil {
		return domain.MessageRecord{}, err
	}
	createdAt, err := parseTime(fields[2])
	if err != nil {
		return domain.MessageRecord{}, err
	}
	senderID, err := parseID(fields[3])
	if err != nil {
		return domain.MessageRecord{}, err
	}
	conversationID, err := parseID(fields[4])
	if err != nil {
		return domain.MessageRecord{}, err
	}
	return domain.MessageRecord{
		ID:             id,
		Text:           unescapeField(fields[1]),
		CreatedAt:      createdAt,
		SenderID:       senderID,
		ConversationID: conversationID,
	}, nil
}

// EncodeRelationship renders member_id;member_id;status[,blocked_by_id].
func EncodeRelationship(r domain.Relationship) string {
	status := r.Status.Kind.String()
	if r.Status.Kind == domain.Blocked {
		status += string(ListSeparator) + r.Status.BlockedBy.String()
	}
	return joinFields(r.Pair.A.String(), r.Pair.B.String(), status)
}

func DecodeRelationship(line string) (domain.Relationship, error) {
	fields, err := splitFields(line, relationshipFields)
	if err != nil {
		return domain.Relationship{}, err
	}
	a, err := parseID(fields[0])
	if err != nil {
		return domain.Relationship{}, err
	}
	b, err := parseID(fields[1])
	if err != nil {
		return domain.Relationship{}, err
	}
	status, err := parseStatus(fields[2])
	if err != nil {
		return domain.Relationship{}, err
	}
	return domain.Relationship{Pair: domain.NewPair(a, b), Status: status}, nil
}

var statusKinds = map[string]domain.StatusKind{
	domain.BestFriends.String(): domain.BestFriends,
	domain.Friends.String():     domain.Friends,
	domain.Neutral.String():     domain.Neutral,
}

func parseStatus(field string) (domain.RelationshipStatus, error) {
	tag, payload, hasPayload := strings.Cut(field, string(ListSeparator))
	switch tag {
	case domain.BestFriends.String(), domain.Friends.String(), domain.Neutral.String():
		if hasPayload {
			return domain.RelationshipStatus{}, fmt.Errorf("%w: %q carries no payload", chaterr.ErrMalformedStatus, tag)
		}
		return domain.RelationshipStatus{Kind: statusKinds[tag]}, nil
	case domain.Blocked.String():
		if !hasPayload {
			return domain.RelationshipStatus{}, fmt.Errorf("%w: Blocked without blocker id", chaterr.ErrMalformedStatus)
		}
		by, err := parseID(payload)
		if err != nil {
			return domain.RelationshipStatus{}, err
		}
		return domain.BlockedBy(by), nil
	default:
		return domain.RelationshipStatus{}, fmt.Errorf("%w: %q", chaterr.ErrMalformedStatus, tag)
	}
}

// ParseIDList parses a separator-delimited id list, ignoring empty entries
// so that "a,b," and "a,b" are equivalent.
func ParseIDList(field string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, raw := range strings.Split(field, string(ListSeparator)) {
		if raw == "" {
			continue
		}
		id, err := parseID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", chaterr.ErrMalformedID, s)
	}
	return id, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", chaterr.ErrMalformedTimestamp, s)
	}
	return t.UTC(), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func joinFields(fields ...string) string {
	return strings.Join(fields, string(FieldSeparator))
}

// splitFields splits on unescaped field separators. Escapes are kept so that
// list fields can be split again before unescaping.
func splitFields(line string, want int) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == escapeChar && i+1 < len(line):
			current.WriteByte(c)
			current.WriteByte(line[i+1])
			i++
		case c == FieldSeparator:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	fields = append(fields, current.String())
	if len(fields) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", chaterr.ErrWrongFieldCount, len(fields), want)
	}
	return fields, nil
}

// escapeField protects the characters that would break a single-valued field.
// List separators are left alone: only id lists are split on them.
func escapeField(s string) string {
	if !strings.ContainsAny(s, "\\;\n\r") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', FieldSeparator:
			b.WriteRune(escapeChar)
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unescapeField(s string) string {
	if !strings.ContainsRune(s, escapeChar) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != escapeChar || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
