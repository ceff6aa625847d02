package errors

import "fmt"

// Store mutations
var (
	ErrDuplicateUser = fmt.Errorf("user with the same name and email already exists")
	ErrNotAMember    = fmt.Errorf("sender is not a member of the conversation")
	ErrUnknownUser   = fmt.Errorf("unknown user")
)

// Load-time failures. The file-kind errors are wrapped around a field-level cause.
var (
	ErrInvalidUsersFile      = fmt.Errorf("invalid users file")
	ErrInvalidConvsFile      = fmt.Errorf("invalid conversations file")
	ErrInvalidMsgsFile       = fmt.Errorf("invalid messages file")
	ErrInvalidRelsFile       = fmt.Errorf("invalid relationships file")
	ErrWrongFieldCount       = fmt.Errorf("wrong field count")
	ErrMalformedID           = fmt.Errorf("malformed identifier")
	ErrMalformedTimestamp    = fmt.Errorf("malformed timestamp")
	ErrMalformedStatus       = fmt.Errorf("malformed relationship status")
	ErrUnknownSender         = fmt.Errorf("message sender not found")
	ErrUnknownConversation   = fmt.Errorf("message conversation not found")
	ErrDuplicateID           = fmt.Errorf("duplicate identifier")
	ErrDuplicateRelationship = fmt.Errorf("duplicate relationship pair")
)

var (
	ErrSaveFailed        = fmt.Errorf("saving store failed")
	ErrProtocolViolation = fmt.Errorf("protocol violation")
	ErrWorkerPanic       = fmt.Errorf("worker panic")
)
