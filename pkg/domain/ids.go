// Package domain holds the typed identifiers shared across modules.
//
// Each entity gets its own uuid-backed type so the compiler rejects a
// QuestionID where an AnswerID is expected. IDs arriving from external
// callers go through the Parse functions, which enforce the invariant
// that IDs are valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "qna/pkg/domain-errors"
)

type (
	// UserID identifies a registered user.
	UserID uuid.UUID

	// QuestionID identifies a question aggregate.
	QuestionID uuid.UUID

	// AnswerID identifies an answer within a question.
	AnswerID uuid.UUID

	// DeleteHistoryID identifies an immutable delete-history record.
	DeleteHistoryID uuid.UUID
)

func (id UserID) String() string          { return uuid.UUID(id).String() }
func (id QuestionID) String() string      { return uuid.UUID(id).String() }
func (id AnswerID) String() string        { return uuid.UUID(id).String() }
func (id DeleteHistoryID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id QuestionID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id AnswerID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id DeleteHistoryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// The typed IDs render as canonical UUID strings in JSON and other text
// encodings, and re-validate on the way back in.

func (id UserID) MarshalText() ([]byte, error)          { return []byte(id.String()), nil }
func (id QuestionID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id AnswerID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id DeleteHistoryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *QuestionID) UnmarshalText(text []byte) error {
	parsed, err := ParseQuestionID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *AnswerID) UnmarshalText(text []byte) error {
	parsed, err := ParseAnswerID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *DeleteHistoryID) UnmarshalText(text []byte) error {
	parsed, err := ParseDeleteHistoryID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewUserID returns a freshly generated user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewQuestionID returns a freshly generated question ID.
func NewQuestionID() QuestionID { return QuestionID(uuid.New()) }

// NewAnswerID returns a freshly generated answer ID.
func NewAnswerID() AnswerID { return AnswerID(uuid.New()) }

// NewDeleteHistoryID returns a freshly generated delete-history ID.
func NewDeleteHistoryID() DeleteHistoryID { return DeleteHistoryID(uuid.New()) }

// ParseUserID parses and validates a user ID from its string form.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user ID")
	return UserID(parsed), err
}

// ParseQuestionID parses and validates a question ID from its string form.
func ParseQuestionID(raw string) (QuestionID, error) {
	parsed, err := parseUUID(raw, "question ID")
	return QuestionID(parsed), err
}

// ParseAnswerID parses and validates an answer ID from its string form.
func ParseAnswerID(raw string) (AnswerID, error) {
	parsed, err := parseUUID(raw, "answer ID")
	return AnswerID(parsed), err
}

// ParseDeleteHistoryID parses and validates a delete-history ID from its string form.
func ParseDeleteHistoryID(raw string) (DeleteHistoryID, error) {
	parsed, err := parseUUID(raw, "delete history ID")
	return DeleteHistoryID(parsed), err
}

func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, kind+" is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be the nil UUID")
	}
	return parsed, nil
}
