package models

import (
	"time"

	"github.com/google/uuid"

	id "qna/pkg/domain"
	dErrors "qna/pkg/domain-errors"
)

// Answer is a reply owned by exactly one question.
//
// Invariants:
//   - Author is required at construction and never changes
//   - Question is required at construction: an answer cannot exist detached
//   - Position records insertion order within the question (oldest first)
//   - Deleted is monotonic: once true it is never cleared
type Answer struct {
	ID        id.AnswerID   `json:"id"`
	Question  id.QuestionID `json:"question_id"`
	Author    id.UserID     `json:"author_id"`
	Contents  string        `json:"contents"`
	Position  int           `json:"position"`
	Deleted   bool          `json:"deleted"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewAnswer(answerID id.AnswerID, author id.UserID, questionID id.QuestionID, contents string, now time.Time) (*Answer, error) {
	if answerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "answer ID cannot be nil")
	}
	if author.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "answer author is required")
	}
	if questionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "answer must belong to a question")
	}
	return &Answer{
		ID:        answerID,
		Question:  questionID,
		Author:    author,
		Contents:  contents,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (a *Answer) IsDeleted() bool {
	return a.Deleted
}

// IsWrittenBy compares the author by stable ID.
func (a *Answer) IsWrittenBy(userID id.UserID) bool {
	return a.Author == userID
}

// SetContents updates the answer body. Edits never touch author or
// deletion state.
func (a *Answer) SetContents(contents string, now time.Time) {
	a.Contents = contents
	a.UpdatedAt = now
}

// Delete marks the answer deleted and returns its history record.
//
// Authorization is not re-checked here: the aggregate root has already
// validated the acting user against every live answer before any mutation.
// The flag set is idempotent; callers that must avoid duplicate history
// records skip already-deleted answers before calling (the question
// cascade does).
func (a *Answer) Delete(deleter id.UserID, now time.Time) DeleteHistory {
	a.Deleted = true
	a.UpdatedAt = now
	return NewDeleteHistory(ContentTypeAnswer, uuid.UUID(a.ID), deleter, now)
}
