package models

import (
	"time"

	"github.com/google/uuid"

	id "qna/pkg/domain"
	dErrors "qna/pkg/domain-errors"
)

// Question is the aggregate root for a question and its answers.
//
// Invariants:
//   - Title is non-empty and at most 200 characters
//   - Author is write-once: set via WrittenBy and never changed
//   - Answers keep insertion order, oldest first
//   - Deleted is monotonic: once true it is never cleared
//
// # Deletion Invariant
//
// A question may only be soft-deleted by its author, and only when every
// live answer was also written by that author. The check runs over the
// whole aggregate before any flag flips, so a denied deletion leaves the
// aggregate exactly as it was: no partially-deleted answers, no history
// records. This all-or-nothing pass is the central correctness property
// of the module.
type Question struct {
	ID        id.QuestionID `json:"id"`
	Title     string        `json:"title"`
	Contents  string        `json:"contents"`
	Author    id.UserID     `json:"author_id"`
	Answers   []*Answer     `json:"answers,omitempty"`
	Deleted   bool          `json:"deleted"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewQuestion(questionID id.QuestionID, title, contents string, now time.Time) (*Question, error) {
	if questionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "question ID cannot be nil")
	}
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "question title cannot be empty")
	}
	if len(title) > 200 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "question title must be 200 characters or less")
	}
	return &Question{
		ID:        questionID,
		Title:     title,
		Contents:  contents,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// WrittenBy assigns the author. The author is write-once; later calls are
// no-ops. Returns the question for construction chaining.
func (q *Question) WrittenBy(author id.UserID) *Question {
	if q.Author.IsNil() {
		q.Author = author
	}
	return q
}

func (q *Question) IsDeleted() bool {
	return q.Deleted
}

// IsWrittenBy compares the author by stable ID.
func (q *Question) IsWrittenBy(userID id.UserID) bool {
	return q.Author == userID
}

// SetContents updates title and body. Edits never touch author or
// deletion state.
func (q *Question) SetContents(title, contents string, now time.Time) {
	q.Title = title
	q.Contents = contents
	q.UpdatedAt = now
}

// AddAnswer appends an answer, assigning the next position so insertion
// order survives persistence.
func (q *Question) AddAnswer(a *Answer) {
	a.Position = len(q.Answers)
	q.Answers = append(q.Answers, a)
}

// AttachAnswers replaces the answer collection with one loaded from the
// store. The slice must already be in position order.
func (q *Question) AttachAnswers(answers []*Answer) {
	q.Answers = answers
}

// CanDelete checks the deletion authorship rule without mutating anything.
// It validates the question author first, then every live answer, so a
// failure anywhere leaves the aggregate untouched.
// Use with ApplyDelete for the validate-then-mutate callback pattern.
func (q *Question) CanDelete(acting id.UserID) error {
	if !q.IsWrittenBy(acting) {
		return dErrors.New(dErrors.CodeCannotDelete, "question author mismatch")
	}
	for _, a := range q.Answers {
		if a.IsDeleted() {
			continue
		}
		if !a.IsWrittenBy(acting) {
			return dErrors.New(dErrors.CodeCannotDelete, "answer author mismatch")
		}
	}
	return nil
}

// ApplyDelete marks the question and every live answer deleted and returns
// the ordered history batch: the question's record first, then one per
// answer in insertion order. Call CanDelete first; ApplyDelete assumes the
// rule has passed.
//
// Re-deleting an already-deleted question is an idempotent no-op: flags
// stay true and no further history is emitted. Already-deleted answers are
// skipped for the same reason, so each answer produces at most one history
// record over its lifetime.
func (q *Question) ApplyDelete(acting id.UserID, now time.Time) []DeleteHistory {
	if q.Deleted {
		return nil
	}
	q.Deleted = true
	q.UpdatedAt = now

	histories := make([]DeleteHistory, 0, len(q.Answers)+1)
	histories = append(histories, NewDeleteHistory(ContentTypeQuestion, uuid.UUID(q.ID), acting, now))
	for _, a := range q.Answers {
		if a.IsDeleted() {
			continue
		}
		histories = append(histories, a.Delete(acting, now))
	}
	return histories
}

// DeleteAndCreateDeleteHistory validates and applies the soft-delete in
// one call, returning the ordered history batch. On CannotDelete the
// aggregate is left entirely unchanged. The caller persists the batch;
// this method never touches storage.
func (q *Question) DeleteAndCreateDeleteHistory(acting id.UserID, now time.Time) ([]DeleteHistory, error) {
	if err := q.CanDelete(acting); err != nil {
		return nil, err
	}
	return q.ApplyDelete(acting, now), nil
}
