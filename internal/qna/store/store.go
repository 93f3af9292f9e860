// Package store is the persistence gateway for the qna module. Stores are
// interface-driven to keep the domain logic testable and to allow swapping
// in-memory and PostgreSQL persistence without rewiring business code.
//
// Contracts the service layer relies on:
//   - Save is idempotent by ID: first save inserts, later saves update.
//   - FindByID returns sentinel.ErrNotFound for missing entities.
//   - Delete is physical removal (administrative purge), distinct from the
//     soft-delete flag the domain manages. Deleting a question cascades to
//     its answers; delete histories are never removed by this module.
package store

import (
	"context"

	"qna/internal/qna/models"
	id "qna/pkg/domain"
)

type UserStore interface {
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, userID id.UserID) error
}

type QuestionStore interface {
	// Save persists the question row only; answers are saved through the
	// AnswerStore so the aggregate's writes stay explicit.
	Save(ctx context.Context, question *models.Question) error
	FindByID(ctx context.Context, questionID id.QuestionID) (*models.Question, error)
	Delete(ctx context.Context, questionID id.QuestionID) error
}

type AnswerStore interface {
	Save(ctx context.Context, answer *models.Answer) error
	FindByID(ctx context.Context, answerID id.AnswerID) (*models.Answer, error)
	// ListByQuestion returns the question's answers in position order,
	// oldest first. Soft-deleted answers are included; the domain skips
	// them where the rules require it.
	ListByQuestion(ctx context.Context, questionID id.QuestionID) ([]*models.Answer, error)
	CountByQuestion(ctx context.Context, questionID id.QuestionID) (int, error)
	Delete(ctx context.Context, answerID id.AnswerID) error
}

// DeleteHistoryStore is append-only: histories are immutable facts with no
// update or delete surface.
type DeleteHistoryStore interface {
	Append(ctx context.Context, history models.DeleteHistory) error
	FindByID(ctx context.Context, historyID id.DeleteHistoryID) (models.DeleteHistory, error)
	ListByDeleter(ctx context.Context, deleterID id.UserID) ([]models.DeleteHistory, error)
}

// UserContentIndex records which content a user authored or deleted, in
// insertion order. It replaces the bidirectional back-pointers of the
// entity graph with a one-way query index.
type UserContentIndex interface {
	AddQuestion(ctx context.Context, userID id.UserID, questionID id.QuestionID) error
	AddAnswer(ctx context.Context, userID id.UserID, answerID id.AnswerID) error
	AddDeleteHistory(ctx context.Context, userID id.UserID, historyID id.DeleteHistoryID) error
	Questions(ctx context.Context, userID id.UserID) ([]id.QuestionID, error)
	Answers(ctx context.Context, userID id.UserID) ([]id.AnswerID, error)
	DeleteHistories(ctx context.Context, userID id.UserID) ([]id.DeleteHistoryID, error)
}
