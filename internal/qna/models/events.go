package models

import (
	id "qna/pkg/domain"
)

// Event payloads handed to the audit emitter by the service layer. They
// carry identifiers only; the emitter adds timestamps and correlation.

type UserRegistered struct {
	UserID id.UserID
}

type QuestionPosted struct {
	QuestionID id.QuestionID
	AuthorID   id.UserID
}

type AnswerPosted struct {
	AnswerID   id.AnswerID
	QuestionID id.QuestionID
	AuthorID   id.UserID
}

type QuestionDeleted struct {
	QuestionID id.QuestionID
	DeletedBy  id.UserID
	// Histories is the number of delete-history records the cascade
	// produced (question plus live answers).
	Histories int
}

type AnswerDeleted struct {
	AnswerID   id.AnswerID
	QuestionID id.QuestionID
	DeletedBy  id.UserID
}

type QuestionDeleteDenied struct {
	QuestionID id.QuestionID
	ActorID    id.UserID
	Reason     string
}

type QuestionPurged struct {
	QuestionID id.QuestionID
}
