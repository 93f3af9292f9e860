package service

import (
	"context"

	"qna/internal/qna/models"
	id "qna/pkg/domain"
	dErrors "qna/pkg/domain-errors"
	"qna/pkg/requestcontext"
)

// PostAnswer attaches a new answer to a question. The question must exist
// and must not be soft-deleted: the deletion cascade treats the answer set
// as closed once the question is gone. Position is assigned from the
// current answer count so insertion order survives persistence.
func (s *Service) PostAnswer(ctx context.Context, questionID id.QuestionID, authorID id.UserID, contents string) (*models.Answer, error) {
	if questionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "question ID required")
	}
	if authorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "author ID required")
	}

	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		return nil, wrapStoreErr(err, "author not found")
	}
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, wrapStoreErr(err, "question not found")
	}
	if question.IsDeleted() {
		return nil, dErrors.New(dErrors.CodeInvalidState, "question is deleted")
	}

	answer, err := models.NewAnswer(id.NewAnswerID(), authorID, questionID, contents, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	position, err := s.answers.CountByQuestion(ctx, questionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count answers")
	}
	answer.Position = position

	if err := s.answers.Save(ctx, answer); err != nil {
		return nil, wrapStoreErr(err, "answer not found")
	}
	if err := s.index.AddAnswer(ctx, authorID, answer.ID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to index answer")
	}

	s.audit.emitAnswerPosted(ctx, models.AnswerPosted{
		AnswerID:   answer.ID,
		QuestionID: questionID,
		AuthorID:   authorID,
	})
	return answer, nil
}

// GetAnswer retrieves an answer by ID.
func (s *Service) GetAnswer(ctx context.Context, answerID id.AnswerID) (*models.Answer, error) {
	if answerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "answer ID required")
	}
	answer, err := s.answers.FindByID(ctx, answerID)
	if err != nil {
		return nil, wrapStoreErr(err, "answer not found")
	}
	return answer, nil
}

// UpdateAnswerContents edits the answer body. Edits never touch author,
// owning question or deletion state; a soft-deleted answer is no longer
// editable.
func (s *Service) UpdateAnswerContents(ctx context.Context, answerID id.AnswerID, contents string) (*models.Answer, error) {
	if answerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "answer ID required")
	}
	answer, err := s.answers.FindByID(ctx, answerID)
	if err != nil {
		return nil, wrapStoreErr(err, "answer not found")
	}
	if answer.IsDeleted() {
		return nil, dErrors.New(dErrors.CodeInvalidState, "answer is deleted")
	}

	answer.SetContents(contents, requestcontext.Now(ctx))
	if err := s.answers.Save(ctx, answer); err != nil {
		return nil, wrapStoreErr(err, "answer not found")
	}
	return answer, nil
}
