package service

import (
	"context"
	"time"

	"qna/internal/qna/models"
	id "qna/pkg/domain"
	dErrors "qna/pkg/domain-errors"
	"qna/pkg/requestcontext"
)

// PostQuestion creates a question written by the given author and records
// it in the author's content index.
func (s *Service) PostQuestion(ctx context.Context, authorID id.UserID, title, contents string) (*models.Question, error) {
	if authorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "author ID required")
	}
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		return nil, wrapStoreErr(err, "author not found")
	}

	question, err := models.NewQuestion(id.NewQuestionID(), title, contents, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	question.WrittenBy(authorID)

	if err := s.questions.Save(ctx, question); err != nil {
		return nil, wrapStoreErr(err, "question not found")
	}
	if err := s.index.AddQuestion(ctx, authorID, question.ID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to index question")
	}

	s.audit.emitQuestionPosted(ctx, models.QuestionPosted{QuestionID: question.ID, AuthorID: authorID})
	return question, nil
}

// GetQuestion loads the full aggregate: the question with its answers in
// insertion order.
func (s *Service) GetQuestion(ctx context.Context, questionID id.QuestionID) (*models.Question, error) {
	if questionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "question ID required")
	}
	question, err := s.loadAggregate(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestionContents edits title and body. Edits never touch the
// author or the deletion state; a soft-deleted question is no longer
// editable.
func (s *Service) UpdateQuestionContents(ctx context.Context, questionID id.QuestionID, title, contents string) (*models.Question, error) {
	if questionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "question ID required")
	}
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, wrapStoreErr(err, "question not found")
	}
	if question.IsDeleted() {
		return nil, dErrors.New(dErrors.CodeInvalidState, "question is deleted")
	}
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "question title cannot be empty")
	}

	question.SetContents(title, contents, requestcontext.Now(ctx))
	if err := s.questions.Save(ctx, question); err != nil {
		return nil, wrapStoreErr(err, "question not found")
	}
	return question, nil
}

// DeleteQuestion runs the soft-delete workflow: load the aggregate,
// apply the authorship rule, persist the cascaded flags, append the
// history batch, and record the histories in the deleter's index. The
// whole sequence runs inside one transaction; a CannotDelete failure
// leaves every row untouched and is returned to the caller unchanged.
//
// The returned batch is ordered: the question's record first, then one
// record per answer in the question's answer order. Audit gets one
// question_deleted event plus one answer_deleted event per cascaded
// answer, all fail-closed inside the transaction.
//
// Re-deleting an already-deleted question returns an empty batch and
// leaves no trace: nothing is persisted, audited or counted.
func (s *Service) DeleteQuestion(ctx context.Context, questionID id.QuestionID, actingUserID id.UserID) ([]models.DeleteHistory, error) {
	if questionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "question ID required")
	}
	if actingUserID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "acting user ID required")
	}

	start := time.Now()
	now := requestcontext.Now(ctx)

	var histories []models.DeleteHistory
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		question, err := s.loadAggregate(txCtx, questionID)
		if err != nil {
			return err
		}

		batch, err := question.DeleteAndCreateDeleteHistory(actingUserID, now)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			// Already deleted: nothing changed, so nothing to persist,
			// audit or count.
			return nil
		}

		if err := s.questions.Save(txCtx, question); err != nil {
			return wrapStoreErr(err, "question not found")
		}
		for _, answer := range question.Answers {
			if err := s.answers.Save(txCtx, answer); err != nil {
				return wrapStoreErr(err, "answer not found")
			}
		}
		for _, history := range batch {
			if err := s.histories.Append(txCtx, history); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append delete history")
			}
			if err := s.index.AddDeleteHistory(txCtx, actingUserID, history.ID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to index delete history")
			}
		}

		if err := s.audit.emitQuestionDeleted(txCtx, models.QuestionDeleted{
			QuestionID: questionID,
			DeletedBy:  actingUserID,
			Histories:  len(batch),
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to audit deletion")
		}
		for _, history := range batch {
			if history.ContentType != models.ContentTypeAnswer {
				continue
			}
			if err := s.audit.emitAnswerDeleted(txCtx, models.AnswerDeleted{
				AnswerID:   id.AnswerID(history.ContentID),
				QuestionID: questionID,
				DeletedBy:  actingUserID,
			}); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to audit deletion")
			}
		}

		histories = batch
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeCannotDelete) {
			s.audit.emitQuestionDeleteDenied(ctx, models.QuestionDeleteDenied{
				QuestionID: questionID,
				ActorID:    actingUserID,
				Reason:     err.Error(),
			})
			if s.metrics != nil {
				s.metrics.IncrementDeleteDenied()
			}
		}
		return nil, err
	}

	if len(histories) == 0 {
		return nil, nil
	}
	if s.metrics != nil {
		s.metrics.ObserveDelete(start, len(histories))
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "question deleted",
			"question_id", questionID.String(),
			"deleted_by", actingUserID.String(),
			"histories", len(histories),
		)
	}
	return histories, nil
}

// PurgeQuestion physically removes a question through the persistence
// gateway. The gateway cascades the removal to the question's answers;
// delete histories are never removed and survive the purge.
func (s *Service) PurgeQuestion(ctx context.Context, questionID id.QuestionID) error {
	if questionID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "question ID required")
	}
	if err := s.questions.Delete(ctx, questionID); err != nil {
		return wrapStoreErr(err, "question not found")
	}

	s.audit.emitQuestionPurged(ctx, models.QuestionPurged{QuestionID: questionID})
	if s.metrics != nil {
		s.metrics.IncrementPurged()
	}
	return nil
}

// loadAggregate fetches the question row and attaches its answers in
// position order.
func (s *Service) loadAggregate(ctx context.Context, questionID id.QuestionID) (*models.Question, error) {
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, wrapStoreErr(err, "question not found")
	}
	answers, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load answers")
	}
	question.AttachAnswers(answers)
	return question, nil
}
