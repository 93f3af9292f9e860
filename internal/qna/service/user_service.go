package service

import (
	"context"
	"strings"

	"qna/internal/qna/models"
	id "qna/pkg/domain"
	dErrors "qna/pkg/domain-errors"
	"qna/pkg/requestcontext"
	"qna/pkg/secrets"
)

// RegisterUser creates a user with a bcrypt-hashed credential secret.
func (s *Service) RegisterUser(ctx context.Context, username, name, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username is required")
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "username must be unique")
	}

	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := models.NewUser(id.NewUserID(), username, name, email, hash, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, wrapStoreErr(err, "user not found")
	}

	s.audit.emitUserRegistered(ctx, models.UserRegistered{UserID: user.ID})
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapStoreErr(err, "user not found")
	}
	return user, nil
}

// GetUserByUsername retrieves a user by their unique username.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username is required")
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, wrapStoreErr(err, "user not found")
	}
	return user, nil
}

// ListUserQuestions returns the questions a user authored, oldest first.
// The view is computed from the content index, not from back-pointers on
// the user.
func (s *Service) ListUserQuestions(ctx context.Context, userID id.UserID) ([]*models.Question, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}
	questionIDs, err := s.index.Questions(ctx, userID)
	if err != nil {
		return nil, wrapStoreErr(err, "user not found")
	}
	out := make([]*models.Question, 0, len(questionIDs))
	for _, questionID := range questionIDs {
		question, err := s.questions.FindByID(ctx, questionID)
		if err != nil {
			// Purged content stays in the index; skip the gap.
			continue
		}
		out = append(out, question)
	}
	return out, nil
}

// ListUserAnswers returns the answers a user authored, oldest first.
func (s *Service) ListUserAnswers(ctx context.Context, userID id.UserID) ([]*models.Answer, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}
	answerIDs, err := s.index.Answers(ctx, userID)
	if err != nil {
		return nil, wrapStoreErr(err, "user not found")
	}
	out := make([]*models.Answer, 0, len(answerIDs))
	for _, answerID := range answerIDs {
		answer, err := s.answers.FindByID(ctx, answerID)
		if err != nil {
			continue
		}
		out = append(out, answer)
	}
	return out, nil
}

// ListUserDeleteHistories returns the delete-history records a user
// caused, oldest first.
func (s *Service) ListUserDeleteHistories(ctx context.Context, userID id.UserID) ([]models.DeleteHistory, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}
	historyIDs, err := s.index.DeleteHistories(ctx, userID)
	if err != nil {
		return nil, wrapStoreErr(err, "user not found")
	}
	out := make([]models.DeleteHistory, 0, len(historyIDs))
	for _, historyID := range historyIDs {
		history, err := s.histories.FindByID(ctx, historyID)
		if err != nil {
			continue
		}
		out = append(out, history)
	}
	return out, nil
}

// GetDeleteHistory retrieves one immutable delete-history record.
func (s *Service) GetDeleteHistory(ctx context.Context, historyID id.DeleteHistoryID) (models.DeleteHistory, error) {
	if historyID.IsNil() {
		return models.DeleteHistory{}, dErrors.New(dErrors.CodeBadRequest, "delete history ID required")
	}
	history, err := s.histories.FindByID(ctx, historyID)
	if err != nil {
		return models.DeleteHistory{}, wrapStoreErr(err, "delete history not found")
	}
	return history, nil
}
