package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"qna/internal/audit"
	"qna/internal/qna/models"
	"qna/internal/qna/store"
	id "qna/pkg/domain"
	dErrors "qna/pkg/domain-errors"
	"qna/pkg/requestcontext"
	"qna/pkg/secrets"
)

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	svc        *Service
	histories  *store.InMemoryDeleteHistoryStore
	auditStore *audit.InMemoryStore
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	users := store.NewInMemoryUserStore()
	answers := store.NewInMemoryAnswerStore()
	questions := store.NewInMemoryQuestionStore(answers)
	s.histories = store.NewInMemoryDeleteHistoryStore()
	index := store.NewInMemoryUserContentIndex()
	s.auditStore = audit.NewInMemoryStore()

	s.svc = New(users, questions, answers, s.histories, index,
		WithAuditPublisher(audit.NewPublisher(s.auditStore)),
	)
}

func (s *ServiceSuite) registerUser(username string) *models.User {
	user, err := s.svc.RegisterUser(s.ctx, username, "name", username+"@slipp.net", "password")
	s.Require().NoError(err)
	return user
}

func (s *ServiceSuite) postQuestion(author *models.User) *models.Question {
	question, err := s.svc.PostQuestion(s.ctx, author.ID, "title1", "contents1")
	s.Require().NoError(err)
	return question
}

func (s *ServiceSuite) postAnswer(question *models.Question, author *models.User) *models.Answer {
	answer, err := s.svc.PostAnswer(s.ctx, question.ID, author.ID, "Answers Contents1")
	s.Require().NoError(err)
	return answer
}

func (s *ServiceSuite) countAuditAction(actorID id.UserID, action audit.AuditEvent) int {
	count := 0
	for _, got := range s.auditActions(actorID) {
		if got == string(action) {
			count++
		}
	}
	return count
}

func (s *ServiceSuite) auditActions(actorID id.UserID) []string {
	events, err := s.auditStore.ListByActor(s.ctx, actorID)
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, event := range events {
		actions = append(actions, event.Action)
	}
	return actions
}

func (s *ServiceSuite) TestRegisterUser() {
	user := s.registerUser("javajigi")

	s.NotEqual("password", user.PasswordHash)
	s.NoError(secrets.Verify("password", user.PasswordHash))

	found, err := s.svc.GetUserByUsername(s.ctx, "javajigi")
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)

	s.Contains(s.auditActions(user.ID), string(audit.EventUserRegistered))
}

func (s *ServiceSuite) TestRegisterUser_RejectsDuplicateUsername() {
	s.registerUser("javajigi")

	_, err := s.svc.RegisterUser(s.ctx, "javajigi", "other", "other@slipp.net", "password")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestRegisterUser_RequiresUsername() {
	_, err := s.svc.RegisterUser(s.ctx, "   ", "name", "a@b.com", "password")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestPostQuestionAndGetAggregate() {
	author := s.registerUser("javajigi")
	question := s.postQuestion(author)
	first := s.postAnswer(question, author)
	second := s.postAnswer(question, author)

	loaded, err := s.svc.GetQuestion(s.ctx, question.ID)
	s.Require().NoError(err)
	s.Equal("title1", loaded.Title)
	s.True(loaded.IsWrittenBy(author.ID))
	s.Require().Len(loaded.Answers, 2)
	s.Equal(first.ID, loaded.Answers[0].ID)
	s.Equal(second.ID, loaded.Answers[1].ID)
	s.Equal(0, loaded.Answers[0].Position)
	s.Equal(1, loaded.Answers[1].Position)
}

func (s *ServiceSuite) TestPostQuestion_UnknownAuthor() {
	_, err := s.svc.PostQuestion(s.ctx, id.NewUserID(), "title1", "contents1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestPostAnswer_RejectsDeletedQuestion() {
	author := s.registerUser("javajigi")
	question := s.postQuestion(author)

	_, err := s.svc.DeleteQuestion(s.ctx, question.ID, author.ID)
	s.Require().NoError(err)

	_, err = s.svc.PostAnswer(s.ctx, question.ID, author.ID, "too late")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
}

func (s *ServiceSuite) TestUpdateQuestionContents() {
	author := s.registerUser("javajigi")
	question := s.postQuestion(author)

	updated, err := s.svc.UpdateQuestionContents(s.ctx, question.ID, "title2", "contents2")
	s.Require().NoError(err)
	s.Equal("title2", updated.Title)
	s.Equal("contents2", updated.Contents)
	s.Equal(author.ID, updated.Author)
}

func (s *ServiceSuite) TestUpdateQuestionContents_RejectsDeleted() {
	author := s.registerUser("javajigi")
	question := s.postQuestion(author)
	_, err := s.svc.DeleteQuestion(s.ctx, question.ID, author.ID)
	s.Require().NoError(err)

	_, err = s.svc.UpdateQuestionContents(s.ctx, question.ID, "title2", "contents2")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
}

func (s *ServiceSuite) TestUpdateAnswerContents() {
	author := s.registerUser("javajigi")
	question := s.postQuestion(author)
	answer := s.postAnswer(question, author)

	updated, err := s.svc.UpdateAnswerContents(s.ctx, answer.ID, "Answers Contents2")
	s.Require().NoError(err)
	s.Equal("Answers Contents2", updated.Contents)
}

func (s *ServiceSuite) TestDeleteQuestion_AuthorWithOwnAnswers() {
	author := s.registerUser("javajigi")
	question := s.postQuestion(author)
	first := s.postAnswer(question, author)
	second := s.postAnswer(question, author)

	histories, err := s.svc.DeleteQuestion(s.ctx, question.ID, author.ID)
	s.Require().NoError(err)

	s.Require().Len(histories, 3)
	s.Equal(models.ContentTypeQuestion, histories[0].ContentType)
	s.Equal(models.ContentTypeAnswer, histories[1].ContentType)
	s.Equal(models.ContentTypeAnswer, histories[2].ContentType)
	for _, history := range histories {
		s.Equal(author.ID, history.DeletedBy)
	}

	loaded, err := s.svc.GetQuestion(s.ctx, question.ID)
	s.Require().NoError(err)
	s.True(loaded.IsDeleted())
	s.Require().Len(loaded.Answers, 2)
	s.True(loaded.Answers[0].IsDeleted())
	s.True(loaded.Answers[1].IsDeleted())
	s.Equal(first.ID, loaded.Answers[0].ID)
	s.Equal(second.ID, loaded.Answers[1].ID)

	listed, err := s.svc.ListUserDeleteHistories(s.ctx, author.ID)
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal(histories[0].ID, listed[0].ID)

	found, err := s.svc.GetDeleteHistory(s.ctx, histories[0].ID)
	s.Require().NoError(err)
	s.Equal(histories[0].ContentID, found.ContentID)

	// One compliance event for the question and one per cascaded answer.
	s.Equal(1, s.countAuditAction(author.ID, audit.EventQuestionDeleted))
	s.Equal(2, s.countAuditAction(author.ID, audit.EventAnswerDeleted))
}

func (s *ServiceSuite) TestDeleteQuestion_DeniedForNonAuthor() {
	author := s.registerUser("javajigi")
	other := s.registerUser("sanjigi")
	question := s.postQuestion(author)

	ctx := requestcontext.WithRequestID(s.ctx, "req-123")
	_, err := s.svc.DeleteQuestion(ctx, question.ID, other.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeCannotDelete))

	loaded, err := s.svc.GetQuestion(s.ctx, question.ID)
	s.Require().NoError(err)
	s.False(loaded.IsDeleted())

	events, err := s.auditStore.ListByActor(s.ctx, other.ID)
	s.Require().NoError(err)
	s.Require().Len(events, 2) // registration, then the denial
	denied := events[1]
	s.Equal(string(audit.EventQuestionDeleteDenied), denied.Action)
	s.Equal(audit.CategorySecurity, denied.Category)
	s.Equal("req-123", denied.RequestID)
	s.Contains(denied.Reason, "question author mismatch")
}

func (s *ServiceSuite) TestDeleteQuestion_DeniedWhenAnswerByOtherUser() {
	author := s.registerUser("javajigi")
	other := s.registerUser("sanjigi")
	question := s.postQuestion(author)
	own := s.postAnswer(question, author)
	foreign := s.postAnswer(question, other)

	_, err := s.svc.DeleteQuestion(s.ctx, question.ID, author.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeCannotDelete))

	// The denial leaves every row untouched and records nothing.
	loaded, err := s.svc.GetQuestion(s.ctx, question.ID)
	s.Require().NoError(err)
	s.False(loaded.IsDeleted())
	s.False(loaded.Answers[0].IsDeleted())
	s.False(loaded.Answers[1].IsDeleted())

	listed, err := s.svc.ListUserDeleteHistories(s.ctx, author.ID)
	s.Require().NoError(err)
	s.Empty(listed)

	_, err = s.svc.GetAnswer(s.ctx, own.ID)
	s.NoError(err)
	_, err = s.svc.GetAnswer(s.ctx, foreign.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestDeleteQuestion_SecondDeleteIsNoOp() {
	author := s.registerUser("javajigi")
	question := s.postQuestion(author)
	s.postAnswer(question, author)

	first, err := s.svc.DeleteQuestion(s.ctx, question.ID, author.ID)
	s.Require().NoError(err)
	s.Require().Len(first, 2)

	second, err := s.svc.DeleteQuestion(s.ctx, question.ID, author.ID)
	s.Require().NoError(err)
	s.Empty(second)

	listed, err := s.svc.ListUserDeleteHistories(s.ctx, author.ID)
	s.Require().NoError(err)
	s.Len(listed, 2)

	// The no-op leaves no trace in the compliance trail: still exactly
	// one question_deleted event and one per answer from the first call.
	s.Equal(1, s.countAuditAction(author.ID, audit.EventQuestionDeleted))
	s.Equal(1, s.countAuditAction(author.ID, audit.EventAnswerDeleted))

	loaded, err := s.svc.GetQuestion(s.ctx, question.ID)
	s.Require().NoError(err)
	s.True(loaded.IsDeleted())
}

func (s *ServiceSuite) TestDeleteQuestion_UsesRequestScopedTime() {
	author := s.registerUser("javajigi")
	question := s.postQuestion(author)

	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(s.ctx, fixed)

	histories, err := s.svc.DeleteQuestion(ctx, question.ID, author.ID)
	s.Require().NoError(err)
	s.Require().Len(histories, 1)
	s.Equal(fixed, histories[0].CreatedAt)

	loaded, err := s.svc.GetQuestion(s.ctx, question.ID)
	s.Require().NoError(err)
	s.Equal(fixed, loaded.UpdatedAt)
}

func (s *ServiceSuite) TestDeleteQuestion_UnknownQuestion() {
	author := s.registerUser("javajigi")

	_, err := s.svc.DeleteQuestion(s.ctx, id.NewQuestionID(), author.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestPurgeQuestion() {
	author := s.registerUser("javajigi")
	question := s.postQuestion(author)
	answer := s.postAnswer(question, author)

	histories, err := s.svc.DeleteQuestion(s.ctx, question.ID, author.ID)
	s.Require().NoError(err)
	s.Require().Len(histories, 2)

	s.Require().NoError(s.svc.PurgeQuestion(s.ctx, question.ID))

	_, err = s.svc.GetQuestion(s.ctx, question.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.svc.GetAnswer(s.ctx, answer.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	// Histories are immutable and survive the purge.
	listed, err := s.svc.ListUserDeleteHistories(s.ctx, author.ID)
	s.Require().NoError(err)
	s.Len(listed, 2)

	// The purged question leaves a gap in the author's view, not an error.
	questions, err := s.svc.ListUserQuestions(s.ctx, author.ID)
	s.Require().NoError(err)
	s.Empty(questions)
}

func (s *ServiceSuite) TestListUserContent() {
	author := s.registerUser("javajigi")
	other := s.registerUser("sanjigi")
	q1 := s.postQuestion(author)
	q2 := s.postQuestion(author)
	a1 := s.postAnswer(q1, other)

	questions, err := s.svc.ListUserQuestions(s.ctx, author.ID)
	s.Require().NoError(err)
	s.Require().Len(questions, 2)
	s.Equal(q1.ID, questions[0].ID)
	s.Equal(q2.ID, questions[1].ID)

	answers, err := s.svc.ListUserAnswers(s.ctx, other.ID)
	s.Require().NoError(err)
	s.Require().Len(answers, 1)
	s.Equal(a1.ID, answers[0].ID)

	none, err := s.svc.ListUserAnswers(s.ctx, author.ID)
	s.Require().NoError(err)
	s.Empty(none)
}
