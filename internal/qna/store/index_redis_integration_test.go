//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "qna/pkg/domain"
	"qna/pkg/testutil/containers"
)

type RedisIndexSuite struct {
	suite.Suite
	ctx   context.Context
	redis *containers.RedisContainer
	index *RedisUserContentIndex
}

func TestRedisIndexSuite(t *testing.T) {
	suite.Run(t, new(RedisIndexSuite))
}

func (s *RedisIndexSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())
	s.index = NewRedisUserContentIndex(s.redis.Client)
}

func (s *RedisIndexSuite) SetupTest() {
	s.Require().NoError(s.redis.Client.FlushAll(s.ctx).Err())
}

func (s *RedisIndexSuite) TestQuestionsPreserveInsertionOrder() {
	userID := id.NewUserID()
	q1, q2, q3 := id.NewQuestionID(), id.NewQuestionID(), id.NewQuestionID()

	s.Require().NoError(s.index.AddQuestion(s.ctx, userID, q1))
	s.Require().NoError(s.index.AddQuestion(s.ctx, userID, q2))
	s.Require().NoError(s.index.AddQuestion(s.ctx, userID, q3))

	questions, err := s.index.Questions(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal([]id.QuestionID{q1, q2, q3}, questions)
}

func (s *RedisIndexSuite) TestListsAreScopedPerUser() {
	alice, bob := id.NewUserID(), id.NewUserID()
	answer := id.NewAnswerID()
	history := id.NewDeleteHistoryID()

	s.Require().NoError(s.index.AddAnswer(s.ctx, alice, answer))
	s.Require().NoError(s.index.AddDeleteHistory(s.ctx, alice, history))

	answers, err := s.index.Answers(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal([]id.AnswerID{answer}, answers)

	histories, err := s.index.DeleteHistories(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal([]id.DeleteHistoryID{history}, histories)

	empty, err := s.index.Answers(s.ctx, bob)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *RedisIndexSuite) TestCorruptEntrySurfacesError() {
	userID := id.NewUserID()
	key := s.index.key(userID, "questions")
	s.Require().NoError(s.redis.Client.RPush(s.ctx, key, "not-a-uuid").Err())

	_, err := s.index.Questions(s.ctx, userID)
	s.Require().Error(err)
	s.Contains(err.Error(), "corrupt question index entry")
}
