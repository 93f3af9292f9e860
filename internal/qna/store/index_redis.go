package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "qna/pkg/domain"
)

// RedisUserContentIndex keeps per-user content lists in Redis. RPUSH/LRANGE
// preserve insertion order, which the back-reference views require.
type RedisUserContentIndex struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisUserContentIndex(client *redis.Client) *RedisUserContentIndex {
	return &RedisUserContentIndex{client: client, keyPrefix: "qna"}
}

func (s *RedisUserContentIndex) key(userID id.UserID, kind string) string {
	return fmt.Sprintf("%s:user:%s:%s", s.keyPrefix, userID, kind)
}

func (s *RedisUserContentIndex) AddQuestion(ctx context.Context, userID id.UserID, questionID id.QuestionID) error {
	return s.client.RPush(ctx, s.key(userID, "questions"), questionID.String()).Err()
}

func (s *RedisUserContentIndex) AddAnswer(ctx context.Context, userID id.UserID, answerID id.AnswerID) error {
	return s.client.RPush(ctx, s.key(userID, "answers"), answerID.String()).Err()
}

func (s *RedisUserContentIndex) AddDeleteHistory(ctx context.Context, userID id.UserID, historyID id.DeleteHistoryID) error {
	return s.client.RPush(ctx, s.key(userID, "delete-histories"), historyID.String()).Err()
}

func (s *RedisUserContentIndex) Questions(ctx context.Context, userID id.UserID) ([]id.QuestionID, error) {
	raw, err := s.client.LRange(ctx, s.key(userID, "questions"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list question index: %w", err)
	}
	out := make([]id.QuestionID, 0, len(raw))
	for _, entry := range raw {
		questionID, err := id.ParseQuestionID(entry)
		if err != nil {
			return nil, fmt.Errorf("corrupt question index entry %q: %w", entry, err)
		}
		out = append(out, questionID)
	}
	return out, nil
}

func (s *RedisUserContentIndex) Answers(ctx context.Context, userID id.UserID) ([]id.AnswerID, error) {
	raw, err := s.client.LRange(ctx, s.key(userID, "answers"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list answer index: %w", err)
	}
	out := make([]id.AnswerID, 0, len(raw))
	for _, entry := range raw {
		answerID, err := id.ParseAnswerID(entry)
		if err != nil {
			return nil, fmt.Errorf("corrupt answer index entry %q: %w", entry, err)
		}
		out = append(out, answerID)
	}
	return out, nil
}

func (s *RedisUserContentIndex) DeleteHistories(ctx context.Context, userID id.UserID) ([]id.DeleteHistoryID, error) {
	raw, err := s.client.LRange(ctx, s.key(userID, "delete-histories"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list delete-history index: %w", err)
	}
	out := make([]id.DeleteHistoryID, 0, len(raw))
	for _, entry := range raw {
		historyID, err := id.ParseDeleteHistoryID(entry)
		if err != nil {
			return nil, fmt.Errorf("corrupt delete-history index entry %q: %w", entry, err)
		}
		out = append(out, historyID)
	}
	return out, nil
}
