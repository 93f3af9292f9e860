package store

import (
	"context"
	"sync"

	id "qna/pkg/domain"
)

// InMemoryUserContentIndex keeps per-user content lists in memory.
// Slices preserve insertion order, matching the Redis implementation.
type InMemoryUserContentIndex struct {
	mu        sync.RWMutex
	questions map[id.UserID][]id.QuestionID
	answers   map[id.UserID][]id.AnswerID
	histories map[id.UserID][]id.DeleteHistoryID
}

func NewInMemoryUserContentIndex() *InMemoryUserContentIndex {
	return &InMemoryUserContentIndex{
		questions: make(map[id.UserID][]id.QuestionID),
		answers:   make(map[id.UserID][]id.AnswerID),
		histories: make(map[id.UserID][]id.DeleteHistoryID),
	}
}

func (s *InMemoryUserContentIndex) AddQuestion(_ context.Context, userID id.UserID, questionID id.QuestionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[userID] = append(s.questions[userID], questionID)
	return nil
}

func (s *InMemoryUserContentIndex) AddAnswer(_ context.Context, userID id.UserID, answerID id.AnswerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[userID] = append(s.answers[userID], answerID)
	return nil
}

func (s *InMemoryUserContentIndex) AddDeleteHistory(_ context.Context, userID id.UserID, historyID id.DeleteHistoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[userID] = append(s.histories[userID], historyID)
	return nil
}

func (s *InMemoryUserContentIndex) Questions(_ context.Context, userID id.UserID) ([]id.QuestionID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]id.QuestionID{}, s.questions[userID]...), nil
}

func (s *InMemoryUserContentIndex) Answers(_ context.Context, userID id.UserID) ([]id.AnswerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]id.AnswerID{}, s.answers[userID]...), nil
}

func (s *InMemoryUserContentIndex) DeleteHistories(_ context.Context, userID id.UserID) ([]id.DeleteHistoryID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]id.DeleteHistoryID{}, s.histories[userID]...), nil
}
