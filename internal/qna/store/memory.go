package store

import (
	"context"
	"sort"
	"sync"

	"qna/internal/qna/models"
	id "qna/pkg/domain"
	"qna/pkg/platform/sentinel"
)

// In-memory stores keep the initial implementation lightweight and
// testable. They intentionally favor clarity over performance. Entities
// are copied on the way in and out so callers cannot mutate store state
// through retained pointers.

type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[id.UserID]models.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[id.UserID]models.User)}
}

func (s *InMemoryUserStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		return &user, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.users, userID)
	return nil
}

type InMemoryAnswerStore struct {
	mu      sync.RWMutex
	answers map[id.AnswerID]models.Answer
}

func NewInMemoryAnswerStore() *InMemoryAnswerStore {
	return &InMemoryAnswerStore{answers: make(map[id.AnswerID]models.Answer)}
}

func (s *InMemoryAnswerStore) Save(_ context.Context, answer *models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[answer.ID] = *answer
	return nil
}

func (s *InMemoryAnswerStore) FindByID(_ context.Context, answerID id.AnswerID) (*models.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if answer, ok := s.answers[answerID]; ok {
		return &answer, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryAnswerStore) ListByQuestion(_ context.Context, questionID id.QuestionID) ([]*models.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Answer
	for _, answer := range s.answers {
		if answer.Question == questionID {
			a := answer
			out = append(out, &a)
		}
	}
	// Map iteration order is not insertion order; position is.
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *InMemoryAnswerStore) CountByQuestion(_ context.Context, questionID id.QuestionID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, answer := range s.answers {
		if answer.Question == questionID {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryAnswerStore) Delete(_ context.Context, answerID id.AnswerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.answers[answerID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.answers, answerID)
	return nil
}

func (s *InMemoryAnswerStore) deleteByQuestion(questionID id.QuestionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for answerID, answer := range s.answers {
		if answer.Question == questionID {
			delete(s.answers, answerID)
		}
	}
}

// InMemoryQuestionStore holds question rows. It keeps a reference to the
// answer store so a physical question delete cascades to its answers, the
// same referential-integrity contract the SQL schema enforces with a
// foreign key.
type InMemoryQuestionStore struct {
	mu        sync.RWMutex
	questions map[id.QuestionID]models.Question
	answers   *InMemoryAnswerStore
}

func NewInMemoryQuestionStore(answers *InMemoryAnswerStore) *InMemoryQuestionStore {
	return &InMemoryQuestionStore{
		questions: make(map[id.QuestionID]models.Question),
		answers:   answers,
	}
}

func (s *InMemoryQuestionStore) Save(_ context.Context, question *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := *question
	row.Answers = nil // answers are persisted through the AnswerStore
	s.questions[question.ID] = row
	return nil
}

func (s *InMemoryQuestionStore) FindByID(_ context.Context, questionID id.QuestionID) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if question, ok := s.questions[questionID]; ok {
		return &question, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryQuestionStore) Delete(_ context.Context, questionID id.QuestionID) error {
	s.mu.Lock()
	if _, ok := s.questions[questionID]; !ok {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	delete(s.questions, questionID)
	s.mu.Unlock()

	s.answers.deleteByQuestion(questionID)
	return nil
}

type InMemoryDeleteHistoryStore struct {
	mu        sync.RWMutex
	histories map[id.DeleteHistoryID]models.DeleteHistory
	byDeleter map[id.UserID][]id.DeleteHistoryID
}

func NewInMemoryDeleteHistoryStore() *InMemoryDeleteHistoryStore {
	return &InMemoryDeleteHistoryStore{
		histories: make(map[id.DeleteHistoryID]models.DeleteHistory),
		byDeleter: make(map[id.UserID][]id.DeleteHistoryID),
	}
}

func (s *InMemoryDeleteHistoryStore) Append(_ context.Context, history models.DeleteHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.histories[history.ID]; ok {
		// Histories are immutable; a repeated append of the same ID is a no-op.
		return nil
	}
	s.histories[history.ID] = history
	s.byDeleter[history.DeletedBy] = append(s.byDeleter[history.DeletedBy], history.ID)
	return nil
}

func (s *InMemoryDeleteHistoryStore) FindByID(_ context.Context, historyID id.DeleteHistoryID) (models.DeleteHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if history, ok := s.histories[historyID]; ok {
		return history, nil
	}
	return models.DeleteHistory{}, sentinel.ErrNotFound
}

func (s *InMemoryDeleteHistoryStore) ListByDeleter(_ context.Context, deleterID id.UserID) ([]models.DeleteHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byDeleter[deleterID]
	out := make([]models.DeleteHistory, 0, len(ids))
	for _, historyID := range ids {
		out = append(out, s.histories[historyID])
	}
	return out, nil
}
