package audit

import (
	"context"
	"sync"

	id "qna/pkg/domain"
)

// Store persists audit events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actorID id.UserID) ([]Event, error)
}

// InMemoryStore keeps audit events in memory for tests and single-process
// deployments. It intentionally favors clarity over performance.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.UserID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.UserID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ActorID] = append(s.events[event.ActorID], event)
	return nil
}

func (s *InMemoryStore) ListByActor(_ context.Context, actorID id.UserID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[actorID]...), nil
}
