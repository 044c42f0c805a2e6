package out

import (
	"context"
	"maps"
	"sync"

	"davomat/internal/modules/conversation/domain"
	conversationout "davomat/internal/modules/conversation/port/out"
	"davomat/internal/platform/id"
)

// MemoryStateStore keeps conversation positions for the life of the process.
// A restart puts every user back at their resting state.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]domain.State
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: map[string]domain.State{}}
}

var _ conversationout.StateStore = (*MemoryStateStore)(nil)

func (s *MemoryStateStore) Get(_ context.Context, userID string) (domain.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[id.Normalize(userID)]
	return state, ok, nil
}

func (s *MemoryStateStore) Put(_ context.Context, userID string, state domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id.Normalize(userID)] = state
	return nil
}

func (s *MemoryStateStore) List(_ context.Context) (map[string]domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.states), nil
}
