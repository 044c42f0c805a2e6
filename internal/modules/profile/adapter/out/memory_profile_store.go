package out

import (
	"context"
	"fmt"
	"sync"

	"davomat/internal/modules/profile/domain"
	profileout "davomat/internal/modules/profile/port/out"
	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/id"
)

// MemoryProfileStore is the non-persistent ProfileStore used by tests and
// dry runs. FailPut makes every Put return the given error after updating.
type MemoryProfileStore struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
	order    []string
	FailPut  error
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: map[string]domain.Profile{}}
}

var _ profileout.ProfileStore = (*MemoryProfileStore)(nil)

func (s *MemoryProfileStore) Get(_ context.Context, userID string) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id.Normalize(userID)]
	if !ok {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", userID, apperrors.ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *MemoryProfileStore) Put(_ context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile.ID = id.Normalize(profile.ID)
	if _, ok := s.profiles[profile.ID]; !ok {
		s.order = append(s.order, profile.ID)
	}
	s.profiles[profile.ID] = profile.Clone()
	return s.FailPut
}

func (s *MemoryProfileStore) List(_ context.Context) ([]domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Profile, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.profiles[key].Clone())
	}
	return out, nil
}
