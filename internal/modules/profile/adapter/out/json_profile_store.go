package out

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"davomat/internal/modules/profile/domain"
	profileout "davomat/internal/modules/profile/port/out"
	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/id"
	"davomat/internal/platform/jsonfile"
)

const UsersFile = "users.json"

// JSONProfileStore keeps every profile in memory and rewrites users.json on
// each Put. Insertion order is kept for listing.
type JSONProfileStore struct {
	mu       sync.Mutex
	path     string
	profiles map[string]domain.Profile
	order    []string
}

func NewJSONProfileStore(dataDir string) (*JSONProfileStore, error) {
	s := &JSONProfileStore{path: filepath.Join(dataDir, UsersFile), profiles: map[string]domain.Profile{}}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var _ profileout.ProfileStore = (*JSONProfileStore)(nil)

func (s *JSONProfileStore) load() error {
	raw := map[string]domain.Profile{}
	if _, err := jsonfile.Read(s.path, &raw); err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	for key, profile := range raw {
		userID := id.Normalize(key)
		profile.ID = userID
		s.profiles[userID] = profile
		s.order = append(s.order, userID)
	}
	sort.SliceStable(s.order, func(a, b int) bool {
		pa, pb := s.profiles[s.order[a]], s.profiles[s.order[b]]
		if !pa.RegisteredAt.Equal(pb.RegisteredAt) {
			return pa.RegisteredAt.Before(pb.RegisteredAt)
		}
		return lessID(pa.ID, pb.ID)
	})
	return nil
}

func (s *JSONProfileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

func (s *JSONProfileStore) Get(_ context.Context, userID string) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id.Normalize(userID)]
	if !ok {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", userID, apperrors.ErrNotFound)
	}
	return profile.Clone(), nil
}

func (s *JSONProfileStore) Put(_ context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile.ID = id.Normalize(profile.ID)
	if profile.ID == "" {
		return fmt.Errorf("profile id is required: %w", apperrors.ErrInvalidInput)
	}
	if _, ok := s.profiles[profile.ID]; !ok {
		s.order = append(s.order, profile.ID)
	}
	s.profiles[profile.ID] = profile.Clone()
	return s.saveLocked()
}

func (s *JSONProfileStore) List(_ context.Context) ([]domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Profile, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.profiles[key].Clone())
	}
	return out, nil
}

func (s *JSONProfileStore) saveLocked() error {
	if err := jsonfile.Write(s.path, s.profiles); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}

func lessID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
