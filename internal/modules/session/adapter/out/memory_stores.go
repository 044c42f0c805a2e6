package out

import (
	"context"
	"fmt"
	"sync"

	"davomat/internal/modules/session/domain"
	sessionout "davomat/internal/modules/session/port/out"
	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/id"
)

// MemoryOpenSessionStore is an in-process OpenSessionStore for tests and
// dry runs.
type MemoryOpenSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.WorkSession
}

func NewMemoryOpenSessionStore() *MemoryOpenSessionStore {
	return &MemoryOpenSessionStore{sessions: map[string]domain.WorkSession{}}
}

var _ sessionout.OpenSessionStore = (*MemoryOpenSessionStore)(nil)

func (s *MemoryOpenSessionStore) Get(_ context.Context, userID string) (domain.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id.Normalize(userID)]
	if !ok {
		return domain.WorkSession{}, fmt.Errorf("session of %s: %w", userID, apperrors.ErrNoActiveSession)
	}
	return session.Clone(), nil
}

func (s *MemoryOpenSessionStore) Put(_ context.Context, session domain.WorkSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ApplyDefaults()
	s.sessions[id.Normalize(session.UserID)] = session.Clone()
	return nil
}

func (s *MemoryOpenSessionStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id.Normalize(userID))
	return nil
}

func (s *MemoryOpenSessionStore) List(_ context.Context) ([]domain.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WorkSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session.Clone())
	}
	return out, nil
}

// MemoryArchiveStore collects records; a non-nil FailAppend makes Append fail.
type MemoryArchiveStore struct {
	mu         sync.Mutex
	records    []domain.ArchivedSession
	FailAppend error
}

func NewMemoryArchiveStore() *MemoryArchiveStore {
	return &MemoryArchiveStore{}
}

var _ sessionout.ArchiveStore = (*MemoryArchiveStore)(nil)

func (s *MemoryArchiveStore) Append(_ context.Context, record domain.ArchivedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAppend != nil {
		return s.FailAppend
	}
	s.records = append(s.records, record)
	return nil
}

func (s *MemoryArchiveStore) List(_ context.Context) ([]domain.ArchivedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ArchivedSession{}, s.records...), nil
}
