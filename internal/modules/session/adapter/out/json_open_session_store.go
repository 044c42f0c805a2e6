package out

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"davomat/internal/modules/session/domain"
	sessionout "davomat/internal/modules/session/port/out"
	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/id"
	"davomat/internal/platform/jsonfile"
)

const WorkSessionsFile = "work_sessions.json"

// JSONOpenSessionStore mirrors work_sessions.json in memory and rewrites the
// whole document on every change.
type JSONOpenSessionStore struct {
	mu       sync.Mutex
	path     string
	sessions map[string]domain.WorkSession
}

func NewJSONOpenSessionStore(dataDir string) (*JSONOpenSessionStore, error) {
	s := &JSONOpenSessionStore{path: filepath.Join(dataDir, WorkSessionsFile), sessions: map[string]domain.WorkSession{}}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var _ sessionout.OpenSessionStore = (*JSONOpenSessionStore)(nil)

func (s *JSONOpenSessionStore) load() error {
	raw := map[string]domain.WorkSession{}
	if _, err := jsonfile.Read(s.path, &raw); err != nil {
		return fmt.Errorf("load work sessions: %w", err)
	}
	for key, session := range raw {
		userID := id.Normalize(key)
		session.UserID = userID
		session.ApplyDefaults()
		s.sessions[userID] = session
	}
	return nil
}

func (s *JSONOpenSessionStore) Get(_ context.Context, userID string) (domain.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id.Normalize(userID)]
	if !ok {
		return domain.WorkSession{}, fmt.Errorf("session of %s: %w", userID, apperrors.ErrNoActiveSession)
	}
	return session.Clone(), nil
}

func (s *JSONOpenSessionStore) Put(_ context.Context, session domain.WorkSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.UserID = id.Normalize(session.UserID)
	if session.UserID == "" {
		return fmt.Errorf("session user id is required: %w", apperrors.ErrInvalidInput)
	}
	session.ApplyDefaults()
	s.sessions[session.UserID] = session.Clone()
	return s.saveLocked()
}

func (s *JSONOpenSessionStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := id.Normalize(userID)
	if _, ok := s.sessions[key]; !ok {
		return nil
	}
	delete(s.sessions, key)
	return s.saveLocked()
}

func (s *JSONOpenSessionStore) List(_ context.Context) ([]domain.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WorkSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session.Clone())
	}
	return out, nil
}

func (s *JSONOpenSessionStore) saveLocked() error {
	if err := jsonfile.Write(s.path, s.sessions); err != nil {
		return fmt.Errorf("save work sessions: %w", err)
	}
	return nil
}
