package out

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"davomat/internal/modules/session/domain"
	sessionout "davomat/internal/modules/session/port/out"
	"davomat/internal/platform/jsonfile"
)

const ArchivedSessionsFile = "archived_sessions.json"

// JSONArchiveStore is the append-only archive. Each append reads the whole
// array and rewrites it.
type JSONArchiveStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONArchiveStore creates the archive file as an empty array when absent.
func NewJSONArchiveStore(dataDir string) (*JSONArchiveStore, error) {
	path := filepath.Join(dataDir, ArchivedSessionsFile)
	if _, err := jsonfile.EnsureArray(path); err != nil {
		return nil, fmt.Errorf("init archive: %w", err)
	}
	return &JSONArchiveStore{path: path}, nil
}

var _ sessionout.ArchiveStore = (*JSONArchiveStore)(nil)

func (s *JSONArchiveStore) Append(_ context.Context, record domain.ArchivedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.readLocked()
	if err != nil {
		return err
	}
	if record.OtherExpenses == nil {
		record.OtherExpenses = []domain.Expense{}
	}
	records = append(records, record)
	if err := jsonfile.Write(s.path, records); err != nil {
		return fmt.Errorf("append archive: %w", err)
	}
	return nil
}

func (s *JSONArchiveStore) List(_ context.Context) ([]domain.ArchivedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *JSONArchiveStore) readLocked() ([]domain.ArchivedSession, error) {
	records := []domain.ArchivedSession{}
	if _, err := jsonfile.Read(s.path, &records); err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return records, nil
}
