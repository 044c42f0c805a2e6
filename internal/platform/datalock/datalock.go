package datalock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	apperrors "davomat/internal/platform/errors"
)

const fileName = "writer.lock"

// Lock is an exclusive advisory lock on a data directory. The JSON stores
// keep their documents in memory, so only one process may write them.
type Lock struct {
	file *flock.Flock
}

// Path is where the lock file for dataDir lives.
func Path(dataDir string) string {
	return filepath.Join(dataDir, ".davomat", fileName)
}

// Acquire fails with ErrDataDirBusy when another process holds the lock.
func Acquire(dataDir string) (*Lock, error) {
	path := Path(dataDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare lock directory: %w", err)
	}
	file := flock.New(path)
	ok, err := file.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s is held by another davomat process: %w", dataDir, apperrors.ErrDataDirBusy)
	}
	return &Lock{file: file}, nil
}

func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Unlock()
}
