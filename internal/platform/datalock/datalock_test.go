package datalock_test

import (
	"errors"
	"testing"

	"davomat/internal/platform/datalock"
	apperrors "davomat/internal/platform/errors"
)

func TestSecondWriterIsRefusedUntilRelease(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	first, err := datalock.Acquire(dir)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if _, err := datalock.Acquire(dir); !errors.Is(err, apperrors.ErrDataDirBusy) {
		t.Fatalf("expected ErrDataDirBusy, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	second, err := datalock.Acquire(dir)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	_ = second.Release()
}

func TestSeparateDirectoriesDoNotContend(t *testing.T) {
	t.Parallel()
	a, err := datalock.Acquire(t.TempDir())
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	defer func() { _ = a.Release() }()
	b, err := datalock.Acquire(t.TempDir())
	if err != nil {
		t.Fatalf("acquire b: %v", err)
	}
	_ = b.Release()
}
