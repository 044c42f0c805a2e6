package jsonfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"davomat/internal/platform/jsonfile"
)

func TestWriteThenReadRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "doc.json")
	in := map[string]int{"a": 1, "b": 2}
	if err := jsonfile.Write(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := map[string]int{}
	found, err := jsonfile.Read(path, &out)
	if err != nil || !found {
		t.Fatalf("read: found=%t err=%v", found, err)
	}
	if out["a"] != 1 || out["b"] != 2 {
		t.Fatalf("unexpected decode %v", out)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}

func TestReadMissingBlankAndCorrupt(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	var out []int
	if found, err := jsonfile.Read(filepath.Join(dir, "none.json"), &out); err != nil || found {
		t.Fatalf("missing file: found=%t err=%v", found, err)
	}
	blank := filepath.Join(dir, "blank.json")
	if err := os.WriteFile(blank, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write blank: %v", err)
	}
	if found, err := jsonfile.Read(blank, &out); err != nil || found {
		t.Fatalf("blank file: found=%t err=%v", found, err)
	}
	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	if _, err := jsonfile.Read(corrupt, &out); err == nil || !strings.Contains(err.Error(), "decode corrupt.json") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestEnsureArrayCreatesOnce(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "archive.json")
	created, err := jsonfile.EnsureArray(path)
	if err != nil || !created {
		t.Fatalf("first ensure: created=%t err=%v", created, err)
	}
	if err := os.WriteFile(path, []byte(`[1]`), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	created, err = jsonfile.EnsureArray(path)
	if err != nil || created {
		t.Fatalf("second ensure must not recreate: created=%t err=%v", created, err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "[1]" {
		t.Fatalf("existing content replaced: %s", b)
	}
}
