package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	profileout "davomat/internal/modules/profile/adapter/out"
	"davomat/internal/modules/profile/domain"
	apperrors "davomat/internal/platform/errors"
)

func TestJSONProfileStoreRoundTripKeepsFieldsAndOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := profileout.NewJSONProfileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	second := domain.Profile{ID: "200", Username: "vali", Name: "Vali", RegisteredAt: base.Add(time.Minute)}
	first := domain.Profile{
		ID:             " 1000 ",
		Username:       "ali",
		Name:           "Ali Valiyev",
		Phone:          "998901234567",
		PassportSerial: "AA1234567",
		PassportPhotos: []string{"p1", "p2"},
		DiplomaSerial:  "D-1",
		DiplomaPhotos:  []string{"d1", "d2"},
		HasDiploma:     true,
		LastLocation:   "41.3,69.2",
		CurrentObject:  "Site-A",
		RegisteredAt:   base,
	}
	if err := store.Put(context.Background(), second); err != nil {
		t.Fatalf("put second: %v", err)
	}
	if err := store.Put(context.Background(), first); err != nil {
		t.Fatalf("put first: %v", err)
	}

	reloaded, err := profileout.NewJSONProfileStore(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := reloaded.Get(context.Background(), "1000")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := first
	want.ID = "1000"
	if !got.RegisteredAt.Equal(want.RegisteredAt) {
		t.Fatalf("registered at changed: %v vs %v", got.RegisteredAt, want.RegisteredAt)
	}
	got.RegisteredAt, want.RegisteredAt = time.Time{}, time.Time{}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
	list, err := reloaded.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "1000" || list[1].ID != "200" {
		t.Fatalf("expected registration order, got %+v", list)
	}
}

func TestJSONProfileStoreMissingProfileAndCorruptFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := profileout.NewJSONProfileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Get(context.Background(), "1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, profileout.UsersFile), []byte("{oops"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	if _, err := profileout.NewJSONProfileStore(dir); err == nil {
		t.Fatalf("corrupt users file must fail to load")
	}
}
