package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionout "davomat/internal/modules/session/adapter/out"
	"davomat/internal/modules/session/domain"
	apperrors "davomat/internal/platform/errors"
)

func TestOpenSessionStoreRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()
	zone := time.FixedZone("UZT", 5*3600)
	started := time.Date(2024, 5, 1, 8, 0, 0, 0, zone)
	ended := started.Add(9*time.Hour + 30*time.Minute)

	store, err := sessionout.NewJSONOpenSessionStore(dir)
	require.NoError(t, err)
	session := domain.WorkSession{
		UserID:        "42",
		Object:        "Chilonzor",
		Date:          "2024-05-01",
		StartTime:     "08:00:00",
		StartedAt:     started,
		EndTime:       "17:30:00",
		EndedAt:       &ended,
		Taxi:          20000,
		OtherExpenses: []domain.Expense{{Name: "asbob", Amount: 25000, Date: "2024-05-01", Time: "12:00:00"}},
		Comments:      []string{"ok"},
	}
	require.NoError(t, store.Put(ctx, session))

	reopened, err := sessionout.NewJSONOpenSessionStore(dir)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "42")
	require.NoError(t, err)
	assert.True(t, got.StartedAt.Equal(started))
	require.NotNil(t, got.EndedAt)
	assert.True(t, got.EndedAt.Equal(ended))
	assert.Equal(t, session.OtherExpenses, got.OtherExpenses)
	assert.Equal(t, session.Comments, got.Comments)
	assert.Equal(t, 45000.0, got.TotalExpense())

	require.NoError(t, reopened.Delete(ctx, "42"))
	_, err = reopened.Get(ctx, "42")
	assert.ErrorIs(t, err, apperrors.ErrNoActiveSession)
}

func TestOpenSessionStoreDefaultsMissingLists(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	doc := `{" 42 ": {"object": "A", "date": "2024-05-01", "startTime": "08:00:00", "startDateTime": "2024-05-01T08:00:00+05:00", "endDateTime": null}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionout.WorkSessionsFile), []byte(doc), 0o644))

	store, err := sessionout.NewJSONOpenSessionStore(dir)
	require.NoError(t, err)
	got, err := store.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.NotNil(t, got.OtherExpenses)
	assert.NotNil(t, got.Comments)
	assert.Nil(t, got.EndedAt)
	assert.False(t, got.Ended())
}

func TestArchiveStoreCreatesAndAppends(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()
	store, err := sessionout.NewJSONArchiveStore(dir)
	require.NoError(t, err)

	payload, err := os.ReadFile(filepath.Join(dir, sessionout.ArchivedSessionsFile))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(payload))

	require.NoError(t, store.Append(ctx, domain.ArchivedSession{ID: "a", TelegramID: "42", Date: "2024-05-01"}))
	require.NoError(t, store.Append(ctx, domain.ArchivedSession{ID: "b", TelegramID: "43", Date: "2024-05-02"}))
	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
}

func TestArchiveStoreToleratesEmptyFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionout.ArchivedSessionsFile), nil, 0o644))
	store, err := sessionout.NewJSONArchiveStore(dir)
	require.NoError(t, err)
	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
