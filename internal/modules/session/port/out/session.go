package out

import (
	"context"

	"davomat/internal/modules/session/domain"
)

// OpenSessionStore holds at most one session per user. Get returns
// apperrors.ErrNoActiveSession when the user has none.
type OpenSessionStore interface {
	Get(ctx context.Context, userID string) (domain.WorkSession, error)
	Put(ctx context.Context, session domain.WorkSession) error
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context) ([]domain.WorkSession, error)
}

type ArchiveStore interface {
	Append(ctx context.Context, record domain.ArchivedSession) error
	List(ctx context.Context) ([]domain.ArchivedSession, error)
}

// RosterSink is the cumulative spreadsheet every finalized session lands in.
type RosterSink interface {
	Append(ctx context.Context, record domain.ArchivedSession) error
}

// ArchiveIndex is a rebuildable query projection of the archive.
type ArchiveIndex interface {
	Reset(ctx context.Context) error
	Upsert(ctx context.Context, record domain.ArchivedSession) error
	Summaries(ctx context.Context, from, to string) ([]domain.WorkerSummary, error)
}

type ProfileDirectory interface {
	Owner(ctx context.Context, userID string) (domain.Owner, error)
	SetCurrentObject(ctx context.Context, userID, object string) error
}
