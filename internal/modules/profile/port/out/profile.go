package out

import (
	"context"

	"davomat/internal/modules/profile/domain"
)

// ProfileStore owns the profile collection. Put persists the whole collection;
// a failed write still leaves the in-memory copy updated.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (domain.Profile, error)
	Put(ctx context.Context, profile domain.Profile) error
	List(ctx context.Context) ([]domain.Profile, error)
}
