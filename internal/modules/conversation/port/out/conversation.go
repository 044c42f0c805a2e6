package out

import (
	"context"

	"davomat/internal/modules/conversation/domain"
)

// StateStore keeps the per-user position in the flow. Get reports false for
// users it has never seen.
type StateStore interface {
	Get(ctx context.Context, userID string) (domain.State, bool, error)
	Put(ctx context.Context, userID string, state domain.State) error
	List(ctx context.Context) (map[string]domain.State, error)
}

// Replier answers the chat an update came from.
type Replier interface {
	Reply(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) error
	ReplyDocument(ctx context.Context, chatID int64, path, caption string) error
}
