package out

import (
	"context"

	"davomat/internal/modules/report/domain"
	sessiondomain "davomat/internal/modules/session/domain"
)

type ArchiveSource interface {
	List(ctx context.Context) ([]sessiondomain.ArchivedSession, error)
}

// PersonDirectory lists every registered worker in registration order.
type PersonDirectory interface {
	List(ctx context.Context) ([]domain.Person, error)
}

type Spreadsheet interface {
	WriteTable(ctx context.Context, path string, table domain.Table) error
	// AppendRoster numbers row after the largest existing row number and
	// returns the number it used.
	AppendRoster(ctx context.Context, row domain.Row) (int, error)
}

type Publisher interface {
	SendDocument(ctx context.Context, path, caption string) error
	SendAdminText(ctx context.Context, text string) error
}
