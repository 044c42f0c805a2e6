package in

import (
	"context"

	"davomat/internal/modules/report/dto"
	sessiondomain "davomat/internal/modules/session/domain"
)

type Usecase interface {
	ExportRange(ctx context.Context, input dto.RangeInput) ([]dto.RowOutput, error)
	WriteRange(ctx context.Context, input dto.RangeInput) (dto.FileOutput, error)
	ListWorkers(ctx context.Context) ([]dto.WorkerOutput, error)
	WriteWorkers(ctx context.Context) (dto.FileOutput, error)
	AppendToRoster(ctx context.Context, record sessiondomain.ArchivedSession) (int, error)
	SendDaily(ctx context.Context) error
}
