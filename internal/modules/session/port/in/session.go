package in

import (
	"context"

	"davomat/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	GetOrCreate(ctx context.Context, userID string) (dto.SessionOutput, error)
	GetOpen(ctx context.Context, userID string) (dto.SessionOutput, error)
	ListOpen(ctx context.Context) ([]dto.SessionOutput, error)
	SetStartLocation(ctx context.Context, input dto.LocationInput) (dto.SessionOutput, error)
	RecordExpense(ctx context.Context, input dto.ExpenseInput) (dto.SessionOutput, error)
	RecordComment(ctx context.Context, userID, text string) (dto.SessionOutput, error)
	RecordVideo(ctx context.Context, userID string) (dto.SessionOutput, error)
	End(ctx context.Context, input dto.EndInput) (dto.ArchivedOutput, error)
	Finalize(ctx context.Context, userID string) (dto.ArchivedOutput, error)
	ListArchived(ctx context.Context) ([]dto.ArchivedOutput, error)
	Reindex(ctx context.Context) (int, error)
	Summaries(ctx context.Context, input dto.SummaryInput) ([]dto.SummaryOutput, error)
}
