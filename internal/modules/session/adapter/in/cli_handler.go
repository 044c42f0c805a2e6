package in

import (
	"context"

	"davomat/internal/modules/session/dto"
	sessionin "davomat/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListOpen(ctx context.Context) ([]dto.SessionOutput, error) {
	return h.usecase.ListOpen(ctx)
}

func (h CLIHandler) Finalize(ctx context.Context, userID string) (dto.ArchivedOutput, error) {
	return h.usecase.Finalize(ctx, userID)
}

func (h CLIHandler) ListArchived(ctx context.Context) ([]dto.ArchivedOutput, error) {
	return h.usecase.ListArchived(ctx)
}

func (h CLIHandler) Reindex(ctx context.Context) (int, error) {
	return h.usecase.Reindex(ctx)
}

func (h CLIHandler) Stats(ctx context.Context, from, to string) ([]dto.SummaryOutput, error) {
	return h.usecase.Summaries(ctx, dto.SummaryInput{From: from, To: to})
}
