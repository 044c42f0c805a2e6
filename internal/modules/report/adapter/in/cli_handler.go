package in

import (
	"context"

	"davomat/internal/modules/report/dto"
	reportin "davomat/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Export(ctx context.Context, from, to string) (dto.FileOutput, error) {
	return h.usecase.WriteRange(ctx, dto.RangeInput{From: from, To: to})
}

func (h CLIHandler) Preview(ctx context.Context, from, to string) ([]dto.RowOutput, error) {
	return h.usecase.ExportRange(ctx, dto.RangeInput{From: from, To: to})
}

func (h CLIHandler) Workers(ctx context.Context) ([]dto.WorkerOutput, error) {
	return h.usecase.ListWorkers(ctx)
}

func (h CLIHandler) WriteWorkers(ctx context.Context) (dto.FileOutput, error) {
	return h.usecase.WriteWorkers(ctx)
}

func (h CLIHandler) SendDaily(ctx context.Context) error {
	return h.usecase.SendDaily(ctx)
}
