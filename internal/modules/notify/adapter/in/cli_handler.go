package in

import (
	"context"

	"davomat/internal/modules/notify/dto"
	notifyin "davomat/internal/modules/notify/port/in"
)

type CLIHandler struct {
	usecase notifyin.Usecase
}

func NewCLIHandler(usecase notifyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Ping sends text to every configured target and reports each delivery.
func (h CLIHandler) Ping(ctx context.Context, text string) dto.ReportOutput {
	return h.usecase.Broadcast(ctx, dto.PayloadInput{Kind: "text", Text: text})
}
