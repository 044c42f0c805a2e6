package in

import (
	"context"

	"davomat/internal/modules/conversation/dto"
	conversationin "davomat/internal/modules/conversation/port/in"
)

type CLIHandler struct {
	usecase conversationin.Usecase
}

func NewCLIHandler(usecase conversationin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) States(ctx context.Context) ([]dto.StateOutput, error) {
	return h.usecase.States(ctx)
}
