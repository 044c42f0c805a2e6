package in

import (
	"context"

	"davomat/internal/modules/profile/dto"
	profilein "davomat/internal/modules/profile/port/in"
)

type CLIHandler struct {
	usecase profilein.Usecase
}

func NewCLIHandler(usecase profilein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Get(ctx context.Context, userID string) (dto.ProfileOutput, error) {
	return h.usecase.Get(ctx, userID)
}
