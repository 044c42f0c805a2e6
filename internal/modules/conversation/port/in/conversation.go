package in

import (
	"context"

	"davomat/internal/modules/conversation/dto"
)

type Usecase interface {
	Handle(ctx context.Context, input dto.UpdateInput) error
	States(ctx context.Context) ([]dto.StateOutput, error)
}
