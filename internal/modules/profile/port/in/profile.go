package in

import (
	"context"

	"davomat/internal/modules/profile/dto"
)

type Usecase interface {
	Register(ctx context.Context, input dto.RegisterInput) (dto.RegisterOutput, error)
	Get(ctx context.Context, userID string) (dto.ProfileOutput, error)
	List(ctx context.Context) ([]dto.ProfileOutput, error)

	SetName(ctx context.Context, userID, name string) (dto.ProfileOutput, error)
	SetPhone(ctx context.Context, userID, phone string) (dto.ProfileOutput, error)
	SetContactPhone(ctx context.Context, userID, phone string) (dto.ProfileOutput, error)
	SetPassportSerial(ctx context.Context, userID, serial string) (dto.ProfileOutput, error)
	AddPassportPhoto(ctx context.Context, userID, fileID string) (dto.PhotoOutput, error)
	ResetPassportPhotos(ctx context.Context, userID string) (dto.ProfileOutput, error)
	SetDiplomaSerial(ctx context.Context, userID, serial string) (dto.ProfileOutput, error)
	AddDiplomaPhoto(ctx context.Context, userID, fileID string) (dto.PhotoOutput, error)
	ResetDiplomaPhotos(ctx context.Context, userID string) (dto.ProfileOutput, error)
	SkipDiploma(ctx context.Context, userID string) (dto.ProfileOutput, error)

	SetLastLocation(ctx context.Context, userID string, lat, lon float64) (dto.ProfileOutput, error)
	SetCurrentObject(ctx context.Context, userID, object string) (dto.ProfileOutput, error)
	SetPendingObject(ctx context.Context, userID, object string) (dto.ProfileOutput, error)
	ClearShift(ctx context.Context, userID string) (dto.ProfileOutput, error)
	SetExpenseType(ctx context.Context, userID, expenseType string) (dto.ProfileOutput, error)
	SetPendingExpense(ctx context.Context, userID, name string) (dto.ProfileOutput, error)
	ClearPendingExpense(ctx context.Context, userID string) (dto.ProfileOutput, error)
}
