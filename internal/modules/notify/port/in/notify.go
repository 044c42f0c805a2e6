package in

import (
	"context"

	"davomat/internal/modules/notify/dto"
)

// Usecase delivers best effort: failures are reported, never returned.
type Usecase interface {
	Broadcast(ctx context.Context, payload dto.PayloadInput) dto.ReportOutput
	Admin(ctx context.Context, payload dto.PayloadInput) dto.ReportOutput
}
