package out

import (
	"context"
	"fmt"

	notifydto "davomat/internal/modules/notify/dto"
	notifyin "davomat/internal/modules/notify/port/in"
	reportout "davomat/internal/modules/report/port/out"
)

// NotifyPublisherAdapter delivers report files through the notification
// dispatcher.
type NotifyPublisherAdapter struct {
	notify notifyin.Usecase
}

func NewNotifyPublisherAdapter(notify notifyin.Usecase) reportout.Publisher {
	return &NotifyPublisherAdapter{notify: notify}
}

func (a *NotifyPublisherAdapter) SendDocument(ctx context.Context, path, caption string) error {
	report := a.notify.Broadcast(ctx, notifydto.PayloadInput{Kind: "document", FilePath: path, Text: caption})
	return deliveryError(report)
}

func (a *NotifyPublisherAdapter) SendAdminText(ctx context.Context, text string) error {
	report := a.notify.Admin(ctx, notifydto.PayloadInput{Kind: "text", Text: text})
	return deliveryError(report)
}

func deliveryError(report notifydto.ReportOutput) error {
	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d deliveries failed", failed, len(report.Deliveries))
	}
	return nil
}
