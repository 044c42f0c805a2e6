package out

import (
	"context"

	reportin "davomat/internal/modules/report/port/in"
	"davomat/internal/modules/session/domain"
	sessionout "davomat/internal/modules/session/port/out"
)

type ReportRosterAdapter struct {
	report reportin.Usecase
}

func NewReportRosterAdapter(report reportin.Usecase) sessionout.RosterSink {
	return &ReportRosterAdapter{report: report}
}

func (a *ReportRosterAdapter) Append(ctx context.Context, record domain.ArchivedSession) error {
	_, err := a.report.AppendToRoster(ctx, record)
	return err
}
