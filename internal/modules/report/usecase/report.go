package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"davomat/internal/modules/report/domain"
	"davomat/internal/modules/report/dto"
	reportin "davomat/internal/modules/report/port/in"
	reportout "davomat/internal/modules/report/port/out"
	"davomat/internal/modules/report/service"
	sessiondomain "davomat/internal/modules/session/domain"
	"davomat/internal/platform/logging"
)

// Deps wires the report aggregator. Publisher is only needed by SendDaily.
type Deps struct {
	Service   *service.ReportService
	Archive   reportout.ArchiveSource
	People    reportout.PersonDirectory
	Sheets    reportout.Spreadsheet
	Publisher reportout.Publisher
	DataDir   string
	Logger    *slog.Logger
}

type Interactor struct {
	svc       *service.ReportService
	archive   reportout.ArchiveSource
	people    reportout.PersonDirectory
	sheets    reportout.Spreadsheet
	publisher reportout.Publisher
	dataDir   string
	log       *slog.Logger
}

func NewInteractor(deps Deps) reportin.Usecase {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Interactor{
		svc:       deps.Service,
		archive:   deps.Archive,
		people:    deps.People,
		sheets:    deps.Sheets,
		publisher: deps.Publisher,
		dataDir:   deps.DataDir,
		log:       logger,
	}
}

func (i *Interactor) ExportRange(ctx context.Context, input dto.RangeInput) ([]dto.RowOutput, error) {
	rows, _, err := i.rows(ctx, input)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	out := make([]dto.RowOutput, 0, len(rows))
	for _, r := range rows {
		out = append(out, toRowOutput(r))
	}
	return out, nil
}

func (i *Interactor) rows(ctx context.Context, input dto.RangeInput) ([]domain.Row, service.Range, error) {
	window, err := i.svc.ResolveRange(input.From, input.To)
	if err != nil {
		return nil, service.Range{}, err
	}
	records, err := i.archive.List(ctx)
	if err != nil {
		return nil, window, fmt.Errorf("read archive: %w", err)
	}
	people, err := i.people.List(ctx)
	if err != nil {
		return nil, window, fmt.Errorf("read profiles: %w", err)
	}
	rows, skipped := i.svc.BuildRows(records, people, window)
	for _, userID := range skipped {
		i.log.Warn("archived session without profile skipped", "user", userID)
	}
	i.log.Debug("export rows built", "from", window.From, "to", window.To, "rows", len(rows), "skipped", len(skipped))
	return rows, window, nil
}

func (i *Interactor) WriteRange(ctx context.Context, input dto.RangeInput) (dto.FileOutput, error) {
	rows, window, err := i.rows(ctx, input)
	if err != nil || len(rows) == 0 {
		return dto.FileOutput{}, err
	}
	date, clockText, unixMilli := i.svc.Stamp()
	table := domain.Table{
		Sheet:      domain.ExportSheet,
		Columns:    domain.SessionColumns,
		HeaderFill: domain.HeaderFill,
		WhiteFont:  true,
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, r.Cells())
	}
	path := filepath.Join(i.dataDir, domain.ExportFileName(window.Stamp, unixMilli))
	if err := i.sheets.WriteTable(ctx, path, table); err != nil {
		return dto.FileOutput{}, err
	}
	i.log.Info("export written", "path", path, "rows", len(rows))
	return dto.FileOutput{Path: path, Rows: len(rows), Caption: domain.ExportCaption(date, clockText)}, nil
}

func (i *Interactor) ListWorkers(ctx context.Context) ([]dto.WorkerOutput, error) {
	people, err := i.people.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	rows := service.WorkerRows(people)
	out := make([]dto.WorkerOutput, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.WorkerOutput{Number: r.Number, Name: r.Name, Handle: r.Handle, Phone: r.Phone})
	}
	return out, nil
}

func (i *Interactor) WriteWorkers(ctx context.Context) (dto.FileOutput, error) {
	people, err := i.people.List(ctx)
	if err != nil {
		return dto.FileOutput{}, fmt.Errorf("read profiles: %w", err)
	}
	date, clockText, unixMilli := i.svc.Stamp()
	table := domain.Table{
		Sheet:      domain.WorkersSheet,
		Columns:    domain.WorkerColumns,
		HeaderFill: domain.WorkersHeaderFill,
	}
	rows := service.WorkerRows(people)
	for _, r := range rows {
		table.Rows = append(table.Rows, r.Cells())
	}
	path := filepath.Join(i.dataDir, domain.WorkersFileName(unixMilli))
	if err := i.sheets.WriteTable(ctx, path, table); err != nil {
		return dto.FileOutput{}, err
	}
	i.log.Info("worker list written", "path", path, "workers", len(rows))
	return dto.FileOutput{Path: path, Rows: len(rows), Caption: domain.WorkersCaption(date, clockText)}, nil
}

func (i *Interactor) AppendToRoster(ctx context.Context, record sessiondomain.ArchivedSession) (int, error) {
	number, err := i.sheets.AppendRoster(ctx, service.RowFromRecord(record))
	if err != nil {
		return 0, fmt.Errorf("append roster: %w", err)
	}
	i.log.Info("roster row appended",
		"row", number,
		"user", record.TelegramID,
		"name", record.Name,
		"object", record.Object,
	)
	return number, nil
}

// SendDaily pushes today's export to the admin and group chats, or tells the
// admin that nothing was recorded today.
func (i *Interactor) SendDaily(ctx context.Context) error {
	if i.publisher == nil {
		return fmt.Errorf("daily report: no publisher configured")
	}
	file, err := i.WriteRange(ctx, dto.RangeInput{})
	if err != nil {
		return fmt.Errorf("daily report: %w", err)
	}
	date, clockText, _ := i.svc.Stamp()
	if file.Path == "" {
		i.log.Info("daily report has no rows", "date", date)
		return i.publisher.SendAdminText(ctx, domain.DailyEmptyText(date, clockText))
	}
	defer func() {
		if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
			i.log.Warn("remove daily report file failed", "path", file.Path, "err", err)
		}
	}()
	if err := i.publisher.SendDocument(ctx, file.Path, domain.DailyCaption(date, clockText)); err != nil {
		return fmt.Errorf("daily report: %w", err)
	}
	i.log.Info("daily report sent", "date", date, "rows", file.Rows)
	return nil
}

func toRowOutput(r domain.Row) dto.RowOutput {
	return dto.RowOutput{
		Number:             r.Number,
		Username:           r.Username,
		TelegramID:         r.TelegramID,
		Name:               r.Name,
		Phone:              r.Phone,
		Object:             r.Object,
		Date:               r.Date,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Duration:           r.Duration,
		StartLocation:      r.StartLocation,
		EndLocation:        r.EndLocation,
		Advance:            r.Advance,
		Taxi:               r.Taxi,
		Food:               r.Food,
		OtherExpenseName:   r.OtherExpenseName,
		OtherExpenseAmount: r.OtherExpenseAmount,
		TotalExpense:       r.TotalExpense,
		Diploma:            r.Diploma,
		Video:              r.Video,
		Comments:           r.Comments,
	}
}
