package service

import (
	"fmt"
	"strings"

	"davomat/internal/modules/report/domain"
	sessiondomain "davomat/internal/modules/session/domain"
	"davomat/internal/platform/clock"
	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/id"
)

type ReportService struct {
	clock  clock.Clock
	locale clock.Locale
}

func NewReportService(clock clock.Clock, locale clock.Locale) *ReportService {
	return &ReportService{clock: clock, locale: locale}
}

// Range is an inclusive yyyy-MM-dd window.
type Range struct {
	From  string
	To    string
	Stamp string
}

// ResolveRange applies the export defaults: no bounds means today, one bound
// means that single day.
func (s *ReportService) ResolveRange(from, to string) (Range, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	switch {
	case from == "" && to == "":
		today := s.Today()
		return Range{From: today, To: today, Stamp: today}, nil
	case from == "":
		from = to
	case to == "":
		to = from
	}
	for _, d := range []string{from, to} {
		if !clock.ValidDate(d) {
			return Range{}, fmt.Errorf("invalid date %q: %w", d, apperrors.ErrInvalidInput)
		}
	}
	if from > to {
		return Range{}, fmt.Errorf("range %s..%s is reversed: %w", from, to, apperrors.ErrInvalidInput)
	}
	stamp := from
	if from != to {
		stamp = from + "__" + to
	}
	return Range{From: from, To: to, Stamp: stamp}, nil
}

func (r Range) Contains(date string) bool {
	return date != "" && date >= r.From && date <= r.To
}

// BuildRows joins records in the window with their profiles. Records whose
// owner is unknown are returned in skipped instead of rows.
func (s *ReportService) BuildRows(records []sessiondomain.ArchivedSession, people []domain.Person, window Range) (rows []domain.Row, skipped []string) {
	byID := make(map[string]domain.Person, len(people))
	for _, p := range people {
		byID[id.Normalize(p.ID)] = p
	}
	for _, record := range records {
		if !window.Contains(record.Date) {
			continue
		}
		userID := id.Normalize(record.TelegramID)
		person, ok := byID[userID]
		if !ok {
			skipped = append(skipped, userID)
			continue
		}
		row := RowFromRecord(record)
		row.Number = len(rows) + 1
		row.TelegramID = userID
		if row.Username == "" {
			row.Username = domain.Handle(person.Username)
		}
		row.Name = firstNonEmpty(row.Name, person.Name)
		row.Phone = firstNonEmpty(row.Phone, person.Phone)
		row.Diploma = firstNonEmpty(row.Diploma, person.DiplomaStatus())
		rows = append(rows, row)
	}
	return rows, skipped
}

// RowFromRecord maps an archived record onto the spreadsheet layout without a
// row number.
func RowFromRecord(record sessiondomain.ArchivedSession) domain.Row {
	otherName, otherAmount := record.OtherExpenseName, record.OtherExpenseAmount
	if len(record.OtherExpenses) > 0 {
		names := make([]string, 0, len(record.OtherExpenses))
		otherAmount = 0
		for _, e := range record.OtherExpenses {
			names = append(names, e.Name)
			otherAmount += e.Amount
		}
		otherName = strings.Join(names, ", ")
	}
	return domain.Row{
		Username:           domain.Handle(record.Username),
		TelegramID:         id.Normalize(record.TelegramID),
		Name:               record.Name,
		Phone:              record.Phone,
		Object:             record.Object,
		Date:               record.Date,
		StartTime:          record.StartTime,
		EndTime:            record.EndTime,
		Duration:           record.Duration,
		StartLocation:      record.StartLocation,
		EndLocation:        record.EndLocation,
		Advance:            record.Advance,
		Taxi:               record.Taxi,
		Food:               record.Food,
		OtherExpenseName:   otherName,
		OtherExpenseAmount: otherAmount,
		TotalExpense:       record.TotalExpense,
		Diploma:            record.HasDiploma,
		Video:              record.HasVideo,
		Comments:           record.Comments,
	}
}

func WorkerRows(people []domain.Person) []domain.WorkerRow {
	rows := make([]domain.WorkerRow, 0, len(people))
	for n, p := range people {
		rows = append(rows, domain.WorkerRow{
			Number: n + 1,
			Name:   p.Name,
			Handle: domain.Handle(p.Username),
			Phone:  p.Phone,
		})
	}
	return rows
}

func (s *ReportService) Today() string {
	return s.locale.Date(s.clock.Now())
}

func (s *ReportService) Stamp() (date, clockText string, unixMilli int64) {
	now := s.clock.Now()
	return s.locale.Date(now), s.locale.Time(now), now.UnixMilli()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
