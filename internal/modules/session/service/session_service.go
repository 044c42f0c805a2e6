package service

import (
	"fmt"
	"strings"

	"davomat/internal/modules/session/domain"
	"davomat/internal/platform/clock"
	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/id"
)

type SessionService struct {
	clock  clock.Clock
	locale clock.Locale
	idGen  id.Generator
}

func NewSessionService(clock clock.Clock, locale clock.Locale, idGen id.Generator) *SessionService {
	return &SessionService{clock: clock, locale: locale, idGen: idGen}
}

// New opens a session at the current instant with zeroed expenses.
func (s *SessionService) New(userID, object string) domain.WorkSession {
	now := s.clock.Now()
	session := domain.WorkSession{
		UserID:    userID,
		Object:    strings.TrimSpace(object),
		Date:      s.locale.Date(now),
		StartTime: s.locale.Time(now),
		StartedAt: now,
	}
	session.ApplyDefaults()
	return session
}

func (s *SessionService) ApplyExpense(session *domain.WorkSession, category domain.Category, rawAmount, name string) error {
	amount, err := domain.ParseAmount(rawAmount)
	if err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrInvalidInput)
	}
	switch category {
	case domain.CategoryAdvance:
		session.Advance += amount
	case domain.CategoryTaxi:
		session.Taxi += amount
	case domain.CategoryFood:
		session.Food += amount
	case domain.CategoryOther:
		name = strings.TrimSpace(name)
		if name == "" {
			name = domain.UnnamedExpense
		}
		now := s.clock.Now()
		session.OtherExpenses = append(session.OtherExpenses, domain.Expense{
			Name:   name,
			Amount: amount,
			Date:   s.locale.Date(now),
			Time:   s.locale.Time(now),
		})
	default:
		return fmt.Errorf("unknown expense category %q: %w", category, apperrors.ErrInvalidInput)
	}
	return nil
}

func (s *SessionService) MarkEnded(session *domain.WorkSession, object string, lat, lon float64) {
	now := s.clock.Now()
	if object = strings.TrimSpace(object); object != "" {
		session.Object = object
	}
	session.EndLocation = domain.LocationURL(lat, lon)
	session.EndTime = s.locale.Time(now)
	session.EndedAt = &now
}

// Archive builds the immutable record for a finalized session.
func (s *SessionService) Archive(session domain.WorkSession, owner domain.Owner) domain.ArchivedSession {
	duration := ""
	minutes := 0
	if session.EndedAt != nil && !session.StartedAt.IsZero() {
		duration = clock.FormatDuration(session.StartedAt, *session.EndedAt)
		minutes = int(session.EndedAt.Sub(session.StartedAt).Minutes())
		if minutes < 0 {
			minutes = 0
		}
	}
	video := domain.VideoNo
	if session.HasVideo {
		video = domain.VideoYes
	}
	return domain.ArchivedSession{
		ID:                 s.idGen.New(),
		Username:           owner.Username,
		TelegramID:         session.UserID,
		Name:               owner.Name,
		Phone:              owner.Phone,
		Object:             session.Object,
		Date:               session.Date,
		StartTime:          session.StartTime,
		EndTime:            session.EndTime,
		Duration:           duration,
		DurationMinutes:    minutes,
		StartLocation:      session.StartLocation,
		EndLocation:        session.EndLocation,
		Advance:            session.Advance,
		Taxi:               session.Taxi,
		Food:               session.Food,
		OtherExpenses:      append([]domain.Expense{}, session.OtherExpenses...),
		OtherExpenseName:   session.OtherNames(),
		OtherExpenseAmount: session.OtherTotal(),
		TotalExpense:       session.TotalExpense(),
		HasDiploma:         owner.DiplomaStatus,
		HasVideo:           video,
		Comments:           strings.Join(session.Comments, " | "),
		FinalizedAt:        s.clock.Now(),
	}
}

func (s *SessionService) Today() string {
	return s.locale.Date(s.clock.Now())
}

// Summarize aggregates archived records per worker within an inclusive
// yyyy-MM-dd range. Empty bounds are open.
func Summarize(records []domain.ArchivedSession, from, to string) []domain.WorkerSummary {
	byID := map[string]*domain.WorkerSummary{}
	order := []string{}
	for _, r := range records {
		if from != "" && r.Date < from {
			continue
		}
		if to != "" && r.Date > to {
			continue
		}
		summary, ok := byID[r.TelegramID]
		if !ok {
			summary = &domain.WorkerSummary{TelegramID: r.TelegramID}
			byID[r.TelegramID] = summary
			order = append(order, r.TelegramID)
		}
		summary.Name = r.Name
		summary.Shifts++
		summary.Minutes += r.DurationMinutes
		summary.TotalExpense += r.TotalExpense
	}
	out := make([]domain.WorkerSummary, 0, len(order))
	for _, key := range order {
		out = append(out, *byID[key])
	}
	return out
}
