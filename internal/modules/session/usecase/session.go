package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"davomat/internal/modules/session/domain"
	"davomat/internal/modules/session/dto"
	sessionin "davomat/internal/modules/session/port/in"
	sessionout "davomat/internal/modules/session/port/out"
	"davomat/internal/modules/session/service"
	"davomat/internal/platform/clock"
	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/id"
	"davomat/internal/platform/logging"
	"davomat/internal/platform/tx"
)

// Deps wires the lifecycle manager. Index, Tx and Logger are optional.
type Deps struct {
	Service  *service.SessionService
	Sessions sessionout.OpenSessionStore
	Archive  sessionout.ArchiveStore
	Roster   sessionout.RosterSink
	Profiles sessionout.ProfileDirectory
	Index    sessionout.ArchiveIndex
	Tx       tx.Manager
	Logger   *slog.Logger
}

type Interactor struct {
	mu       sync.Mutex
	svc      *service.SessionService
	sessions sessionout.OpenSessionStore
	archive  sessionout.ArchiveStore
	roster   sessionout.RosterSink
	profiles sessionout.ProfileDirectory
	index    sessionout.ArchiveIndex
	tx       tx.Manager
	log      *slog.Logger
}

func NewInteractor(deps Deps) sessionin.Usecase {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	txm := deps.Tx
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Interactor{
		svc:      deps.Service,
		sessions: deps.Sessions,
		archive:  deps.Archive,
		roster:   deps.Roster,
		profiles: deps.Profiles,
		index:    deps.Index,
		tx:       txm,
		log:      logger,
	}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error) {
	userID := id.Normalize(input.UserID)
	object := strings.TrimSpace(input.Object)
	if userID == "" || object == "" {
		return dto.SessionOutput{}, fmt.Errorf("user id and object are required: %w", apperrors.ErrInvalidInput)
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	existing, found, err := i.lookup(ctx, userID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	if found && !existing.Ended() {
		return toOutput(existing), fmt.Errorf("user %s: %w", userID, apperrors.ErrActiveSessionExists)
	}
	if found {
		i.settleEnded(ctx, existing)
	}
	session := i.svc.New(userID, object)
	if err := i.sessions.Put(ctx, session); err != nil {
		return toOutput(session), err
	}
	if err := i.profiles.SetCurrentObject(ctx, userID, object); err != nil {
		i.log.Warn("record current object failed", "user", userID, "err", err)
	}
	i.log.Info("session started", "user", userID, "object", object)
	return toOutput(session), nil
}

func (i *Interactor) GetOrCreate(ctx context.Context, userID string) (dto.SessionOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	session, err := i.getOrCreateLocked(ctx, id.Normalize(userID))
	return toOutput(session), err
}

func (i *Interactor) getOrCreateLocked(ctx context.Context, userID string) (domain.WorkSession, error) {
	if userID == "" {
		return domain.WorkSession{}, fmt.Errorf("user id is required: %w", apperrors.ErrInvalidInput)
	}
	existing, found, err := i.lookup(ctx, userID)
	if err != nil {
		return domain.WorkSession{}, err
	}
	if found && !existing.Ended() {
		return existing, nil
	}
	if found {
		i.settleEnded(ctx, existing)
	}
	object := ""
	if owner, err := i.profiles.Owner(ctx, userID); err == nil {
		object = owner.CurrentObject
	}
	session := i.svc.New(userID, object)
	if err := i.sessions.Put(ctx, session); err != nil {
		return session, err
	}
	return session, nil
}

// settleEnded retries the finalization of a session that was ended but never
// archived. When that fails again the session is superseded and its content is
// only kept in the log.
func (i *Interactor) settleEnded(ctx context.Context, session domain.WorkSession) {
	_, err := i.finalizeLocked(ctx, session.UserID)
	if err == nil {
		return
	}
	i.log.Error("superseding unfinalized session",
		"user", session.UserID,
		"object", session.Object,
		"date", session.Date,
		"start", session.StartTime,
		"end", session.EndTime,
		"total", session.TotalExpense(),
		"err", err,
	)
}

func (i *Interactor) GetOpen(ctx context.Context, userID string) (dto.SessionOutput, error) {
	session, err := i.sessions.Get(ctx, id.Normalize(userID))
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) ListOpen(ctx context.Context) ([]dto.SessionOutput, error) {
	sessions, err := i.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sessions, func(a, b int) bool {
		return sessions[a].StartedAt.Before(sessions[b].StartedAt)
	})
	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toOutput(s))
	}
	return out, nil
}

func (i *Interactor) SetStartLocation(ctx context.Context, input dto.LocationInput) (dto.SessionOutput, error) {
	return i.mutate(ctx, input.UserID, func(s *domain.WorkSession) error {
		s.StartLocation = domain.LocationURL(input.Latitude, input.Longitude)
		return nil
	})
}

func (i *Interactor) RecordExpense(ctx context.Context, input dto.ExpenseInput) (dto.SessionOutput, error) {
	category, ok := domain.ParseCategory(input.Category)
	if !ok {
		return dto.SessionOutput{}, fmt.Errorf("unknown expense category %q: %w", input.Category, apperrors.ErrInvalidInput)
	}
	return i.mutate(ctx, input.UserID, func(s *domain.WorkSession) error {
		return i.svc.ApplyExpense(s, category, input.Amount, input.Name)
	})
}

func (i *Interactor) RecordComment(ctx context.Context, userID, text string) (dto.SessionOutput, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return dto.SessionOutput{}, fmt.Errorf("comment is empty: %w", apperrors.ErrInvalidInput)
	}
	return i.mutate(ctx, userID, func(s *domain.WorkSession) error {
		s.Comments = append(s.Comments, text)
		return nil
	})
}

func (i *Interactor) RecordVideo(ctx context.Context, userID string) (dto.SessionOutput, error) {
	return i.mutate(ctx, userID, func(s *domain.WorkSession) error {
		s.HasVideo = true
		return nil
	})
}

// mutate applies fn to a copy of the open session, creating one if needed, and
// persists only when fn succeeds.
func (i *Interactor) mutate(ctx context.Context, userID string, fn func(*domain.WorkSession) error) (dto.SessionOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	current, err := i.getOrCreateLocked(ctx, id.Normalize(userID))
	if err != nil {
		return dto.SessionOutput{}, err
	}
	next := current.Clone()
	if err := fn(&next); err != nil {
		return toOutput(current), err
	}
	if err := i.sessions.Put(ctx, next); err != nil {
		return toOutput(next), err
	}
	return toOutput(next), nil
}

func (i *Interactor) End(ctx context.Context, input dto.EndInput) (dto.ArchivedOutput, error) {
	userID := id.Normalize(input.UserID)
	i.mu.Lock()
	defer i.mu.Unlock()
	session, err := i.sessions.Get(ctx, userID)
	if err != nil {
		return dto.ArchivedOutput{}, err
	}
	i.svc.MarkEnded(&session, input.Object, input.Latitude, input.Longitude)
	if err := i.sessions.Put(ctx, session); err != nil {
		i.log.Warn("persist ended session failed", "user", userID, "err", err)
	}
	record, err := i.finalizeLocked(ctx, userID)
	if err != nil {
		return toArchivedOutput(record), err
	}
	return toArchivedOutput(record), nil
}

// Finalize retries the archiving of a shift that has ended. A running shift
// is refused; it is only archived through End.
func (i *Interactor) Finalize(ctx context.Context, userID string) (dto.ArchivedOutput, error) {
	userID = id.Normalize(userID)
	i.mu.Lock()
	defer i.mu.Unlock()
	session, err := i.sessions.Get(ctx, userID)
	if err == nil && !session.Ended() {
		return dto.ArchivedOutput{}, fmt.Errorf("finalize %s: shift has not ended: %w", userID, apperrors.ErrInvalidInput)
	}
	record, err := i.finalizeLocked(ctx, userID)
	return toArchivedOutput(record), err
}

func (i *Interactor) finalizeLocked(ctx context.Context, userID string) (domain.ArchivedSession, error) {
	session, err := i.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return domain.ArchivedSession{}, fmt.Errorf("finalize %s: %w: %w", userID, apperrors.ErrNotFound, err)
		}
		return domain.ArchivedSession{}, err
	}
	owner, err := i.profiles.Owner(ctx, userID)
	if err != nil {
		return domain.ArchivedSession{}, fmt.Errorf("finalize %s: %w", userID, err)
	}
	record := i.svc.Archive(session, owner)

	rosterErr := i.roster.Append(ctx, record)
	archiveErr := i.archive.Append(ctx, record)
	if rosterErr != nil || archiveErr != nil {
		i.log.Error("finalize incomplete, open session kept",
			"user", userID, "roster_err", rosterErr, "archive_err", archiveErr)
		return record, fmt.Errorf("finalize %s: %w", userID, errors.Join(apperrors.ErrFinalizeIncomplete, rosterErr, archiveErr))
	}
	if err := i.sessions.Delete(ctx, userID); err != nil {
		i.log.Warn("remove finalized session failed", "user", userID, "err", err)
	}
	if i.index != nil {
		if err := i.index.Upsert(ctx, record); err != nil {
			i.log.Warn("archive index upsert failed", "user", userID, "err", err)
		}
	}
	i.log.Info("session finalized",
		"user", userID,
		"object", record.Object,
		"duration", record.Duration,
		"total", record.TotalExpense,
	)
	return record, nil
}

func (i *Interactor) ListArchived(ctx context.Context) ([]dto.ArchivedOutput, error) {
	records, err := i.archive.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ArchivedOutput, 0, len(records))
	for _, r := range records {
		out = append(out, toArchivedOutput(r))
	}
	return out, nil
}

// Reindex rebuilds the query index from the JSON archive.
func (i *Interactor) Reindex(ctx context.Context) (int, error) {
	if i.index == nil {
		return 0, fmt.Errorf("archive index is not configured: %w", apperrors.ErrInvalidInput)
	}
	records, err := i.archive.List(ctx)
	if err != nil {
		return 0, err
	}
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		if err := i.index.Reset(ctx); err != nil {
			return err
		}
		for _, r := range records {
			if err := i.index.Upsert(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (i *Interactor) Summaries(ctx context.Context, input dto.SummaryInput) ([]dto.SummaryOutput, error) {
	from, to := strings.TrimSpace(input.From), strings.TrimSpace(input.To)
	for _, d := range []string{from, to} {
		if d != "" && !clock.ValidDate(d) {
			return nil, fmt.Errorf("invalid date %q: %w", d, apperrors.ErrInvalidInput)
		}
	}
	if from != "" && to != "" && from > to {
		return nil, fmt.Errorf("range %s..%s is reversed: %w", from, to, apperrors.ErrInvalidInput)
	}
	var summaries []domain.WorkerSummary
	if i.index != nil {
		var err error
		summaries, err = i.index.Summaries(ctx, from, to)
		if err != nil {
			return nil, err
		}
	} else {
		records, err := i.archive.List(ctx)
		if err != nil {
			return nil, err
		}
		summaries = service.Summarize(records, from, to)
	}
	out := make([]dto.SummaryOutput, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.SummaryOutput{
			TelegramID:   s.TelegramID,
			Name:         s.Name,
			Shifts:       s.Shifts,
			Minutes:      s.Minutes,
			TotalExpense: s.TotalExpense,
		})
	}
	return out, nil
}

func (i *Interactor) lookup(ctx context.Context, userID string) (domain.WorkSession, bool, error) {
	session, err := i.sessions.Get(ctx, userID)
	if err == nil {
		return session, true, nil
	}
	if errors.Is(err, apperrors.ErrNoActiveSession) {
		return domain.WorkSession{}, false, nil
	}
	return domain.WorkSession{}, false, err
}

func toOutput(s domain.WorkSession) dto.SessionOutput {
	return dto.SessionOutput{
		UserID:        s.UserID,
		Object:        s.Object,
		Date:          s.Date,
		StartTime:     s.StartTime,
		StartedAt:     s.StartedAt,
		StartLocation: s.StartLocation,
		EndLocation:   s.EndLocation,
		EndTime:       s.EndTime,
		EndedAt:       s.EndedAt,
		Advance:       s.Advance,
		Taxi:          s.Taxi,
		Food:          s.Food,
		OtherExpenses: toExpenses(s.OtherExpenses),
		OtherTotal:    s.OtherTotal(),
		TotalExpense:  s.TotalExpense(),
		Comments:      append([]string{}, s.Comments...),
		HasVideo:      s.HasVideo,
	}
}

func toArchivedOutput(r domain.ArchivedSession) dto.ArchivedOutput {
	return dto.ArchivedOutput{
		ID:                 r.ID,
		Username:           r.Username,
		TelegramID:         r.TelegramID,
		Name:               r.Name,
		Phone:              r.Phone,
		Object:             r.Object,
		Date:               r.Date,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Duration:           r.Duration,
		DurationMinutes:    r.DurationMinutes,
		StartLocation:      r.StartLocation,
		EndLocation:        r.EndLocation,
		Advance:            r.Advance,
		Taxi:               r.Taxi,
		Food:               r.Food,
		OtherExpenses:      toExpenses(r.OtherExpenses),
		OtherExpenseName:   r.OtherExpenseName,
		OtherExpenseAmount: r.OtherExpenseAmount,
		TotalExpense:       r.TotalExpense,
		HasDiploma:         r.HasDiploma,
		HasVideo:           r.HasVideo,
		Comments:           r.Comments,
		FinalizedAt:        r.FinalizedAt,
	}
}

func toExpenses(in []domain.Expense) []dto.ExpenseOutput {
	out := make([]dto.ExpenseOutput, 0, len(in))
	for _, e := range in {
		out = append(out, dto.ExpenseOutput{Name: e.Name, Amount: e.Amount, Date: e.Date, Time: e.Time})
	}
	return out
}
