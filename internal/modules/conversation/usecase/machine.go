package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"davomat/internal/modules/conversation/domain"
	"davomat/internal/modules/conversation/dto"
	conversationin "davomat/internal/modules/conversation/port/in"
	conversationout "davomat/internal/modules/conversation/port/out"
	"davomat/internal/modules/conversation/service"
	notifydto "davomat/internal/modules/notify/dto"
	notifyin "davomat/internal/modules/notify/port/in"
	profiledto "davomat/internal/modules/profile/dto"
	profilein "davomat/internal/modules/profile/port/in"
	reportdto "davomat/internal/modules/report/dto"
	reportin "davomat/internal/modules/report/port/in"
	sessiondto "davomat/internal/modules/session/dto"
	sessionin "davomat/internal/modules/session/port/in"
	"davomat/internal/platform/clock"
	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/id"
	"davomat/internal/platform/logging"
)

const DefaultReplyTimeout = 10 * time.Second

// Limiter reports whether a sender is still within its message budget.
type Limiter interface {
	Allow(key string) bool
}

type Deps struct {
	Profiles profilein.Usecase
	Sessions sessionin.Usecase
	Notifier notifyin.Usecase
	Reports  reportin.Usecase
	States   conversationout.StateStore
	Replier  conversationout.Replier
	Limiter  Limiter
	Clock    clock.Clock
	Locale   clock.Locale
	AdminID  string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Machine applies transitions to inbound updates. Updates are expected one
// at a time from a single worker.
type Machine struct {
	profiles profilein.Usecase
	sessions sessionin.Usecase
	notifier notifyin.Usecase
	reports  reportin.Usecase
	states   conversationout.StateStore
	replier  conversationout.Replier
	limiter  Limiter
	clock    clock.Clock
	locale   clock.Locale
	adminID  string
	timeout  time.Duration
	log      *slog.Logger
}

func NewMachine(deps Deps) conversationin.Usecase {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = DefaultReplyTimeout
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Machine{
		profiles: deps.Profiles,
		sessions: deps.Sessions,
		notifier: deps.Notifier,
		reports:  deps.Reports,
		states:   deps.States,
		replier:  deps.Replier,
		limiter:  deps.Limiter,
		clock:    clk,
		locale:   deps.Locale,
		adminID:  id.Normalize(deps.AdminID),
		timeout:  timeout,
		log:      logger,
	}
}

// target identifies the chat and user an update belongs to.
type target struct {
	chatID int64
	userID string
}

func (m *Machine) Handle(ctx context.Context, input dto.UpdateInput) error {
	if !input.Private {
		m.log.Debug("ignoring non-private update", "chat", input.ChatID)
		return nil
	}
	userID := id.Normalize(input.UserID)
	if userID == "" {
		return fmt.Errorf("update without sender: %w", apperrors.ErrInvalidInput)
	}
	event, ok := toEvent(input)
	if !ok {
		m.log.Debug("ignoring unsupported update", "user", userID, "kind", input.Kind)
		return nil
	}

	snap := m.snapshot(ctx, userID, event)
	state, known, err := m.states.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load conversation state: %w", err)
	}
	if !known {
		state = restingState(snap)
	}

	next, effects := service.Transition(state, event, snap)
	to := target{chatID: input.ChatID, userID: userID}
	for _, effect := range effects {
		if err := m.apply(ctx, to, effect); err != nil {
			if override, stop := m.abort(ctx, to, effect, err); stop {
				if override != "" {
					next = override
				} else {
					next = state
				}
				break
			}
			m.log.Warn("conversation effect failed", "user", userID, "effect", fmt.Sprintf("%T", effect), "error", err)
		}
	}

	if next != state {
		m.log.Debug("conversation transition", "user", userID, "from", state, "to", next)
	}
	if err := m.states.Put(ctx, userID, next); err != nil {
		return fmt.Errorf("save conversation state: %w", err)
	}
	return nil
}

func (m *Machine) States(ctx context.Context) ([]dto.StateOutput, error) {
	states, err := m.states.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StateOutput, 0, len(states))
	for userID, state := range states {
		out = append(out, dto.StateOutput{UserID: userID, State: string(state)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// restingState is where a user without a recorded position resumes.
func restingState(s domain.Snapshot) domain.State {
	switch {
	case s.IsAdmin:
		return domain.StateAdminMenu
	case s.Registered:
		return domain.StateMainMenu
	}
	return domain.StateStart
}

func (m *Machine) snapshot(ctx context.Context, userID string, event domain.Event) domain.Snapshot {
	now := m.clock.Now()
	snap := domain.Snapshot{
		UserID:  userID,
		IsAdmin: m.adminID != "" && userID == m.adminID,
		Date:    m.locale.Date(now),
		Time:    m.locale.Time(now),
	}
	if event.Kind == domain.EventText && m.limiter != nil {
		snap.Throttled = !m.limiter.Allow(userID)
	}

	profile, err := m.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		fillProfile(&snap, profile)
	case !errors.Is(err, apperrors.ErrNotFound):
		m.log.Warn("profile lookup failed", "user", userID, "error", err)
	}

	session, err := m.sessions.GetOpen(ctx, userID)
	switch {
	case err == nil:
		snap.HasOpenSession = session.EndTime == ""
		snap.SessionObject = session.Object
	case !errors.Is(err, apperrors.ErrNoActiveSession):
		m.log.Warn("session lookup failed", "user", userID, "error", err)
	}
	return snap
}

func fillProfile(s *domain.Snapshot, p profiledto.ProfileOutput) {
	s.Registered = true
	s.Name = p.Name
	s.Phone = p.Phone
	s.PassportSerial = p.PassportSerial
	s.PassportPhotos = p.PassportPhotos
	s.DiplomaSerial = p.DiplomaSerial
	s.DiplomaPhotos = p.DiplomaPhotos
	s.CurrentObject = p.CurrentObject
	s.PendingObject = p.PendingObject
	s.ExpenseType = p.ExpenseType
	s.PendingExpense = p.PendingExpense
}

func (m *Machine) apply(ctx context.Context, to target, effect domain.Effect) error {
	user := to.userID
	var err error
	switch e := effect.(type) {
	case domain.Reply:
		err = m.reply(ctx, to.chatID, e.Text, e.Keyboard)
	case domain.Register:
		var out profiledto.RegisterOutput
		out, err = m.profiles.Register(ctx, profiledto.RegisterInput{UserID: user, Username: e.Username})
		if err == nil && out.Created {
			m.log.Info("worker registered", "user", user, "username", e.Username)
		}
	case domain.SetName:
		_, err = m.profiles.SetName(ctx, user, e.Name)
	case domain.SetPhone:
		if e.Contact {
			_, err = m.profiles.SetContactPhone(ctx, user, e.Phone)
		} else {
			_, err = m.profiles.SetPhone(ctx, user, e.Phone)
		}
	case domain.SetPassportSerial:
		_, err = m.profiles.SetPassportSerial(ctx, user, e.Serial)
	case domain.AddPassportPhoto:
		_, err = m.profiles.AddPassportPhoto(ctx, user, e.FileID)
	case domain.ResetPassportPhotos:
		_, err = m.profiles.ResetPassportPhotos(ctx, user)
	case domain.SetDiplomaSerial:
		_, err = m.profiles.SetDiplomaSerial(ctx, user, e.Serial)
	case domain.AddDiplomaPhoto:
		_, err = m.profiles.AddDiplomaPhoto(ctx, user, e.FileID)
	case domain.ResetDiplomaPhotos:
		_, err = m.profiles.ResetDiplomaPhotos(ctx, user)
	case domain.SkipDiploma:
		_, err = m.profiles.SkipDiploma(ctx, user)
	case domain.SetLastLocation:
		_, err = m.profiles.SetLastLocation(ctx, user, e.Latitude, e.Longitude)
	case domain.SetPendingObject:
		_, err = m.profiles.SetPendingObject(ctx, user, e.Object)
	case domain.ClearShift:
		_, err = m.profiles.ClearShift(ctx, user)
	case domain.SetExpenseType:
		_, err = m.profiles.SetExpenseType(ctx, user, e.ExpenseType)
	case domain.SetPendingExpense:
		_, err = m.profiles.SetPendingExpense(ctx, user, e.Name)
	case domain.ClearPendingExpense:
		_, err = m.profiles.ClearPendingExpense(ctx, user)
	case domain.StartSession:
		_, err = m.sessions.Start(ctx, sessiondto.StartInput{UserID: user, Object: e.Object})
		if err == nil {
			m.log.Info("shift started", "user", user, "object", e.Object)
		}
	case domain.SetStartLocation:
		_, err = m.sessions.SetStartLocation(ctx, sessiondto.LocationInput{UserID: user, Latitude: e.Latitude, Longitude: e.Longitude})
	case domain.EndSession:
		var record sessiondto.ArchivedOutput
		record, err = m.sessions.End(ctx, sessiondto.EndInput{UserID: user, Object: e.Object, Latitude: e.Latitude, Longitude: e.Longitude})
		if err == nil {
			m.log.Info("shift ended", "user", user, "object", record.Object, "duration", record.Duration)
		}
	case domain.RecordExpense:
		_, err = m.sessions.RecordExpense(ctx, sessiondto.ExpenseInput{UserID: user, Category: e.Category, Amount: e.Amount, Name: e.Name})
	case domain.RecordComment:
		_, err = m.sessions.RecordComment(ctx, user, e.Text)
	case domain.RecordVideo:
		_, err = m.sessions.RecordVideo(ctx, user)
	case domain.Notify:
		m.notifier.Broadcast(ctx, notifydto.PayloadInput{
			Kind:      string(e.Kind),
			Text:      e.Text,
			FileID:    e.FileID,
			Length:    e.Length,
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
		})
	case domain.SendDailyExport:
		err = m.sendFile(ctx, to.chatID, domain.TextExportFailed, func() (reportdto.FileOutput, error) {
			return m.reports.WriteRange(ctx, reportdto.RangeInput{})
		})
	case domain.SendWorkerList:
		err = m.sendFile(ctx, to.chatID, domain.TextWorkersFailed, func() (reportdto.FileOutput, error) {
			return m.reports.WriteWorkers(ctx)
		})
	default:
		err = fmt.Errorf("unknown effect %T", effect)
	}
	return err
}

// abort decides whether a failed effect aborts the rest of the update. A
// non-empty state overrides the transition; an empty one keeps the current
// state so the user can retry the step.
func (m *Machine) abort(ctx context.Context, to target, effect domain.Effect, err error) (domain.State, bool) {
	switch effect.(type) {
	case domain.StartSession:
		if errors.Is(err, apperrors.ErrActiveSessionExists) {
			m.replyQuietly(ctx, to, domain.TextAlreadyStarted, domain.WorkerMenu())
			return domain.StateMainMenu, true
		}
	case domain.EndSession:
		if errors.Is(err, apperrors.ErrNoActiveSession) || errors.Is(err, apperrors.ErrNotFound) {
			m.replyQuietly(ctx, to, domain.TextNotStarted, domain.WorkerMenu())
			return domain.StateMainMenu, true
		}
	default:
		return "", false
	}
	m.log.Error("shift update failed", "user", to.userID, "effect", fmt.Sprintf("%T", effect), "error", err)
	m.replyQuietly(ctx, to, domain.TextActionFailed, nil)
	return "", true
}

func (m *Machine) sendFile(ctx context.Context, chatID int64, failure string, write func() (reportdto.FileOutput, error)) error {
	file, err := write()
	if err != nil {
		m.replyQuietly(ctx, target{chatID: chatID}, failure, domain.AdminMenu())
		return err
	}
	if file.Path == "" {
		return m.reply(ctx, chatID, domain.TextNoWorkerData, domain.AdminMenu())
	}
	defer func() {
		if rmErr := os.Remove(file.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			m.log.Warn("remove export file", "path", file.Path, "error", rmErr)
		}
	}()
	sendCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.replier.ReplyDocument(sendCtx, chatID, file.Path, file.Caption); err != nil {
		m.replyQuietly(ctx, target{chatID: chatID}, failure, domain.AdminMenu())
		return err
	}
	return m.reply(ctx, chatID, domain.TextFileSent, domain.AdminMenu())
}

func (m *Machine) reply(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) error {
	sendCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.replier.Reply(sendCtx, chatID, text, keyboard)
}

func (m *Machine) replyQuietly(ctx context.Context, to target, text string, keyboard *domain.Keyboard) {
	if err := m.reply(ctx, to.chatID, text, keyboard); err != nil {
		m.log.Warn("reply failed", "chat", to.chatID, "error", err)
	}
}

func toEvent(input dto.UpdateInput) (domain.Event, bool) {
	kind := domain.EventKind(input.Kind)
	switch kind {
	case domain.EventStart, domain.EventText, domain.EventContact, domain.EventPhoto,
		domain.EventVideo, domain.EventVideoNote, domain.EventLocation:
	default:
		return domain.Event{}, false
	}
	return domain.Event{
		Kind:      kind,
		Username:  input.Username,
		Text:      input.Text,
		Phone:     input.Phone,
		FileID:    input.FileID,
		Length:    input.Length,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}, true
}
