package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	conversationout "davomat/internal/modules/conversation/adapter/out"
	"davomat/internal/modules/conversation/domain"
	"davomat/internal/modules/conversation/dto"
	conversationin "davomat/internal/modules/conversation/port/in"
	"davomat/internal/modules/conversation/usecase"
	notifydto "davomat/internal/modules/notify/dto"
	profileout "davomat/internal/modules/profile/adapter/out"
	profiledto "davomat/internal/modules/profile/dto"
	profilein "davomat/internal/modules/profile/port/in"
	profileservice "davomat/internal/modules/profile/service"
	profileusecase "davomat/internal/modules/profile/usecase"
	reportdto "davomat/internal/modules/report/dto"
	sessionout "davomat/internal/modules/session/adapter/out"
	sessiondomain "davomat/internal/modules/session/domain"
	sessiondto "davomat/internal/modules/session/dto"
	sessionin "davomat/internal/modules/session/port/in"
	sessionservice "davomat/internal/modules/session/service"
	sessionusecase "davomat/internal/modules/session/usecase"
	"davomat/internal/platform/clock"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return fmt.Sprintf("rec-%d", s.n)
}

type sentReply struct {
	chatID   int64
	text     string
	keyboard *domain.Keyboard
}

type recordingReplier struct {
	replies   []sentReply
	documents []string
}

func (r *recordingReplier) Reply(_ context.Context, chatID int64, text string, keyboard *domain.Keyboard) error {
	r.replies = append(r.replies, sentReply{chatID: chatID, text: text, keyboard: keyboard})
	return nil
}

func (r *recordingReplier) ReplyDocument(_ context.Context, _ int64, path, caption string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	r.documents = append(r.documents, path+"|"+caption)
	return nil
}

func (r *recordingReplier) last() string {
	if len(r.replies) == 0 {
		return ""
	}
	return r.replies[len(r.replies)-1].text
}

type recordingNotifier struct {
	broadcasts []notifydto.PayloadInput
}

func (n *recordingNotifier) Broadcast(_ context.Context, payload notifydto.PayloadInput) notifydto.ReportOutput {
	n.broadcasts = append(n.broadcasts, payload)
	return notifydto.ReportOutput{}
}

func (n *recordingNotifier) Admin(_ context.Context, payload notifydto.PayloadInput) notifydto.ReportOutput {
	return notifydto.ReportOutput{}
}

type fakeReports struct {
	file reportdto.FileOutput
	err  error
}

func (f *fakeReports) ExportRange(context.Context, reportdto.RangeInput) ([]reportdto.RowOutput, error) {
	return nil, nil
}

func (f *fakeReports) WriteRange(context.Context, reportdto.RangeInput) (reportdto.FileOutput, error) {
	return f.file, f.err
}

func (f *fakeReports) ListWorkers(context.Context) ([]reportdto.WorkerOutput, error) {
	return nil, nil
}

func (f *fakeReports) WriteWorkers(context.Context) (reportdto.FileOutput, error) {
	return f.file, f.err
}

func (f *fakeReports) AppendToRoster(context.Context, sessiondomain.ArchivedSession) (int, error) {
	return 0, nil
}

func (f *fakeReports) SendDaily(context.Context) error {
	return nil
}

type fakeRoster struct {
	count int
	fail  error
}

func (r *fakeRoster) Append(context.Context, sessiondomain.ArchivedSession) error {
	if r.fail != nil {
		return r.fail
	}
	r.count++
	return nil
}

type allowFunc func(string) bool

func (f allowFunc) Allow(key string) bool { return f(key) }

type fixture struct {
	clock    *stepClock
	zone     *time.Location
	profiles profilein.Usecase
	sessions sessionin.Usecase
	archive  *sessionout.MemoryArchiveStore
	roster   *fakeRoster
	states   *conversationout.MemoryStateStore
	replier  *recordingReplier
	notifier *recordingNotifier
	reports  *fakeReports
	throttle bool
	machine  conversationin.Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	locale, err := clock.NewLocale("Asia/Samarkand")
	if err != nil {
		t.Fatalf("locale: %v", err)
	}
	f := &fixture{
		clock:    &stepClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, locale.Zone)},
		zone:     locale.Zone,
		archive:  sessionout.NewMemoryArchiveStore(),
		roster:   &fakeRoster{},
		states:   conversationout.NewMemoryStateStore(),
		replier:  &recordingReplier{},
		notifier: &recordingNotifier{},
		reports:  &fakeReports{},
	}
	f.profiles = profileusecase.NewInteractor(profileservice.NewProfileService(f.clock), profileout.NewMemoryProfileStore())
	f.sessions = sessionusecase.NewInteractor(sessionusecase.Deps{
		Service:  sessionservice.NewSessionService(f.clock, locale, &seqIDs{}),
		Sessions: sessionout.NewMemoryOpenSessionStore(),
		Archive:  f.archive,
		Roster:   f.roster,
		Profiles: sessionout.NewProfileDirectoryAdapter(f.profiles),
	})
	f.machine = usecase.NewMachine(usecase.Deps{
		Profiles: f.profiles,
		Sessions: f.sessions,
		Notifier: f.notifier,
		Reports:  f.reports,
		States:   f.states,
		Replier:  f.replier,
		Limiter:  allowFunc(func(string) bool { return !f.throttle }),
		Clock:    f.clock,
		Locale:   locale,
		AdminID:  "1",
	})
	return f
}

func (f *fixture) send(t *testing.T, userID string, update dto.UpdateInput) {
	t.Helper()
	update.UserID = userID
	update.ChatID = 100
	update.Private = true
	if err := f.machine.Handle(context.Background(), update); err != nil {
		t.Fatalf("handle %s: %v", update.Kind, err)
	}
}

func (f *fixture) say(t *testing.T, userID, text string) {
	t.Helper()
	f.send(t, userID, dto.UpdateInput{Kind: "text", Text: text})
}

func (f *fixture) state(t *testing.T, userID string) domain.State {
	t.Helper()
	state, _, err := f.states.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	return state
}

func TestRegistrationAndFullShift(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.send(t, "42", dto.UpdateInput{Kind: "start", Username: "ali"})
	f.say(t, "42", "Ali Valiyev")
	f.send(t, "42", dto.UpdateInput{Kind: "contact", Phone: "+998 90 123 45 67"})
	f.say(t, "42", "AA1234567")
	f.send(t, "42", dto.UpdateInput{Kind: "photo", FileID: "p1"})
	f.send(t, "42", dto.UpdateInput{Kind: "photo", FileID: "p2"})
	f.say(t, "42", domain.ButtonNoDiploma)

	if got := f.state(t, "42"); got != domain.StateMainMenu {
		t.Fatalf("expected main menu after registration, got %s", got)
	}
	profile, err := f.profiles.Get(ctx, "42")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Name != "Ali Valiyev" || profile.Phone != "998901234567" || len(profile.PassportPhotos) != 2 || profile.HasDiploma {
		t.Fatalf("unexpected profile %+v", profile)
	}

	f.say(t, "42", domain.ButtonStartWork)
	f.say(t, "42", "Chilonzor 5")
	f.send(t, "42", dto.UpdateInput{Kind: "location", Latitude: 41.3, Longitude: 69.2})
	if f.replier.last() != domain.TextStartRecorded {
		t.Fatalf("expected start confirmation, got %q", f.replier.last())
	}

	f.clock.Set(time.Date(2024, 5, 1, 17, 30, 0, 0, f.zone))
	f.say(t, "42", domain.ButtonEndWork)
	confirm := f.replier.replies[len(f.replier.replies)-1]
	if confirm.keyboard == nil || confirm.keyboard.Rows[0][0].Text != "Chilonzor 5" {
		t.Fatalf("expected object offered, got %#v", confirm.keyboard)
	}
	f.say(t, "42", "Chilonzor 5")
	f.send(t, "42", dto.UpdateInput{Kind: "location", Latitude: 41.4, Longitude: 69.3})

	if f.replier.last() != domain.TextEndRecorded {
		t.Fatalf("expected end confirmation, got %q", f.replier.last())
	}
	records, err := f.archive.List(ctx)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if len(records) != 1 || f.roster.count != 1 {
		t.Fatalf("expected one archived shift, got %d (roster %d)", len(records), f.roster.count)
	}
	rec := records[0]
	if rec.Object != "Chilonzor 5" || rec.Duration != "9 soat 30 daqiqa" || rec.Name != "Ali Valiyev" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.StartLocation != "https://www.google.com/maps?q=41.3,69.2" {
		t.Fatalf("unexpected start location %q", rec.StartLocation)
	}
	if _, err := f.sessions.GetOpen(ctx, "42"); err == nil {
		t.Fatalf("expected session closed")
	}
	profile, _ = f.profiles.Get(ctx, "42")
	if profile.CurrentObject != "" || profile.PendingObject != "" {
		t.Fatalf("expected shift scratch cleared, got %+v", profile)
	}

	kinds := []string{}
	for _, b := range f.notifier.broadcasts {
		kinds = append(kinds, b.Kind)
	}
	want := []string{"photo", "photo", "text", "location", "location"}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("expected broadcasts %v, got %v", want, kinds)
	}
}

func TestFailedEndKeepsStepForRetry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.profiles.Register(ctx, profiledto.RegisterInput{UserID: "42", Username: "ali"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.sessions.Start(ctx, sessiondto.StartInput{UserID: "42", Object: "Sergeli"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.states.Put(ctx, "42", domain.StateAwaitingEndLocation); err != nil {
		t.Fatalf("put state: %v", err)
	}
	f.archive.FailAppend = errors.New("disk full")

	f.send(t, "42", dto.UpdateInput{Kind: "location", Latitude: 1, Longitude: 2})
	if f.replier.last() != domain.TextActionFailed {
		t.Fatalf("expected failure reply, got %q", f.replier.last())
	}
	if got := f.state(t, "42"); got != domain.StateAwaitingEndLocation {
		t.Fatalf("expected step kept, got %s", got)
	}
	if len(f.notifier.broadcasts) != 0 {
		t.Fatalf("expected no end notice, got %d", len(f.notifier.broadcasts))
	}

	f.archive.FailAppend = nil
	f.send(t, "42", dto.UpdateInput{Kind: "location", Latitude: 1, Longitude: 2})
	if got := f.state(t, "42"); got != domain.StateMainMenu {
		t.Fatalf("expected main menu after retry, got %s", got)
	}
	records, _ := f.archive.List(ctx)
	if len(records) != 1 || records[0].Object != "Sergeli" {
		t.Fatalf("expected one archived shift, got %+v", records)
	}
}

func TestRegisteredUserResumesAtMainMenu(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	if _, err := f.profiles.Register(context.Background(), profiledto.RegisterInput{UserID: "42", Username: "ali"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	f.say(t, "42", domain.ButtonStartWork)
	if got := f.state(t, "42"); got != domain.StateAwaitingObjectStart {
		t.Fatalf("expected object prompt, got %s", got)
	}
}

func TestNonPrivateUpdatesAreIgnored(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	err := f.machine.Handle(context.Background(), dto.UpdateInput{ChatID: -5, UserID: "42", Kind: "start"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(f.replier.replies) != 0 {
		t.Fatalf("expected silence, got %+v", f.replier.replies)
	}
	if _, known, _ := f.states.Get(context.Background(), "42"); known {
		t.Fatalf("expected no state recorded")
	}
}

func TestThrottledSenderIsWarned(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.throttle = true
	f.say(t, "42", "salom")
	if f.replier.last() != domain.TextSpam {
		t.Fatalf("expected warning, got %q", f.replier.last())
	}
	if got := f.state(t, "42"); got != domain.StateStart {
		t.Fatalf("expected start state kept, got %s", got)
	}
}

func TestAdminDailyExportSendsAndRemovesFile(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "export.xlsx")
	if err := os.WriteFile(path, []byte("xlsx"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.reports.file = reportdto.FileOutput{Path: path, Rows: 3, Caption: "hisobot"}

	f.say(t, "1", domain.ButtonDailyExport)
	if len(f.replier.documents) != 1 || f.replier.documents[0] != path+"|hisobot" {
		t.Fatalf("expected document sent, got %v", f.replier.documents)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected export removed, got %v", err)
	}
	if f.replier.replies[0].text != domain.TextPreparingExport || f.replier.last() != domain.TextFileSent {
		t.Fatalf("unexpected replies %+v", f.replier.replies)
	}
	if got := f.state(t, "1"); got != domain.StateAdminMenu {
		t.Fatalf("expected admin menu, got %s", got)
	}
}

func TestAdminExportWithoutData(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.say(t, "1", domain.ButtonWorkerList)
	if f.replier.last() != domain.TextNoWorkerData || len(f.replier.documents) != 0 {
		t.Fatalf("expected no-data reply, got %q", f.replier.last())
	}

	f.reports.err = errors.New("boom")
	f.say(t, "1", domain.ButtonDailyExport)
	if f.replier.last() != domain.TextExportFailed {
		t.Fatalf("expected failure reply, got %q", f.replier.last())
	}
}

func TestStatesAreListedByUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.send(t, "7", dto.UpdateInput{Kind: "start"})
	f.send(t, "1", dto.UpdateInput{Kind: "start"})
	states, err := f.machine.States(context.Background())
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	if len(states) != 2 || states[0].UserID != "1" || states[0].State != "admin_menu" || states[1].State != "awaiting_name" {
		t.Fatalf("unexpected states %+v", states)
	}
}
