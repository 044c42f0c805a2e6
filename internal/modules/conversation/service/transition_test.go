package service_test

import (
	"reflect"
	"strings"
	"testing"

	"davomat/internal/modules/conversation/domain"
	"davomat/internal/modules/conversation/service"
	notifydomain "davomat/internal/modules/notify/domain"
)

func worker() domain.Snapshot {
	return domain.Snapshot{
		UserID:     "42",
		Registered: true,
		Name:       "Ali Valiyev",
		Phone:      "998901234567",
		Date:       "2024-05-01",
		Time:       "08:00:00",
	}
}

func text(s string) domain.Event {
	return domain.Event{Kind: domain.EventText, Text: s}
}

func replies(effects []domain.Effect) []string {
	var out []string
	for _, e := range effects {
		if r, ok := e.(domain.Reply); ok {
			out = append(out, r.Text)
		}
	}
	return out
}

func notices(effects []domain.Effect) []domain.Notify {
	var out []domain.Notify
	for _, e := range effects {
		if n, ok := e.(domain.Notify); ok {
			out = append(out, n)
		}
	}
	return out
}

func TestStartRoutesByRole(t *testing.T) {
	t.Parallel()

	next, effects := service.Transition(domain.StateStart, domain.Event{Kind: domain.EventStart, Username: "ali"}, domain.Snapshot{UserID: "42"})
	if next != domain.StateAwaitingName {
		t.Fatalf("expected awaiting_name, got %s", next)
	}
	if !reflect.DeepEqual(effects[0], domain.Register{Username: "ali"}) {
		t.Fatalf("expected register effect first, got %#v", effects[0])
	}

	next, _ = service.Transition(domain.StateStart, domain.Event{Kind: domain.EventStart}, worker())
	if next != domain.StateMainMenu {
		t.Fatalf("expected main_menu for known worker, got %s", next)
	}

	admin := worker()
	admin.IsAdmin = true
	next, effects = service.Transition(domain.StateMainMenu, domain.Event{Kind: domain.EventStart}, admin)
	if next != domain.StateAdminMenu || replies(effects)[0] != domain.TextAdminMenu {
		t.Fatalf("expected admin menu, got %s %v", next, replies(effects))
	}
}

func TestRegistrationWalkthrough(t *testing.T) {
	t.Parallel()
	s := domain.Snapshot{UserID: "42"}

	state, _ := service.Transition(domain.StateStart, domain.Event{Kind: domain.EventStart}, s)
	state, effects := service.Transition(state, text("Ali Valiyev"), s)
	if state != domain.StateAwaitingPhone || !reflect.DeepEqual(effects[0], domain.SetName{Name: "Ali Valiyev"}) {
		t.Fatalf("unexpected name step: %s %#v", state, effects)
	}
	s.Name = "Ali Valiyev"

	state, effects = service.Transition(state, text("90 123 45 67"), s)
	if state != domain.StateAwaitingPhone || replies(effects)[0] != domain.TextBadPhone {
		t.Fatalf("expected phone retry, got %s %v", state, replies(effects))
	}
	state, _ = service.Transition(state, text("+998 90 123 45 67"), s)
	if state != domain.StateAwaitingPassportSerial {
		t.Fatalf("expected passport serial, got %s", state)
	}
	s.Phone = "998901234567"

	state, effects = service.Transition(state, text("AA1234567"), s)
	if state != domain.StateAwaitingPassportPhoto {
		t.Fatalf("expected passport photo, got %s", state)
	}
	if _, ok := effects[1].(domain.ResetPassportPhotos); !ok {
		t.Fatalf("expected photos reset, got %#v", effects)
	}
	s.PassportSerial = "AA1234567"

	state, effects = service.Transition(state, domain.Event{Kind: domain.EventPhoto, FileID: "p1"}, s)
	if state != domain.StateAwaitingPassportPhoto || replies(effects)[0] != domain.PhotoProgress(1) {
		t.Fatalf("expected progress, got %s %v", state, replies(effects))
	}
	s.PassportPhotos = []string{"p1"}

	state, effects = service.Transition(state, domain.Event{Kind: domain.EventPhoto, FileID: "p2"}, s)
	if state != domain.StateAwaitingDiplomaOrSkip {
		t.Fatalf("expected diploma choice, got %s", state)
	}
	sent := notices(effects)
	if len(sent) != 2 || sent[0].FileID != "p1" || sent[1].FileID != "p2" || sent[1].Kind != notifydomain.KindPhoto {
		t.Fatalf("expected both photos forwarded, got %#v", sent)
	}
	if !strings.HasPrefix(sent[1].Text, "PASPORT RASMI (2/2)") {
		t.Fatalf("unexpected caption %q", sent[1].Text)
	}

	state, effects = service.Transition(state, text(domain.ButtonNoDiploma), s)
	if state != domain.StateMainMenu {
		t.Fatalf("expected main menu after skip, got %s", state)
	}
	if _, ok := effects[0].(domain.SkipDiploma); !ok {
		t.Fatalf("expected skip effect, got %#v", effects)
	}
	if notices(effects)[0].Text != "DIPLOM MAVJUD EMAS\n\nIsm: Ali Valiyev\nTel: 998901234567" {
		t.Fatalf("unexpected notice %q", notices(effects)[0].Text)
	}
}

func TestContactAcceptedOnlyWhileAskingPhone(t *testing.T) {
	t.Parallel()
	contact := domain.Event{Kind: domain.EventContact, Phone: "901234567"}

	next, effects := service.Transition(domain.StateAwaitingPhone, contact, worker())
	if next != domain.StateAwaitingPassportSerial || !reflect.DeepEqual(effects[0], domain.SetPhone{Phone: "901234567", Contact: true}) {
		t.Fatalf("unexpected contact handling: %s %#v", next, effects)
	}
	next, effects = service.Transition(domain.StateMainMenu, contact, worker())
	if next != domain.StateMainMenu || len(effects) != 0 {
		t.Fatalf("expected contact ignored, got %s %#v", next, effects)
	}
}

func TestTooManyPhotosRestartsStep(t *testing.T) {
	t.Parallel()
	s := worker()
	s.DiplomaPhotos = []string{"d1", "d2"}

	next, effects := service.Transition(domain.StateAwaitingDiplomaPhoto, domain.Event{Kind: domain.EventPhoto, FileID: "d3"}, s)
	if next != domain.StateAwaitingDiplomaOrSkip {
		t.Fatalf("expected diploma choice, got %s", next)
	}
	if _, ok := effects[0].(domain.ResetDiplomaPhotos); !ok {
		t.Fatalf("expected reset, got %#v", effects)
	}
	if got := replies(effects); got[0] != domain.TextTooManyPhotos || got[1] != domain.TextAskDiplomaAgain {
		t.Fatalf("unexpected replies %v", got)
	}
}

func TestShiftStartAndEnd(t *testing.T) {
	t.Parallel()
	s := worker()

	state, _ := service.Transition(domain.StateMainMenu, text(domain.ButtonStartWork), s)
	if state != domain.StateAwaitingObjectStart {
		t.Fatalf("expected object prompt, got %s", state)
	}
	state, effects := service.Transition(state, text("Chilonzor 5"), s)
	if state != domain.StateAwaitingStartLocation || !reflect.DeepEqual(effects[0], domain.StartSession{Object: "Chilonzor 5"}) {
		t.Fatalf("unexpected start: %s %#v", state, effects)
	}
	s.HasOpenSession = true
	s.SessionObject = "Chilonzor 5"
	s.CurrentObject = "Chilonzor 5"

	state, effects = service.Transition(state, domain.Event{Kind: domain.EventLocation, Latitude: 41.3, Longitude: 69.2}, s)
	if state != domain.StateMainMenu {
		t.Fatalf("expected main menu, got %s", state)
	}
	wantStart := []domain.Effect{
		domain.SetLastLocation{Latitude: 41.3, Longitude: 69.2},
		domain.SetStartLocation{Latitude: 41.3, Longitude: 69.2},
	}
	if !reflect.DeepEqual(effects[:2], wantStart) {
		t.Fatalf("unexpected location effects %#v", effects[:2])
	}
	n := notices(effects)[0]
	if n.Kind != notifydomain.KindLocation || !strings.HasSuffix(n.Text, "Obyekt: Chilonzor 5\nLokatsiya: https://www.google.com/maps?q=41.3,69.2") {
		t.Fatalf("unexpected start notice %#v", n)
	}

	state, effects = service.Transition(state, text(domain.ButtonStartWork), s)
	if state != domain.StateMainMenu || replies(effects)[0] != domain.TextAlreadyStarted {
		t.Fatalf("expected refusal, got %s %v", state, replies(effects))
	}

	state, effects = service.Transition(state, text(domain.ButtonEndWork), s)
	if state != domain.StateAwaitingObjectEnd {
		t.Fatalf("expected object confirmation, got %s", state)
	}
	kb := effects[0].(domain.Reply).Keyboard
	if kb == nil || kb.Rows[0][0].Text != "Chilonzor 5" {
		t.Fatalf("expected current object offered, got %#v", kb)
	}
	state, _ = service.Transition(state, text("Chilonzor 6"), s)
	s.PendingObject = "Chilonzor 6"

	state, effects = service.Transition(state, domain.Event{Kind: domain.EventLocation, Latitude: 41.4, Longitude: 69.3}, s)
	if state != domain.StateMainMenu {
		t.Fatalf("expected main menu, got %s", state)
	}
	if !reflect.DeepEqual(effects[1], domain.EndSession{Object: "Chilonzor 6", Latitude: 41.4, Longitude: 69.3}) {
		t.Fatalf("unexpected end effect %#v", effects[1])
	}
	if _, ok := effects[3].(domain.ClearShift); !ok {
		t.Fatalf("expected shift cleared after notice, got %#v", effects)
	}
	if replies(effects)[0] != domain.TextEndRecorded {
		t.Fatalf("unexpected reply %v", replies(effects))
	}
}

func TestEndRefusedWithoutSession(t *testing.T) {
	t.Parallel()
	next, effects := service.Transition(domain.StateMainMenu, text(domain.ButtonEndWork), worker())
	if next != domain.StateMainMenu || replies(effects)[0] != domain.TextNotStarted {
		t.Fatalf("expected refusal, got %s %v", next, replies(effects))
	}
}

func TestExpenseFlows(t *testing.T) {
	t.Parallel()
	s := worker()
	s.SessionObject = "Yunusobod"

	state, _ := service.Transition(domain.StateMainMenu, text(domain.ButtonExpenses), s)
	state, effects := service.Transition(state, text(domain.ButtonTaxi), s)
	if state != domain.StateAwaitingExpenseAmount || !reflect.DeepEqual(effects[0], domain.SetExpenseType{ExpenseType: "Taxi"}) {
		t.Fatalf("unexpected taxi selection %s %#v", state, effects)
	}
	s.ExpenseType = "Taxi"

	state, effects = service.Transition(state, text("abc"), s)
	if state != domain.StateAwaitingExpenseAmount || replies(effects)[0] != domain.TextNumbersOnly {
		t.Fatalf("expected retry, got %s %v", state, replies(effects))
	}
	state, effects = service.Transition(state, text("15000"), s)
	if state != domain.StateExpenseMenu {
		t.Fatalf("expected expense menu, got %s", state)
	}
	if !reflect.DeepEqual(effects[0], domain.RecordExpense{Category: "taxi", Amount: "15000"}) {
		t.Fatalf("unexpected record %#v", effects[0])
	}
	if !strings.Contains(notices(effects)[0].Text, "Turi: Taxi\nSumma: 15000 so'm\nObyekt: Yunusobod") {
		t.Fatalf("unexpected notice %q", notices(effects)[0].Text)
	}

	state, _ = service.Transition(state, text(domain.ButtonOther), s)
	state, _ = service.Transition(state, text("Sement"), s)
	if state != domain.StateAwaitingOtherExpenseAmount {
		t.Fatalf("expected other amount, got %s", state)
	}
	s.PendingExpense = "Sement"
	state, effects = service.Transition(state, text("70000"), s)
	if state != domain.StateExpenseMenu {
		t.Fatalf("expected expense menu, got %s", state)
	}
	if !reflect.DeepEqual(effects[0], domain.RecordExpense{Category: "other", Amount: "70000", Name: "Sement"}) {
		t.Fatalf("unexpected record %#v", effects[0])
	}
	if !strings.HasPrefix(notices(effects)[0].Text, "XARAJAT (Boshqalar)") {
		t.Fatalf("unexpected notice %q", notices(effects)[0].Text)
	}
	if _, ok := effects[2].(domain.ClearPendingExpense); !ok {
		t.Fatalf("expected pending name cleared, got %#v", effects)
	}

	state, _ = service.Transition(state, text(domain.ButtonBack), s)
	if state != domain.StateMainMenu {
		t.Fatalf("expected main menu, got %s", state)
	}
}

func TestAdvanceWithoutSessionReportsNoObject(t *testing.T) {
	t.Parallel()
	state, effects := service.Transition(domain.StateAwaitingAdvanceAmount, text("50000"), worker())
	if state != domain.StateMainMenu {
		t.Fatalf("expected main menu, got %s", state)
	}
	want := "AVANS SO'ROVI\n\nIsm: Ali Valiyev\nTel: 998901234567\nSana: 2024-05-01\nVaqt: 08:00:00\nSumma: 50000 so'm\nObyekt: Yo'q"
	if notices(effects)[0].Text != want {
		t.Fatalf("unexpected notice %q", notices(effects)[0].Text)
	}
}

func TestVideoHandling(t *testing.T) {
	t.Parallel()
	s := worker()

	state, effects := service.Transition(domain.StateAwaitingLiveVideo, domain.Event{Kind: domain.EventVideo}, s)
	if state != domain.StateAwaitingLiveVideo || replies(effects)[0] != domain.TextGalleryVideo {
		t.Fatalf("expected gallery refusal, got %s %v", state, replies(effects))
	}
	for _, other := range []domain.State{domain.StateMainMenu, domain.StateAwaitingComment} {
		if next, effects := service.Transition(other, domain.Event{Kind: domain.EventVideo}, s); next != other || len(effects) != 0 {
			t.Fatalf("gallery video in %s should be ignored, got %s %#v", other, next, effects)
		}
	}
	state, effects = service.Transition(state, domain.Event{Kind: domain.EventVideoNote, FileID: "v1", Length: 240}, s)
	if state != domain.StateMainMenu {
		t.Fatalf("expected main menu, got %s", state)
	}
	if _, ok := effects[0].(domain.RecordVideo); !ok {
		t.Fatalf("expected video flag, got %#v", effects)
	}
	n := notices(effects)[0]
	if n.Kind != notifydomain.KindVideoNote || n.FileID != "v1" || n.Length != 240 {
		t.Fatalf("unexpected notice %#v", n)
	}
}

func TestThrottledTextKeepsState(t *testing.T) {
	t.Parallel()
	s := worker()
	s.Throttled = true
	next, effects := service.Transition(domain.StateAwaitingComment, text("salom"), s)
	if next != domain.StateAwaitingComment || len(effects) != 1 || replies(effects)[0] != domain.TextSpam {
		t.Fatalf("expected warning only, got %s %#v", next, effects)
	}
}

func TestAdminCommands(t *testing.T) {
	t.Parallel()
	admin := worker()
	admin.IsAdmin = true

	next, effects := service.Transition(domain.StateAdminMenu, text(domain.ButtonDailyExport), admin)
	if next != domain.StateAdminMenu {
		t.Fatalf("expected admin menu, got %s", next)
	}
	if _, ok := effects[1].(domain.SendDailyExport); !ok {
		t.Fatalf("expected export effect, got %#v", effects)
	}
	_, effects = service.Transition(domain.StateAdminMenu, text(domain.ButtonWorkerList), admin)
	if _, ok := effects[1].(domain.SendWorkerList); !ok {
		t.Fatalf("expected worker list effect, got %#v", effects)
	}
	_, effects = service.Transition(domain.StateMainMenu, text(domain.ButtonWorkerList), worker())
	if replies(effects)[0] != domain.TextUseMenu {
		t.Fatalf("expected workers to be refused admin commands, got %v", replies(effects))
	}
}

func TestLocationOutsideShiftOnlyUpdatesProfile(t *testing.T) {
	t.Parallel()
	next, effects := service.Transition(domain.StateMainMenu, domain.Event{Kind: domain.EventLocation, Latitude: 1, Longitude: 2}, worker())
	if next != domain.StateMainMenu || !reflect.DeepEqual(effects, []domain.Effect{domain.SetLastLocation{Latitude: 1, Longitude: 2}}) {
		t.Fatalf("unexpected effects %s %#v", next, effects)
	}
}

func TestUnknownTextInExpenseMenuIsIgnored(t *testing.T) {
	t.Parallel()
	next, effects := service.Transition(domain.StateExpenseMenu, text("salom"), worker())
	if next != domain.StateExpenseMenu || len(effects) != 0 {
		t.Fatalf("expected silence, got %s %#v", next, effects)
	}
}
