package service

import (
	"strings"

	"davomat/internal/modules/conversation/domain"
	notifydomain "davomat/internal/modules/notify/domain"
	profiledomain "davomat/internal/modules/profile/domain"
	sessiondomain "davomat/internal/modules/session/domain"
)

// Transition decides the next state and the effects for one event. It never
// performs I/O; the caller executes the effects in order.
func Transition(state domain.State, event domain.Event, s domain.Snapshot) (domain.State, []domain.Effect) {
	switch event.Kind {
	case domain.EventStart:
		return onStart(event, s)
	case domain.EventText:
		return onText(state, strings.TrimSpace(event.Text), s)
	case domain.EventContact:
		return onContact(state, event)
	case domain.EventPhoto:
		return onPhoto(state, event, s)
	case domain.EventVideo:
		if state != domain.StateAwaitingLiveVideo {
			return state, nil
		}
		return state, []domain.Effect{domain.Reply{Text: domain.TextGalleryVideo}}
	case domain.EventVideoNote:
		return onVideoNote(state, event, s)
	case domain.EventLocation:
		return onLocation(state, event, s)
	}
	return state, nil
}

func onStart(event domain.Event, s domain.Snapshot) (domain.State, []domain.Effect) {
	if s.IsAdmin {
		return domain.StateAdminMenu, []domain.Effect{domain.Reply{Text: domain.TextAdminMenu, Keyboard: domain.AdminMenu()}}
	}
	if s.Registered {
		return domain.StateMainMenu, []domain.Effect{domain.Reply{Text: domain.TextWelcomeBack, Keyboard: domain.WorkerMenu()}}
	}
	return domain.StateAwaitingName, []domain.Effect{
		domain.Register{Username: event.Username},
		domain.Reply{Text: domain.TextWelcomeNew},
	}
}

func onText(state domain.State, text string, s domain.Snapshot) (domain.State, []domain.Effect) {
	if s.Throttled {
		return state, []domain.Effect{domain.Reply{Text: domain.TextSpam}}
	}
	if strings.Contains(text, domain.MatchMainMenu) {
		return mainMenu(s)
	}
	if state == domain.StateAwaitingDiplomaOrSkip && strings.Contains(text, domain.MatchNoDiploma) {
		return domain.StateMainMenu, []domain.Effect{
			domain.SkipDiploma{},
			domain.Notify{Kind: notifydomain.KindText, Text: domain.NoDiplomaNotice(s.Name, s.Phone)},
			domain.Reply{Text: domain.TextRegistrationDone, Keyboard: domain.WorkerMenu()},
		}
	}
	if state == domain.StateAdminMenu || s.IsAdmin {
		switch {
		case strings.Contains(text, domain.MatchDailyExport):
			return domain.StateAdminMenu, []domain.Effect{domain.Reply{Text: domain.TextPreparingExport}, domain.SendDailyExport{}}
		case strings.Contains(text, domain.MatchWorkerList):
			return domain.StateAdminMenu, []domain.Effect{domain.Reply{Text: domain.TextPreparingWorkers}, domain.SendWorkerList{}}
		}
	}

	switch state {
	case domain.StateAwaitingName:
		return domain.StateAwaitingPhone, []domain.Effect{
			domain.SetName{Name: text},
			domain.Reply{Text: domain.TextAskPhone, Keyboard: domain.ContactKeyboard()},
		}
	case domain.StateAwaitingPhone:
		if _, ok := profiledomain.NormalizePhone(text); !ok {
			return state, []domain.Effect{domain.Reply{Text: domain.TextBadPhone}}
		}
		return domain.StateAwaitingPassportSerial, []domain.Effect{
			domain.SetPhone{Phone: text},
			domain.Reply{Text: domain.TextAskPassportSerial},
		}
	case domain.StateAwaitingPassportSerial:
		return domain.StateAwaitingPassportPhoto, []domain.Effect{
			domain.SetPassportSerial{Serial: text},
			domain.ResetPassportPhotos{},
			domain.Reply{Text: domain.TextAskPassportPhoto},
		}
	case domain.StateAwaitingDiplomaOrSkip:
		return domain.StateAwaitingDiplomaPhoto, []domain.Effect{
			domain.SetDiplomaSerial{Serial: text},
			domain.ResetDiplomaPhotos{},
			domain.Reply{Text: domain.TextAskDiplomaPhoto},
		}
	case domain.StateMainMenu:
		return onMenu(text, s)
	case domain.StateAwaitingObjectStart:
		return domain.StateAwaitingStartLocation, []domain.Effect{
			domain.StartSession{Object: text},
			domain.Reply{Text: domain.TextAskLocation, Keyboard: domain.LocationKeyboard()},
		}
	case domain.StateAwaitingObjectEnd:
		return domain.StateAwaitingEndLocation, []domain.Effect{
			domain.SetPendingObject{Object: text},
			domain.Reply{Text: domain.TextAskLocation, Keyboard: domain.LocationKeyboard()},
		}
	case domain.StateAwaitingAdvanceAmount:
		amount, ok := parseAmount(text)
		if !ok {
			return state, []domain.Effect{domain.Reply{Text: domain.TextNumbersOnly}}
		}
		return domain.StateMainMenu, []domain.Effect{
			domain.RecordExpense{Category: string(sessiondomain.CategoryAdvance), Amount: amount},
			domain.Notify{Kind: notifydomain.KindText, Text: domain.AdvanceNotice(s, amount)},
			domain.Reply{Text: domain.TextAdvanceAccepted, Keyboard: domain.WorkerMenu()},
		}
	case domain.StateExpenseMenu:
		return onExpenseMenu(text)
	case domain.StateAwaitingExpenseAmount:
		return onExpenseAmount(text, s)
	case domain.StateAwaitingOtherExpenseName:
		return domain.StateAwaitingOtherExpenseAmount, []domain.Effect{
			domain.SetPendingExpense{Name: text},
			domain.Reply{Text: domain.TextAskExpenseAmount},
		}
	case domain.StateAwaitingOtherExpenseAmount:
		amount, ok := parseAmount(text)
		if !ok {
			return state, []domain.Effect{domain.Reply{Text: domain.TextNumbersOnly}}
		}
		return domain.StateExpenseMenu, []domain.Effect{
			domain.RecordExpense{Category: string(sessiondomain.CategoryOther), Amount: amount, Name: s.PendingExpense},
			domain.Notify{Kind: notifydomain.KindText, Text: domain.OtherExpenseNotice(s, expenseName(s.PendingExpense), amount)},
			domain.ClearPendingExpense{},
			domain.Reply{Text: domain.TextExpenseRecorded, Keyboard: domain.ExpenseMenu()},
		}
	case domain.StateAwaitingComment:
		return domain.StateMainMenu, []domain.Effect{
			domain.RecordComment{Text: text},
			domain.Notify{Kind: notifydomain.KindText, Text: domain.CommentNotice(s, text)},
			domain.Reply{Text: domain.TextCommentSent, Keyboard: domain.WorkerMenu()},
		}
	case domain.StateAdminMenu:
		return state, []domain.Effect{domain.Reply{Text: domain.TextAdminMenu, Keyboard: domain.AdminMenu()}}
	}
	return state, nil
}

func mainMenu(s domain.Snapshot) (domain.State, []domain.Effect) {
	if s.IsAdmin {
		return domain.StateAdminMenu, []domain.Effect{domain.Reply{Text: domain.TextAdminMenu, Keyboard: domain.AdminMenu()}}
	}
	return domain.StateMainMenu, []domain.Effect{domain.Reply{Text: domain.TextMainMenu, Keyboard: domain.WorkerMenu()}}
}

func onMenu(text string, s domain.Snapshot) (domain.State, []domain.Effect) {
	reply := func(next domain.State, msg string, kb *domain.Keyboard) (domain.State, []domain.Effect) {
		return next, []domain.Effect{domain.Reply{Text: msg, Keyboard: kb}}
	}
	switch {
	case strings.Contains(text, domain.MatchStartWork):
		if s.HasOpenSession {
			return reply(domain.StateMainMenu, domain.TextAlreadyStarted, nil)
		}
		return reply(domain.StateAwaitingObjectStart, domain.TextAskObject, nil)
	case strings.Contains(text, domain.MatchLiveVideo):
		return reply(domain.StateAwaitingLiveVideo, domain.TextAskLiveVideo, nil)
	case strings.Contains(text, domain.MatchAdvance):
		return reply(domain.StateAwaitingAdvanceAmount, domain.TextAskAdvance, nil)
	case strings.Contains(text, domain.MatchExpenses):
		return reply(domain.StateExpenseMenu, domain.TextChooseExpense, domain.ExpenseMenu())
	case strings.Contains(text, domain.MatchComment):
		return reply(domain.StateAwaitingComment, domain.TextAskComment, nil)
	case strings.Contains(text, domain.MatchEndWork):
		if !s.HasOpenSession {
			return reply(domain.StateMainMenu, domain.TextNotStarted, nil)
		}
		return reply(domain.StateAwaitingObjectEnd, domain.TextConfirmObject, domain.ObjectKeyboard(s.SessionObject))
	}
	return reply(domain.StateMainMenu, domain.TextUseMenu, nil)
}

func onExpenseMenu(text string) (domain.State, []domain.Effect) {
	switch {
	case strings.Contains(text, domain.MatchTaxi):
		return domain.StateAwaitingExpenseAmount, []domain.Effect{
			domain.SetExpenseType{ExpenseType: domain.ExpenseTaxi},
			domain.Reply{Text: domain.TextAskTaxiAmount},
		}
	case strings.Contains(text, domain.MatchFood):
		return domain.StateAwaitingExpenseAmount, []domain.Effect{
			domain.SetExpenseType{ExpenseType: domain.ExpenseFood},
			domain.Reply{Text: domain.TextAskFoodAmount},
		}
	case strings.Contains(text, domain.MatchOther):
		return domain.StateAwaitingOtherExpenseName, []domain.Effect{domain.Reply{Text: domain.TextAskExpenseName}}
	}
	return domain.StateExpenseMenu, nil
}

func onExpenseAmount(text string, s domain.Snapshot) (domain.State, []domain.Effect) {
	var category sessiondomain.Category
	switch s.ExpenseType {
	case domain.ExpenseTaxi:
		category = sessiondomain.CategoryTaxi
	case domain.ExpenseFood:
		category = sessiondomain.CategoryFood
	default:
		return domain.StateExpenseMenu, []domain.Effect{domain.Reply{Text: domain.TextChooseExpense, Keyboard: domain.ExpenseMenu()}}
	}
	amount, ok := parseAmount(text)
	if !ok {
		return domain.StateAwaitingExpenseAmount, []domain.Effect{domain.Reply{Text: domain.TextNumbersOnly}}
	}
	return domain.StateExpenseMenu, []domain.Effect{
		domain.RecordExpense{Category: string(category), Amount: amount},
		domain.Notify{Kind: notifydomain.KindText, Text: domain.ExpenseNotice(s, s.ExpenseType, amount)},
		domain.Reply{Text: domain.TextExpenseRecorded, Keyboard: domain.ExpenseMenu()},
	}
}

func onContact(state domain.State, event domain.Event) (domain.State, []domain.Effect) {
	if state != domain.StateAwaitingPhone || event.Phone == "" {
		return state, nil
	}
	return domain.StateAwaitingPassportSerial, []domain.Effect{
		domain.SetPhone{Phone: event.Phone, Contact: true},
		domain.Reply{Text: domain.TextAskPassportSerial},
	}
}

func onPhoto(state domain.State, event domain.Event, s domain.Snapshot) (domain.State, []domain.Effect) {
	switch state {
	case domain.StateAwaitingPassportPhoto:
		photos := append(append([]string{}, s.PassportPhotos...), event.FileID)
		switch {
		case len(photos) > profiledomain.RequiredPhotos:
			return domain.StateAwaitingPassportSerial, []domain.Effect{
				domain.ResetPassportPhotos{},
				domain.Reply{Text: domain.TextTooManyPhotos},
				domain.Reply{Text: domain.TextAskPassportSerial},
			}
		case len(photos) < profiledomain.RequiredPhotos:
			return state, []domain.Effect{
				domain.AddPassportPhoto{FileID: event.FileID},
				domain.Reply{Text: domain.PhotoProgress(len(photos))},
			}
		}
		effects := []domain.Effect{domain.AddPassportPhoto{FileID: event.FileID}}
		for n, fileID := range photos {
			effects = append(effects, domain.Notify{
				Kind:   notifydomain.KindPhoto,
				FileID: fileID,
				Text:   domain.PassportPhotoNotice(n+1, s.Name, s.Phone, s.PassportSerial),
			})
		}
		effects = append(effects, domain.Reply{Text: domain.TextPassportDone, Keyboard: domain.DiplomaMenu()})
		return domain.StateAwaitingDiplomaOrSkip, effects

	case domain.StateAwaitingDiplomaPhoto:
		photos := append(append([]string{}, s.DiplomaPhotos...), event.FileID)
		switch {
		case len(photos) > profiledomain.RequiredPhotos:
			return domain.StateAwaitingDiplomaOrSkip, []domain.Effect{
				domain.ResetDiplomaPhotos{},
				domain.Reply{Text: domain.TextTooManyPhotos},
				domain.Reply{Text: domain.TextAskDiplomaAgain, Keyboard: domain.DiplomaMenu()},
			}
		case len(photos) < profiledomain.RequiredPhotos:
			return state, []domain.Effect{
				domain.AddDiplomaPhoto{FileID: event.FileID},
				domain.Reply{Text: domain.PhotoProgress(len(photos))},
			}
		}
		effects := []domain.Effect{domain.AddDiplomaPhoto{FileID: event.FileID}}
		for n, fileID := range photos {
			effects = append(effects, domain.Notify{
				Kind:   notifydomain.KindPhoto,
				FileID: fileID,
				Text:   domain.DiplomaPhotoNotice(n+1, s.Name, s.Phone, s.DiplomaSerial),
			})
		}
		effects = append(effects, domain.Reply{Text: domain.TextDiplomaDone, Keyboard: domain.WorkerMenu()})
		return domain.StateMainMenu, effects
	}
	return state, nil
}

func onVideoNote(state domain.State, event domain.Event, s domain.Snapshot) (domain.State, []domain.Effect) {
	if state != domain.StateAwaitingLiveVideo {
		return state, nil
	}
	return domain.StateMainMenu, []domain.Effect{
		domain.RecordVideo{},
		domain.Notify{Kind: notifydomain.KindVideoNote, FileID: event.FileID, Length: event.Length, Text: domain.VideoNotice(s)},
		domain.Reply{Text: domain.TextVideoRecorded, Keyboard: domain.WorkerMenu()},
	}
}

func onLocation(state domain.State, event domain.Event, s domain.Snapshot) (domain.State, []domain.Effect) {
	lat, lon := event.Latitude, event.Longitude
	effects := []domain.Effect{domain.SetLastLocation{Latitude: lat, Longitude: lon}}
	url := sessiondomain.LocationURL(lat, lon)

	switch state {
	case domain.StateAwaitingStartLocation:
		return domain.StateMainMenu, append(effects,
			domain.SetStartLocation{Latitude: lat, Longitude: lon},
			domain.Notify{Kind: notifydomain.KindLocation, Text: domain.StartNotice(s, url), Latitude: lat, Longitude: lon},
			domain.Reply{Text: domain.TextStartRecorded, Keyboard: domain.WorkerMenu()},
		)
	case domain.StateAwaitingEndLocation:
		object := firstNonEmpty(s.PendingObject, s.CurrentObject, s.SessionObject)
		return domain.StateMainMenu, append(effects,
			domain.EndSession{Object: object, Latitude: lat, Longitude: lon},
			domain.Notify{Kind: notifydomain.KindLocation, Text: domain.EndNotice(s, object, url), Latitude: lat, Longitude: lon},
			domain.ClearShift{},
			domain.Reply{Text: domain.TextEndRecorded, Keyboard: domain.WorkerMenu()},
		)
	}
	return state, effects
}

// parseAmount returns the amount rendered back as a plain number.
func parseAmount(text string) (string, bool) {
	v, err := sessiondomain.ParseAmount(text)
	if err != nil {
		return "", false
	}
	return sessiondomain.FormatAmount(v), true
}

func expenseName(name string) string {
	if strings.TrimSpace(name) == "" {
		return sessiondomain.UnnamedExpense
	}
	return name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
