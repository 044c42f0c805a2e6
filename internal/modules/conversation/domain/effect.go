package domain

import notifydomain "davomat/internal/modules/notify/domain"

// Effect is an instruction produced by a transition. The machine executes
// effects in order.
type Effect interface {
	effect()
}

type Reply struct {
	Text     string
	Keyboard *Keyboard
}

type Register struct{ Username string }

type SetName struct{ Name string }

// SetPhone stores a validated phone. Contact phones skip the prefix rule.
type SetPhone struct {
	Phone   string
	Contact bool
}

type SetPassportSerial struct{ Serial string }

type AddPassportPhoto struct{ FileID string }

type ResetPassportPhotos struct{}

type SetDiplomaSerial struct{ Serial string }

type AddDiplomaPhoto struct{ FileID string }

type ResetDiplomaPhotos struct{}

type SkipDiploma struct{}

type SetLastLocation struct{ Latitude, Longitude float64 }

type SetPendingObject struct{ Object string }

type ClearShift struct{}

type SetExpenseType struct{ ExpenseType string }

type SetPendingExpense struct{ Name string }

type ClearPendingExpense struct{}

type StartSession struct{ Object string }

type SetStartLocation struct{ Latitude, Longitude float64 }

type EndSession struct {
	Object    string
	Latitude  float64
	Longitude float64
}

type RecordExpense struct {
	Category string
	Amount   string
	Name     string
}

type RecordComment struct{ Text string }

type RecordVideo struct{}

// Notify broadcasts to the admin and group chats.
type Notify struct {
	Kind      notifydomain.Kind
	Text      string
	FileID    string
	Length    int
	Latitude  float64
	Longitude float64
}

// SendDailyExport replies with today's export spreadsheet.
type SendDailyExport struct{}

// SendWorkerList replies with the spreadsheet of all workers.
type SendWorkerList struct{}

func (Reply) effect()               {}
func (Register) effect()            {}
func (SetName) effect()             {}
func (SetPhone) effect()            {}
func (SetPassportSerial) effect()   {}
func (AddPassportPhoto) effect()    {}
func (ResetPassportPhotos) effect() {}
func (SetDiplomaSerial) effect()    {}
func (AddDiplomaPhoto) effect()     {}
func (ResetDiplomaPhotos) effect()  {}
func (SkipDiploma) effect()         {}
func (SetLastLocation) effect()     {}
func (SetPendingObject) effect()    {}
func (ClearShift) effect()          {}
func (SetExpenseType) effect()      {}
func (SetPendingExpense) effect()   {}
func (ClearPendingExpense) effect() {}
func (StartSession) effect()        {}
func (SetStartLocation) effect()    {}
func (EndSession) effect()          {}
func (RecordExpense) effect()       {}
func (RecordComment) effect()       {}
func (RecordVideo) effect()         {}
func (Notify) effect()              {}
func (SendDailyExport) effect()     {}
func (SendWorkerList) effect()      {}
