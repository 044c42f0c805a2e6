package domain

type State string

const (
	StateStart                      State = "start"
	StateAwaitingName               State = "awaiting_name"
	StateAwaitingPhone              State = "awaiting_phone"
	StateAwaitingPassportSerial     State = "awaiting_passport_serial"
	StateAwaitingPassportPhoto      State = "awaiting_passport_photo"
	StateAwaitingDiplomaOrSkip      State = "awaiting_diploma_serial_or_skip"
	StateAwaitingDiplomaPhoto       State = "awaiting_diploma_photo"
	StateMainMenu                   State = "main_menu"
	StateAwaitingObjectStart        State = "awaiting_object_start"
	StateAwaitingStartLocation      State = "awaiting_start_location"
	StateAwaitingObjectEnd          State = "awaiting_object_end"
	StateAwaitingEndLocation        State = "awaiting_end_location"
	StateAwaitingAdvanceAmount      State = "awaiting_avans_amount"
	StateExpenseMenu                State = "expense_menu"
	StateAwaitingExpenseAmount      State = "awaiting_expense_amount"
	StateAwaitingOtherExpenseName   State = "awaiting_other_expense_name"
	StateAwaitingOtherExpenseAmount State = "awaiting_other_expense_amount"
	StateAwaitingComment            State = "awaiting_comment"
	StateAwaitingLiveVideo          State = "awaiting_live_video"
	StateAdminMenu                  State = "admin_menu"
)

type EventKind string

const (
	EventStart     EventKind = "start"
	EventText      EventKind = "text"
	EventContact   EventKind = "contact"
	EventPhoto     EventKind = "photo"
	EventVideo     EventKind = "video"
	EventVideoNote EventKind = "video_note"
	EventLocation  EventKind = "location"
)

// Event is one inbound chat message reduced to what the flow needs.
type Event struct {
	Kind      EventKind
	Username  string
	Text      string
	Phone     string
	FileID    string
	Length    int
	Latitude  float64
	Longitude float64
}

// Snapshot carries the read-only facts a transition may consult. Date and
// Time are the zone-local "now" used in notification texts. Throttled is set
// when the sender exceeded the per-minute text limit.
type Snapshot struct {
	UserID         string
	IsAdmin        bool
	Throttled      bool
	Registered     bool
	Name           string
	Phone          string
	PassportSerial string
	PassportPhotos []string
	DiplomaSerial  string
	DiplomaPhotos  []string
	CurrentObject  string
	PendingObject  string
	ExpenseType    string
	PendingExpense string
	HasOpenSession bool
	SessionObject  string
	Date           string
	Time           string
}

// Button is a reply keyboard key. At most one request flag is set.
type Button struct {
	Text            string
	RequestContact  bool
	RequestLocation bool
}

type Keyboard struct {
	Rows    [][]Button
	OneTime bool
}

func row(labels ...string) []Button {
	out := make([]Button, 0, len(labels))
	for _, l := range labels {
		out = append(out, Button{Text: l})
	}
	return out
}
