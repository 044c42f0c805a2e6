package dto

// UpdateInput is one inbound chat message as seen by the transport adapter.
// Kind is one of start, text, contact, photo, video, video_note, location.
type UpdateInput struct {
	ChatID    int64
	UserID    string
	Username  string
	Private   bool
	Kind      string
	Text      string
	Phone     string
	FileID    string
	Length    int
	Latitude  float64
	Longitude float64
}

type StateOutput struct {
	UserID string
	State  string
}
