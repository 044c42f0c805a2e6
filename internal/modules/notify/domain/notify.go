package domain

type Kind string

const (
	KindText      Kind = "text"
	KindPhoto     Kind = "photo"
	KindVideoNote Kind = "video_note"
	KindLocation  Kind = "location"
	KindDocument  Kind = "document"
)

// Payload is one business event rendered for chat delivery.
type Payload struct {
	Kind      Kind
	Text      string
	FileID    string
	FilePath  string
	Length    int
	Latitude  float64
	Longitude float64
}

// Step is a single outbound chat call.
type Step struct {
	Kind      Kind
	Text      string
	FileID    string
	FilePath  string
	Length    int
	Latitude  float64
	Longitude float64
}

type Audience string

const (
	AudienceAdmin Audience = "admin"
	AudienceGroup Audience = "group"
)

// Target is a resolved chat. ChatID is a numeric id or an @channel name.
type Target struct {
	Audience Audience
	ChatID   string
}

type Delivery struct {
	Target Target
	Err    error
}
