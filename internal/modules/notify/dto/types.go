package dto

type PayloadInput struct {
	Kind      string
	Text      string
	FileID    string
	FilePath  string
	Length    int
	Latitude  float64
	Longitude float64
}

type DeliveryOutput struct {
	Audience string
	ChatID   string
	Error    string
}

// ReportOutput lists every attempted target. Skipped targets are absent.
type ReportOutput struct {
	Deliveries []DeliveryOutput
}

func (r ReportOutput) Failed() int {
	n := 0
	for _, d := range r.Deliveries {
		if d.Error != "" {
			n++
		}
	}
	return n
}
