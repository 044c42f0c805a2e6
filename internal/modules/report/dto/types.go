package dto

type RangeInput struct {
	From string
	To   string
}

type RowOutput struct {
	Number             int
	Username           string
	TelegramID         string
	Name               string
	Phone              string
	Object             string
	Date               string
	StartTime          string
	EndTime            string
	Duration           string
	StartLocation      string
	EndLocation        string
	Advance            float64
	Taxi               float64
	Food               float64
	OtherExpenseName   string
	OtherExpenseAmount float64
	TotalExpense       float64
	Diploma            string
	Video              string
	Comments           string
}

type WorkerOutput struct {
	Number int
	Name   string
	Handle string
	Phone  string
}

// FileOutput describes a written spreadsheet. Path is empty when there was
// nothing to write.
type FileOutput struct {
	Path    string
	Rows    int
	Caption string
}
