package dto

import "time"

type ExpenseOutput struct {
	Name   string
	Amount float64
	Date   string
	Time   string
}

type SessionOutput struct {
	UserID        string
	Object        string
	Date          string
	StartTime     string
	StartedAt     time.Time
	StartLocation string
	EndLocation   string
	EndTime       string
	EndedAt       *time.Time
	Advance       float64
	Taxi          float64
	Food          float64
	OtherExpenses []ExpenseOutput
	OtherTotal    float64
	TotalExpense  float64
	Comments      []string
	HasVideo      bool
}

type StartInput struct {
	UserID string
	Object string
}

type LocationInput struct {
	UserID    string
	Latitude  float64
	Longitude float64
}

type ExpenseInput struct {
	UserID   string
	Category string
	Amount   string
	Name     string
}

type EndInput struct {
	UserID    string
	Object    string
	Latitude  float64
	Longitude float64
}

type ArchivedOutput struct {
	ID                 string
	Username           string
	TelegramID         string
	Name               string
	Phone              string
	Object             string
	Date               string
	StartTime          string
	EndTime            string
	Duration           string
	DurationMinutes    int
	StartLocation      string
	EndLocation        string
	Advance            float64
	Taxi               float64
	Food               float64
	OtherExpenses      []ExpenseOutput
	OtherExpenseName   string
	OtherExpenseAmount float64
	TotalExpense       float64
	HasDiploma         string
	HasVideo           string
	Comments           string
	FinalizedAt        time.Time
}

type SummaryInput struct {
	From string
	To   string
}

type SummaryOutput struct {
	TelegramID   string
	Name         string
	Shifts       int
	Minutes      int
	TotalExpense float64
}
