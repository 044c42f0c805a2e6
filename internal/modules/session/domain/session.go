package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const SchemaVersion = 1

type Category string

const (
	CategoryAdvance Category = "avans"
	CategoryTaxi    Category = "taxi"
	CategoryFood    Category = "food"
	CategoryOther   Category = "other"
)

func ParseCategory(raw string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryAdvance:
		return CategoryAdvance, true
	case CategoryTaxi:
		return CategoryTaxi, true
	case CategoryFood:
		return CategoryFood, true
	case CategoryOther:
		return CategoryOther, true
	}
	return "", false
}

const UnnamedExpense = "Noma'lum"

// Expense is an itemized ad-hoc expense recorded during a shift.
type Expense struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Time   string  `json:"time"`
}

// WorkSession is the single open shift of a worker. A session with a non-empty
// EndTime is ended but not yet archived.
type WorkSession struct {
	UserID        string     `json:"-"`
	Object        string     `json:"object"`
	Date          string     `json:"date"`
	StartTime     string     `json:"startTime"`
	StartedAt     time.Time  `json:"startDateTime"`
	StartLocation string     `json:"startLocation"`
	EndLocation   string     `json:"endLocation"`
	EndTime       string     `json:"endTime"`
	EndedAt       *time.Time `json:"endDateTime"`
	Advance       float64    `json:"avans"`
	Taxi          float64    `json:"taxiExpense"`
	Food          float64    `json:"foodExpense"`
	OtherExpenses []Expense  `json:"otherExpenses"`
	Comments      []string   `json:"comments"`
	HasVideo      bool       `json:"hasVideo"`
}

func (s WorkSession) Ended() bool {
	return s.EndTime != ""
}

func (s WorkSession) OtherTotal() float64 {
	total := 0.0
	for _, e := range s.OtherExpenses {
		total += e.Amount
	}
	return total
}

func (s WorkSession) TotalExpense() float64 {
	return s.Advance + s.Taxi + s.Food + s.OtherTotal()
}

func (s WorkSession) OtherNames() string {
	names := make([]string, 0, len(s.OtherExpenses))
	for _, e := range s.OtherExpenses {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}

// ApplyDefaults fills collections that older documents may lack. Every decoded
// session passes through here so readers never see nil lists.
func (s *WorkSession) ApplyDefaults() {
	if s.OtherExpenses == nil {
		s.OtherExpenses = []Expense{}
	}
	if s.Comments == nil {
		s.Comments = []string{}
	}
}

func (s WorkSession) Clone() WorkSession {
	out := s
	out.OtherExpenses = append([]Expense{}, s.OtherExpenses...)
	out.Comments = append([]string{}, s.Comments...)
	if s.EndedAt != nil {
		ended := *s.EndedAt
		out.EndedAt = &ended
	}
	return out
}

// ParseAmount accepts a non-negative decimal number.
func ParseAmount(raw string) (float64, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not a number", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount %q is negative", raw)
	}
	return v, nil
}

func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func LocationURL(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", lat, lon)
}

const (
	VideoYes = "Ha"
	VideoNo  = "Yo'q"
)

// ArchivedSession is the immutable record written when a shift is finalized.
type ArchivedSession struct {
	ID                 string    `json:"id,omitempty"`
	Username           string    `json:"username"`
	TelegramID         string    `json:"telegramId"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone"`
	Object             string    `json:"object"`
	Date               string    `json:"date"`
	StartTime          string    `json:"startTime"`
	EndTime            string    `json:"endTime"`
	Duration           string    `json:"duration"`
	DurationMinutes    int       `json:"durationMinutes"`
	StartLocation      string    `json:"startLocation"`
	EndLocation        string    `json:"endLocation"`
	Advance            float64   `json:"avans"`
	Taxi               float64   `json:"taxiExpense"`
	Food               float64   `json:"foodExpense"`
	OtherExpenses      []Expense `json:"otherExpenses"`
	OtherExpenseName   string    `json:"otherExpenseName"`
	OtherExpenseAmount float64   `json:"otherExpenseAmount"`
	TotalExpense       float64   `json:"totalExpense"`
	HasDiploma         string    `json:"hasDiploma"`
	HasVideo           string    `json:"hasVideo"`
	Comments           string    `json:"comments"`
	FinalizedAt        time.Time `json:"finalizedAt,omitzero"`
}

// Owner is the profile data copied into an archived record.
type Owner struct {
	UserID        string
	Username      string
	Name          string
	Phone         string
	DiplomaStatus string
	CurrentObject string
}

// WorkerSummary aggregates archived shifts of one worker.
type WorkerSummary struct {
	TelegramID   string
	Name         string
	Shifts       int
	Minutes      int
	TotalExpense float64
}
