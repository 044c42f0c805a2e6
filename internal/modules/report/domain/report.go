package domain

import (
	"fmt"
	"strings"
)

const (
	RosterSheet  = "Ish hisoboti"
	ExportSheet  = "Ishchilar ma'lumotlari"
	WorkersSheet = "Barcha ishchilar ro'yxati"

	HeaderFill        = "4472C4"
	WorkersHeaderFill = "E0E0E0"

	NoDiploma  = "Mavjud emas"
	HasDiploma = "Mavjud"
)

type Column struct {
	Header string
	Width  float64
}

// SessionColumns is the fixed layout shared by the roster and range exports.
var SessionColumns = []Column{
	{"№", 5},
	{"Telegram Username", 30},
	{"Telegram ID", 25},
	{"Ism familiya", 30},
	{"Telefon", 25},
	{"Obyekt", 25},
	{"Sana", 20},
	{"Boshlanish", 20},
	{"Tugash", 20},
	{"Davomiyligi", 20},
	{"Boshlanish lokatsiyasi", 35},
	{"Tugash lokatsiyasi", 35},
	{"Avans", 15},
	{"Taksi", 15},
	{"Ovqat", 15},
	{"Boshqa nomi", 20},
	{"Boshqa summasi", 15},
	{"Jami xarajat", 15},
	{"Diplom", 15},
	{"Video", 15},
	{"Izoh", 30},
}

var WorkerColumns = []Column{
	{"№", 5},
	{"Ism familiya", 25},
	{"Telegram Username", 20},
	{"Telefon", 15},
}

// Row is one archived shift as it appears in a spreadsheet.
type Row struct {
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

// Cells returns the row in SessionColumns order.
func (r Row) Cells() []any {
	return []any{
		r.Number,
		r.Username,
		r.TelegramID,
		r.Name,
		r.Phone,
		r.Object,
		r.Date,
		r.StartTime,
		r.EndTime,
		r.Duration,
		r.StartLocation,
		r.EndLocation,
		r.Advance,
		r.Taxi,
		r.Food,
		r.OtherExpenseName,
		r.OtherExpenseAmount,
		r.TotalExpense,
		r.Diploma,
		r.Video,
		r.Comments,
	}
}

type WorkerRow struct {
	Number int
	Name   string
	Handle string
	Phone  string
}

func (r WorkerRow) Cells() []any {
	return []any{r.Number, r.Name, r.Handle, r.Phone}
}

// Person is the profile data a report joins against.
type Person struct {
	ID         string
	Username   string
	Name       string
	Phone      string
	HasDiploma bool
}

func (p Person) DiplomaStatus() string {
	if p.HasDiploma {
		return HasDiploma
	}
	return NoDiploma
}

// Handle renders a username as "@name", empty when unknown.
func Handle(username string) string {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return ""
	}
	return "@" + username
}

// Table is a single-sheet workbook ready to be written.
type Table struct {
	Sheet      string
	Columns    []Column
	HeaderFill string
	WhiteFont  bool
	Rows       [][]any
}

func ExportFileName(stamp string, unixMilli int64) string {
	return fmt.Sprintf("ishchilar_malumotlari_%s_%d.xlsx", stamp, unixMilli)
}

func WorkersFileName(unixMilli int64) string {
	return fmt.Sprintf("barcha_ishchilar_royhati_%d.xlsx", unixMilli)
}

func DailyCaption(date, clock string) string {
	return fmt.Sprintf("KUNLIK HISOBOT (Barcha ishchilar ma'lumotlari)\n\nSana: %s\nVaqt: %s\n\nBarcha ro'yxatdan o'tgan ishchilarning to'liq ma'lumotlari", date, clock)
}

func DailyEmptyText(date, clock string) string {
	return fmt.Sprintf("KUNLIK HISOBOT\n\nSana: %s\nVaqt: %s\n\nBugun hech qanday ishchi ma'lumoti mavjud emas.", date, clock)
}

func ExportCaption(date, clock string) string {
	return fmt.Sprintf("Barcha ishchilar shaxsiy ma'lumotlari\nSana: %s\nVaqt: %s\n\nBarcha ro'yxatdan o'tgan ishchilarning to'liq ma'lumotlari", date, clock)
}

func WorkersCaption(date, clock string) string {
	return fmt.Sprintf("Barcha ishchilar ro'yxati\nSana: %s\nVaqt: %s\n\nBotdan ro'yxatdan o'tgan barcha ishchilarning ism, familiya, telegram username va telefon raqamlari", date, clock)
}
