package domain

import (
	"strings"
	"time"
)

const (
	RequiredPhotos = 2
	NoDiploma      = "Mavjud emas"
	HasDiplomaText = "Mavjud"
)

// Profile is a worker known to the bot. Scratch fields hold values collected
// across several conversation steps.
type Profile struct {
	ID             string    `json:"-"`
	Username       string    `json:"username,omitempty"`
	Name           string    `json:"name,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	PassportSerial string    `json:"passportSerial,omitempty"`
	PassportPhotos []string  `json:"passportPhotos,omitempty"`
	DiplomaSerial  string    `json:"diplomSerial,omitempty"`
	DiplomaPhotos  []string  `json:"diplomPhotos,omitempty"`
	HasDiploma     bool      `json:"hasDiploma,omitempty"`
	LastLocation   string    `json:"lastLocation,omitempty"`
	CurrentObject  string    `json:"currentObject,omitempty"`
	PendingObject  string    `json:"pendingEndObject,omitempty"`
	ExpenseType    string    `json:"expenseType,omitempty"`
	PendingExpense string    `json:"tempExpenseName,omitempty"`
	RegisteredAt   time.Time `json:"registeredAt,omitzero"`
}

// DiplomaStatus is the human-readable flag used in reports.
func (p Profile) DiplomaStatus() string {
	if p.HasDiploma {
		return HasDiplomaText
	}
	return NoDiploma
}

// Handle renders the username with its @ prefix, or empty.
func (p Profile) Handle() string {
	return FormatHandle(p.Username)
}

func FormatHandle(username string) string {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return ""
	}
	return "@" + username
}

func (p Profile) Clone() Profile {
	out := p
	out.PassportPhotos = append([]string(nil), p.PassportPhotos...)
	out.DiplomaPhotos = append([]string(nil), p.DiplomaPhotos...)
	return out
}

// NormalizePhone keeps digits only and accepts Uzbek numbers (998 + 9 digits).
func NormalizePhone(raw string) (string, bool) {
	digits := DigitsOnly(raw)
	if !strings.HasPrefix(digits, "998") || len(digits) < 12 {
		return digits, false
	}
	return digits, true
}

func DigitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
