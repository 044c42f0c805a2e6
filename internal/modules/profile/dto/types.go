package dto

import "time"

type ProfileOutput struct {
	ID             string
	Username       string
	Handle         string
	Name           string
	Phone          string
	PassportSerial string
	PassportPhotos []string
	DiplomaSerial  string
	DiplomaPhotos  []string
	HasDiploma     bool
	DiplomaStatus  string
	LastLocation   string
	CurrentObject  string
	PendingObject  string
	ExpenseType    string
	PendingExpense string
	RegisteredAt   time.Time
}

type RegisterInput struct {
	UserID   string
	Username string
}

type RegisterOutput struct {
	Profile ProfileOutput
	Created bool
}

// PhotoOutput reports the collected photos after an upload step.
type PhotoOutput struct {
	Profile ProfileOutput
	Count   int
}
