package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrFinalizeIncomplete  = errors.New("session finalize incomplete")
	ErrMissingCredential   = errors.New("missing required credential")
	ErrDataDirBusy         = errors.New("data directory is in use")
)
