package id

import (
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// Normalize is the single rule for turning chat identities into map keys.
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}
