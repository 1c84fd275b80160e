// Package id provides the identifiers of every stored record.
// Identifiers are UUIDv7, so they sort by creation time.
package id

import (
	"github.com/google/uuid"
)

// ID identifies products, banks, counterparties, documents, payments and ledger entries.
type ID = uuid.UUID

// New generates a time-ordered identifier.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse panics on malformed input. Tests only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns zero-value ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}

// Short returns the first block of the id, used in human-readable descriptions.
func Short(v ID) string {
	return v.String()[:8]
}
