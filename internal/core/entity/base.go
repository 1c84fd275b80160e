// Package entity holds the building blocks shared by stored records.
package entity

import (
	"context"
	"time"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants only, without store access.
type Validatable interface {
	Validate(ctx context.Context) error
}

// Now is the clock used for created/updated timestamps.
// Values are UTC and truncated to microseconds to match Postgres precision.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
