// Package tx defines the unit of work every reconciliation runs in.
// Domain services depend on this interface; the store packages implement it.
package tx

import (
	"context"
)

// Manager opens one unit of work and carries it in the context passed to fn.
//
// If fn returns an error every write made through the context is discarded.
// Repositories and adjusters only join the unit found in ctx; they never open one,
// so a reconciliation is always exactly one transaction.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// ReadOnly runs fn in a unit that may not write. Views that read several
	// repositories use it to see one consistent snapshot.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
