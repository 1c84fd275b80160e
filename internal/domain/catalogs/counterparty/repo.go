package counterparty

import (
	"context"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
)

// Repository stores the counterparties of one role.
type Repository interface {
	domain.CatalogRepository[*Counterparty]

	// IncreaseBalance adds amount to the outstanding balance.
	IncreaseBalance(ctx context.Context, counterpartyID id.ID, amount types.Money) error

	// DecreaseBalance subtracts amount, stopping at zero.
	// It returns the amount actually removed.
	DecreaseBalance(ctx context.Context, counterpartyID id.ID, amount types.Money) (types.Money, error)

	// Update writes the contact fields. The outstanding balance is left alone.
	Update(ctx context.Context, counterpartyID id.ID, c *Counterparty) error

	// Delete removes the counterparty. Returns Conflict while documents refer to it.
	Delete(ctx context.Context, counterpartyID id.ID) error
}
