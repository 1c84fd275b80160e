package bank

import (
	"context"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
)

// Repository stores bank accounts.
type Repository interface {
	domain.CatalogRepository[*Account]

	// AdjustBalance adds delta to the balance unless the result would be negative,
	// in which case it returns applied=false and changes nothing.
	// Returns NotFound if the account does not exist.
	AdjustBalance(ctx context.Context, bankID id.ID, delta types.Money) (applied bool, err error)

	// Delete removes the account. Returns NotFound if it does not exist.
	Delete(ctx context.Context, bankID id.ID) error
}
