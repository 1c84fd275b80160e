package product

import (
	"context"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
)

// Repository stores products.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetByReference returns NotFound if no product carries the reference.
	GetByReference(ctx context.Context, reference string) (*Product, error)

	// AdjustQuantity adds delta to the on-hand quantity unless the result would be
	// negative, in which case it returns applied=false and changes nothing.
	// Returns NotFound if the product does not exist.
	AdjustQuantity(ctx context.Context, productID id.ID, delta int64) (applied bool, err error)

	// Update writes reference, description, prices and the active flag.
	// Quantity is left alone. Returns NotFound or Duplicate on a taken reference.
	Update(ctx context.Context, productID id.ID, p *Product) error

	// Delete removes the product. Returns Conflict while document lines refer to it.
	Delete(ctx context.Context, productID id.ID) error
}
