// Package inventory moves product quantities on hand.
package inventory

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/product"
)

// Adjuster increments and decrements Product.Quantity.
// It joins the unit of work found in ctx and never opens one.
type Adjuster struct {
	products product.Repository
}

// NewAdjuster creates a new inventory adjuster.
func NewAdjuster(products product.Repository) *Adjuster {
	return &Adjuster{products: products}
}

// Increase adds qty units to the product.
func (a *Adjuster) Increase(ctx context.Context, productID id.ID, qty int64) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("product_id", productID.String())
	}
	applied, err := a.products.AdjustQuantity(ctx, productID, qty)
	if err != nil {
		return fmt.Errorf("increase stock: %w", err)
	}
	if !applied {
		// Only a decrement can be refused by the guard.
		return apperror.NewInternal(fmt.Errorf("stock increase for %s was refused", productID))
	}
	return nil
}

// Decrease removes qty units. If fewer are on hand it returns InsufficientStock
// and the product is left untouched.
func (a *Adjuster) Decrease(ctx context.Context, productID id.ID, qty int64) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("product_id", productID.String())
	}
	applied, err := a.products.AdjustQuantity(ctx, productID, -qty)
	if err != nil {
		return fmt.Errorf("decrease stock: %w", err)
	}
	if applied {
		return nil
	}

	p, err := a.products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	return apperror.NewInsufficientStock(productID.String(), qty, p.Quantity)
}

// Reservation is a requested quantity of one product.
type Reservation struct {
	ProductID id.ID
	Quantity  int64
}

// Load returns the referenced products keyed by id. A missing product is NotFound.
func (a *Adjuster) Load(ctx context.Context, items []Reservation) (map[id.ID]*product.Product, error) {
	loaded := make(map[id.ID]*product.Product, len(items))
	for _, it := range items {
		if _, ok := loaded[it.ProductID]; ok {
			continue
		}
		p, err := a.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		loaded[it.ProductID] = p
	}
	return loaded, nil
}

// CheckAvailability loads every product and verifies there is enough on hand.
// It is a read-only pre-check; Decrease re-checks under the guarded update.
// Items must already be merged per product.
func (a *Adjuster) CheckAvailability(ctx context.Context, items []Reservation) (map[id.ID]*product.Product, error) {
	loaded, err := a.Load(ctx, items)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if p := loaded[it.ProductID]; p.Quantity < it.Quantity {
			return nil, apperror.NewInsufficientStock(it.ProductID.String(), it.Quantity, p.Quantity)
		}
	}
	return loaded, nil
}
