// Package product provides the Product catalog: the goods bought and sold, with
// their on-hand quantity.
package product

import (
	"context"
	"strings"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

// Product is a sellable item. Quantity never goes below zero.
type Product struct {
	ID            id.ID       `db:"id" json:"id"`
	Reference     string      `db:"reference" json:"reference"`
	Description   string      `db:"description" json:"description"`
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`
	SalePrice     types.Money `db:"sale_price" json:"salePrice"`
	Quantity      int64       `db:"quantity" json:"quantity"`
	Active        bool        `db:"active" json:"active"`
}

// NewProduct creates an active product with no stock.
func NewProduct(reference, description string, purchasePrice, salePrice types.Money) *Product {
	return &Product{
		ID:            id.New(),
		Reference:     strings.TrimSpace(reference),
		Description:   strings.TrimSpace(description),
		PurchasePrice: purchasePrice,
		SalePrice:     salePrice,
		Active:        true,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.Reference == "" {
		return apperror.NewValidation("reference is required").WithDetail("field", "reference")
	}
	if p.Description == "" {
		return apperror.NewValidation("description is required").WithDetail("field", "description")
	}
	if p.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price cannot be negative").WithDetail("field", "purchasePrice")
	}
	if p.SalePrice.IsNegative() {
		return apperror.NewValidation("sale price cannot be negative").WithDetail("field", "salePrice")
	}
	if !types.FitsScale(p.PurchasePrice) || !types.FitsScale(p.SalePrice) {
		return apperror.NewInvalidAmount("prices have at most 4 decimal places").WithDetail("field", "price")
	}
	if p.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").WithDetail("field", "quantity")
	}
	return nil
}

var _ entity.Validatable = (*Product)(nil)
