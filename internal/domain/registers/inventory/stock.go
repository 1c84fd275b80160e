package inventory

import (
	"context"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/catalogs/product"
	"ledgerpos/pkg/logger"
)

// Direction of a manual stock move.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// Move is the audit snapshot of a manual stock move.
type Move struct {
	Quantity int64 `json:"quantity"`
	Before   int64 `json:"before"`
	After    int64 `json:"after"`
}

// Stock applies manual stock corrections outside of documents: counts,
// breakage, goods received without a purchase.
type Stock struct {
	adjuster  *Adjuster
	products  product.Repository
	audit     *audit.Recorder
	txManager tx.Manager
}

// NewStock creates a new stock service.
func NewStock(products product.Repository, rec *audit.Recorder, txm tx.Manager) *Stock {
	return &Stock{
		adjuster:  NewAdjuster(products),
		products:  products,
		audit:     rec,
		txManager: txm,
	}
}

// Adjust moves qty units in direction and returns the product afterwards.
// A decrease beyond the quantity on hand is InsufficientStock and changes nothing.
func (s *Stock) Adjust(ctx context.Context, productID id.ID, direction Direction, qty int64) (*product.Product, error) {
	var (
		action audit.Action
		apply  func(context.Context, id.ID, int64) error
	)
	switch direction {
	case Increase:
		action, apply = audit.ActionStockIncrease, s.adjuster.Increase
	case Decrease:
		action, apply = audit.ActionStockDecrease, s.adjuster.Decrease
	default:
		return nil, apperror.NewValidation("direction must be increase or decrease").
			WithDetail("field", "direction")
	}
	if qty <= 0 {
		return nil, apperror.NewValidation("quantity must be greater than zero").
			WithDetail("field", "quantity")
	}

	var out *product.Product
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		before, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := apply(ctx, productID, qty); err != nil {
			return err
		}
		after, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		move := Move{Quantity: qty, Before: before.Quantity, After: after.Quantity}
		if err := s.audit.Record(ctx, "product", productID, action, move); err != nil {
			return err
		}
		out = after
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock adjusted", "product_id", productID, "direction", direction, "quantity", qty, "on_hand", out.Quantity)
	return out, nil
}
