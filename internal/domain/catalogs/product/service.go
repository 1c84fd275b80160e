package product

import (
	"context"
	"fmt"
	"strings"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/pkg/logger"
)

const entityName = "product"

// Changes is a partial product edit. Nil fields keep their value.
type Changes struct {
	Reference     *string
	Description   *string
	PurchasePrice *types.Money
	SalePrice     *types.Money
}

func (c Changes) apply(p *Product) {
	if c.Reference != nil {
		p.Reference = strings.TrimSpace(*c.Reference)
	}
	if c.Description != nil {
		p.Description = strings.TrimSpace(*c.Description)
	}
	if c.PurchasePrice != nil {
		p.PurchasePrice = *c.PurchasePrice
	}
	if c.SalePrice != nil {
		p.SalePrice = *c.SalePrice
	}
}

// Service adds editing, the active flag and deletion to the product catalog.
// Quantity is not editable here; it moves through documents and inventory.Stock.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	audit     *audit.Recorder
	txManager tx.Manager
}

// NewService creates a new product service.
func NewService(repo Repository, rec *audit.Recorder, txm tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Product](repo, txm, entityName),
		repo:           repo,
		audit:          rec,
		txManager:      txm,
	}
}

// Update applies changes and returns the stored product. The previous state
// goes to the audit trail.
func (s *Service) Update(ctx context.Context, productID id.ID, changes Changes) (*Product, error) {
	return s.edit(ctx, productID, changes.apply)
}

// ToggleActive flips the active flag.
func (s *Service) ToggleActive(ctx context.Context, productID id.ID) (*Product, error) {
	return s.edit(ctx, productID, func(p *Product) { p.Active = !p.Active })
}

func (s *Service) edit(ctx context.Context, productID id.ID, change func(*Product)) (*Product, error) {
	var out *Product
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		next := *cur
		change(&next)
		if err := next.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, productID, &next); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if err := s.audit.Record(ctx, entityName, productID, audit.ActionUpdate, cur); err != nil {
			return err
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "product updated", "id", productID, "active", out.Active)
	return out, nil
}

// Delete removes a product no document line refers to.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, productID); err != nil {
			return err
		}
		return s.audit.Record(ctx, entityName, productID, audit.ActionDelete, p)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product deleted", "id", productID)
	return nil
}
