package counterparty

import (
	"context"
	"fmt"
	"strings"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/pkg/logger"
)

// Contact is the editable part of a counterparty. Nil fields keep their value;
// an empty optional string clears it.
type Contact struct {
	ExternalID *string
	Name       *string
	Address    *string
	City       *string
	Phone      *string
	Email      *string
}

func (c Contact) apply(cp *Counterparty) {
	if c.ExternalID != nil {
		cp.ExternalID = strings.TrimSpace(*c.ExternalID)
	}
	if c.Name != nil {
		cp.Name = strings.TrimSpace(*c.Name)
	}
	cp.Address = optional(cp.Address, c.Address)
	cp.City = optional(cp.City, c.City)
	cp.Phone = optional(cp.Phone, c.Phone)
	cp.Email = optional(cp.Email, c.Email)
}

func optional(cur, next *string) *string {
	if next == nil {
		return cur
	}
	v := strings.TrimSpace(*next)
	if v == "" {
		return nil
	}
	return &v
}

// Service is the catalog of one role plus editing and deletion.
type Service struct {
	*domain.CatalogService[*Counterparty]
	repo      Repository
	role      Role
	audit     *audit.Recorder
	txManager tx.Manager
}

// NewService creates the service for the counterparties of role.
func NewService(role Role, repo Repository, rec *audit.Recorder, txm tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Counterparty](repo, txm, role.EntityName()),
		repo:           repo,
		role:           role,
		audit:          rec,
		txManager:      txm,
	}
}

// Update applies contact changes and returns the stored counterparty.
func (s *Service) Update(ctx context.Context, counterpartyID id.ID, contact Contact) (*Counterparty, error) {
	var out *Counterparty
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetByID(ctx, counterpartyID)
		if err != nil {
			return err
		}
		next := *cur
		contact.apply(&next)
		if err := next.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, counterpartyID, &next); err != nil {
			return fmt.Errorf("update %s: %w", s.role, err)
		}
		if err := s.audit.Record(ctx, s.role.EntityName(), counterpartyID, audit.ActionUpdate, cur); err != nil {
			return err
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "counterparty updated", "role", s.role, "id", counterpartyID)
	return out, nil
}

// Delete removes a counterparty no document refers to. Documents keep their
// counterparty, so a referenced one is refused with Conflict.
func (s *Service) Delete(ctx context.Context, counterpartyID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetByID(ctx, counterpartyID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, counterpartyID); err != nil {
			return err
		}
		return s.audit.Record(ctx, s.role.EntityName(), counterpartyID, audit.ActionDelete, c)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "counterparty deleted", "role", s.role, "id", counterpartyID)
	return nil
}
