package bank

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/domain"
	"ledgerpos/pkg/logger"
)

// Service adds the account rules that go beyond plain catalog access.
type Service struct {
	*domain.CatalogService[*Account]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new bank account service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Account](repo, txm, "bank account"),
		repo:           repo,
		txManager:      txm,
	}
}

// Delete removes an account whose balance is exactly zero.
func (s *Service) Delete(ctx context.Context, bankID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		acc, err := s.repo.GetByID(ctx, bankID)
		if err != nil {
			return err
		}
		if !acc.Balance.IsZero() {
			return apperror.NewBusinessRule(apperror.CodeBankNotEmpty,
				"only accounts with a zero balance can be deleted").
				WithDetail("bank_id", bankID.String()).
				WithDetail("balance", acc.Balance.String())
		}
		if err := s.repo.Delete(ctx, bankID); err != nil {
			return fmt.Errorf("delete bank account: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "bank account deleted", "id", bankID)
	return nil
}
