package balance

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
)

// CreditTarget is whoever carries the outstanding balance of a credit document:
// the client of a sale or the provider of a purchase.
type CreditTarget interface {
	// Increase extends credit by amount.
	Increase(ctx context.Context, counterpartyID id.ID, amount types.Money) error

	// Decrease removes up to amount; the balance stops at zero.
	Decrease(ctx context.Context, counterpartyID id.ID, amount types.Money) error
}

// Credit adjusts the outstanding balance of one counterparty role.
type Credit struct {
	role counterparty.Role
	repo counterparty.Repository
}

// NewClientCredit returns the CreditTarget of sales.
func NewClientCredit(clients counterparty.Repository) *Credit {
	return &Credit{role: counterparty.RoleClient, repo: clients}
}

// NewProviderCredit returns the CreditTarget of purchases.
func NewProviderCredit(providers counterparty.Repository) *Credit {
	return &Credit{role: counterparty.RoleProvider, repo: providers}
}

func (c *Credit) Increase(ctx context.Context, counterpartyID id.ID, amount types.Money) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	if err := c.repo.IncreaseBalance(ctx, counterpartyID, amount); err != nil {
		return fmt.Errorf("increase %s balance: %w", c.role, err)
	}
	return nil
}

func (c *Credit) Decrease(ctx context.Context, counterpartyID id.ID, amount types.Money) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	if _, err := c.repo.DecreaseBalance(ctx, counterpartyID, amount); err != nil {
		return fmt.Errorf("decrease %s balance: %w", c.role, err)
	}
	return nil
}

var (
	_ CreditTarget = (*Credit)(nil)
)
