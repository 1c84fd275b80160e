// Package balance moves money: bank account balances and the outstanding credit
// of clients and providers.
package balance

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/bank"
)

// Bank adjusts bank account balances. A balance never goes below zero.
// It joins the unit of work found in ctx and never opens one.
type Bank struct {
	accounts bank.Repository
}

// NewBank creates a new bank balance adjuster.
func NewBank(accounts bank.Repository) *Bank {
	return &Bank{accounts: accounts}
}

// Increase adds amount to the account.
func (b *Bank) Increase(ctx context.Context, bankID id.ID, amount types.Money) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	applied, err := b.accounts.AdjustBalance(ctx, bankID, amount)
	if err != nil {
		return fmt.Errorf("increase bank balance: %w", err)
	}
	if !applied {
		return apperror.NewInternal(fmt.Errorf("bank increase for %s was refused", bankID))
	}
	return nil
}

// Decrease removes amount. If the balance is smaller it returns InsufficientFunds
// and the account is left untouched.
func (b *Bank) Decrease(ctx context.Context, bankID id.ID, amount types.Money) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	applied, err := b.accounts.AdjustBalance(ctx, bankID, amount.Neg())
	if err != nil {
		return fmt.Errorf("decrease bank balance: %w", err)
	}
	if applied {
		return nil
	}

	acc, err := b.accounts.GetByID(ctx, bankID)
	if err != nil {
		return fmt.Errorf("load bank account: %w", err)
	}
	return apperror.NewInsufficientFunds(bankID.String(), amount.String(), acc.Balance.String())
}

// Account loads the account, mostly to resolve its name for views.
func (b *Bank) Account(ctx context.Context, bankID id.ID) (*bank.Account, error) {
	return b.accounts.GetByID(ctx, bankID)
}

// RequireFunds fails with InsufficientFunds unless the balance covers amount.
func (b *Bank) RequireFunds(ctx context.Context, bankID id.ID, amount types.Money) error {
	acc, err := b.accounts.GetByID(ctx, bankID)
	if err != nil {
		return err
	}
	if acc.Balance.LessThan(amount) {
		return apperror.NewInsufficientFunds(bankID.String(), amount.String(), acc.Balance.String())
	}
	return nil
}

func requirePositive(amount types.Money) error {
	if !amount.IsPositive() || !types.FitsScale(amount) {
		return apperror.NewInvalidAmount("amount must be greater than zero with at most 4 decimal places").
			WithDetail("amount", amount.String())
	}
	return nil
}
