// Package bank provides the bank account catalog.
package bank

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

// Account is a bank account or cash box. Balance never goes below zero.
type Account struct {
	ID         id.ID       `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	Balance    types.Money `db:"balance" json:"balance"`
	LastUpdate time.Time   `db:"last_update" json:"lastUpdate"`
}

// NewAccount creates an account with an opening balance.
func NewAccount(name string, opening types.Money) *Account {
	if opening.IsZero() {
		opening = decimal.Zero
	}
	return &Account{
		ID:         id.New(),
		Name:       strings.TrimSpace(name),
		Balance:    opening,
		LastUpdate: entity.Now(),
	}
}

// Validate implements entity.Validatable.
func (a *Account) Validate(ctx context.Context) error {
	if a.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if a.Balance.IsNegative() {
		return apperror.NewValidation("balance cannot be negative").WithDetail("field", "balance")
	}
	if !types.FitsScale(a.Balance) {
		return apperror.NewInvalidAmount("balance has too many decimal places").WithDetail("field", "balance")
	}
	return nil
}
